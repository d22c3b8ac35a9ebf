package api

import (
	"embed"
	"html/template"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mailru-checker/core/internal/api/handlers"
	"github.com/mailru-checker/core/internal/api/middleware"
	"github.com/mailru-checker/core/internal/badge"
	"github.com/mailru-checker/core/internal/cache"
	"github.com/mailru-checker/core/internal/config"
	"github.com/mailru-checker/core/internal/i18n"
	"github.com/mailru-checker/core/internal/mailru"
	"github.com/mailru-checker/core/internal/services"
	"gorm.io/gorm"
)

//go:embed templates/*.html
var templateFS embed.FS

// SetupRouter initializes and returns the Gin router with all routes configured
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, *middleware.APIKeyManager, error) {
	router := gin.Default()
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	// 配置 CORS - 允许跨域请求
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	apiKeyManager, err := middleware.NewAPIKeyManager(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	cacheStore, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}

	// Initialize services
	logService := services.NewLogServiceWithLevel(db, cfg.LogLevel)
	accountService := services.NewAccountService(db)
	board := badge.NewBoard()
	fetcher := mailru.NewClient(mailru.ClientConfig{
		TokenEndpoint:    cfg.TokenEndpoint,
		UnreadEndpoint:   cfg.UnreadEndpoint,
		NaviDataEndpoint: cfg.NaviDataEndpoint,
		WebBaseURL:       cfg.WebBaseURL,
		SessionCookie:    cfg.SessionCookie,
		FetchLimit:       cfg.FetchLimit,
		NoSubject:        i18n.T("no_subject"),
	})
	pollService := services.NewPollService(accountService, fetcher, cacheStore, board, logService, cfg.BadgeColor)

	// Start the poll scheduler
	pollScheduler := services.NewPollScheduler(pollService, cfg.PollInterval())
	pollScheduler.Start()

	// Initialize handlers
	commandHandler := handlers.NewCommandHandler(accountService, pollService, cacheStore, logService)
	statusHandler := handlers.NewStatusHandler(accountService, pollService, cacheStore, board)
	popupHandler := handlers.NewPopupHandler(accountService, cacheStore, cfg.WebBaseURL, cfg.UnreadFilterURL)

	// Health check endpoint (no auth required)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Popup routes (rendered UI, no auth required)
	router.GET("/", popupHandler.Show)
	router.POST("/popup/accounts", popupHandler.AddAccount)

	// API routes
	api := router.Group("/api")
	{
		// Apply API key middleware to all API routes
		api.Use(middleware.APIKeyMiddleware(apiKeyManager))

		api.POST("/command", commandHandler.Dispatch)
		api.GET("/state", statusHandler.GetState)
		api.GET("/badge", statusHandler.GetBadge)
		api.POST("/poll", statusHandler.TriggerPoll)
	}

	return router, apiKeyManager, nil
}
