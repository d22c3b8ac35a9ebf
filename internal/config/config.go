package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	DatabasePath     string `json:"database_path"`
	CachePath        string `json:"cache_path"` // bbolt snapshot store
	APIPort          string `json:"api_port"`
	LogLevel         string `json:"log_level"`
	DataDir          string `json:"data_dir"`
	Locale           string `json:"locale"`
	PollIntervalSecs int    `json:"poll_interval_secs"`
	FetchLimit       int    `json:"fetch_limit"`
	TokenEndpoint    string `json:"token_endpoint"`
	UnreadEndpoint   string `json:"unread_endpoint"`
	NaviDataEndpoint string `json:"navidata_endpoint"`
	WebBaseURL       string `json:"web_base_url"`
	UnreadFilterURL  string `json:"unread_filter_url"`
	BadgeColor       string `json:"badge_color"`
	SessionCookie    string `json:"session_cookie"` // sent on the legacy portal request, stands in for browser cookies
}

// Default configuration values
const (
	DefaultDatabasePath     = "data/checker.db"
	DefaultCachePath        = "data/messages.db"
	DefaultAPIPort          = "8080"
	DefaultLogLevel         = "INFO"
	DefaultDataDir          = "data"
	DefaultLocale           = "ru"
	DefaultPollIntervalSecs = 18 // the extension polled every 0.3 minutes
	DefaultFetchLimit       = 50
	DefaultTokenEndpoint    = "https://mailru-checker-api.e.mail.ru/api/v1/tokens"
	DefaultUnreadEndpoint   = "https://mailru-checker-api.e.mail.ru/api/v1/messages/status/unread"
	DefaultNaviDataEndpoint = "https://portal.mail.ru/NaviData?mac=1"
	DefaultWebBaseURL       = "https://e.mail.ru"
	DefaultUnreadFilterURL  = "https://e.mail.ru/search/?q_read=1"
	DefaultBadgeColor       = "#d33"
)

// Load loads configuration from environment variables and config file
// Priority: Environment variables > Config file > Default values
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath:     DefaultDatabasePath,
		CachePath:        DefaultCachePath,
		APIPort:          DefaultAPIPort,
		LogLevel:         DefaultLogLevel,
		DataDir:          DefaultDataDir,
		Locale:           DefaultLocale,
		PollIntervalSecs: DefaultPollIntervalSecs,
		FetchLimit:       DefaultFetchLimit,
		TokenEndpoint:    DefaultTokenEndpoint,
		UnreadEndpoint:   DefaultUnreadEndpoint,
		NaviDataEndpoint: DefaultNaviDataEndpoint,
		WebBaseURL:       DefaultWebBaseURL,
		UnreadFilterURL:  DefaultUnreadFilterURL,
		BadgeColor:       DefaultBadgeColor,
	}

	// Config file is optional
	_ = cfg.loadFromFile()

	cfg.loadFromEnv()

	return cfg, nil
}

// loadFromFile loads configuration from config.json file
func (c *Config) loadFromFile() error {
	// Look for config file in current directory and data directory
	configPaths := []string{
		"config.json",
		filepath.Join(c.DataDir, "config.json"),
	}

	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if err := json.Unmarshal(data, c); err != nil {
			return err
		}
		return nil
	}

	return nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if val := os.Getenv("MAILRU_CHECKER_DATABASE_PATH"); val != "" {
		c.DatabasePath = val
	}
	if val := os.Getenv("MAILRU_CHECKER_CACHE_PATH"); val != "" {
		c.CachePath = val
	}
	if val := os.Getenv("MAILRU_CHECKER_API_PORT"); val != "" {
		c.APIPort = val
	}
	if val := os.Getenv("MAILRU_CHECKER_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("MAILRU_CHECKER_DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("MAILRU_CHECKER_LOCALE"); val != "" {
		c.Locale = val
	}
	if val := os.Getenv("MAILRU_CHECKER_POLL_INTERVAL_SECS"); val != "" {
		if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
			c.PollIntervalSecs = secs
		}
	}
	if val := os.Getenv("MAILRU_CHECKER_FETCH_LIMIT"); val != "" {
		if limit, err := strconv.Atoi(val); err == nil && limit > 0 {
			c.FetchLimit = limit
		}
	}
	if val := os.Getenv("MAILRU_CHECKER_TOKEN_ENDPOINT"); val != "" {
		c.TokenEndpoint = val
	}
	if val := os.Getenv("MAILRU_CHECKER_UNREAD_ENDPOINT"); val != "" {
		c.UnreadEndpoint = val
	}
	if val := os.Getenv("MAILRU_CHECKER_NAVIDATA_ENDPOINT"); val != "" {
		c.NaviDataEndpoint = val
	}
	if val := os.Getenv("MAILRU_CHECKER_WEB_BASE_URL"); val != "" {
		c.WebBaseURL = val
	}
	if val := os.Getenv("MAILRU_CHECKER_UNREAD_FILTER_URL"); val != "" {
		c.UnreadFilterURL = val
	}
	if val := os.Getenv("MAILRU_CHECKER_BADGE_COLOR"); val != "" {
		c.BadgeColor = val
	}
	if val := os.Getenv("MAILRU_CHECKER_SESSION_COOKIE"); val != "" {
		c.SessionCookie = val
	}
}

// PollInterval returns the poll interval as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSecs) * time.Second
}

// Save saves the current configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
