package services

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/mailru-checker/core/internal/database/models"
)

// genLogModule picks one of the known modules.
func genLogModule() gopter.Gen {
	return gen.OneConstOf(
		models.LogModuleAccount,
		models.LogModulePoll,
		models.LogModuleChecker,
		models.LogModuleAPI,
		models.LogModuleCLI,
	)
}

// TestProperty_LogCompleteness tests that every recorded operation leaves
// a complete row: module, action, level and a timestamp inside the call
// window.
func TestProperty_LogCompleteness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("info_entry_is_complete", prop.ForAll(
		func(module models.LogModule, action, message string) bool {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			service := NewLogService(db)
			beforeTime := time.Now().Add(-time.Second)

			err := service.LogInfo(module, action, message, map[string]interface{}{
				"detail": "value",
			})
			if err != nil {
				return false
			}

			afterTime := time.Now().Add(time.Second)

			var log models.Log
			if err := db.Where("module = ? AND action = ?", string(module), action).First(&log).Error; err != nil {
				return false
			}

			return log.Module == string(module) &&
				log.Action == action &&
				log.Message == message &&
				log.Level == "INFO" &&
				log.Details != "" &&
				log.CreatedAt.After(beforeTime) &&
				log.CreatedAt.Before(afterTime)
		},
		genLogModule(),
		gen.Identifier(),
		gen.AlphaString(),
	))

	properties.Property("module_query_returns_only_that_module", prop.ForAll(
		func(module models.LogModule) bool {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			service := NewLogService(db)
			for _, m := range []models.LogModule{models.LogModuleAccount, models.LogModulePoll, models.LogModuleAPI} {
				if err := service.LogInfo(m, "test", "message", nil); err != nil {
					return false
				}
			}

			logs, err := service.GetLogsByModule(module, 10)
			if err != nil {
				return false
			}
			for _, log := range logs {
				if log.Module != string(module) {
					return false
				}
			}
			return true
		},
		genLogModule(),
	))

	properties.TestingRun(t)
}

// TestProperty_LogLevelFiltering tests that the configured level gates
// which entries reach the table.
func TestProperty_LogLevelFiltering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("error_level_logs_only_errors", prop.ForAll(
		func(module models.LogModule) bool {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			service := NewLogServiceWithLevel(db, "ERROR")

			service.LogDebug(module, "test", "debug message", nil)
			service.LogInfo(module, "test", "info message", nil)
			service.LogWarn(module, "test", "warn message", nil)
			service.LogError(module, "test", "error message", nil)

			var count int64
			db.Model(&models.Log{}).Count(&count)
			return count == 1
		},
		genLogModule(),
	))

	properties.Property("info_level_logs_info_warn_error", prop.ForAll(
		func(module models.LogModule) bool {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			service := NewLogServiceWithLevel(db, "INFO")

			service.LogDebug(module, "test", "debug message", nil)
			service.LogInfo(module, "test", "info message", nil)
			service.LogWarn(module, "test", "warn message", nil)
			service.LogError(module, "test", "error message", nil)

			var count int64
			db.Model(&models.Log{}).Count(&count)
			return count == 3
		},
		genLogModule(),
	))

	properties.TestingRun(t)
}

func TestGetRecentLogs_Order(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	service := NewLogService(db)
	service.LogInfo(models.LogModulePoll, "first", "first entry", nil)
	service.LogInfo(models.LogModulePoll, "second", "second entry", nil)

	logs, err := service.GetRecentLogs(10)
	if err != nil {
		t.Fatalf("failed to read logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("logs = %d, want 2", len(logs))
	}
}
