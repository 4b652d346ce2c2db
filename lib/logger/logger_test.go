package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artie-labs/dataset/config"
)

func TestNewLogger(t *testing.T) {
	{
		// No settings
		logger, cleanUp := NewLogger(nil)
		assert.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
		assert.NotPanics(t, cleanUp)
	}
	{
		// Reporting without Sentry
		logger, cleanUp := NewLogger(&config.Settings{Reporting: &config.Reporting{}})
		assert.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.NotPanics(t, cleanUp)
	}
	{
		// Configured level
		logger, _ := NewLogger(&config.Settings{Reporting: &config.Reporting{LogLevel: "debug"}})
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

		logger, _ = NewLogger(&config.Settings{Reporting: &config.Reporting{LogLevel: "error"}})
		assert.False(t, logger.Enabled(context.Background(), slog.LevelWarn))
	}
	{
		// Invalid level falls back to info
		logger, _ := NewLogger(&config.Settings{Reporting: &config.Reporting{LogLevel: "loud"}})
		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	}
	{
		// Attributes
		logger, _ := NewLogger(nil, slog.String("runID", "run"))
		assert.NotNil(t, logger)
	}
}
