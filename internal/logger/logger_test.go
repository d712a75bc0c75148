package logger_test

import (
	"testing"

	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		logging   config.LoggingConfig
		app       config.AppConfig
		wantLevel zapcore.Level
	}{
		{
			name:      "development console",
			logging:   config.LoggingConfig{Level: "debug", Format: "console"},
			app:       config.AppConfig{Name: "crm-analytics", Environment: "development"},
			wantLevel: zapcore.DebugLevel,
		},
		{
			name:      "production json",
			logging:   config.LoggingConfig{Level: "warn", Format: "json"},
			app:       config.AppConfig{Name: "crm-analytics", Environment: "production"},
			wantLevel: zapcore.WarnLevel,
		},
		{
			name:      "unknown level falls back to info",
			logging:   config.LoggingConfig{Level: "chatty"},
			app:       config.AppConfig{Name: "crm-analytics", Environment: "development"},
			wantLevel: zapcore.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.NewLogger(&tt.logging, &tt.app)
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.wantLevel))
			assert.False(t, log.Core().Enabled(tt.wantLevel-1))
		})
	}
}
