package config_test

import (
	"testing"

	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAnalyticsConfig_IsValid(t *testing.T) {
	cfg := config.DefaultAnalyticsConfig()
	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 1.0, cfg.HealthWeights.Sum(), 1e-9)
}

func TestAnalyticsConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.AnalyticsConfig)
	}{
		{
			name:   "weights not summing to one",
			mutate: func(c *config.AnalyticsConfig) { c.HealthWeights.Support = 0.5 },
		},
		{
			name:   "bottleneck threshold above one",
			mutate: func(c *config.AnalyticsConfig) { c.BottleneckThreshold = 1.5 },
		},
		{
			name:   "inactivity thresholds out of order",
			mutate: func(c *config.AnalyticsConfig) { c.RiskMediumInactivityDays = 120 },
		},
		{
			name:   "value cutoffs out of order",
			mutate: func(c *config.AnalyticsConfig) { c.ValueGrowth = 60_000_000 },
		},
		{
			name:   "lifecycle years out of order",
			mutate: func(c *config.AnalyticsConfig) { c.LifecycleNewYears = 5 },
		},
		{
			name:   "history default above max",
			mutate: func(c *config.AnalyticsConfig) { c.HistoryDefaultLimit = 500 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultAnalyticsConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "local", cfg.Storage.Mode)
	assert.Equal(t, "0 2 * * *", cfg.Reports.ExportCron)
	assert.Equal(t, "0 3 * * *", cfg.Reports.HealthRefreshCron)
	assert.Equal(t, 30, cfg.Analytics.VelocityLookbackDays)
	assert.Equal(t, 0.5, cfg.Analytics.BottleneckThreshold)
	assert.Equal(t, 90, cfg.Analytics.RiskHighInactivityDays)
	assert.Equal(t, 100_000_000.0, cfg.Analytics.ValueStrategic)
	assert.Equal(t, 0.30, cfg.Analytics.HealthWeights.RevenueGrowth)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("ANALYTICS_BOTTLENECKTHRESHOLD", "0.4")
	t.Setenv("APP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 0.4, cfg.Analytics.BottleneckThreshold)
	assert.Equal(t, 9090, cfg.App.Port)
}

func TestLoad_RejectsInvalidWeights(t *testing.T) {
	t.Setenv("ANALYTICS_HEALTHWEIGHTS_SUPPORT", "0.9")

	_, err := config.Load()
	assert.Error(t, err)
}
