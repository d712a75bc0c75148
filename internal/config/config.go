package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/straye-as/crm-analytics/internal/secrets"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Reports   ReportsConfig
	Analytics AnalyticsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
}

type SecretsConfig struct {
	// Source is "environment" or "vault"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	// MaxAge is the max age (in seconds) for preflight cache
	MaxAge int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	ContentSecurityPolicy string
	// FrameOptions sets the X-Frame-Options header (DENY, SAMEORIGIN, or empty to disable)
	FrameOptions       string
	ContentTypeNosniff bool
	ReferrerPolicy     string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute is the rate limit per client IP
	RequestsPerMinute int
	WhitelistIPs      []string
	// WhitelistPaths bypass rate limiting (e.g., /health)
	WhitelistPaths []string
}

// ReportsConfig controls the scheduled pipeline report export
type ReportsConfig struct {
	Enabled bool
	// ExportCron is a standard 5-field cron expression
	ExportCron string
	// HealthRefreshCron schedules the stored company health recompute
	HealthRefreshCron string
	// TenantIDs lists tenants to export separately; empty exports once across all data
	TenantIDs      []string
	ForecastMonths int
	// TimeoutSeconds bounds a single export run
	TimeoutSeconds int
}

// HealthWeights are the relative weights of the health score factors
type HealthWeights struct {
	Engagement     float64
	RevenueGrowth  float64
	ProjectSuccess float64
	PaymentHistory float64
	Support        float64
}

// Sum returns the total of all weights
func (w HealthWeights) Sum() float64 {
	return w.Engagement + w.RevenueGrowth + w.ProjectSuccess + w.PaymentHistory + w.Support
}

// AnalyticsConfig holds the thresholds used by the analytics engines
type AnalyticsConfig struct {
	VelocityLookbackDays    int
	BottleneckThreshold     float64
	ForecastMaxMonths       int
	WorstCaseMinProbability int

	RiskHighInactivityDays   int
	RiskMediumInactivityDays int
	LostDealWindowDays       int

	ValueStrategic  float64
	ValueKeyAccount float64
	ValueGrowth     float64

	LifecycleNewYears     int
	LifecycleGrowingYears int

	SizeEnterprise int
	SizeMidMarket  int

	EngagementWindowDays int
	EngagementTarget     int
	HealthWeights        HealthWeights

	HistoryDefaultLimit int
	HistoryMaxLimit     int
	TimelineMaxDays     int
}

// DefaultAnalyticsConfig returns the analytics thresholds with their documented defaults
func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		VelocityLookbackDays:     30,
		BottleneckThreshold:      0.5,
		ForecastMaxMonths:        12,
		WorstCaseMinProbability:  70,
		RiskHighInactivityDays:   90,
		RiskMediumInactivityDays: 30,
		LostDealWindowDays:       90,
		ValueStrategic:           100_000_000,
		ValueKeyAccount:          50_000_000,
		ValueGrowth:              10_000_000,
		LifecycleNewYears:        1,
		LifecycleGrowingYears:    3,
		SizeEnterprise:           1000,
		SizeMidMarket:            100,
		EngagementWindowDays:     90,
		EngagementTarget:         12,
		HealthWeights: HealthWeights{
			Engagement:     0.25,
			RevenueGrowth:  0.30,
			ProjectSuccess: 0.20,
			PaymentHistory: 0.15,
			Support:        0.10,
		},
		HistoryDefaultLimit: 50,
		HistoryMaxLimit:     200,
		TimelineMaxDays:     730,
	}
}

// Validate checks that weights sum to 1 and thresholds are ordered
func (a *AnalyticsConfig) Validate() error {
	if sum := a.HealthWeights.Sum(); math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("health weights must sum to 1.0, got %.4f", sum)
	}
	if a.BottleneckThreshold < 0 || a.BottleneckThreshold > 1 {
		return fmt.Errorf("bottleneck threshold must be within [0,1], got %.2f", a.BottleneckThreshold)
	}
	if a.RiskMediumInactivityDays >= a.RiskHighInactivityDays {
		return fmt.Errorf("medium inactivity days (%d) must be below high inactivity days (%d)",
			a.RiskMediumInactivityDays, a.RiskHighInactivityDays)
	}
	if !(a.ValueGrowth < a.ValueKeyAccount && a.ValueKeyAccount < a.ValueStrategic) {
		return fmt.Errorf("value segment cutoffs must be increasing: growth < key account < strategic")
	}
	if a.LifecycleNewYears >= a.LifecycleGrowingYears {
		return fmt.Errorf("lifecycle new years must be below growing years")
	}
	if a.SizeMidMarket >= a.SizeEnterprise {
		return fmt.Errorf("mid-market size must be below enterprise size")
	}
	if a.ForecastMaxMonths < 1 || a.VelocityLookbackDays < 1 || a.EngagementWindowDays < 1 {
		return fmt.Errorf("forecast months, velocity look-back and engagement window must be positive")
	}
	if a.HistoryDefaultLimit < 1 || a.HistoryDefaultLimit > a.HistoryMaxLimit {
		return fmt.Errorf("history default limit must be within 1..%d", a.HistoryMaxLimit)
	}
	return nil
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// TimeoutDuration returns the export run timeout as duration
func (r *ReportsConfig) TimeoutDuration() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Load loads configuration from file and environment variables.
// It does not resolve vault secrets; use LoadWithSecrets for that.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	if err := cfg.Analytics.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analytics config: %w", err)
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves the database password and
// storage connection string from the configured secret source.
// Key Vault is used only when USE_AZURE_KEY_VAULT=true in staging or production.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	if err := applySecrets(ctx, cfg, provider); err != nil {
		return nil, err
	}

	logger.Info("Secrets loaded from vault successfully",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)
	return cfg, nil
}

// SecretSource resolves a named secret, preferring an environment override
type SecretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error)
}

func applySecrets(ctx context.Context, cfg *Config, source SecretSource) error {
	if host, err := source.GetSecretOrEnv(ctx, "POSTGRES-ANALYTICS-HOST", "DATABASE_HOST"); err == nil && host != "" {
		cfg.Database.Host = host
	}
	if user, err := source.GetSecretOrEnv(ctx, "POSTGRES-ANALYTICS-USER", "DATABASE_USER"); err == nil && user != "" {
		cfg.Database.User = user
	}
	password, err := source.GetSecretOrEnv(ctx, "POSTGRES-ANALYTICS-PASSWORD", "DATABASE_PASSWORD")
	if err != nil {
		return fmt.Errorf("failed to resolve database password: %w", err)
	}
	cfg.Database.Password = password

	if cfg.Storage.Mode == "azure" || cfg.Storage.Mode == "cloud" {
		connStr, err := source.GetSecretOrEnv(ctx, "reports-storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING")
		if err != nil {
			return fmt.Errorf("failed to resolve storage connection string: %w", err)
		}
		cfg.Storage.CloudConnectionString = connStr
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "CRM Analytics API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "crm")
	v.SetDefault("database.user", "analytics_reader")
	v.SetDefault("database.password", "analytics_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)

	v.SetDefault("secrets.source", "environment")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.cloudContainer", "analytics-reports")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Content-Type", "X-Request-ID", "X-Tenant-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"X-Request-ID"})
	v.SetDefault("cors.allowCredentials", false)
	v.SetDefault("cors.maxAge", 300)

	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 120)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready"})

	v.SetDefault("reports.enabled", false)
	v.SetDefault("reports.exportCron", "0 2 * * *")
	v.SetDefault("reports.healthRefreshCron", "0 3 * * *")
	v.SetDefault("reports.tenantIDs", []string{})
	v.SetDefault("reports.forecastMonths", 12)
	v.SetDefault("reports.timeoutSeconds", 300)

	d := DefaultAnalyticsConfig()
	v.SetDefault("analytics.velocityLookbackDays", d.VelocityLookbackDays)
	v.SetDefault("analytics.bottleneckThreshold", d.BottleneckThreshold)
	v.SetDefault("analytics.forecastMaxMonths", d.ForecastMaxMonths)
	v.SetDefault("analytics.worstCaseMinProbability", d.WorstCaseMinProbability)
	v.SetDefault("analytics.riskHighInactivityDays", d.RiskHighInactivityDays)
	v.SetDefault("analytics.riskMediumInactivityDays", d.RiskMediumInactivityDays)
	v.SetDefault("analytics.lostDealWindowDays", d.LostDealWindowDays)
	v.SetDefault("analytics.valueStrategic", d.ValueStrategic)
	v.SetDefault("analytics.valueKeyAccount", d.ValueKeyAccount)
	v.SetDefault("analytics.valueGrowth", d.ValueGrowth)
	v.SetDefault("analytics.lifecycleNewYears", d.LifecycleNewYears)
	v.SetDefault("analytics.lifecycleGrowingYears", d.LifecycleGrowingYears)
	v.SetDefault("analytics.sizeEnterprise", d.SizeEnterprise)
	v.SetDefault("analytics.sizeMidMarket", d.SizeMidMarket)
	v.SetDefault("analytics.engagementWindowDays", d.EngagementWindowDays)
	v.SetDefault("analytics.engagementTarget", d.EngagementTarget)
	v.SetDefault("analytics.healthWeights.engagement", d.HealthWeights.Engagement)
	v.SetDefault("analytics.healthWeights.revenueGrowth", d.HealthWeights.RevenueGrowth)
	v.SetDefault("analytics.healthWeights.projectSuccess", d.HealthWeights.ProjectSuccess)
	v.SetDefault("analytics.healthWeights.paymentHistory", d.HealthWeights.PaymentHistory)
	v.SetDefault("analytics.healthWeights.support", d.HealthWeights.Support)
	v.SetDefault("analytics.historyDefaultLimit", d.HistoryDefaultLimit)
	v.SetDefault("analytics.historyMaxLimit", d.HistoryMaxLimit)
	v.SetDefault("analytics.timelineMaxDays", d.TimelineMaxDays)
}
