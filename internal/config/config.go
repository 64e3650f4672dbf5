// Package config handles application configuration loading and validation using Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Sheets    SheetsConfig    `mapstructure:"sheets"`
	Job       JobConfig       `mapstructure:"job"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig contains database connection settings for PostgreSQL and Redis.
type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains PostgreSQL database connection and pool settings.
type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// RedisConfig contains Redis cache connection and pool settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// SheetsConfig points at the published CSV exports of the two feeds.
type SheetsConfig struct {
	ConnectionsCSVURL string `mapstructure:"connections_csv_url"`
	SalesFunnelCSVURL string `mapstructure:"sales_funnel_csv_url"`
	// CacheTTL is the feed cache lifetime in seconds. Matches the dashboard
	// refresh interval.
	CacheTTL       int `mapstructure:"cache_ttl"`
	RequestTimeout int `mapstructure:"request_timeout"`
}

// JobConfig contains achievements reconciliation job settings.
type JobConfig struct {
	// Secret guards the manual job trigger endpoint. Empty disables the check.
	Secret string `mapstructure:"secret"`
	// ExcludedUsers lists identities left out of employee listings and
	// company-wide standings.
	ExcludedUsers []string `mapstructure:"excluded_users"`
}

// SchedulerConfig contains achievements job scheduling settings.
type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Time     string `mapstructure:"time"`
	Timezone string `mapstructure:"timezone"`
}

// MetricsConfig contains metrics collection settings.
type MetricsConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig contains Prometheus metrics exporter settings.
type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig contains application logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/salesboard/")
	}

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("sheets.cache_ttl", 30)
	v.SetDefault("sheets.request_timeout", 15)
	v.SetDefault("scheduler.timezone", "Asia/Yekaterinburg")
	v.SetDefault("metrics.prometheus.path", "/metrics")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	// Bind specific environment variables (explicit bindings for 12-factor app compliance)
	// Server configuration
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.environment", "SERVER_ENVIRONMENT")

	// PostgreSQL configuration
	_ = v.BindEnv("database.postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("database.postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("database.postgres.database", "POSTGRES_DB")
	_ = v.BindEnv("database.postgres.user", "POSTGRES_USER")
	_ = v.BindEnv("database.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("database.postgres.ssl_mode", "POSTGRES_SSL_MODE")
	_ = v.BindEnv("database.postgres.max_open_conns", "POSTGRES_MAX_OPEN_CONNS")
	_ = v.BindEnv("database.postgres.max_idle_conns", "POSTGRES_MAX_IDLE_CONNS")
	_ = v.BindEnv("database.postgres.conn_max_lifetime", "POSTGRES_CONN_MAX_LIFETIME")

	// Redis configuration
	_ = v.BindEnv("database.redis.host", "REDIS_HOST")
	_ = v.BindEnv("database.redis.port", "REDIS_PORT")
	_ = v.BindEnv("database.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("database.redis.db", "REDIS_DB")
	_ = v.BindEnv("database.redis.pool_size", "REDIS_POOL_SIZE")

	// Feed configuration
	_ = v.BindEnv("sheets.connections_csv_url", "PUBLIC_CSV_CONNECTIONS_URL", "PUBLIC_CSV_COMPANIES_URL")
	_ = v.BindEnv("sheets.sales_funnel_csv_url", "PUBLIC_CSV_SALES_FUNNEL_URL", "PUBLIC_CSV_INVOICES_URL")
	_ = v.BindEnv("sheets.cache_ttl", "SHEETS_CACHE_TTL")
	_ = v.BindEnv("sheets.request_timeout", "SHEETS_REQUEST_TIMEOUT")

	// Job configuration
	_ = v.BindEnv("job.secret", "CRON_SECRET")
	_ = v.BindEnv("job.excluded_users", "EXCLUDED_FROM_EMPLOYEES")

	// Scheduler configuration
	_ = v.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	_ = v.BindEnv("scheduler.time", "SCHEDULER_TIME")
	_ = v.BindEnv("scheduler.timezone", "SCHEDULER_TIMEZONE")

	// Logging configuration
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
	_ = v.BindEnv("logging.output", "LOG_OUTPUT")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Sheets.ConnectionsCSVURL == "" {
		return fmt.Errorf("sheets.connections_csv_url is required")
	}
	if c.Sheets.SalesFunnelCSVURL == "" {
		return fmt.Errorf("sheets.sales_funnel_csv_url is required")
	}
	if c.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if c.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if c.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}
	if c.Database.Redis.Host == "" {
		return fmt.Errorf("database.redis.host is required")
	}
	if c.Scheduler.Enabled && c.Scheduler.Time == "" {
		return fmt.Errorf("scheduler.time is required when the scheduler is enabled")
	}
	return nil
}

// GetLocation returns the timezone location.
func (c *SchedulerConfig) GetLocation() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// CacheTTLDuration returns the feed cache lifetime.
func (c *SheetsConfig) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// RequestTimeoutDuration returns the per-request feed fetch timeout.
func (c *SheetsConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
