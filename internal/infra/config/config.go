package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Env         string            `mapstructure:"env"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	HTTPClient  HTTPClientConfig  `mapstructure:"http_client"`
	Log         LogConfig         `mapstructure:"log"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Recruitment RecruitmentConfig `mapstructure:"recruitment"`
	Stats       StatsConfig       `mapstructure:"stats"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	// SlowQueryThreshold logs statements slower than this at warn level.
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	AutoMigrate        bool          `mapstructure:"auto_migrate"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Database, c.SSLMode,
	)
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Address     string        `mapstructure:"address"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// HTTPClientConfig holds HTTP client configuration for connection pooling.
type HTTPClientConfig struct {
	// Connection pool settings
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `mapstructure:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`

	// Timeout settings
	DialTimeout         time.Duration `mapstructure:"dial_timeout"`
	TLSHandshakeTimeout time.Duration `mapstructure:"tls_handshake_timeout"`
	ResponseTimeout     time.Duration `mapstructure:"response_timeout"`

	// Keep-alive settings
	KeepAlive time.Duration `mapstructure:"keep_alive"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig holds access-token validation settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// RecruitmentConfig holds recruitment and scheduler settings.
type RecruitmentConfig struct {
	ReconcileInterval  time.Duration `mapstructure:"reconcile_interval"`
	CleanupInterval    time.Duration `mapstructure:"cleanup_interval"`
	DefaultPodCapacity int           `mapstructure:"default_pod_capacity"`
	JobLockTTL         time.Duration `mapstructure:"job_lock_ttl"`
	DistributedLock    bool          `mapstructure:"distributed_lock"`
	CascadeRetries     int           `mapstructure:"cascade_retries"`
	CascadeRetryDelay  time.Duration `mapstructure:"cascade_retry_delay"`
	ReconcileBatchSize int           `mapstructure:"reconcile_batch_size"`
}

// StatsConfig holds the event-statistics service client settings.
type StatsConfig struct {
	// Endpoint is the base URL. Empty disables statistics refreshes.
	Endpoint         string        `mapstructure:"endpoint"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	BreakerTimeout   time.Duration `mapstructure:"breaker_timeout"`
}

// TelemetryConfig holds tracing settings.
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// IsProduction reports whether the process runs in production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads config.yaml from the working directory, ./configs or
// /etc/tessera, then applies TESSERA_* environment variables. Outside
// production a local .env file is loaded first.
func Load() (*Config, error) {
	if !strings.EqualFold(os.Getenv("TESSERA_ENV"), "production") {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range []string{".", "./configs", "/etc/tessera"} {
		v.AddConfigPath(path)
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("TESSERA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	for name, field := range secretEnv(&cfg) {
		if value := os.Getenv(name); value != "" {
			*field = value
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required values and fills defaults for non-positive ones.
func (c *Config) Validate() error {
	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required in production")
	}

	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}

	r := &c.Recruitment
	if r.ReconcileInterval <= 0 {
		r.ReconcileInterval = time.Minute
	}
	if r.CleanupInterval <= 0 {
		r.CleanupInterval = time.Hour
	}
	if r.DefaultPodCapacity < 2 {
		r.DefaultPodCapacity = 5
	}
	if r.JobLockTTL <= 0 {
		r.JobLockTTL = 55 * time.Second
	}
	if r.CascadeRetries <= 0 {
		r.CascadeRetries = 3
	}
	if r.CascadeRetryDelay <= 0 {
		r.CascadeRetryDelay = 100 * time.Millisecond
	}
	if r.ReconcileBatchSize <= 0 {
		r.ReconcileBatchSize = 500
	}

	s := &c.Stats
	if s.Timeout <= 0 {
		s.Timeout = 5 * time.Second
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.BreakerTimeout <= 0 {
		s.BreakerTimeout = 30 * time.Second
	}

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "tessera-recruitment"
	}
	if c.Telemetry.SampleRatio <= 0 || c.Telemetry.SampleRatio > 1 {
		c.Telemetry.SampleRatio = 1
	}
	return nil
}

// defaults seeds viper so every key is also bindable from the environment.
var defaults = map[string]any{
	"env": "development",

	"server.address":          ":8080",
	"server.read_timeout":     30 * time.Second,
	"server.write_timeout":    30 * time.Second,
	"server.idle_timeout":     120 * time.Second,
	"server.shutdown_timeout": 30 * time.Second,
	"server.cors_origins":     []string{"*"},

	"database.host":                 "localhost",
	"database.port":                 5432,
	"database.user":                 "postgres",
	"database.database":             "tessera",
	"database.ssl_mode":             "disable",
	"database.max_open_conns":       25,
	"database.max_idle_conns":       10,
	"database.conn_max_lifetime":    time.Hour,
	"database.conn_max_idle_time":   30 * time.Minute,
	"database.slow_query_threshold": 200 * time.Millisecond,
	"database.auto_migrate":         true,

	"redis.address":      "localhost:6379",
	"redis.password":     "",
	"redis.db":           0,
	"redis.pool_size":    10,
	"redis.dial_timeout": 5 * time.Second,

	"http_client.max_idle_conns":          100,
	"http_client.max_idle_conns_per_host": 20,
	"http_client.max_conns_per_host":      50,
	"http_client.idle_conn_timeout":       90 * time.Second,
	"http_client.dial_timeout":            10 * time.Second,
	"http_client.tls_handshake_timeout":   10 * time.Second,
	"http_client.response_timeout":        30 * time.Second,
	"http_client.keep_alive":              30 * time.Second,

	"log.level":  "info",
	"log.format": "json",

	"auth.jwt_secret": "",
	"auth.issuer":     "",

	"recruitment.reconcile_interval":   time.Minute,
	"recruitment.cleanup_interval":     time.Hour,
	"recruitment.default_pod_capacity": 5,
	"recruitment.job_lock_ttl":         55 * time.Second,
	"recruitment.distributed_lock":     false,
	"recruitment.cascade_retries":      3,
	"recruitment.cascade_retry_delay":  100 * time.Millisecond,
	"recruitment.reconcile_batch_size": 500,

	"stats.endpoint":          "",
	"stats.timeout":           5 * time.Second,
	"stats.failure_threshold": 5,
	"stats.breaker_timeout":   30 * time.Second,

	"telemetry.enabled":      false,
	"telemetry.endpoint":     "http://localhost:4318",
	"telemetry.service_name": "tessera-recruitment",
	"telemetry.sample_ratio": 1.0,
}

// secretEnv maps environment variables that override secrets after
// unmarshalling, so they never need to live in a config file.
func secretEnv(cfg *Config) map[string]*string {
	return map[string]*string{
		"TESSERA_JWT_SECRET":     &cfg.Auth.JWTSecret,
		"TESSERA_DB_PASSWORD":    &cfg.Database.Password,
		"TESSERA_REDIS_PASSWORD": &cfg.Redis.Password,
	}
}
