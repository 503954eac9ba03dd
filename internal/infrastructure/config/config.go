package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. SHOP_DATABASE_HOST for database.host.
const EnvPrefix = "SHOP"

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Session     SessionConfig
	Storage     StorageConfig
	Telegram    TelegramConfig
	Kafka       KafkaConfig
	Telemetry   TelemetryConfig
	Order       OrderConfig
	Cart        CartConfig
	Admin       AdminConfig
	Maintenance MaintenanceConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // minutes
	ConnMaxIdleTime int // minutes
}

// RedisConfig holds Redis settings. When disabled, carts, idempotency keys
// and revoked tokens are kept in process memory.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds admin token settings
type JWTConfig struct {
	Secret                string
	AccessTokenExpiration time.Duration
	Issuer                string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server and middleware settings
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	MaxUploadSize         int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	CheckoutRateRequests  int
	CheckoutRateWindow    time.Duration
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// SessionConfig controls the anonymous storefront session cookie
type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// StorageConfig holds product image storage settings. Driver is "s3" or "local".
type StorageConfig struct {
	Driver        string
	Bucket        string
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	PublicBaseURL string
	LocalDir      string
}

// TelegramConfig holds the order notification bot settings
type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIURL   string
	Timeout  time.Duration
}

// Enabled reports whether both bot token and chat are configured
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// KafkaConfig holds order event forwarding settings
type KafkaConfig struct {
	Enabled    bool
	Brokers    []string
	Topic      string
	BufferSize int
}

// TelemetryConfig holds OpenTelemetry tracing settings
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
}

// OrderConfig holds checkout behaviour
type OrderConfig struct {
	// TrustClientTotal persists the declared total instead of recomputing it
	// from catalog prices.
	TrustClientTotal bool
	IdempotencyTTL   time.Duration
}

// CartConfig holds server-side cart settings
type CartConfig struct {
	TTL time.Duration
}

// AdminConfig holds the bootstrap administrator account
type AdminConfig struct {
	Email    string
	Password string
}

// MaintenanceConfig controls the daily background jobs. Schedule takes the
// minute and hour fields of a cron expression, e.g. "30 3 * * *".
type MaintenanceConfig struct {
	Enabled       bool
	Schedule      string
	RetentionDays int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// Load reads config.toml (optional) and SHOP_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.retry_attempts", 3)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                v.GetString("jwt.secret"),
			AccessTokenExpiration: v.GetDuration("jwt.access_token_expiration"),
			Issuer:                v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			MaxUploadSize:         v.GetInt64("http.max_upload_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			CheckoutRateRequests:  v.GetInt("http.checkout_rate_requests"),
			CheckoutRateWindow:    v.GetDuration("http.checkout_rate_window"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
		},
		Session: SessionConfig{
			CookieName: v.GetString("session.cookie_name"),
			MaxAge:     v.GetDuration("session.max_age"),
			Secure:     v.GetBool("session.secure"),
		},
		Storage: StorageConfig{
			Driver:        v.GetString("storage.driver"),
			Bucket:        v.GetString("storage.bucket"),
			Endpoint:      v.GetString("storage.endpoint"),
			Region:        v.GetString("storage.region"),
			AccessKey:     v.GetString("storage.access_key"),
			SecretKey:     v.GetString("storage.secret_key"),
			UsePathStyle:  v.GetBool("storage.use_path_style"),
			PublicBaseURL: v.GetString("storage.public_base_url"),
			LocalDir:      v.GetString("storage.local_dir"),
		},
		Telegram: TelegramConfig{
			BotToken: v.GetString("telegram.bot_token"),
			ChatID:   v.GetString("telegram.chat_id"),
			APIURL:   v.GetString("telegram.api_url"),
			Timeout:  v.GetDuration("telegram.timeout"),
		},
		Kafka: KafkaConfig{
			Enabled:    v.GetBool("kafka.enabled"),
			Brokers:    v.GetStringSlice("kafka.brokers"),
			Topic:      v.GetString("kafka.topic"),
			BufferSize: v.GetInt("kafka.buffer_size"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
		},
		Order: OrderConfig{
			TrustClientTotal: v.GetBool("order.trust_client_total"),
			IdempotencyTTL:   v.GetDuration("order.idempotency_ttl"),
		},
		Cart: CartConfig{
			TTL: v.GetDuration("cart.ttl"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("admin.email"),
			Password: v.GetString("admin.password"),
		},
		Maintenance: MaintenanceConfig{
			Enabled:       v.GetBool("maintenance.enabled"),
			Schedule:      v.GetString("maintenance.schedule"),
			RetentionDays: v.GetInt("maintenance.retention_days"),
			JobTimeout:    v.GetDuration("maintenance.job_timeout"),
			RetryAttempts: v.GetInt("maintenance.retry_attempts"),
			RetryDelay:    v.GetDuration("maintenance.retry_delay"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "storefront"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 20
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 12 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "storefront"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20
	}
	if cfg.HTTP.MaxUploadSize == 0 {
		cfg.HTTP.MaxUploadSize = 10 << 20
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 120
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.CheckoutRateRequests == 0 {
		cfg.HTTP.CheckoutRateRequests = 10
	}
	if cfg.HTTP.CheckoutRateWindow == 0 {
		cfg.HTTP.CheckoutRateWindow = time.Minute
	}
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 5
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	// No CORS origin default: cross-origin access must be configured explicitly.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Session-ID", "Idempotency-Key"}
	}

	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "sid"
	}
	if cfg.Session.MaxAge == 0 {
		cfg.Session.MaxAge = 30 * 24 * time.Hour
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "local"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "products"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "./uploads"
	}

	if cfg.Telegram.APIURL == "" {
		cfg.Telegram.APIURL = "https://api.telegram.org"
	}
	if cfg.Telegram.Timeout == 0 {
		cfg.Telegram.Timeout = 5 * time.Second
	}

	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "order.created"
	}
	if cfg.Kafka.BufferSize == 0 {
		cfg.Kafka.BufferSize = 256
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "storefront"
	}

	if cfg.Order.IdempotencyTTL == 0 {
		cfg.Order.IdempotencyTTL = 24 * time.Hour
	}
	if cfg.Cart.TTL == 0 {
		cfg.Cart.TTL = 30 * 24 * time.Hour
	}

	if cfg.Maintenance.Schedule == "" {
		cfg.Maintenance.Schedule = "30 3 * * *"
	}
	if cfg.Maintenance.RetentionDays == 0 {
		cfg.Maintenance.RetentionDays = 180
	}
	if cfg.Maintenance.JobTimeout == 0 {
		cfg.Maintenance.JobTimeout = 10 * time.Minute
	}
	if cfg.Maintenance.RetryDelay == 0 {
		cfg.Maintenance.RetryDelay = 5 * time.Minute
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch c.Storage.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("storage.driver must be 'local' or 's3', got %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "s3" && c.Storage.PublicBaseURL == "" && c.Storage.Endpoint == "" {
		return fmt.Errorf("storage.public_base_url or storage.endpoint is required for the s3 driver")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}

	if c.Maintenance.RetentionDays < 0 {
		return fmt.Errorf("maintenance.retention_days cannot be negative")
	}
	if c.Maintenance.RetryAttempts < 0 {
		return fmt.Errorf("maintenance.retry_attempts cannot be negative")
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if !c.Session.Secure {
			return fmt.Errorf("session.secure must be true in production")
		}
	}

	return nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
