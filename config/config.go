// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/tutorhub/tutorhub-backend/logger"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Record store drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
)

// Blob storage providers.
const (
	ProviderR2       = "r2"
	ProviderS3       = "s3"
	ProviderSupabase = "supabase"
	ProviderLocal    = "local"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment         Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port                string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins      []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version             string      `mapstructure:"VERSION" yaml:"version"`
	ReadTimeoutSeconds  int         `mapstructure:"READ_TIMEOUT_SECONDS" yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int         `mapstructure:"WRITE_TIMEOUT_SECONDS" yaml:"write_timeout_seconds"`
	// TrustedProxies is a list of CIDR ranges or IPs of trusted reverse proxies.
	// If empty, X-Forwarded-For headers are ignored entirely.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
}

// DatabaseConfig selects and configures the testimonial record store.
type DatabaseConfig struct {
	Driver         string `mapstructure:"DRIVER" yaml:"driver"`
	Host           string `mapstructure:"HOST" yaml:"host"`
	Port           int    `mapstructure:"PORT" yaml:"port"`
	User           string `mapstructure:"USER" yaml:"user"`
	Password       string `mapstructure:"PASSWORD" yaml:"password"`
	Name           string `mapstructure:"NAME" yaml:"name"`
	SSLMode        string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
	MaxConnections int    `mapstructure:"MAX_CONNECTIONS" yaml:"max_connections"`

	MongoURI        string `mapstructure:"MONGO_URI" yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"MONGO_DATABASE" yaml:"mongo_database"`
	MongoCollection string `mapstructure:"MONGO_COLLECTION" yaml:"mongo_collection"`

	SQLitePath string `mapstructure:"SQLITE_PATH" yaml:"sqlite_path"`
}

// URL returns a postgres:// connection URL suitable for pgxpool and golang-migrate.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// RedisConfig holds Redis connection details. An empty Address disables Redis.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS" yaml:"address"`
	Password string `mapstructure:"PASSWORD" yaml:"password"`
	DB       int    `mapstructure:"DB" yaml:"db"`
	UseTLS   bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
}

// Enabled reports whether a Redis address was configured.
func (c *RedisConfig) Enabled() bool {
	return c.Address != ""
}

// StorageConfig configures the blob store that holds testimonial images.
type StorageConfig struct {
	Provider         string `mapstructure:"PROVIDER" yaml:"provider"`
	Bucket           string `mapstructure:"BUCKET" yaml:"bucket"`
	PublicBaseURL    string `mapstructure:"PUBLIC_BASE_URL" yaml:"public_base_url"`
	CollectionFolder string `mapstructure:"COLLECTION_FOLDER" yaml:"collection_folder"`

	R2AccountID     string `mapstructure:"R2_ACCOUNT_ID" yaml:"r2_account_id"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY" yaml:"secret_access_key"`
	S3Region        string `mapstructure:"S3_REGION" yaml:"s3_region"`

	SupabaseURL        string `mapstructure:"SUPABASE_URL" yaml:"supabase_url"`
	SupabaseServiceKey string `mapstructure:"SUPABASE_SERVICE_KEY" yaml:"supabase_service_key"`

	LocalBasePath string `mapstructure:"LOCAL_BASE_PATH" yaml:"local_base_path"`
}

// UploadConfig bounds image uploads.
type UploadConfig struct {
	MaxImageBytes int64 `mapstructure:"MAX_IMAGE_BYTES" yaml:"max_image_bytes"`
}

// RateLimitConfig holds configuration for rate limiting of mutating routes.
type RateLimitConfig struct {
	MutationsPerWindow int `mapstructure:"MUTATIONS_PER_WINDOW" yaml:"mutations_per_window"`
	WindowSeconds      int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER" yaml:"server"`
	Database  DatabaseConfig  `mapstructure:"DATABASE" yaml:"database"`
	Redis     RedisConfig     `mapstructure:"REDIS" yaml:"redis"`
	Storage   StorageConfig   `mapstructure:"STORAGE" yaml:"storage"`
	Upload    UploadConfig    `mapstructure:"UPLOAD" yaml:"upload"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// applies defaults, and validates the result. When CONFIG_FILE is set the
// YAML file it names is read first and environment variables override it.
func LoadConfig() (*Config, error) {
	return loadConfig(os.Getenv("CONFIG_FILE"))
}

// LoadConfigFromFile is LoadConfig with an explicit YAML file.
func LoadConfigFromFile(path string) (*Config, error) {
	return loadConfig(path)
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.READ_TIMEOUT_SECONDS", 15)
	v.SetDefault("SERVER.WRITE_TIMEOUT_SECONDS", 30)
	v.SetDefault("SERVER.TRUSTED_PROXIES", []string{})
	v.SetDefault("DATABASE.DRIVER", DriverPostgres)
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "tutorhub_dev")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_CONNECTIONS", 10)
	v.SetDefault("DATABASE.MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("DATABASE.MONGO_DATABASE", "tutorhub")
	v.SetDefault("DATABASE.MONGO_COLLECTION", "testimonials")
	v.SetDefault("DATABASE.SQLITE_PATH", "tutorhub.db")
	v.SetDefault("REDIS.ADDRESS", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("STORAGE.PROVIDER", ProviderLocal)
	v.SetDefault("STORAGE.COLLECTION_FOLDER", TestimonialsFolder)
	v.SetDefault("STORAGE.S3_REGION", "us-east-1")
	v.SetDefault("STORAGE.LOCAL_BASE_PATH", "./uploads")
	v.SetDefault("UPLOAD.MAX_IMAGE_BYTES", DefaultMaxImageBytes)
	v.SetDefault("RATE_LIMIT.MUTATIONS_PER_WINDOW", 30)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.TRUSTED_PROXIES", "TRUSTED_PROXIES"},
		// Database config
		{"DATABASE.DRIVER", "DB_DRIVER"},
		{"DATABASE.HOST", "DB_HOST"},
		{"DATABASE.PORT", "DB_PORT"},
		{"DATABASE.USER", "DB_USER"},
		{"DATABASE.PASSWORD", "DB_PASSWORD"},
		{"DATABASE.NAME", "DB_NAME"},
		{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
		{"DATABASE.MONGO_URI", "MONGO_URI"},
		{"DATABASE.MONGO_DATABASE", "MONGO_DATABASE"},
		{"DATABASE.MONGO_COLLECTION", "MONGO_COLLECTION"},
		{"DATABASE.SQLITE_PATH", "SQLITE_PATH"},
		// Redis config
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Storage config
		{"STORAGE.PROVIDER", "STORAGE_PROVIDER"},
		{"STORAGE.BUCKET", "STORAGE_BUCKET"},
		{"STORAGE.PUBLIC_BASE_URL", "STORAGE_PUBLIC_BASE_URL"},
		{"STORAGE.COLLECTION_FOLDER", "STORAGE_COLLECTION_FOLDER"},
		{"STORAGE.R2_ACCOUNT_ID", "R2_ACCOUNT_ID"},
		{"STORAGE.ACCESS_KEY_ID", "STORAGE_ACCESS_KEY_ID"},
		{"STORAGE.SECRET_ACCESS_KEY", "STORAGE_SECRET_ACCESS_KEY"},
		{"STORAGE.S3_REGION", "S3_REGION"},
		{"STORAGE.SUPABASE_URL", "SUPABASE_URL"},
		{"STORAGE.SUPABASE_SERVICE_KEY", "SUPABASE_SERVICE_KEY"},
		{"STORAGE.LOCAL_BASE_PATH", "STORAGE_LOCAL_BASE_PATH"},
		// Upload and rate limit
		{"UPLOAD.MAX_IMAGE_BYTES", "UPLOAD_MAX_IMAGE_BYTES"},
		{"RATE_LIMIT.MUTATIONS_PER_WINDOW", "RATE_LIMIT_MUTATIONS_PER_WINDOW"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		log.Infow("Loaded config file", "path", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	applyDerivedDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"mongo_uri", logger.MaskConnectionString(cfg.Database.MongoURI),
		"redis_enabled", cfg.Redis.Enabled(),
		"storage_provider", cfg.Storage.Provider,
		"storage_public_base_url", cfg.Storage.PublicBaseURL,
		"max_image_bytes", cfg.Upload.MaxImageBytes,
	)
	return &cfg, nil
}

// applyDerivedDefaults fills values that depend on other settings.
func applyDerivedDefaults(cfg *Config) {
	s := &cfg.Storage
	if s.PublicBaseURL != "" {
		s.PublicBaseURL = strings.TrimRight(s.PublicBaseURL, "/")
		return
	}
	switch s.Provider {
	case ProviderLocal:
		s.PublicBaseURL = fmt.Sprintf("http://localhost:%s%s", cfg.Server.Port, LocalUploadsRoute)
	case ProviderS3:
		if s.Bucket != "" {
			s.PublicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.Bucket, s.S3Region)
		}
	case ProviderSupabase:
		if s.SupabaseURL != "" && s.Bucket != "" {
			s.PublicBaseURL = fmt.Sprintf("%s/storage/v1/object/public/%s", strings.TrimRight(s.SupabaseURL, "/"), s.Bucket)
		}
	}
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	if err := validateDatabase(&cfg.Database); err != nil {
		return err
	}
	if cfg.Database.Driver == DriverPostgres && cfg.Database.Password == "" {
		log.Warn("Database password is not set. Ensure this is intended (e.g., using trusted auth).")
	}

	if err := validateStorage(&cfg.Storage); err != nil {
		return err
	}

	if cfg.Upload.MaxImageBytes <= 0 {
		return fmt.Errorf("upload max image bytes must be positive")
	}
	if cfg.RateLimit.MutationsPerWindow <= 0 {
		return fmt.Errorf("rate limit mutations per window must be positive")
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window seconds must be positive")
	}
	if !cfg.Redis.Enabled() {
		log.Warn("Redis address not set, rate limiting is disabled")
	}
	return nil
}

func validateDatabase(db *DatabaseConfig) error {
	switch db.Driver {
	case DriverPostgres:
		if db.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if db.User == "" {
			return fmt.Errorf("database user is required")
		}
		if db.Name == "" {
			return fmt.Errorf("database name is required")
		}
		if db.MaxConnections <= 0 {
			return fmt.Errorf("database max connections must be positive")
		}
	case DriverMongo:
		if db.MongoURI == "" {
			return fmt.Errorf("mongo URI is required")
		}
		if db.MongoDatabase == "" || db.MongoCollection == "" {
			return fmt.Errorf("mongo database and collection are required")
		}
	case DriverSQLite:
		if db.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", db.Driver)
	}
	return nil
}

func validateStorage(s *StorageConfig) error {
	if s.CollectionFolder == "" {
		return fmt.Errorf("storage collection folder is required")
	}
	switch s.Provider {
	case ProviderR2:
		if s.R2AccountID == "" {
			return fmt.Errorf("r2 account ID is required")
		}
		if s.AccessKeyID == "" || s.SecretAccessKey == "" {
			return fmt.Errorf("r2 access key ID and secret are required")
		}
		if s.Bucket == "" {
			return fmt.Errorf("storage bucket is required")
		}
		if s.PublicBaseURL == "" {
			return fmt.Errorf("storage public base URL is required for r2")
		}
	case ProviderS3:
		if s.Bucket == "" {
			return fmt.Errorf("storage bucket is required")
		}
	case ProviderSupabase:
		if s.SupabaseURL == "" || s.SupabaseServiceKey == "" {
			return fmt.Errorf("supabase URL and service key are required")
		}
		if s.Bucket == "" {
			return fmt.Errorf("storage bucket is required")
		}
	case ProviderLocal:
		if s.LocalBasePath == "" {
			return fmt.Errorf("local storage base path is required")
		}
	default:
		return fmt.Errorf("unsupported storage provider: %q", s.Provider)
	}

	if _, err := url.ParseRequestURI(s.PublicBaseURL); err != nil {
		return fmt.Errorf("invalid storage public base URL '%s': %w", s.PublicBaseURL, err)
	}
	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
