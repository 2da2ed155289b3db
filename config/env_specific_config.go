package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvType names a deployment whose settings live in config/config.<env>.yaml.
type EnvType string

const (
	Development EnvType = "dev"
	Staging     EnvType = "staging"
	Production  EnvType = "production"
)

// LoadConfigForEnv loads the YAML file for environment, with environment
// variables taking precedence.
func LoadConfigForEnv(environment string) (*Config, error) {
	configPath, err := getConfigPath(EnvType(environment))
	if err != nil {
		return nil, err
	}
	return LoadConfigFromFile(configPath)
}

func configFilename(env EnvType) (string, error) {
	switch env {
	case Development:
		return "config.dev.yaml", nil
	case Staging:
		return "config.staging.yaml", nil
	case Production:
		return "config.prod.yaml", nil
	default:
		return "", fmt.Errorf("unknown environment: %s", env)
	}
}

// getConfigPath resolves the config file, under /app/config inside containers.
func getConfigPath(env EnvType) (string, error) {
	configDir := "config"
	if os.Getenv("CONTAINER") == "true" {
		configDir = "/app/config"
	}

	filename, err := configFilename(env)
	if err != nil {
		return "", err
	}
	path := filepath.Join(configDir, filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("configuration file not found: %s", path)
	}
	return path, nil
}

// CreateConfigTemplateForEnvironment writes a starter YAML file for env into
// dir. Secrets are left as ${VAR} placeholders to be supplied by environment
// variables. An existing file is never overwritten.
func CreateConfigTemplateForEnvironment(env EnvType, dir string) (string, error) {
	filename, err := configFilename(env)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("configuration file already exists: %s", path)
	}

	out, err := yaml.Marshal(getConfigTemplate(env))
	if err != nil {
		return "", fmt.Errorf("failed to encode config template: %w", err)
	}
	header := fmt.Sprintf("# Config for %s environment\n", env)
	if err := os.WriteFile(path, append([]byte(header), out...), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config template: %w", err)
	}
	return path, nil
}

func getConfigTemplate(env EnvType) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Environment:         EnvDevelopment,
			Port:                "8080",
			AllowedOrigins:      []string{"http://localhost:3000"},
			Version:             "dev",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
		},
		Database: DatabaseConfig{
			Driver:         DriverSQLite,
			SQLitePath:     "tutorhub.db",
			MaxConnections: 10,
		},
		Storage: StorageConfig{
			Provider:         ProviderLocal,
			CollectionFolder: TestimonialsFolder,
			LocalBasePath:    "./uploads",
		},
		Upload:    UploadConfig{MaxImageBytes: DefaultMaxImageBytes},
		RateLimit: RateLimitConfig{MutationsPerWindow: 30, WindowSeconds: 60},
	}
	if env == Development {
		return cfg
	}

	origin := "https://staging.tutorhub.example"
	if env == Production {
		cfg.Server.Environment = EnvProduction
		origin = "https://tutorhub.example"
	}
	cfg.Server.AllowedOrigins = []string{origin}
	cfg.Database = DatabaseConfig{
		Driver:         DriverPostgres,
		Host:           "${DB_HOST}",
		Port:           5432,
		User:           "${DB_USER}",
		Password:       "${DB_PASSWORD}",
		Name:           "${DB_NAME}",
		SSLMode:        "require",
		MaxConnections: 20,
	}
	cfg.Redis = RedisConfig{Address: "${REDIS_ADDRESS}", Password: "${REDIS_PASSWORD}", UseTLS: true}
	cfg.Storage = StorageConfig{
		Provider:         ProviderR2,
		Bucket:           "${STORAGE_BUCKET}",
		PublicBaseURL:    "${STORAGE_PUBLIC_BASE_URL}",
		CollectionFolder: TestimonialsFolder,
		R2AccountID:      "${R2_ACCOUNT_ID}",
		AccessKeyID:      "${STORAGE_ACCESS_KEY_ID}",
		SecretAccessKey:  "${STORAGE_SECRET_ACCESS_KEY}",
	}
	return cfg
}
