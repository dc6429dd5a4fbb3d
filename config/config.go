// Package config provides Viper-based configuration management for blogly
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"blogly/models"
	"blogly/service"
)

// Config represents the complete blogly configuration
type Config struct {
	Server    ServerConfig   `mapstructure:"server"`
	SecretKey string         `mapstructure:"secret_key"`
	Database  DatabaseConfig `mapstructure:"database"`
	Redis     RedisConfig    `mapstructure:"redis"`
	MinIO     MinIOConfig    `mapstructure:"minio"`
	Users     UsersConfig    `mapstructure:"users"`
	Logging   LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DatabaseConfig selects the store. Driver "memory" is a private in-memory
// SQLite database and ignores DSN; "sqlite" takes a file DSN.
type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	Echo        bool   `mapstructure:"echo"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// RedisConfig backs flash messages. An empty Addr keeps them in memory.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinIOConfig enables avatar uploads when Endpoint is set.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	PublicURL string `mapstructure:"public_url"`
}

type UsersConfig struct {
	DefaultImageURL string `mapstructure:"default_image_url"`
	DeletePolicy    string `mapstructure:"delete_policy"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// Environment keys are the config keys upper-cased with dots replaced by
// underscores and prefixed with BLOGLY_, e.g. BLOGLY_DATABASE_DSN.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("blogly")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/blogly")
	}

	v.SetEnvPrefix("BLOGLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("secret_key", "SECRET!")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "root:123456@tcp(127.0.0.1:3306)/blogly?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("database.echo", false)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "blogly")
	v.SetDefault("minio.public_url", "http://127.0.0.1:9000")

	v.SetDefault("users.default_image_url", models.DefaultImageURL)
	v.SetDefault("users.delete_policy", string(service.DeleteRestrict))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func validate(cfg *Config) error {
	if cfg.SecretKey == "" {
		return errors.New("secret_key must not be empty")
	}

	validDrivers := map[string]bool{"mysql": true, "postgres": true, "postgresql": true, "sqlite": true, "memory": true}
	if !validDrivers[cfg.Database.Driver] {
		return fmt.Errorf("invalid database driver: %s (must be mysql, postgres, sqlite, or memory)", cfg.Database.Driver)
	}
	if cfg.Database.Driver != "memory" && cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for driver %s", cfg.Database.Driver)
	}

	if _, err := service.ParseDeletePolicy(cfg.Users.DeletePolicy); err != nil {
		return err
	}

	if cfg.MinIO.Endpoint != "" && cfg.MinIO.Bucket == "" {
		return errors.New("minio.bucket is required when minio.endpoint is set")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	return nil
}
