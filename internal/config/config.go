// Package config loads the service configuration from defaults, an optional
// config.yaml, a .env file and CATALOG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Uploads   UploadsConfig
	Pricing   PricingConfig
	Identity  IdentityConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver       string
	URL          string
	QueryTimeout time.Duration
}

type RedisConfig struct {
	Enabled     bool
	URL         string
	ActivityKey string
	ActivityMax int64
}

type UploadsConfig struct {
	Dir       string
	URLPrefix string
}

type PricingConfig struct {
	DefaultTaxPercentage float64
}

type IdentityConfig struct {
	User string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type LogConfig struct {
	Mode  string
	Level string
	File  string
}

// Load reads the configuration. A missing .env or config.yaml is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.url", "CATALOG_DATABASE_URL", "DATABASE_URL")

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "pgx")
	v.SetDefault("database.url", "")
	v.SetDefault("database.query_timeout", 3*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.activity_key", "catalog:activity")
	v.SetDefault("redis.activity_max", 500)

	v.SetDefault("uploads.dir", filepath.Join(cwd, "uploads"))
	v.SetDefault("uploads.url_prefix", "/uploads")

	v.SetDefault("pricing.default_tax_percentage", 18.0)
	v.SetDefault("identity.user", currentUser())

	v.SetDefault("rate_limit.rps", 5.0)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("database.driver")),
			URL:          v.GetString("database.url"),
			QueryTimeout: v.GetDuration("database.query_timeout"),
		},
		Redis: RedisConfig{
			Enabled:     v.GetBool("redis.enabled"),
			URL:         v.GetString("redis.url"),
			ActivityKey: v.GetString("redis.activity_key"),
			ActivityMax: v.GetInt64("redis.activity_max"),
		},
		Uploads: UploadsConfig{
			Dir:       v.GetString("uploads.dir"),
			URLPrefix: v.GetString("uploads.url_prefix"),
		},
		Pricing: PricingConfig{
			DefaultTaxPercentage: v.GetFloat64("pricing.default_tax_percentage"),
		},
		Identity: IdentityConfig{
			User: v.GetString("identity.user"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("rate_limit.rps"),
			Burst: v.GetInt("rate_limit.burst"),
		},
		Log: LogConfig{
			Mode:  v.GetString("log.mode"),
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
	}

	switch cfg.Database.Driver {
	case "pgx", "mysql":
	case "postgres", "postgresql":
		cfg.Database.Driver = "pgx"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Database.Driver)
	}

	return cfg, nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "system"
}
