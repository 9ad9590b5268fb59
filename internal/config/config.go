package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppName string
	Port    string

	LogLevel  string
	LogFormat string

	Database Database
	Redis    Redis
	Auth     Auth

	// Materials below this stock are reported as low stock on the dashboard
	LowStockThreshold float64
	// How long a per-material commit lock may be held before it expires
	LockTTL time.Duration
}

type Database struct {
	Driver   string // postgres, mysql, sqlite
	URL      string // full DSN, wins over the parts below
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	TimeZone string
	LogLevel string
}

type Redis struct {
	Address  string
	Password string
	DB       int
}

type Auth struct {
	Enabled       bool
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "Factory Production Planner v1.0")
	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "factory")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_LOG_LEVEL", "warn")

	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("JWT_SECRET", "your-super-secret-key-change-in-production")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	v.SetDefault("LOW_STOCK_THRESHOLD", 10)
	v.SetDefault("LOCK_TTL", "10s")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional; real deployments pass plain env vars
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppName:   v.GetString("APP_NAME"),
		Port:      v.GetString("PORT"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		Database: Database{
			Driver:   v.GetString("DB_DRIVER"),
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			TimeZone: v.GetString("DB_TIMEZONE"),
			LogLevel: v.GetString("DB_LOG_LEVEL"),
		},
		Redis: Redis{
			Address:  v.GetString("REDIS_ADDRESS"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: Auth{
			Enabled:       v.GetBool("AUTH_ENABLED"),
			JWTSecret:     v.GetString("JWT_SECRET"),
			TokenTTL:      v.GetDuration("JWT_TTL"),
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
		LowStockThreshold: v.GetFloat64("LOW_STOCK_THRESHOLD"),
		LockTTL:           v.GetDuration("LOCK_TTL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (use postgres, mysql or sqlite)", c.Database.Driver)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED=true")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive, got %s", c.LockTTL)
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD cannot be negative")
	}
	return nil
}
