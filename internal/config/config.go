package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Supported values for STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds the environment-driven settings of the server.
type Config struct {
	Port string

	// Store
	StoreDriver  string
	MongoURI     string
	DBUser       string
	DBPass       string
	DBHost       string
	DBName       string
	DBCollection string
	DatabaseDSN  string

	// Token signing secret. Empty means /jwt cannot issue tokens.
	AccessTokenSecret string

	// Toy events
	RabbitMQURL      string
	ConsumeToyEvents bool

	SentryDSN string
	AppEnv    string
	LogLevel  string
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("PORT", "5000")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("DB_HOST", "cluster0.flnxgoi.mongodb.net")
	v.SetDefault("DB_NAME", "toyland")
	v.SetDefault("DB_COLLECTION", "toys")
	v.SetDefault("TOY_EVENTS_CONSUME", false)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	cfg := &Config{
		Port:              strings.TrimPrefix(v.GetString("PORT"), ":"),
		StoreDriver:       strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		MongoURI:          v.GetString("MONGODB_URI"),
		DBUser:            v.GetString("DB_USER"),
		DBPass:            v.GetString("DB_PASS"),
		DBHost:            v.GetString("DB_HOST"),
		DBName:            v.GetString("DB_NAME"),
		DBCollection:      v.GetString("DB_COLLECTION"),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		AccessTokenSecret: v.GetString("ACCESS_TOKEN_SECRET"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		ConsumeToyEvents:  v.GetBool("TOY_EVENTS_CONSUME"),
		SentryDSN:         v.GetString("SENTRY_DSN"),
		AppEnv:            v.GetString("APP_ENV"),
		LogLevel:          v.GetString("LOG_LEVEL"),
	}

	switch cfg.StoreDriver {
	case DriverMongo, DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseDSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required when STORE_DRIVER is %q", DriverPostgres)
		}
	case DriverSQLite:
		if cfg.DatabaseDSN == "" {
			cfg.DatabaseDSN = "toyland.db"
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// MongoConnectionString returns MONGODB_URI when set, otherwise an Atlas SRV URI
// built from the credential parts.
func (c *Config) MongoConnectionString() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPass), c.DBHost)
}
