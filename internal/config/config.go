package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StoreRedis   = "redis"
	StoreMemory  = "memory"
	StoreMongoDB = "mongodb"

	PasswordBase64 = "base64"
	PasswordBcrypt = "bcrypt"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host         string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port         string `env:"SERVER_PORT" envDefault:"8001"`
	RateLimitMax int    `env:"RATE_LIMIT_MAX" envDefault:"120"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// SessionConfig controls the session store. The timeout is the same for
// development and production.
type SessionConfig struct {
	Store     string        `env:"SESSION_STORE" envDefault:"redis"`
	Timeout   time.Duration `env:"SESSION_TIMEOUT" envDefault:"24h"`
	KeyPrefix string        `env:"SESSION_KEY_PREFIX" envDefault:"session:"`
}

// RedisConfig holds connection and pool settings for go-redis.
type RedisConfig struct {
	Host            string `env:"REDIS_HOST" envDefault:"localhost"`
	Port            string `env:"REDIS_PORT" envDefault:"6379"`
	Password        string `env:"REDIS_PASSWORD"`
	Database        int    `env:"REDIS_DB" envDefault:"0"`
	MaxRetries      int    `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	PoolSize        int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns    int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	EnableTLS       bool   `env:"REDIS_ENABLE_TLS" envDefault:"false"`
	ConnMaxIdleTime string `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"30m"`
	ConnMaxLifetime string `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"1h"`
	StreamMaxLength int64  `env:"REDIS_STREAM_MAX_LENGTH" envDefault:"10000"`
}

// GetAddr returns host:port.
func (r *RedisConfig) GetAddr() string {
	return r.Host + ":" + r.Port
}

// MongoConfig selects and configures the document store.
type MongoConfig struct {
	Store        string `env:"DOCUMENT_STORE" envDefault:"mongodb"`
	URI          string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"todo_mbaas"`
}

// RealtimeConfig holds the ToDo change feed settings.
type RealtimeConfig struct {
	WebSocketPath           string        `env:"WEBSOCKET_PATH" envDefault:"/ws/v1/todos"`
	ClientSendChannelBuffer int           `env:"CLIENT_SEND_CHANNEL_BUFFER" envDefault:"10"`
	SessionCheckInterval    time.Duration `env:"SESSION_CHECK_INTERVAL" envDefault:"30s"`
}

// SecurityConfig holds authentication settings.
type SecurityConfig struct {
	PasswordEncoding string `env:"PASSWORD_ENCODING" envDefault:"base64"`
	AccessRule       string `env:"ACCESS_RULE"`
}

// DataConfig holds seeding and fan-out settings.
type DataConfig struct {
	SeedMasterData   bool `env:"SEED_MASTER_DATA" envDefault:"true"`
	FetchConcurrency int  `env:"FETCH_CONCURRENCY" envDefault:"5"`
	SeedConcurrency  int  `env:"SEED_CONCURRENCY" envDefault:"2"`
}

// LogConfig selects the application log level and line format. An empty
// format means json in production and text otherwise.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT"`
}

// AppConfig is the complete process configuration.
type AppConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      ServerConfig
	Session     SessionConfig
	Redis       RedisConfig
	Mongo       MongoConfig
	Realtime    RealtimeConfig
	Security    SecurityConfig
	Data        DataConfig
	Log         LogConfig
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerations and numeric bounds after parsing.
func (c *AppConfig) Validate() error {
	c.Environment = strings.ToLower(c.Environment)
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("ENVIRONMENT must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Environment)
	}
	if c.Session.Store != StoreRedis && c.Session.Store != StoreMemory {
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", StoreRedis, StoreMemory, c.Session.Store)
	}
	if c.Session.Timeout <= 0 {
		return errors.New("SESSION_TIMEOUT must be positive")
	}
	if c.Mongo.Store != StoreMongoDB && c.Mongo.Store != StoreMemory {
		return fmt.Errorf("DOCUMENT_STORE must be %q or %q, got %q", StoreMongoDB, StoreMemory, c.Mongo.Store)
	}
	if c.Mongo.Store == StoreMongoDB && c.Mongo.URI == "" {
		return errors.New("MONGODB_URI is required when DOCUMENT_STORE is mongodb")
	}
	if c.Security.PasswordEncoding != PasswordBase64 && c.Security.PasswordEncoding != PasswordBcrypt {
		return fmt.Errorf("PASSWORD_ENCODING must be %q or %q, got %q", PasswordBase64, PasswordBcrypt, c.Security.PasswordEncoding)
	}
	if c.Data.FetchConcurrency <= 0 || c.Data.SeedConcurrency <= 0 {
		return errors.New("FETCH_CONCURRENCY and SEED_CONCURRENCY must be positive")
	}
	if c.Realtime.WebSocketPath == "" {
		c.Realtime.WebSocketPath = "/ws/v1/todos"
	}
	if c.Realtime.ClientSendChannelBuffer <= 0 {
		c.Realtime.ClientSendChannelBuffer = 10
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
	if c.Log.Format == "" {
		c.Log.Format = "text"
		if c.IsProduction() {
			c.Log.Format = "json"
		}
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", "json", "text", c.Log.Format)
	}
	if c.Realtime.SessionCheckInterval <= 0 {
		c.Realtime.SessionCheckInterval = 30 * time.Second
	}
	if c.Redis.StreamMaxLength <= 0 {
		c.Redis.StreamMaxLength = 10000
	}
	return nil
}
