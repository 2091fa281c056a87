package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
)

type Config struct {
	Port        string        `env:"PORT,         default=8080"`
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=24h"`
	AdminEmails []string      `env:"ADMIN_EMAILS, default=admin@deepmetric.com"`

	StorageDriver string `env:"STORAGE_DRIVER, default=memory"`
	CertIssuer    string `env:"CERT_ISSUER,    default=Deepmetric Analytics Institute"`

	Mongo  MongoConfig
	Redis  RedisConfig
	AI     AIConfig
	Notify NotifyConfig
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=deepmetric_portal"`
	Collection string `env:"MONGO_COLLECTION, default=portal_state"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Prefix   string `env:"REDIS_PREFIX,   default=portal:"`
}

type AIConfig struct {
	APIKey     string        `env:"OPENAI_API_KEY"`
	BaseURL    string        `env:"OPENAI_BASE_URL"`
	Model      string        `env:"OPENAI_MODEL,   default=gpt-4o-mini"`
	Timeout    time.Duration `env:"AI_TIMEOUT,     default=30s"`
	MaxRetries int           `env:"AI_MAX_RETRIES, default=2"`
	RPS        float64       `env:"AI_RPS,         default=2"`
}

type NotifyConfig struct {
	Workers int           `env:"NOTIFY_WORKERS, default=4"`
	TTL     time.Duration `env:"NOTIFY_TTL,     default=6s"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate rejects combinations the process cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverRedis, DriverMongo:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTSecret == "" && !c.IsDevelopment() {
		return fmt.Errorf("config: JWT_SECRET is required outside development")
	}
	if c.Notify.Workers <= 0 {
		return fmt.Errorf("config: NOTIFY_WORKERS must be positive")
	}
	return nil
}

// Load reads a best-effort .env file and then the environment using go-envconfig.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
