package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-only-insecure-secret"

type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`
	Port int    `env:"PORT" envDefault:"3000"`

	DB        DBConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Admin     AdminConfig

	BcryptCost         int      `env:"BCRYPT_COST" envDefault:"10"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxBodyBytes       int64    `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	OtelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OtelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OtelSampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
}

type DBConfig struct {
	Driver      string `env:"DB_DRIVER" envDefault:"postgres"` // postgres | sqlite | memory
	Host        string `env:"DB_HOST" envDefault:"127.0.0.1"`
	Port        string `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"DB_USER" envDefault:"taskhub"`
	Password    string `env:"DB_PASSWORD" envDefault:"taskhub"`
	Name        string `env:"DB_NAME" envDefault:"taskhub"`
	SSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	Migrations  string `env:"DB_MIGRATIONS"` // directory override; embedded migrations otherwise
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	Logging     bool   `env:"DB_LOGGING" envDefault:"false"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"taskhub.db"`

	MaxConns       int32         `env:"DB_MAX_CONNS" envDefault:"5"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`
}

type JWTConfig struct {
	Secret    string        `env:"JWT_SECRET"`
	ExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"24h"`
}

type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"10"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
	Name     string `env:"ADMIN_NAME" envDefault:"Administrator"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	return Parse()
}

func Parse() (Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("DB_DRIVER must be one of postgres, sqlite, memory (got %q)", c.DB.Driver)
	}

	if strings.TrimSpace(c.JWT.Secret) == "" {
		if !c.IsDevLike() {
			return errors.New("JWT_SECRET is required outside dev/test")
		}
		c.JWT.Secret = devJWTSecret
	}

	if c.JWT.ExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}

	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}

	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}

	return nil
}

func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "test"
}

// DBURL is the pgx connection string for the postgres driver.
func (c Config) DBURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     c.DB.Host + ":" + c.DB.Port,
		Path:     "/" + c.DB.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.DB.SSLMode),
	}

	return u.String()
}
