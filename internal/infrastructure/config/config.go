package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT      JWTConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Login    LoginConfig
	Audit    AuditConfig
}

// JWTConfig holds the token signing settings. The secret is read once at
// startup and handed to the token service.
type JWTConfig struct {
	Secret        string `env:"JWT_SECRET, required"`
	Algorithm     string `env:"JWT_ALGORITHM,               default=HS256"`
	ExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=30"`
}

// devCredentials is the account baked into the local DSN defaults.
const devCredentials = "root:root@"

// DatabaseConfig holds the two independent MySQL stores.
type DatabaseConfig struct {
	UsersDSN  string `env:"DATABASE_URL,       default=root:root@tcp(localhost:3306)/users_db?charset=utf8mb4&parseTime=True&loc=UTC"`
	AdminsDSN string `env:"ADMIN_DATABASE_URL, default=root:root@tcp(localhost:3306)/admin_db?charset=utf8mb4&parseTime=True&loc=UTC"`
	MaxOpen   int    `env:"DB_MAX_OPEN_CONNS,  default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accounts_audit"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// LoginConfig controls failed-login lockout.
type LoginConfig struct {
	MaxFailures    int `env:"LOGIN_MAX_FAILURES,    default=5"`
	LockoutMinutes int `env:"LOGIN_LOCKOUT_MINUTES, default=15"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// TokenLifetime returns the configured access token lifetime.
func (c JWTConfig) TokenLifetime() time.Duration {
	return time.Duration(c.ExpireMinutes) * time.Minute
}

// LockoutWindow returns how long a locked-out username stays locked.
func (c LoginConfig) LockoutWindow() time.Duration {
	return time.Duration(c.LockoutMinutes) * time.Minute
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadDatabase reads only the store settings, for tools that never sign
// tokens and so have no JWT_SECRET.
func LoadDatabase(ctx context.Context) (*DatabaseConfig, error) {
	return loadDatabase(ctx, envconfig.OsLookuper())
}

func loadDatabase(ctx context.Context, lookuper envconfig.Lookuper) (*DatabaseConfig, error) {
	var cfg DatabaseConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWT.Algorithm)
	}
	if c.JWT.ExpireMinutes < 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must not be negative")
	}
	if c.Database.UsersDSN == "" || c.Database.AdminsDSN == "" {
		return errors.New("DATABASE_URL and ADMIN_DATABASE_URL are required")
	}
	if c.IsProduction() {
		if len(c.JWT.Secret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 bytes in production")
		}
		if strings.HasPrefix(c.Database.UsersDSN, devCredentials) || strings.HasPrefix(c.Database.AdminsDSN, devCredentials) {
			return errors.New("DATABASE_URL and ADMIN_DATABASE_URL must be set explicitly in production")
		}
	}
	if c.Login.MaxFailures <= 0 {
		return errors.New("LOGIN_MAX_FAILURES must be positive")
	}
	return nil
}
