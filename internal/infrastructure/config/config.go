package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	LogFile   string        `env:"LOG_FILE"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTTTL    time.Duration `env:"JWT_TTL,   default=24h"`

	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Mongo MongoConfig
	Redis RedisConfig
	Seed  SeedConfig

	BcryptCost int `env:"BCRYPT_COST, default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_admin"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED,  default=true"`
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	RoleTTL  time.Duration `env:"ROLE_CACHE_TTL, default=1h"`
}

type SeedConfig struct {
	Enabled       bool   `env:"SEED_ENABLED,        default=true"`
	UserPassword  string `env:"SEED_USER_PASSWORD,  default=user"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD, default=admin"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UsesDefaultSeedPasswords reports whether either seeded account would get
// the password equal to its username.
func (c *Config) UsesDefaultSeedPasswords() bool {
	return c.Seed.UserPassword == "user" || c.Seed.AdminPassword == "admin"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from the given lookuper. Tests pass an
// envconfig.MapLookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}
