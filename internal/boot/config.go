package boot

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

type Config struct {
	Env    string `env:"ENV,default=dev"`
	Server struct {
		Port        string `env:"PORT,default=8080"`
		MetricsPort string `env:"METRICS_PORT,default=8081"`
		ViewsDir    string `env:"VIEWS_DIR,default=ui/views"`
		StaticDir   string `env:"STATIC_DIR,default=ui/static"`
	}
	Database struct {
		Driver string `env:"DB_DRIVER,default=sqlite3"`
		URL    string `env:"DATABASE_URL,default=file:blogger.db?_foreign_keys=on"`
	}
	Session struct {
		Key    string        `env:"SESSION_KEY"`
		MaxAge time.Duration `env:"SESSION_MAX_AGE,default=168h"`
	}
	BcryptCost int `env:"BCRYPT_COST,default=12"`
}

func Load() (*Config, error) {
	return LoadWith(envconfig.OsLookuper())
}

// LoadWith reads the configuration from l, validates it and fills in a
// random session key when none is configured.
func LoadWith(l envconfig.Lookuper) (*Config, error) {
	config := &Config{}
	if err := envconfig.ProcessWith(context.Background(), config, l); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}

	switch config.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}

	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost out of range: %d", config.BcryptCost)
	}

	if config.Session.MaxAge <= 0 {
		return nil, fmt.Errorf("session max age must be positive: %s", config.Session.MaxAge)
	}

	if config.Session.Key == "" {
		log.Warn("no session key configured, generating a random one; sessions will not survive a restart")
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating session key: %w", err)
		}
		config.Session.Key = hex.EncodeToString(key)
	}

	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "dev"
}
