package server

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/garrettladley/linebot/internal/config"
	appenv "github.com/garrettladley/linebot/internal/env"
	xredis "github.com/garrettladley/linebot/internal/redis"
)

var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required in production")

type Config struct {
	Port     string             `env:"PORT" envDefault:"8080"`
	Env      appenv.Environment `env:"ENV" envDefault:"development"`
	LINE     config.Channel     `envPrefix:"LINE_"`
	Webhook  Webhook            `envPrefix:"WEBHOOK_"`
	Echo     bool               `env:"ECHO_ENABLED" envDefault:"true"`
	DedupTTL time.Duration      `env:"DEDUP_TTL" envDefault:"24h"`
	Redis    xredis.Config      `envPrefix:"REDIS_"`
	Database Database           `envPrefix:"DATABASE_"`
	SQLite   SQLite             `envPrefix:"SQLITE_"`
}

type Webhook struct {
	Path         string        `env:"PATH" envDefault:"/callback"`
	MaxBodyBytes int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
}

type Database struct {
	URL string `env:"URL"`
}

// SQLite.Path defaults to paths.EventDB when unset.
type SQLite struct {
	Path string `env:"PATH"`
}

// UsePostgres reports whether the event log lives in Postgres rather than SQLite.
func (c Config) UsePostgres() bool {
	return c.Database.URL != ""
}

func (c Config) Validate() error {
	if err := c.LINE.Validate(); err != nil {
		return err
	}
	if c.Env.IsProduction() && !c.UsePostgres() {
		return ErrMissingDatabaseURL
	}
	return nil
}

func ReadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
