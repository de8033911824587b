package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/garrettladley/linebot/api"
)

var (
	ErrMissingChannelID     = errors.New("LINE_CHANNEL_ID is not set")
	ErrMissingChannelSecret = errors.New("LINE_CHANNEL_SECRET is not set")
	ErrMissingChannelMID    = errors.New("LINE_CHANNEL_MID is not set")
)

// Channel holds the bot credentials and API endpoints, read from LINE_*.
type Channel struct {
	ID              string        `env:"CHANNEL_ID"`
	Secret          string        `env:"CHANNEL_SECRET"`
	MID             string        `env:"CHANNEL_MID"`
	ProfileEndpoint string        `env:"PROFILE_ENDPOINT" envDefault:"https://trialbot-api.line.me/v1/profiles"`
	EventEndpoint   string        `env:"EVENT_ENDPOINT" envDefault:"https://trialbot-api.line.me/v1/events"`
	Timeout         time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Validate reports the first missing credential needed to call the API.
func (c Channel) Validate() error {
	switch {
	case c.ID == "":
		return ErrMissingChannelID
	case c.Secret == "":
		return ErrMissingChannelSecret
	case c.MID == "":
		return ErrMissingChannelMID
	}
	return nil
}

func (c Channel) API() api.Channel {
	return api.Channel{ID: c.ID, Secret: c.Secret, MID: c.MID}
}

func (c Channel) ClientOptions() []api.Option {
	return []api.Option{
		api.WithProfileEndpoint(c.ProfileEndpoint),
		api.WithEventEndpoint(c.EventEndpoint),
		api.WithTimeout(c.Timeout),
	}
}

// Config is what the CLI needs.
type Config struct {
	LINE Channel `envPrefix:"LINE_"`
}

func Read() (Config, error) {
	return env.ParseAs[Config]()
}
