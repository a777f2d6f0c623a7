// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"time"
)

// DB holds database connection settings.
type DB struct {
	Url string `envconfig:"URL"`
}

// Server holds listener settings for the (external) transport layer.
type Server struct {
	Host string `envconfig:"HOST" default:"localhost"`
	Port int    `envconfig:"PORT" default:"3000"`
}

// Log holds logger settings.
type Log struct {
	Level  int    `envconfig:"LEVEL" default:"0"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// CurrencyAPI configures the outbound currency conversion provider.
type CurrencyAPI struct {
	BaseURL     string        `envconfig:"BASE_URL" default:"https://hexarate.paikama.co/api/rates/latest"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

// Validation configures token lifetimes per validation kind.
type Validation struct {
	VerifyEmailTTL time.Duration `envconfig:"VERIFY_EMAIL_TTL" default:"24h"`
	AddAccountTTL  time.Duration `envconfig:"ADD_ACCOUNT_TTL" default:"72h"`
	TokenBytes     int           `envconfig:"TOKEN_BYTES" default:"16"`
}

// Account configures account lifecycle behavior.
type Account struct {
	// DeleteGrace is how long a soft-deleted account lingers before its
	// scheduled deletion date.
	DeleteGrace time.Duration `envconfig:"DELETE_GRACE" default:"720h"`
}

// App is the root configuration.
type App struct {
	Env         string      `envconfig:"APP_ENV" default:"development"`
	Server      *Server     `envconfig:"SERVER"`
	Log         *Log        `envconfig:"LOG"`
	DB          *DB         `envconfig:"DATABASE"`
	CurrencyAPI *CurrencyAPI `envconfig:"CURRENCY_API"`
	Validation  *Validation `envconfig:"VALIDATION"`
	Account     *Account    `envconfig:"ACCOUNT"`
}
