package store

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// Config selects and locates the backing database.
type Config struct {
	Type     string         `mapstructure:"type" validate:"required,oneof=sqlite postgresql postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgresql"`

	// ResolveConcurrency bounds parallel entity fetches in GetLinkedEntities.
	ResolveConcurrency int `mapstructure:"resolveConcurrency" validate:"min=0,max=32"`

	// Translation is the chapter listing translation. It is filled from
	// display.defaultTranslation, not read under database.
	Translation string `mapstructure:"-"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
}

// DSN returns a lib/pq connection URL.
func (c PostgresConfig) DSN() string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": []string{sslmode}}.Encode(),
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}
	return u.String()
}

// DSN returns the data source name for the configured backend.
func (c Config) DSN() (string, error) {
	d, err := DialectFor(c.Type)
	if err != nil {
		return "", err
	}
	switch d.Name() {
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return "", fmt.Errorf("sqlite path is required")
		}
		return c.SQLite.Path, nil
	default:
		return c.Postgres.DSN(), nil
	}
}

// New builds an unconnected store for cfg.
func New(cfg Config, opts ...Option) (*SQLStore, error) {
	d, err := DialectFor(cfg.Type)
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithResolveConcurrency(cfg.ResolveConcurrency), WithTranslation(cfg.Translation)}, opts...)
	return NewSQLStore(d, dsn, opts...), nil
}

// Open builds a store for cfg and connects it.
func Open(ctx context.Context, cfg Config, opts ...Option) (*SQLStore, error) {
	s, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
