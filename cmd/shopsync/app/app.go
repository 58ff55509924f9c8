// Package app provides the application context and dependency management
// for the shopsync CLI. It centralizes configuration, logging, and client
// construction so commands stay thin.
package app

import (
	"context"

	"github.com/rs/zerolog"

	shopsync "github.com/quaylabs/shopsync"
	"github.com/quaylabs/shopsync/internal/gateway/saleor"
	"github.com/quaylabs/shopsync/pkg/errors"
)

// App represents the shopsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Client instance (lazy-initialized)
	client shopsync.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Client returns the sync client, creating and authenticating it on first
// use. Commands that never touch the backend never pay for a login.
func (a *App) Client(ctx context.Context) (shopsync.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	if a.config.Endpoint == "" {
		return nil, errors.New("no endpoint configured: set SHOPSYNC_ENDPOINT or the endpoint key in ~/.shopsync.yaml")
	}

	gwOpts := []saleor.Option{
		saleor.WithLogger(a.logger),
	}
	if a.config.PageSize > 0 {
		gwOpts = append(gwOpts, saleor.WithPageSize(a.config.PageSize))
	}
	if a.config.Token != "" {
		gwOpts = append(gwOpts, saleor.WithToken(a.config.Token))
	}

	gw := saleor.New(a.config.Endpoint, gwOpts...)

	if a.config.Token == "" {
		if a.config.Email == "" || a.config.Password == "" {
			return nil, errors.New("no credentials configured: set SHOPSYNC_TOKEN, or SHOPSYNC_EMAIL and SHOPSYNC_PASSWORD")
		}
		if err := gw.Authenticate(ctx, a.config.Email, a.config.Password); err != nil {
			return nil, err
		}
	}

	client, err := shopsync.New(
		shopsync.WithGateway(gw),
		shopsync.WithRequiredChannels(a.config.RequiredChannels...),
		shopsync.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}

	a.client = client
	return client, nil
}
