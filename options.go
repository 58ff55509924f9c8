package shopsync

import (
	"github.com/rs/zerolog"

	"github.com/quaylabs/shopsync/pkg/gateway"
)

// Option is a function that configures a Client.
type Option func(*client)

// WithGateway sets the remote backend adapter. Required.
func WithGateway(gw gateway.Gateway) Option {
	return func(c *client) {
		c.gateway = gw
	}
}

// WithRequiredChannels sets the channels that get placeholder rows for
// variants without any listing. Placeholders make unlisted variants visible
// in the local sheet so an operator can price them.
func WithRequiredChannels(channels ...string) Option {
	return func(c *client) {
		c.requiredChannels = channels
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *client) {
		if logger != nil {
			c.logger = logger
		}
	}
}
