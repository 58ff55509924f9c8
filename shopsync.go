// Package shopsync reconciles a locally edited price sheet against a remote
// commerce backend. The local CSV is the source of truth for prices and
// channel availability; the backend is the source of truth for identifiers.
// A sync run fetches the remote catalog, diffs it against the local rows,
// and applies additions and price updates through a gateway. Removals are
// reported but never applied.
package shopsync

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/quaylabs/shopsync/pkg/catalog"
	"github.com/quaylabs/shopsync/pkg/differ"
	"github.com/quaylabs/shopsync/pkg/errors"
	"github.com/quaylabs/shopsync/pkg/gateway"
	"github.com/quaylabs/shopsync/pkg/logging"
	"github.com/quaylabs/shopsync/pkg/snapshot"
)

// Client is the top-level entry point for snapshot, diff, and sync runs.
type Client interface {
	// Snapshot fetches the remote catalog and flattens it into rows,
	// identifiers included.
	Snapshot(ctx context.Context) ([]catalog.Row, error)

	// Diff fetches the remote catalog and compares the local rows
	// against it.
	Diff(ctx context.Context, local []catalog.Row) (*differ.Changeset, error)

	// Sync diffs the local rows against the remote catalog and applies
	// the changes. See SyncOption for dry-run and confirmation control.
	Sync(ctx context.Context, local []catalog.Row, opts ...SyncOption) (*SyncResult, error)
}

// client is the internal implementation of the Client interface.
type client struct {
	gateway          gateway.Gateway
	requiredChannels []string
	logger           *zerolog.Logger
}

// New creates a Client. A gateway is required.
func New(opts ...Option) (Client, error) {
	c := &client{
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.gateway == nil {
		return nil, errors.New("a gateway is required")
	}
	return c, nil
}

// Snapshot implements Client.
func (c *client) Snapshot(ctx context.Context) ([]catalog.Row, error) {
	rows, _, err := c.fetch(ctx)
	return rows, err
}

// fetch pulls the remote catalog once and returns both the flattened rows
// and the entities they came from, so callers can seed caches without a
// second round trip.
func (c *client) fetch(ctx context.Context) ([]catalog.Row, []catalog.Entity, error) {
	entities, err := c.gateway.FetchCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}

	materializer := snapshot.New(snapshot.WithRequiredChannels(c.requiredChannels...))
	rows := materializer.Rows(entities)

	c.logger.Debug().
		Int("entities", len(entities)).
		Int("rows", len(rows)).
		Msg("remote snapshot materialized")
	return rows, entities, nil
}
