package shopsync

import (
	"context"

	"github.com/quaylabs/shopsync/pkg/apply"
	"github.com/quaylabs/shopsync/pkg/catalog"
	"github.com/quaylabs/shopsync/pkg/differ"
	"github.com/quaylabs/shopsync/pkg/identity"
)

// ConfirmFunc is consulted with the pending changeset before anything is
// applied. Returning false aborts the run without touching the backend.
type ConfirmFunc func(changeset *differ.Changeset) bool

// SyncResult reports one sync run.
type SyncResult struct {
	// Changeset is the diff that drove the run.
	Changeset *differ.Changeset `json:"changeset"`

	// Applied is nil for dry runs, declined confirmations, and empty
	// diffs.
	Applied *apply.Result `json:"applied,omitempty"`

	// Declined is true when the confirmation callback rejected the
	// changeset.
	Declined bool `json:"declined,omitempty"`
}

// syncConfig carries per-run settings.
type syncConfig struct {
	dryRun   bool
	confirm  ConfirmFunc
	strategy differ.ApplyStrategy
}

// SyncOption configures a single sync run.
type SyncOption func(*syncConfig)

// WithDryRun computes and reports the diff without applying it.
func WithDryRun(enabled bool) SyncOption {
	return func(sc *syncConfig) {
		sc.dryRun = enabled
	}
}

// WithConfirm sets the confirmation callback. Without one, changes are
// applied unconditionally.
func WithConfirm(fn ConfirmFunc) SyncOption {
	return func(sc *syncConfig) {
		sc.confirm = fn
	}
}

// WithStrategy selects which diff buckets are applied.
func WithStrategy(strategy differ.ApplyStrategy) SyncOption {
	return func(sc *syncConfig) {
		sc.strategy = strategy
	}
}

// Diff implements Client.
func (c *client) Diff(ctx context.Context, local []catalog.Row) (*differ.Changeset, error) {
	remote, _, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	d := differ.New(differ.WithLogger(c.logger))
	return d.Rows(local, remote), nil
}

// Sync implements Client. The identity cache is seeded from the same
// catalog fetch the diff runs against, so cached identifiers and compared
// prices describe the same remote state.
func (c *client) Sync(ctx context.Context, local []catalog.Row, opts ...SyncOption) (*SyncResult, error) {
	sc := syncConfig{strategy: differ.ApplyAdditive}
	for _, opt := range opts {
		opt(&sc)
	}

	remote, entities, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	d := differ.New(differ.WithLogger(c.logger))
	changeset := d.Rows(local, remote)
	result := &SyncResult{Changeset: changeset}

	if changeset.IsEmpty() {
		c.logger.Info().Msg("local and remote are in sync")
		return result, nil
	}
	if sc.dryRun {
		c.logger.Info().Str("changes", changeset.String()).Msg("dry run, nothing applied")
		return result, nil
	}
	if sc.confirm != nil && !sc.confirm(changeset) {
		c.logger.Info().Msg("sync declined")
		result.Declined = true
		return result, nil
	}

	cache := identity.New()
	cache.Seed(entities)

	engine := apply.New(c.gateway, cache, apply.WithLogger(c.logger))
	applied, err := engine.Apply(ctx, changeset.Rows(sc.strategy))
	if err != nil {
		return result, err
	}
	result.Applied = applied
	return result, nil
}
