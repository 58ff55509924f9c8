// Package apply consumes a changeset and issues the remote mutations needed
// to realize it: creating missing variants, publishing parent entities into
// channels, and setting per-channel prices. Execution is sequential and
// best-effort; a row either completes its state machine or is skipped with a
// reason, and the run always finishes.
package apply

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quaylabs/shopsync/pkg/catalog"
	"github.com/quaylabs/shopsync/pkg/errors"
	"github.com/quaylabs/shopsync/pkg/gateway"
	"github.com/quaylabs/shopsync/pkg/identity"
	"github.com/quaylabs/shopsync/pkg/logging"
)

// Engine applies additions and updates against the remote gateway.
//
// The identity cache is injected per run and must be seeded from the same
// catalog fetch the diff was computed against. All variant creations complete
// before the first pricing call, so a price update never targets a
// not-yet-created variant.
type Engine struct {
	gateway gateway.Gateway
	cache   *identity.Cache
	logger  *zerolog.Logger

	// Channel list fetched lazily, at most once per run.
	channels       []catalog.Channel
	channelsLoaded bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an apply engine bound to a gateway and a run-scoped identity
// cache.
func New(gw gateway.Gateway, cache *identity.Cache, opts ...Option) *Engine {
	e := &Engine{
		gateway: gw,
		cache:   cache,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// item carries a row through the apply pipeline.
type item struct {
	row            catalog.Row
	state          State
	reason         string
	createdVariant bool
	awaiting       *createOp
}

// skip moves an item into the terminal Skipped state.
func (it *item) skip(reason string) {
	it.state = StateSkipped
	it.reason = reason
}

// createOp is one queued variant creation, shared by every pending row with
// the same (entity key, variant key).
type createOp struct {
	entityID   catalog.EntityID
	entityKey  string
	variantKey string
	name       string

	id  catalog.VariantID
	err error
}

// Apply runs the additions and updates through the per-row state machine and
// reports a best-effort outcome per row. Individual row failures never abort
// the run; only context cancellation does, returning the partial result.
func (e *Engine) Apply(ctx context.Context, rows []catalog.Row) (*Result, error) {
	result := &Result{Outcomes: []Outcome{}}
	items := make([]*item, len(rows))
	for i, row := range rows {
		items[i] = &item{row: row, state: StatePending}
	}

	// Resolve entity and variant identifiers, queueing creations for
	// variants that exist nowhere yet.
	queue := e.resolveIdentifiers(ctx, items)

	// Create all missing variants before any pricing call.
	e.createVariants(ctx, queue, items)

	// Publish and price row by row.
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !it.state.Terminal() {
			e.applyRow(ctx, it)
		}
		result.record(Outcome{
			Row:            it.row,
			State:          it.state,
			Reason:         it.reason,
			CreatedVariant: it.createdVariant,
		})
	}

	e.logger.Info().
		Int("priced", result.Priced).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("apply complete")

	return result, nil
}

// resolveIdentifiers fills in entity and variant identifiers for every item
// and returns the deduplicated list of variant creations still needed.
func (e *Engine) resolveIdentifiers(ctx context.Context, items []*item) []*createOp {
	type variantRef struct {
		entityKey  string
		variantKey string
	}
	queue := []*createOp{}
	queued := map[variantRef]*createOp{}

	for _, it := range items {
		row := &it.row

		if row.EntityID == "" {
			id, err := e.findEntity(ctx, row.EntityKey)
			if err != nil {
				e.logger.Warn().
					Str("row", row.Identity()).
					Err(err).
					Msg("skipping row: entity not found")
				it.skip("entity not found")
				continue
			}
			row.EntityID = id
		}
		it.state = StateEntityResolved

		if row.VariantID == "" {
			if id, ok := e.cache.ResolveVariant(row.EntityKey, row.VariantKey); ok {
				row.VariantID = id
			}
		}
		if row.VariantID != "" {
			it.state = StateVariantResolved
			continue
		}

		if row.VariantKey == "" {
			// No variant to price and no key to create one from.
			e.logger.Warn().
				Str("row", row.Identity()).
				Msg("skipping row: no variant and no SKU to create one")
			it.skip("no variant and no SKU to create one")
			continue
		}

		ref := variantRef{entityKey: strings.ToLower(row.EntityKey), variantKey: row.VariantKey}
		op, ok := queued[ref]
		if !ok {
			op = &createOp{
				entityID:   row.EntityID,
				entityKey:  row.EntityKey,
				variantKey: row.VariantKey,
				name:       row.Name,
			}
			queued[ref] = op
			queue = append(queue, op)
		}
		it.awaiting = op
	}

	return queue
}

// createVariants executes the queued creations and feeds new identifiers back
// into the cache and into every pending row sharing the same variant. A
// create failure skips only the rows depending on it.
func (e *Engine) createVariants(ctx context.Context, queue []*createOp, items []*item) {
	for _, op := range queue {
		name := op.name
		if name == "" {
			name = op.variantKey
		}

		e.logger.Info().
			Str("entity", op.entityKey).
			Str("sku", op.variantKey).
			Msg("creating missing variant")

		op.id, op.err = e.gateway.CreateVariant(ctx, op.entityID, op.variantKey, name)
		if op.err != nil {
			e.logger.Error().
				Str("entity", op.entityKey).
				Str("sku", op.variantKey).
				Err(op.err).
				Msg("variant create failed")
			continue
		}
		e.cache.RecordVariant(op.entityKey, op.variantKey, op.id)
	}

	for _, it := range items {
		if it.awaiting == nil {
			continue
		}
		if it.awaiting.err != nil {
			it.skip("variant create failed: " + it.awaiting.err.Error())
			continue
		}
		it.row.VariantID = it.awaiting.id
		it.createdVariant = true
		it.state = StateVariantResolved
	}
}

// applyRow walks one variant-resolved row through channel resolution,
// publication, and pricing.
func (e *Engine) applyRow(ctx context.Context, it *item) {
	row := &it.row

	if row.ChannelID == "" {
		id, err := e.resolveChannel(ctx, row.ChannelKey)
		if err != nil {
			e.logger.Warn().
				Str("row", row.Identity()).
				Err(err).
				Msg("skipping row: channel not found")
			it.skip("channel not found: " + row.ChannelKey)
			return
		}
		row.ChannelID = id
	} else if ok, err := e.gateway.ChannelExists(ctx, row.ChannelID); err != nil || !ok {
		it.skip("channel does not exist: " + row.ChannelKey)
		return
	}
	it.state = StateChannelResolved

	if err := e.ensurePublished(ctx, row); err != nil {
		e.logger.Warn().
			Str("row", row.Identity()).
			Err(err).
			Msg("skipping row: publish failed")
		it.skip("publish failed: " + err.Error())
		return
	}
	it.state = StatePublished

	// Price validation happens locally; invalid prices never reach the
	// gateway.
	priceText, err := catalog.PriceText(row.Price)
	if err != nil {
		e.logger.Warn().
			Str("row", row.Identity()).
			Str("price", row.Price).
			Msg("skipping row: invalid price")
		it.skip(err.Error())
		return
	}

	if err := e.gateway.SetVariantChannelPrice(ctx, row.VariantID, row.ChannelID, priceText); err != nil {
		e.logger.Error().
			Str("row", row.Identity()).
			Str("price", priceText).
			Err(err).
			Msg("price update failed")
		it.state = StateFailed
		it.reason = "price update failed: " + err.Error()
		return
	}

	e.logger.Info().
		Str("row", row.Identity()).
		Str("price", priceText).
		Msg("price updated")
	it.state = StatePriced
}

// findEntity resolves an entity by key, trying the key as given and then its
// lowercased form: the gateway is case-sensitive on this field while local
// data is not.
func (e *Engine) findEntity(ctx context.Context, key string) (catalog.EntityID, error) {
	var lastErr error
	for _, candidate := range []string{key, strings.ToLower(key)} {
		if candidate == "" {
			continue
		}
		entity, err := e.gateway.FindEntityByKey(ctx, candidate)
		if err == nil && entity != nil {
			return entity.ID, nil
		}
		lastErr = err
		if err != nil && !errors.IsNotFound(err) {
			return "", err
		}
		if candidate == strings.ToLower(key) {
			break
		}
	}
	if lastErr == nil {
		lastErr = errors.NewNotFoundError("entity", key)
	}
	return "", lastErr
}

// resolveChannel looks a channel up by display name or slug, exact match.
func (e *Engine) resolveChannel(ctx context.Context, nameOrKey string) (catalog.ChannelID, error) {
	if !e.channelsLoaded {
		channels, err := e.gateway.ListChannels(ctx)
		if err != nil {
			return "", err
		}
		e.channels = channels
		e.channelsLoaded = true
	}

	for _, channel := range e.channels {
		if channel.Matches(nameOrKey) {
			return channel.ID, nil
		}
	}
	return "", errors.NewNotFoundError("channel", nameOrKey)
}

// ensurePublished publishes the parent entity into the channel unless the
// cache already confirmed the pair this run. A conflict from the gateway
// means the listing already exists and counts as success.
func (e *Engine) ensurePublished(ctx context.Context, row *catalog.Row) error {
	if e.cache.IsPublished(row.EntityID, row.ChannelID) {
		return nil
	}

	err := e.gateway.PublishEntityToChannel(ctx, row.EntityID, row.ChannelID)
	if err != nil && !errors.IsConflict(err) {
		return err
	}
	if errors.IsConflict(err) {
		e.logger.Debug().
			Str("row", row.Identity()).
			Msg("entity already published to channel")
	}

	e.cache.MarkPublished(row.EntityID, row.ChannelID)
	return nil
}
