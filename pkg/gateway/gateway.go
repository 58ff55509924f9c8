// Package gateway defines the capability interface the reconciliation core
// uses to talk to the remote catalog service. The exact transport is an
// implementation detail of the adapter; the core never assumes HTTP-level
// semantics.
package gateway

import (
	"context"

	"github.com/quaylabs/shopsync/pkg/catalog"
)

// Gateway exposes the remote catalog operations the core depends on.
//
// All methods return the shared error taxonomy from pkg/errors: lookups
// report misses as ErrNotFound, mutations rejected because the target state
// already exists return a ConflictError, and anything else surfaces as a
// GatewayError.
type Gateway interface {
	// FetchCatalog returns the full remote catalog: every entity with its
	// variants and per-channel price listings. Used to materialize the remote
	// row-set and to seed the identity cache once per run.
	FetchCatalog(ctx context.Context) ([]catalog.Entity, error)

	// FindEntityByKey resolves an entity by its human-readable key. The
	// lookup is case-sensitive on the remote side; callers that hold
	// case-normalized keys must retry with the lowercased form themselves.
	FindEntityByKey(ctx context.Context, key string) (*catalog.Entity, error)

	// ListChannels returns all sales channels.
	ListChannels(ctx context.Context) ([]catalog.Channel, error)

	// ChannelExists reports whether a channel identifier is valid.
	ChannelExists(ctx context.Context, id catalog.ChannelID) (bool, error)

	// CreateVariant creates a new variant under an entity with no attribute
	// bindings and returns its identifier.
	CreateVariant(ctx context.Context, entityID catalog.EntityID, variantKey, name string) (catalog.VariantID, error)

	// PublishEntityToChannel publishes a parent entity into a channel.
	PublishEntityToChannel(ctx context.Context, entityID catalog.EntityID, channelID catalog.ChannelID) error

	// SetVariantChannelPrice sets a variant's price in a channel. The price
	// is a pre-validated fixed two-decimal textual amount.
	SetVariantChannelPrice(ctx context.Context, variantID catalog.VariantID, channelID catalog.ChannelID, priceText string) error
}
