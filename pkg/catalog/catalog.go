// Package catalog defines the domain types shared across the shopsync system:
// the nested catalog shapes returned by the remote gateway (Entity, Variant,
// Listing, Channel) and the flat Row used for local/remote comparison.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// EntityID is a remote identifier for a catalog entity.
type EntityID = string

// VariantID is a remote identifier for a catalog variant.
type VariantID = string

// ChannelID is a remote identifier for a sales channel.
type ChannelID = string

// Channel is a sales context into which an entity must be published before
// any of its variants can carry a price.
type Channel struct {
	ID   ChannelID `json:"id"`
	Name string    `json:"name"`
	Key  string    `json:"key"`
}

// Matches reports whether the channel answers to the given human-readable
// name or slug. The comparison is exact, matching the gateway's own lookup.
func (c Channel) Matches(nameOrKey string) bool {
	return nameOrKey != "" && (c.Name == nameOrKey || c.Key == nameOrKey)
}

// Money is a decimal amount in a named currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Listing associates a variant with a channel and a price.
type Listing struct {
	Channel Channel `json:"channel"`
	Price   Money   `json:"price"`
}

// Variant is a sellable unit under an entity, optionally identified by a
// stable SKU. A variant with an empty Key is the entity's default variant.
type Variant struct {
	ID       VariantID `json:"id"`
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Listings []Listing `json:"listings"`
}

// Entity is a catalog item that may have multiple variants.
type Entity struct {
	ID       EntityID  `json:"id"`
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Variants []Variant `json:"variants"`
}

// NormalizedKey returns the entity key lowercased. Entity identity is
// case-insensitive throughout the system; the gateway is not.
func (e Entity) NormalizedKey() string {
	return strings.ToLower(e.Key)
}
