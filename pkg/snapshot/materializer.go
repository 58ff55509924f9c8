// Package snapshot turns the gateway's nested catalog payload into the flat
// row-set the differ compares against the local table.
package snapshot

import (
	"strconv"

	"github.com/quaylabs/shopsync/pkg/catalog"
)

// Materializer flattens catalog entities into comparison rows.
//
// Variants with at least one channel listing emit one row per listing, with
// the listing amount rounded half-up to the nearest integer. Variants with no
// listings, and entities with no variants at all, emit one zero-price
// placeholder row per required channel so every catalog item is representable
// in the diff before it has ever been priced anywhere. Entity keys are
// lowercased here, exactly once; all downstream comparison is case-insensitive
// on entity identity.
type Materializer struct {
	requiredChannels []string
}

// New creates a Materializer.
func New(opts ...Option) *Materializer {
	m := &Materializer{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Rows flattens the catalog payload into comparison rows.
func (m *Materializer) Rows(entities []catalog.Entity) []catalog.Row {
	rows := []catalog.Row{}

	for _, entity := range entities {
		key := entity.NormalizedKey()

		if len(entity.Variants) == 0 {
			rows = append(rows, m.placeholders(catalog.Row{
				EntityKey: key,
				EntityID:  entity.ID,
				Name:      entity.Name,
			})...)
			continue
		}

		for _, variant := range entity.Variants {
			base := catalog.Row{
				EntityKey:  key,
				EntityID:   entity.ID,
				VariantID:  variant.ID,
				VariantKey: variant.Key,
				Name:       variant.Name,
			}

			if len(variant.Listings) == 0 {
				rows = append(rows, m.placeholders(base)...)
				continue
			}

			for _, listing := range variant.Listings {
				row := base
				row.ChannelID = listing.Channel.ID
				row.ChannelKey = listing.Channel.Name
				if row.ChannelKey == "" {
					row.ChannelKey = listing.Channel.Key
				}
				row.Price = strconv.FormatInt(catalog.RoundAmount(listing.Price.Amount), 10)
				rows = append(rows, row)
			}
		}
	}

	return rows
}

// placeholders emits one zero-price row per required channel for a variant or
// entity that has no real listing yet. Channel IDs stay empty; the apply
// engine resolves them by name when the row ever becomes actionable.
func (m *Materializer) placeholders(base catalog.Row) []catalog.Row {
	rows := make([]catalog.Row, 0, len(m.requiredChannels))
	for _, channel := range m.requiredChannels {
		row := base
		row.ChannelKey = channel
		row.ChannelID = ""
		row.Price = "0"
		rows = append(rows, row)
	}
	return rows
}
