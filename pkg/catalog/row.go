package catalog

import "strings"

// Row is the flat comparison unit combining entity, variant, channel, and
// price. Identifier fields are empty until resolved against the gateway.
// Price is kept as the textual display value from the local table; see
// ComparablePrice for how rows are compared.
type Row struct {
	EntityKey  string `json:"entity_key"`
	EntityID   string `json:"entity_id,omitempty"`
	VariantID  string `json:"variant_id,omitempty"`
	VariantKey string `json:"sku,omitempty"`
	Name       string `json:"name"`
	ChannelKey string `json:"channel_name"`
	ChannelID  string `json:"channel_id,omitempty"`
	Price      string `json:"price"`
}

// Key uniquely addresses a row for comparison: the variant key when present,
// otherwise the lowercased entity key, paired with the channel.
type Key struct {
	Match   string
	Channel string
}

// MatchKey returns the row's match key: the variant key (SKU) when present,
// else the lowercased entity key for default-variant rows.
func (r Row) MatchKey() string {
	if r.VariantKey != "" {
		return r.VariantKey
	}
	return strings.ToLower(r.EntityKey)
}

// Key returns the row's comparison key. The second return is false for rows
// with no channel, which are unusable for comparison and must be discarded.
func (r Row) Key() (Key, bool) {
	if r.ChannelKey == "" {
		return Key{}, false
	}
	return Key{Match: r.MatchKey(), Channel: r.ChannelKey}, true
}

// Identity renders the row's identity for logs and skip reasons.
func (r Row) Identity() string {
	id := strings.ToLower(r.EntityKey)
	if r.VariantKey != "" {
		id = r.VariantKey
	}
	if r.ChannelKey != "" {
		return id + "/" + r.ChannelKey
	}
	return id
}
