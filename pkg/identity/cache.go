// Package identity provides the run-scoped cache of resolved remote
// identifiers: variant IDs by (entity key, variant key), and the set of
// (entity, channel) pairs already confirmed published.
//
// The cache is seeded once per run from a full catalog fetch so the bulk of
// identifier resolution is O(1) lookups instead of per-row remote queries.
// Entries are append-only within a run and never re-checked remotely; the
// cache is discarded when apply completes. Single-threaded callers need no
// locking; a multi-worker caller must treat the cache as a critical section.
package identity

import (
	"strings"

	"github.com/quaylabs/shopsync/pkg/catalog"
)

// defaultVariantKey stands in for the absent variant key of an entity's
// default variant, so default variants are cacheable alongside SKU'd ones.
const defaultVariantKey = "__default__"

// variantRef addresses a variant by lowercased entity key and variant key.
type variantRef struct {
	entityKey  string
	variantKey string
}

// publishedRef addresses a confirmed (entity, channel) publication.
type publishedRef struct {
	entityID  catalog.EntityID
	channelID catalog.ChannelID
}

// Cache maps local keys to resolved remote identifiers for one run.
type Cache struct {
	variants  map[variantRef]catalog.VariantID
	published map[publishedRef]struct{}
}

// New creates an empty identity cache.
func New() *Cache {
	return &Cache{
		variants:  make(map[variantRef]catalog.VariantID),
		published: make(map[publishedRef]struct{}),
	}
}

// Seed populates the variant mapping from a full catalog fetch.
func (c *Cache) Seed(entities []catalog.Entity) {
	for _, entity := range entities {
		for _, variant := range entity.Variants {
			c.RecordVariant(entity.Key, variant.Key, variant.ID)
		}
	}
}

// ResolveVariant returns the cached variant identifier for the given entity
// and variant key, if any. An empty variant key addresses the entity's
// default variant.
func (c *Cache) ResolveVariant(entityKey, variantKey string) (catalog.VariantID, bool) {
	id, ok := c.variants[ref(entityKey, variantKey)]
	return id, ok
}

// RecordVariant records a resolved variant identifier.
func (c *Cache) RecordVariant(entityKey, variantKey string, id catalog.VariantID) {
	if id == "" {
		return
	}
	c.variants[ref(entityKey, variantKey)] = id
}

// IsPublished reports whether the (entity, channel) pair has already been
// confirmed published this run.
func (c *Cache) IsPublished(entityID catalog.EntityID, channelID catalog.ChannelID) bool {
	_, ok := c.published[publishedRef{entityID: entityID, channelID: channelID}]
	return ok
}

// MarkPublished records a confirmed (entity, channel) publication.
func (c *Cache) MarkPublished(entityID catalog.EntityID, channelID catalog.ChannelID) {
	if entityID == "" || channelID == "" {
		return
	}
	c.published[publishedRef{entityID: entityID, channelID: channelID}] = struct{}{}
}

// Variants returns the number of cached variant resolutions.
func (c *Cache) Variants() int {
	return len(c.variants)
}

func ref(entityKey, variantKey string) variantRef {
	if variantKey == "" {
		variantKey = defaultVariantKey
	}
	return variantRef{
		entityKey:  strings.ToLower(entityKey),
		variantKey: variantKey,
	}
}
