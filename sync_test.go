package shopsync_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shopsync "github.com/quaylabs/shopsync"
	"github.com/quaylabs/shopsync/pkg/catalog"
	"github.com/quaylabs/shopsync/pkg/differ"
	"github.com/quaylabs/shopsync/pkg/errors"
	"github.com/quaylabs/shopsync/pkg/gateway"
)

// stubGateway serves a fixed catalog and records mutations.
type stubGateway struct {
	entities []catalog.Entity
	channels []catalog.Channel

	created   int
	published int
	priced    []string
}

var _ gateway.Gateway = (*stubGateway)(nil)

func (s *stubGateway) FetchCatalog(_ context.Context) ([]catalog.Entity, error) {
	return s.entities, nil
}

func (s *stubGateway) FindEntityByKey(_ context.Context, key string) (*catalog.Entity, error) {
	for i := range s.entities {
		if s.entities[i].Key == key {
			return &s.entities[i], nil
		}
	}
	return nil, errors.NewNotFoundError("entity", key)
}

func (s *stubGateway) ListChannels(_ context.Context) ([]catalog.Channel, error) {
	return s.channels, nil
}

func (s *stubGateway) ChannelExists(_ context.Context, id catalog.ChannelID) (bool, error) {
	for _, ch := range s.channels {
		if ch.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubGateway) CreateVariant(_ context.Context, _ catalog.EntityID, _, _ string) (catalog.VariantID, error) {
	s.created++
	return "var-created", nil
}

func (s *stubGateway) PublishEntityToChannel(_ context.Context, _ catalog.EntityID, _ catalog.ChannelID) error {
	s.published++
	return nil
}

func (s *stubGateway) SetVariantChannelPrice(_ context.Context, variantID catalog.VariantID, _ catalog.ChannelID, priceText string) error {
	s.priced = append(s.priced, string(variantID)+"="+priceText)
	return nil
}

func retailChannel() catalog.Channel {
	return catalog.Channel{ID: "chan-1", Name: "Retail Store", Key: "retail"}
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		channels: []catalog.Channel{retailChannel()},
		entities: []catalog.Entity{{
			ID:   "ent-1",
			Key:  "mug-01",
			Name: "Mug",
			Variants: []catalog.Variant{{
				ID:  "var-1",
				Key: "MUG-RED",
				Listings: []catalog.Listing{{
					Channel: retailChannel(),
					Price:   catalog.Money{Amount: decimal.NewFromInt(12), Currency: "USD"},
				}},
			}},
		}},
	}
}

func TestNewRequiresGateway(t *testing.T) {
	_, err := shopsync.New()
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	client, err := shopsync.New(shopsync.WithGateway(newStubGateway()))
	require.NoError(t, err)

	rows, err := client.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "mug-01", rows[0].EntityKey)
	assert.Equal(t, "MUG-RED", rows[0].VariantKey)
	assert.Equal(t, "12", rows[0].Price)
	assert.Equal(t, "var-1", rows[0].VariantID)
}

func TestSnapshotPlaceholders(t *testing.T) {
	gw := newStubGateway()
	gw.entities[0].Variants[0].Listings = nil

	client, err := shopsync.New(
		shopsync.WithGateway(gw),
		shopsync.WithRequiredChannels("retail"),
	)
	require.NoError(t, err)

	rows, err := client.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "0", rows[0].Price)
	assert.Equal(t, "retail", rows[0].ChannelKey)
	assert.Empty(t, rows[0].ChannelID)
}

func TestDiff(t *testing.T) {
	client, err := shopsync.New(shopsync.WithGateway(newStubGateway()))
	require.NoError(t, err)

	local := []catalog.Row{{
		EntityKey:  "mug-01",
		VariantKey: "MUG-RED",
		ChannelKey: "Retail Store",
		Price:      "15",
	}}

	changeset, err := client.Diff(context.Background(), local)
	require.NoError(t, err)
	require.Len(t, changeset.Updated, 1)
	assert.Equal(t, "var-1", changeset.Updated[0].Merged.VariantID)
}

func TestSyncInSync(t *testing.T) {
	gw := newStubGateway()
	client, err := shopsync.New(shopsync.WithGateway(gw))
	require.NoError(t, err)

	// Use the remote snapshot itself as the local sheet.
	local, err := client.Snapshot(context.Background())
	require.NoError(t, err)

	result, err := client.Sync(context.Background(), local)
	require.NoError(t, err)
	assert.True(t, result.Changeset.IsEmpty())
	assert.Nil(t, result.Applied)
	assert.Empty(t, gw.priced)
}

func TestSyncAppliesUpdates(t *testing.T) {
	gw := newStubGateway()
	client, err := shopsync.New(shopsync.WithGateway(gw))
	require.NoError(t, err)

	local := []catalog.Row{{
		EntityKey:  "mug-01",
		VariantKey: "MUG-RED",
		ChannelKey: "Retail Store",
		Price:      "15",
	}}

	result, err := client.Sync(context.Background(), local)
	require.NoError(t, err)
	require.NotNil(t, result.Applied)
	assert.Equal(t, 1, result.Applied.Priced)
	assert.Equal(t, []string{"var-1=15.00"}, gw.priced)
	assert.Zero(t, gw.created, "existing variant is reused")
}

func TestSyncCreatesMissingVariant(t *testing.T) {
	gw := newStubGateway()
	client, err := shopsync.New(shopsync.WithGateway(gw))
	require.NoError(t, err)

	local := []catalog.Row{{
		EntityKey:  "mug-01",
		VariantKey: "MUG-BLUE",
		Name:       "Blue Mug",
		ChannelKey: "retail",
		Price:      "8.50",
	}}

	result, err := client.Sync(context.Background(), local)
	require.NoError(t, err)
	require.NotNil(t, result.Applied)
	assert.Equal(t, 1, gw.created)
	assert.Equal(t, []string{"var-created=8.50"}, gw.priced)
	assert.Equal(t, 1, result.Applied.Created)
}

func TestSyncDryRun(t *testing.T) {
	gw := newStubGateway()
	client, err := shopsync.New(shopsync.WithGateway(gw))
	require.NoError(t, err)

	local := []catalog.Row{{
		EntityKey:  "mug-01",
		VariantKey: "MUG-RED",
		ChannelKey: "retail",
		Price:      "99",
	}}

	result, err := client.Sync(context.Background(), local, shopsync.WithDryRun(true))
	require.NoError(t, err)
	assert.True(t, result.Changeset.HasChanges())
	assert.Nil(t, result.Applied)
	assert.Empty(t, gw.priced)
}

func TestSyncConfirmDeclined(t *testing.T) {
	gw := newStubGateway()
	client, err := shopsync.New(shopsync.WithGateway(gw))
	require.NoError(t, err)

	local := []catalog.Row{{
		EntityKey:  "mug-01",
		VariantKey: "MUG-RED",
		ChannelKey: "retail",
		Price:      "99",
	}}

	var saw *differ.Changeset
	result, err := client.Sync(context.Background(), local, shopsync.WithConfirm(func(cs *differ.Changeset) bool {
		saw = cs
		return false
	}))
	require.NoError(t, err)
	assert.True(t, result.Declined)
	assert.Nil(t, result.Applied)
	assert.NotNil(t, saw)
	assert.Empty(t, gw.priced)
}

func TestSyncUpdatesOnlyStrategy(t *testing.T) {
	gw := newStubGateway()
	client, err := shopsync.New(shopsync.WithGateway(gw))
	require.NoError(t, err)

	local := []catalog.Row{
		{EntityKey: "mug-01", VariantKey: "MUG-RED", ChannelKey: "Retail Store", Price: "15"},
		{EntityKey: "mug-01", VariantKey: "MUG-NEW", ChannelKey: "retail", Price: "5"},
	}

	result, err := client.Sync(context.Background(), local,
		shopsync.WithStrategy(differ.ApplyUpdatesOnly))
	require.NoError(t, err)
	require.NotNil(t, result.Applied)
	assert.Equal(t, []string{"var-1=15.00"}, gw.priced)
	assert.Zero(t, gw.created)
}
