package differ_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaylabs/shopsync/pkg/catalog"
	"github.com/quaylabs/shopsync/pkg/differ"
)

func localRow(sku, channel, price string) catalog.Row {
	return catalog.Row{
		EntityKey:  "mug-01",
		VariantKey: sku,
		Name:       "Mug",
		ChannelKey: channel,
		Price:      price,
	}
}

func remoteRow(sku, channel, price string) catalog.Row {
	row := localRow(sku, channel, price)
	row.EntityID = "UHJvZHVjdDox"
	row.VariantID = "djE="
	row.ChannelID = "Q2g6MQ=="
	return row
}

func TestRowsIdempotence(t *testing.T) {
	d := differ.New()
	rows := []catalog.Row{
		localRow("MUG-RED", "retail", "12"),
		localRow("", "retail", "5"),
	}

	changeset := d.Rows(rows, rows)
	assert.True(t, changeset.IsEmpty())
	assert.Empty(t, changeset.Added)
	assert.Empty(t, changeset.Updated)
	assert.Empty(t, changeset.Removed)
	assert.Equal(t, "No changes detected", changeset.String())
}

func TestRowsPartition(t *testing.T) {
	d := differ.New()

	local := []catalog.Row{
		localRow("MUG-RED", "retail", "12"),   // update (remote has 10)
		localRow("MUG-BLUE", "retail", "8"),   // addition
		localRow("MUG-RED", "wholesale", "9"), // unchanged
	}
	remote := []catalog.Row{
		remoteRow("MUG-RED", "retail", "10"),
		remoteRow("MUG-RED", "wholesale", "9"),
		remoteRow("MUG-OLD", "retail", "4"), // removal
	}

	changeset := d.Rows(local, remote)

	require.Len(t, changeset.Added, 1)
	require.Len(t, changeset.Updated, 1)
	require.Len(t, changeset.Removed, 1)
	assert.Equal(t, 3, changeset.Summary.TotalChanges)

	// Every key lands in exactly one bucket: 4 distinct keys total, one
	// unchanged, three changed.
	assert.Equal(t, "MUG-BLUE", changeset.Added[0].VariantKey)
	assert.Equal(t, catalog.Key{Match: "MUG-RED", Channel: "retail"}, changeset.Updated[0].Key)
	assert.Equal(t, "MUG-OLD", changeset.Removed[0].VariantKey)
}

func TestRowsUpdateMergesRemoteIdentifiers(t *testing.T) {
	d := differ.New()

	local := []catalog.Row{localRow("MUG-RED", "retail", "15.00")}
	remote := []catalog.Row{remoteRow("MUG-RED", "retail", "12")}

	changeset := d.Rows(local, remote)
	require.Len(t, changeset.Updated, 1)

	update := changeset.Updated[0]
	assert.Equal(t, "15.00", update.Merged.Price)
	assert.Equal(t, "UHJvZHVjdDox", update.Merged.EntityID)
	assert.Equal(t, "djE=", update.Merged.VariantID)
	assert.Equal(t, "Q2g6MQ==", update.Merged.ChannelID)

	require.Len(t, update.Changes, 1)
	assert.Equal(t, differ.FieldChange{
		Path:     "price",
		OldValue: 12,
		NewValue: 15,
		Type:     differ.ChangeTypeUpdate,
	}, update.Changes[0])
}

func TestRowsIntegerRoundedComparison(t *testing.T) {
	d := differ.New()

	// 9.99 rounds to 10: no diff against a pre-rounded remote 10.
	changeset := d.Rows(
		[]catalog.Row{localRow("MUG-RED", "retail", "9.99")},
		[]catalog.Row{remoteRow("MUG-RED", "retail", "10")},
	)
	assert.True(t, changeset.IsEmpty())

	// 9.49 rounds to 9: diff.
	changeset = d.Rows(
		[]catalog.Row{localRow("MUG-RED", "retail", "9.49")},
		[]catalog.Row{remoteRow("MUG-RED", "retail", "10")},
	)
	require.Len(t, changeset.Updated, 1)
}

func TestRowsBlankLocalPriceMeansZero(t *testing.T) {
	d := differ.New()

	changeset := d.Rows(
		[]catalog.Row{localRow("MUG-RED", "retail", "")},
		[]catalog.Row{remoteRow("MUG-RED", "retail", "10")},
	)
	require.Len(t, changeset.Updated, 1)
	assert.Equal(t, int64(0), changeset.Updated[0].Changes[0].NewValue)
}

func TestRowsDiscardsChannellessRows(t *testing.T) {
	d := differ.New()

	local := []catalog.Row{localRow("MUG-RED", "", "12")}
	changeset := d.Rows(local, nil)
	assert.True(t, changeset.IsEmpty())
}

func TestRowsDuplicateKeyLastWriteWins(t *testing.T) {
	d := differ.New()

	local := []catalog.Row{
		localRow("MUG-RED", "retail", "12"),
		localRow("MUG-RED", "retail", "20"), // later row wins
	}
	changeset := d.Rows(local, []catalog.Row{remoteRow("MUG-RED", "retail", "10")})

	require.Len(t, changeset.Updated, 1)
	assert.Equal(t, int64(20), changeset.Updated[0].Changes[0].NewValue)
	assert.Empty(t, changeset.Added)
}

func TestRowsNewRowIsAdditionNeverUpdate(t *testing.T) {
	d := differ.New()

	// Local row with a price but no remote counterpart at all.
	changeset := d.Rows(
		[]catalog.Row{localRow("MUG-NEW", "retail", "12.00")},
		[]catalog.Row{remoteRow("MUG-RED", "retail", "12")},
	)

	require.Len(t, changeset.Added, 1)
	assert.Empty(t, changeset.Updated)
	assert.Equal(t, "MUG-NEW", changeset.Added[0].VariantKey)
}

func TestChangesetRowsByStrategy(t *testing.T) {
	d := differ.New()

	local := []catalog.Row{
		localRow("MUG-BLUE", "retail", "8"),
		localRow("MUG-RED", "retail", "15"),
	}
	remote := []catalog.Row{
		remoteRow("MUG-RED", "retail", "12"),
		remoteRow("MUG-OLD", "retail", "4"),
	}
	changeset := d.Rows(local, remote)

	additive := changeset.Rows(differ.ApplyAdditive)
	require.Len(t, additive, 2)
	// Removals never reach the apply engine.
	for _, row := range additive {
		assert.NotEqual(t, "MUG-OLD", row.VariantKey)
	}

	assert.Len(t, changeset.Rows(differ.ApplyAdditionsOnly), 1)
	updates := changeset.Rows(differ.ApplyUpdatesOnly)
	require.Len(t, updates, 1)
	assert.Equal(t, "djE=", updates[0].VariantID)
}

func TestChangesetString(t *testing.T) {
	d := differ.New()
	changeset := d.Rows(
		[]catalog.Row{localRow("MUG-BLUE", "retail", "8")},
		[]catalog.Row{remoteRow("MUG-OLD", "retail", "4")},
	)
	assert.Equal(t, "Changeset: 1 added, 1 removed (Total: 2 changes)", changeset.String())
}
