package differ

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/quaylabs/shopsync/pkg/catalog"
	"github.com/quaylabs/shopsync/pkg/logging"
)

// Differ computes the changeset between a local row-set and a freshly
// materialized remote row-set.
type Differ interface {
	// Rows compares local intent against remote state and returns changes
	Rows(local, remote []catalog.Row) *Changeset
}

// differ is the default implementation of Differ.
type differ struct {
	logger *zerolog.Logger
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		logger: logging.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Rows compares local intent against remote state and returns changes.
//
// Rows are addressed by (match key, channel); rows with no channel are
// discarded, and duplicate keys resolve last-write-wins. Prices compare on
// their integer-rounded values with unparsable values coerced to zero, so a
// blank local price means "set to zero". Local is the source of truth for
// desired price and name, remote for resolved identifiers.
func (diff *differ) Rows(local, remote []catalog.Row) *Changeset {
	changeset := &Changeset{
		Added:   []catalog.Row{},
		Updated: []RowUpdate{},
		Removed: []catalog.Row{},
	}

	localMap, localKeys := diff.index(local)
	remoteMap, remoteKeys := diff.index(remote)

	// Find added and updated rows
	for _, key := range localKeys {
		localRow := localMap[key]
		remoteRow, exists := remoteMap[key]
		if !exists {
			// Present locally, absent remotely: must be created/published/priced
			changeset.Added = append(changeset.Added, localRow)
			continue
		}

		if update := diff.row(key, localRow, remoteRow); update != nil {
			changeset.Updated = append(changeset.Updated, *update)
		}
	}

	// Find removed rows; reported only, never applied
	for _, key := range remoteKeys {
		if _, exists := localMap[key]; !exists {
			changeset.Removed = append(changeset.Removed, remoteMap[key])
		}
	}

	sortChangeset(changeset)
	changeset.Summary = calculateSummary(changeset)

	return changeset
}

// index builds the comparison mapping plus its insertion-ordered key list.
// Rows without a channel are unusable for comparison and dropped here.
func (diff *differ) index(rows []catalog.Row) (map[catalog.Key]catalog.Row, []catalog.Key) {
	index := make(map[catalog.Key]catalog.Row, len(rows))
	keys := make([]catalog.Key, 0, len(rows))

	for _, row := range rows {
		key, ok := row.Key()
		if !ok {
			diff.logger.Debug().
				Str("row", row.Identity()).
				Msg("discarding row with no channel")
			continue
		}

		if _, collision := index[key]; collision {
			// Last write wins, matching ingestion behavior; surfaced at debug
			// so bad input is visible without changing semantics.
			diff.logger.Debug().
				Str("match_key", key.Match).
				Str("channel", key.Channel).
				Msg("duplicate comparison key, later row wins")
		} else {
			keys = append(keys, key)
		}
		index[key] = row
	}

	return index, keys
}

// row compares one key present on both sides and returns an update if the
// integer-rounded prices differ.
func (diff *differ) row(key catalog.Key, localRow, remoteRow catalog.Row) *RowUpdate {
	localPrice := catalog.ComparablePrice(localRow.Price)
	remotePrice := catalog.ComparablePrice(remoteRow.Price)
	if localPrice == remotePrice {
		return nil
	}

	// Merged row: local price and name, remote resolved identifiers.
	merged := localRow
	merged.EntityID = remoteRow.EntityID
	merged.VariantID = remoteRow.VariantID
	merged.ChannelID = remoteRow.ChannelID

	return &RowUpdate{
		Key:      key,
		Existing: remoteRow,
		Merged:   merged,
		Changes: []FieldChange{{
			Path:     "price",
			OldValue: remotePrice,
			NewValue: localPrice,
			Type:     ChangeTypeUpdate,
		}},
	}
}

// sortChangeset sorts all slices in the changeset for consistent output.
func sortChangeset(changeset *Changeset) {
	sort.Slice(changeset.Added, func(i, j int) bool {
		return lessRow(changeset.Added[i], changeset.Added[j])
	})
	sort.Slice(changeset.Updated, func(i, j int) bool {
		return lessKey(changeset.Updated[i].Key, changeset.Updated[j].Key)
	})
	sort.Slice(changeset.Removed, func(i, j int) bool {
		return lessRow(changeset.Removed[i], changeset.Removed[j])
	})
}

func lessRow(a, b catalog.Row) bool {
	if a.MatchKey() != b.MatchKey() {
		return a.MatchKey() < b.MatchKey()
	}
	return a.ChannelKey < b.ChannelKey
}

func lessKey(a, b catalog.Key) bool {
	if a.Match != b.Match {
		return a.Match < b.Match
	}
	return a.Channel < b.Channel
}
