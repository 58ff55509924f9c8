// Package differ provides change detection between the local price table and
// the remote catalog's materialized row-set.
package differ

import (
	"fmt"
	"strings"

	"github.com/quaylabs/shopsync/pkg/catalog"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates a row was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates a row was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates a row was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Path     string     `json:"path"`      // Field path (currently always "price")
	OldValue int64      `json:"old_value"` // Remote value
	NewValue int64      `json:"new_value"` // Desired local value
	Type     ChangeType `json:"type"`      // Type of change
}

// RowUpdate represents an update to a row present on both sides.
type RowUpdate struct {
	Key      catalog.Key   `json:"-"`        // Comparison key
	Existing catalog.Row   `json:"existing"` // Remote row
	Merged   catalog.Row   `json:"merged"`   // Local price/name plus remote identifiers
	Changes  []FieldChange `json:"changes"`  // Detailed list of field changes
}

// Changeset represents all changes between local intent and remote state.
type Changeset struct {
	Added   []catalog.Row `json:"added"`   // Present locally, absent remotely
	Updated []RowUpdate   `json:"updated"` // Present in both with differing price
	Removed []catalog.Row `json:"removed"` // Present remotely, absent locally (reported only)
	Summary Summary       `json:"summary"` // Summary statistics
}

// Summary provides summary statistics for a changeset.
type Summary struct {
	Added        int `json:"added"`
	Updated      int `json:"updated"`
	Removed      int `json:"removed"`
	TotalChanges int `json:"total_changes"`
}

// calculateSummary computes the summary for a changeset.
func calculateSummary(c *Changeset) Summary {
	added := len(c.Added)
	updated := len(c.Updated)
	removed := len(c.Removed)

	return Summary{
		Added:        added,
		Updated:      updated,
		Removed:      removed,
		TotalChanges: added + updated + removed,
	}
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return c.Summary.TotalChanges == 0
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	parts := []string{}
	if len(c.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added", len(c.Added)))
	}
	if len(c.Updated) > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", len(c.Updated)))
	}
	if len(c.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(c.Removed)))
	}

	return fmt.Sprintf("Changeset: %s (Total: %d changes)", strings.Join(parts, ", "), c.Summary.TotalChanges)
}

// ApplyStrategy represents how to apply changes.
type ApplyStrategy string

const (
	// ApplyAdditive applies additions and updates, never removals. This is
	// the only strategy the apply engine uses; removals are informational.
	ApplyAdditive ApplyStrategy = "additive"

	// ApplyUpdatesOnly only applies price updates to existing rows.
	ApplyUpdatesOnly ApplyStrategy = "updates-only"

	// ApplyAdditionsOnly only applies new additions.
	ApplyAdditionsOnly ApplyStrategy = "additions-only"
)

// Rows returns the rows to feed the apply engine for the given strategy.
// Updated rows contribute their merged form so the engine sees local prices
// with remote identifiers already attached.
func (c *Changeset) Rows(strategy ApplyStrategy) []catalog.Row {
	rows := []catalog.Row{}

	if strategy == ApplyAdditive || strategy == ApplyAdditionsOnly {
		rows = append(rows, c.Added...)
	}
	if strategy == ApplyAdditive || strategy == ApplyUpdatesOnly {
		for _, update := range c.Updated {
			rows = append(rows, update.Merged)
		}
	}

	return rows
}
