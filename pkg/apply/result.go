package apply

import (
	"fmt"
	"strings"

	"github.com/quaylabs/shopsync/pkg/catalog"
)

// Outcome records the terminal state of one row.
type Outcome struct {
	Row            catalog.Row `json:"row"`
	State          State       `json:"state"`
	Reason         string      `json:"reason,omitempty"`          // Populated for skipped and failed rows
	CreatedVariant bool        `json:"created_variant,omitempty"` // A new variant was created for this row
}

// Result represents the complete result of an apply run.
type Result struct {
	Outcomes []Outcome `json:"outcomes"`

	// Summary counts
	Priced  int `json:"priced"`  // Rows that reached the terminal success state
	Created int `json:"created"` // Variants created during the run
	Skipped int `json:"skipped"` // Rows skipped before any price mutation
	Failed  int `json:"failed"`  // Rows whose price mutation was rejected
}

// record appends an outcome and maintains the summary counts.
func (r *Result) record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.CreatedVariant {
		r.Created++
	}
	switch o.State {
	case StatePriced:
		r.Priced++
	case StateSkipped:
		r.Skipped++
	case StateFailed:
		r.Failed++
	}
}

// HasFailures returns true if any row was skipped or failed.
func (r *Result) HasFailures() bool {
	return r.Skipped > 0 || r.Failed > 0
}

// Summary returns a human-readable summary of the apply run.
func (r *Result) Summary() string {
	if len(r.Outcomes) == 0 {
		return "Nothing to apply"
	}

	parts := []string{fmt.Sprintf("%d priced", r.Priced)}
	if r.Created > 0 {
		parts = append(parts, fmt.Sprintf("%d variants created", r.Created))
	}
	if r.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", r.Skipped))
	}
	if r.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", r.Failed))
	}

	return fmt.Sprintf("Applied %d rows: %s", len(r.Outcomes), strings.Join(parts, ", "))
}
