// Package tabular reads and writes catalog rows as CSV. Two column layouts
// exist: the display form carries only the human-edited fields, and the
// extended form appends the opaque remote identifiers so a later run can skip
// re-resolving them. Readers detect the form from the header line.
package tabular

import (
	"strings"

	"github.com/quaylabs/shopsync/pkg/errors"
)

// Form identifies a CSV column layout.
type Form int

const (
	// FormDisplay is the human-edited layout: entity_key, sku, name,
	// channel_name, price.
	FormDisplay Form = iota
	// FormExtended appends entity_id, variant_id, channel_id to the
	// display columns.
	FormExtended
)

// Column names, in on-disk order.
const (
	colEntityKey  = "entity_key"
	colSKU        = "sku"
	colName       = "name"
	colChannelKey = "channel_name"
	colPrice      = "price"
	colEntityID   = "entity_id"
	colVariantID  = "variant_id"
	colChannelID  = "channel_id"
)

var (
	displayHeader  = []string{colEntityKey, colSKU, colName, colChannelKey, colPrice}
	extendedHeader = append(append([]string{}, displayHeader...), colEntityID, colVariantID, colChannelID)
)

// Header returns the column names of the form, in order.
func (f Form) Header() []string {
	if f == FormExtended {
		return append([]string{}, extendedHeader...)
	}
	return append([]string{}, displayHeader...)
}

// String returns the form name.
func (f Form) String() string {
	if f == FormExtended {
		return "extended"
	}
	return "display"
}

// detectForm matches a header line against the known layouts. Column names
// are matched case-insensitively with surrounding whitespace ignored.
func detectForm(header []string) (Form, error) {
	normalized := make([]string, len(header))
	for i, col := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(col))
	}

	if equalColumns(normalized, displayHeader) {
		return FormDisplay, nil
	}
	if equalColumns(normalized, extendedHeader) {
		return FormExtended, nil
	}
	return FormDisplay, errors.New("unrecognized header: " + strings.Join(header, ","))
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
