package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaylabs/shopsync/internal/cmd/output"
	"github.com/quaylabs/shopsync/pkg/apply"
	"github.com/quaylabs/shopsync/pkg/catalog"
	"github.com/quaylabs/shopsync/pkg/differ"
	"github.com/quaylabs/shopsync/pkg/tabular"
)

func TestParseFormat(t *testing.T) {
	format, err := output.ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, output.FormatJSON, format)

	_, err = output.ParseFormat("xml")
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := output.NewFormatter(output.FormatJSON)
	require.NoError(t, formatter.Format(&buf, map[string]int{"added": 2}))
	assert.JSONEq(t, `{"added": 2}`, buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := output.NewFormatter(output.FormatYAML)
	require.NoError(t, formatter.Format(&buf, map[string]string{"state": "priced"}))
	assert.Contains(t, buf.String(), "state: priced")
}

func TestTableFormatterRendersData(t *testing.T) {
	var buf bytes.Buffer
	formatter := output.NewFormatter(output.FormatTable)

	err := formatter.Format(&buf, output.Data{
		Headers: []string{"Key", "Price"},
		Rows:    [][]string{{"MUG-RED", "12.00"}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "MUG-RED")
	assert.Contains(t, buf.String(), "12.00")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	formatter := output.NewFormatter(output.FormatTable)
	require.NoError(t, formatter.Format(&buf, map[string]string{"plain": "value"}))
	assert.Contains(t, buf.String(), `"plain"`)
}

func TestRowsData(t *testing.T) {
	rows := []catalog.Row{{
		EntityKey:  "mug-01",
		VariantKey: "MUG-RED",
		Name:       "Red Mug",
		ChannelKey: "retail",
		Price:      "12.00",
		EntityID:   "UHJvZHVjdDox",
	}}

	data := output.RowsData(rows, tabular.FormDisplay)
	assert.Equal(t, []string{"Entity Key", "Sku", "Name", "Channel Name", "Price"}, data.Headers)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, []string{"mug-01", "MUG-RED", "Red Mug", "retail", "12.00"}, data.Rows[0])

	extended := output.RowsData(rows, tabular.FormExtended)
	assert.Len(t, extended.Headers, 8)
	assert.Equal(t, "UHJvZHVjdDox", extended.Rows[0][5])
}

func TestChangesetData(t *testing.T) {
	d := differ.New()
	local := []catalog.Row{
		{EntityKey: "mug-01", VariantKey: "MUG-BLUE", Name: "Blue Mug", ChannelKey: "retail", Price: "8"},
		{EntityKey: "mug-01", VariantKey: "MUG-RED", Name: "Red Mug", ChannelKey: "retail", Price: "15"},
	}
	remote := []catalog.Row{
		{EntityKey: "mug-01", VariantKey: "MUG-RED", Name: "Red Mug", ChannelKey: "retail", Price: "12", VariantID: "djE="},
		{EntityKey: "mug-01", VariantKey: "MUG-OLD", Name: "Old Mug", ChannelKey: "retail", Price: "4"},
	}
	changeset := d.Rows(local, remote)

	data := output.ChangesetData(changeset)
	require.Len(t, data.Rows, 3)

	rendered := make([]string, len(data.Rows))
	for i, row := range data.Rows {
		rendered[i] = strings.Join(row, "|")
	}
	joined := strings.Join(rendered, "\n")
	assert.Contains(t, joined, "add|MUG-BLUE")
	assert.Contains(t, joined, "update|MUG-RED")
	assert.Contains(t, joined, "12 -> 15")
	assert.Contains(t, joined, "remove (not applied)|MUG-OLD")
}

func TestResultData(t *testing.T) {
	result := &apply.Result{}
	result.Outcomes = append(result.Outcomes, apply.Outcome{
		Row:            catalog.Row{EntityKey: "mug-01", VariantKey: "MUG-RED", ChannelKey: "retail", Price: "12.00"},
		State:          apply.StatePriced,
		CreatedVariant: true,
	}, apply.Outcome{
		Row:    catalog.Row{EntityKey: "mug-01", VariantKey: "MUG-BAD", ChannelKey: "retail", Price: "0"},
		State:  apply.StateSkipped,
		Reason: "price must be greater than zero",
	})

	data := output.ResultData(result)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "priced", data.Rows[0][0])
	assert.Equal(t, "variant created", data.Rows[0][4])
	assert.Equal(t, "price must be greater than zero", data.Rows[1][4])
}
