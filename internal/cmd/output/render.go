package output

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/quaylabs/shopsync/pkg/apply"
	"github.com/quaylabs/shopsync/pkg/catalog"
	"github.com/quaylabs/shopsync/pkg/differ"
	"github.com/quaylabs/shopsync/pkg/tabular"
)

var titleCaser = cases.Title(language.English)

// columnTitle turns an on-disk column name into a display header.
func columnTitle(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}

// RowsData renders a row snapshot with the same columns as the CSV form.
func RowsData(rows []catalog.Row, form tabular.Form) Data {
	header := form.Header()
	headers := make([]string, len(header))
	alignment := make([]tw.Align, len(header))
	for i, col := range header {
		headers[i] = columnTitle(col)
		alignment[i] = tw.AlignLeft
	}
	// Price is the fifth display column.
	alignment[4] = tw.AlignRight

	data := Data{Headers: headers, ColumnAlignment: alignment}
	for _, row := range rows {
		cells := []string{row.EntityKey, row.VariantKey, row.Name, row.ChannelKey, row.Price}
		if form == tabular.FormExtended {
			cells = append(cells, row.EntityID, row.VariantID, row.ChannelID)
		}
		data.Rows = append(data.Rows, cells)
	}
	return data
}

// ChangesetData renders a diff as one row per pending change. Removals are
// listed for visibility even though they are never applied.
func ChangesetData(changeset *differ.Changeset) Data {
	data := Data{
		Headers: []string{"Action", "Key", "Name", "Channel", "Price"},
		ColumnAlignment: []tw.Align{
			tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignRight,
		},
	}

	for _, row := range changeset.Added {
		data.Rows = append(data.Rows, []string{
			"add", row.MatchKey(), row.Name, row.ChannelKey, row.Price,
		})
	}
	for _, update := range changeset.Updated {
		change := ""
		if len(update.Changes) > 0 {
			change = fmt.Sprintf("%d -> %d", update.Changes[0].OldValue, update.Changes[0].NewValue)
		}
		data.Rows = append(data.Rows, []string{
			"update", update.Key.Match, update.Merged.Name, update.Key.Channel, change,
		})
	}
	for _, row := range changeset.Removed {
		data.Rows = append(data.Rows, []string{
			"remove (not applied)", row.MatchKey(), row.Name, row.ChannelKey, row.Price,
		})
	}
	return data
}

// ResultData renders the outcome of an apply run, one row per input row.
func ResultData(result *apply.Result) Data {
	data := Data{
		Headers: []string{"State", "Key", "Channel", "Price", "Detail"},
		ColumnAlignment: []tw.Align{
			tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignLeft,
		},
	}

	for _, outcome := range result.Outcomes {
		detail := outcome.Reason
		if detail == "" && outcome.CreatedVariant {
			detail = "variant created"
		}
		data.Rows = append(data.Rows, []string{
			string(outcome.State),
			outcome.Row.MatchKey(),
			outcome.Row.ChannelKey,
			outcome.Row.Price,
			detail,
		})
	}
	return data
}
