package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/quaylabs/shopsync/pkg/catalog"
	"github.com/quaylabs/shopsync/pkg/errors"
)

// Read parses CSV rows from r, detecting the column layout from the header
// line. Cell values are trimmed of surrounding whitespace.
func Read(r io.Reader) ([]catalog.Row, Form, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, FormDisplay, errors.WrapParse("csv", "header", err)
	}

	form, err := detectForm(header)
	if err != nil {
		return nil, form, errors.WrapParse("csv", "header", err)
	}

	var rows []catalog.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, form, errors.WrapParse("csv", "record", err)
		}
		rows = append(rows, rowFromRecord(record, form))
	}
	return rows, form, nil
}

// ReadFile reads a CSV snapshot from disk.
func ReadFile(path string) ([]catalog.Row, Form, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, FormDisplay, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	rows, form, err := Read(f)
	if err != nil {
		return nil, form, err
	}
	return rows, form, nil
}

func rowFromRecord(record []string, form Form) catalog.Row {
	cell := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := catalog.Row{
		EntityKey:  cell(0),
		VariantKey: cell(1),
		Name:       cell(2),
		ChannelKey: cell(3),
		Price:      cell(4),
	}
	if form == FormExtended {
		row.EntityID = cell(5)
		row.VariantID = cell(6)
		row.ChannelID = cell(7)
	}
	return row
}
