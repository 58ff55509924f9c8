package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/quaylabs/shopsync/pkg/catalog"
	"github.com/quaylabs/shopsync/pkg/errors"
)

const (
	dirMode  = 0755
	fileMode = 0644
)

// Write encodes rows to w in the given form, header line first.
func Write(w io.Writer, rows []catalog.Row, form Form) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(form.Header()); err != nil {
		return errors.WrapIO("write", "csv header", err)
	}
	for _, row := range rows {
		if err := writer.Write(recordFromRow(row, form)); err != nil {
			return errors.WrapIO("write", "csv record", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.WrapIO("flush", "csv", err)
	}
	return nil
}

// WriteFile writes rows to path atomically: the snapshot lands in a temporary
// file beside the target and is renamed into place only after a clean flush.
func WriteFile(path string, rows []catalog.Row, form Form) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return errors.WrapIO("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, rows, form); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), fileMode); err != nil {
		return errors.WrapIO("chmod", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

func recordFromRow(row catalog.Row, form Form) []string {
	record := []string{row.EntityKey, row.VariantKey, row.Name, row.ChannelKey, row.Price}
	if form == FormExtended {
		record = append(record, row.EntityID, row.VariantID, row.ChannelID)
	}
	return record
}
