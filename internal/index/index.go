// Package index writes the carve record index to disk in the two
// formats external tooling consumes: a JSON array and a flat CSV.
package index

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/shubham030/forensic-carver/internal/record"
)

// csvRow mirrors record.Record but with the header row and value
// formatting the spec's CSV layout requires: fmt,start,end,size,
// validated,out_path,embedded_parent,notes — validated as 0/1, empty
// strings for absent optional fields.
type csvRow struct {
	Format         string `csv:"fmt"`
	Start          int64  `csv:"start"`
	End            int64  `csv:"end"`
	Size           int64  `csv:"size"`
	Validated      int    `csv:"validated"`
	OutPath        string `csv:"out_path"`
	EmbeddedParent string `csv:"embedded_parent"`
	Notes          string `csv:"notes"`
}

// WriteJSON marshals records as a JSON array to <dir>/index.json.
func WriteJSON(dir string, records []record.Record) error {
	path := filepath.Join(dir, "index.json")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create index.json")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return errors.Wrap(err, "write index.json")
	}
	return nil
}

// WriteCSV writes records to <dir>/index.csv with the header row
// fmt,start,end,size,validated,out_path,embedded_parent,notes.
func WriteCSV(dir string, records []record.Record) error {
	path := filepath.Join(dir, "index.csv")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create index.csv")
	}
	defer f.Close()

	rows := make([]*csvRow, len(records))
	for i, r := range records {
		validated := 0
		if r.Validated {
			validated = 1
		}
		rows[i] = &csvRow{
			Format:         r.Format,
			Start:          r.Start,
			End:            r.End,
			Size:           r.Size,
			Validated:      validated,
			OutPath:        r.OutPath,
			EmbeddedParent: r.EmbeddedParent,
			Notes:          r.Notes,
		}
	}

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return errors.Wrap(err, "marshal index.csv")
	}
	return nil
}

// Write emits both index.json and index.csv under dir.
func Write(dir string, records []record.Record) error {
	if err := WriteJSON(dir, records); err != nil {
		return err
	}
	return WriteCSV(dir, records)
}
