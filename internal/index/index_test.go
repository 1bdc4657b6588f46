package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shubham030/forensic-carver/internal/record"
)

func sampleRecords() []record.Record {
	return []record.Record{
		{
			Format:    "jpeg",
			Start:     0,
			End:       106,
			Size:      106,
			OutPath:   "/out/carved/jpeg_000000000000.jpg",
			Validated: true,
		},
		{
			Format:         "jpeg",
			Start:          4096,
			End:            4200,
			Size:           104,
			OutPath:        "/out/carved/pdf_000000000500__jpeg_00001000.jpg",
			Validated:      false,
			EmbeddedParent: "pdf_000000000500",
			Notes:          record.NoteEmbedded,
		},
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteJSON(dir, sampleRecords()))

	data, err := os.ReadFile(filepath.Join(dir, "index.json"))
	require.NoError(t, err)

	var got []record.Record
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, sampleRecords(), got)
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCSV(dir, sampleRecords()))

	data, err := os.ReadFile(filepath.Join(dir, "index.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3) // header + 2 records
	require.Equal(t, "fmt,start,end,size,validated,out_path,embedded_parent,notes", lines[0])
	require.Contains(t, lines[1], ",1,")
	require.Contains(t, lines[2], "embedded")
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, sampleRecords()))

	_, err := os.Stat(filepath.Join(dir, "index.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "index.csv"))
	require.NoError(t, err)
}
