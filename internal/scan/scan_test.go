package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/shubham030/forensic-carver/internal/byteview"
	"github.com/shubham030/forensic-carver/internal/record"
	"github.com/shubham030/forensic-carver/internal/sink"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

func newDirSink(t *testing.T) *sink.DirSink {
	t.Helper()
	s, err := sink.NewDirSink(t.TempDir())
	require.NoError(t, err)
	return s
}

func baseOptions(formats ...string) Options {
	return Options{
		Formats:       formats,
		MaxSize:       1 << 20,
		EmbeddedDepth: 0,
		ScanWindows:   DefaultScanWindows(),
	}
}

// Scenario 1: pure JPEG.
func TestScanPureJPEG(t *testing.T) {
	payload := bytes.Repeat([]byte{0x00}, 100)
	data := append([]byte{0xFF, 0xD8, 0xFF, 0xDA}, payload...)
	data = append(data, 0xFF, 0xD9)

	s, err := New(baseOptions("jpeg"), newDirSink(t), testLogger())
	require.NoError(t, err)

	records, err := s.Run(byteview.NewBufferView(data))
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	require.Equal(t, "jpeg", r.Format)
	require.EqualValues(t, 0, r.Start)
	require.EqualValues(t, len(data), r.End)
	require.EqualValues(t, len(data), r.Size)
	require.True(t, r.Validated)
	require.Empty(t, r.EmbeddedParent)
	require.Empty(t, r.Notes)
}

// Scenario 4: JPEG embedded in PDF, embedded_depth=1. Because the image
// scanned here *is* the PDF's own bytes, the top-level jpeg plugin
// independently rediscovers the same JPEG signature in addition to the
// embedded-recursion pass finding it again (tagged embedded) — both are
// expected per the "each plugin scans the whole view independently"
// rule in spec §4.3.1; only the embedded pass carries embedded_parent.
func TestScanEmbeddedJPEGInPDF(t *testing.T) {
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xDA}, bytes.Repeat([]byte{0x11}, 20)...)
	jpeg = append(jpeg, 0xFF, 0xD9)

	pdfBody := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{0x00}, 32)...)
	pdfBody = append(pdfBody, jpeg...)
	pdfBody = append(pdfBody, []byte("\n%%EOF")...)

	opts := baseOptions("jpeg", "pdf")
	opts.EmbeddedDepth = 1

	s, err := New(opts, newDirSink(t), testLogger())
	require.NoError(t, err)

	records, err := s.Run(byteview.NewBufferView(pdfBody))
	require.NoError(t, err)
	require.Len(t, records, 3)

	var pdfRec record.Record
	var embeddedJPEG, topLevelJPEG record.Record
	for _, r := range records {
		switch {
		case r.Format == "pdf":
			pdfRec = r
		case r.Format == "jpeg" && r.EmbeddedParent != "":
			embeddedJPEG = r
		case r.Format == "jpeg":
			topLevelJPEG = r
		}
	}

	require.Empty(t, pdfRec.EmbeddedParent)
	require.NotEmpty(t, pdfRec.OutPath)

	require.Empty(t, topLevelJPEG.Notes)
	require.Equal(t, record.NoteEmbedded, embeddedJPEG.Notes)
	require.NotEmpty(t, embeddedJPEG.EmbeddedParent)
}

// Scenario 5: fragmented fallback. A lone EOCD64 locator with no EOCD64
// record and no plain EOCD defeats the primary footer locator (it
// demands the loc+rec pair or a plain EOCD) but the bridge accepts any
// single signature it meets while scanning forward.
func TestScanFragmentedFallback(t *testing.T) {
	data := append([]byte{}, zipLFHForTest()...)
	data = append(data, bytes.Repeat([]byte{0x00}, 16)...)
	data = append(data, zipEOCD64LocForTest()...)

	opts := baseOptions("zip")
	s, err := New(opts, newDirSink(t), testLogger())
	require.NoError(t, err)

	records, err := s.Run(byteview.NewBufferView(data))
	require.NoError(t, err)
	require.Empty(t, records, "no record expected with fragmented disabled and only a lone locator present")

	opts.Fragmented = true
	s2, err := New(opts, newDirSink(t), testLogger())
	require.NoError(t, err)

	records, err = s2.Run(byteview.NewBufferView(data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, record.NoteFragmentedBridge, records[0].Notes)
}

func zipLFHForTest() []byte { return []byte{'P', 'K', 0x03, 0x04} }
func zipEOCD64LocForTest() []byte { return []byte{'P', 'K', 0x06, 0x07} }

// Scenario 6: oversized candidate is skipped, scan continues.
func TestScanOversizedCandidateSkipped(t *testing.T) {
	data := append([]byte{}, []byte{'P', 'K', 0x03, 0x04}...)
	data = append(data, bytes.Repeat([]byte{0x00}, 4096)...)
	data = append(data, []byte{'P', 'K', 0x05, 0x06}...)
	data = append(data, make([]byte, 18)...) // rest of fixed EOCD fields, comment len 0

	opts := baseOptions("zip")
	opts.MaxSize = 10 // far smaller than the candidate

	s, err := New(opts, newDirSink(t), testLogger())
	require.NoError(t, err)

	records, err := s.Run(byteview.NewBufferView(data))
	require.NoError(t, err)
	require.Empty(t, records)
}

// Disjoint per-plugin ranges: a run with two adjacent JPEGs never
// reports overlapping [start, end) pairs.
func TestScanDisjointRangesPerPlugin(t *testing.T) {
	first := append([]byte{0xFF, 0xD8, 0xFF, 0xDA}, bytes.Repeat([]byte{0x01}, 10)...)
	first = append(first, 0xFF, 0xD9)
	second := append([]byte{0xFF, 0xD8, 0xFF, 0xDA}, bytes.Repeat([]byte{0x02}, 10)...)
	second = append(second, 0xFF, 0xD9)
	data := append(first, second...)

	s, err := New(baseOptions("jpeg"), newDirSink(t), testLogger())
	require.NoError(t, err)

	records, err := s.Run(byteview.NewBufferView(data))
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.LessOrEqual(t, records[0].End, records[1].Start)
}

func TestOpenMappedImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")
	data := append([]byte{0xFF, 0xD8, 0xFF, 0xDA}, 0xFF, 0xD9)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	v, closeFn, err := Open(path)
	require.NoError(t, err)
	defer closeFn()

	require.EqualValues(t, len(data), v.Length())
}
