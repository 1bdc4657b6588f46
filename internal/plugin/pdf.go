package plugin

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shubham030/forensic-carver/internal/byteview"
)

var (
	pdfHeader    = []byte("%PDF-")
	pdfEOF       = []byte("%%EOF")
	pdfStartxref = []byte("startxref")
)

// pdfTailInspect is how many trailing bytes of a carved PDF the
// validator inspects for a startxref pointer.
const pdfTailInspect = 2048

type pdfPlugin struct {
	headers [][]byte
}

func newPDFPlugin() *pdfPlugin {
	return &pdfPlugin{headers: [][]byte{pdfHeader}}
}

func (p *pdfPlugin) Format() string { return "pdf" }

func (p *pdfPlugin) Headers() [][]byte { return p.headers }

func (p *pdfPlugin) FindHeader(v byteview.View, from int64) (int64, bool) {
	return FindFirstHeader(v, p.headers, from)
}

// FindFooter returns the offset just past the LAST %%EOF in the scan
// window. PDFs may be incrementally updated with multiple %%EOF
// markers; the last one bounds the complete document. A side effect is
// that a PDF embedded inside a larger PDF is not individually
// boundary-found here — it surfaces via recursive embedded scanning.
func (p *pdfPlugin) FindFooter(v byteview.View, headerOff, maxScan int64) (int64, bool) {
	end := headerOff + maxScan
	if end > v.Length() {
		end = v.Length()
	}
	off, ok := v.RFind(pdfEOF, headerOff, end)
	if !ok {
		return 0, false
	}
	return off + int64(len(pdfEOF)), true
}

// Validate requires the header and at least one %%EOF. The trailing
// startxref inspection is informative only: PDFs in the wild are
// lenient about a malformed or missing xref pointer, so a parse
// failure never invalidates the carve.
func (p *pdfPlugin) Validate(data []byte) bool {
	if !bytes.HasPrefix(data, pdfHeader) {
		return false
	}
	if !bytes.Contains(data, pdfEOF) {
		return false
	}

	tail := data
	if len(tail) > pdfTailInspect {
		tail = tail[len(tail)-pdfTailInspect:]
	}
	if idx := bytes.LastIndex(tail, pdfStartxref); idx >= 0 {
		rest := tail[idx+len(pdfStartxref):]
		lines := bytes.SplitN(rest, []byte("\n"), 3)
		if len(lines) >= 2 {
			line := bytes.TrimSpace(lines[1])
			strconv.ParseInt(string(line), 10, 64) // best-effort; result unused
		}
	}
	return true
}

// FragmentedTryBridge returns the FIRST %%EOF in the window instead of
// the last, a more optimistic bridge for a PDF whose true tail wasn't
// reachable within maxSpan.
func (p *pdfPlugin) FragmentedTryBridge(v byteview.View, headerOff, maxSpan int64, chunkSize int) (int64, bool) {
	end := headerOff + maxSpan
	if end > v.Length() {
		end = v.Length()
	}
	off, ok := v.Find(pdfEOF, headerOff, end)
	if !ok {
		return 0, false
	}
	return off + int64(len(pdfEOF)), true
}

func (p *pdfPlugin) CandidateName(v byteview.View, headerOff int64) string {
	return fmt.Sprintf("pdf_%012x", headerOff)
}
