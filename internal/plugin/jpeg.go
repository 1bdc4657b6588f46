package plugin

import (
	"bytes"
	"fmt"

	"github.com/shubham030/forensic-carver/internal/byteview"
)

var (
	jpegSOI = []byte{0xFF, 0xD8} // Start of Image
	jpegEOI = []byte{0xFF, 0xD9} // End of Image
	jpegSOS = []byte{0xFF, 0xDA} // Start of Scan
)

type jpegPlugin struct {
	headers [][]byte
}

func newJPEGPlugin() *jpegPlugin {
	return &jpegPlugin{headers: [][]byte{jpegSOI}}
}

func (p *jpegPlugin) Format() string { return "jpeg" }

func (p *jpegPlugin) Headers() [][]byte { return p.headers }

func (p *jpegPlugin) FindHeader(v byteview.View, from int64) (int64, bool) {
	return FindFirstHeader(v, p.headers, from)
}

// FindFooter returns the first EOI strictly after the SOI marker.
func (p *jpegPlugin) FindFooter(v byteview.View, headerOff, maxScan int64) (int64, bool) {
	start := headerOff + int64(len(jpegSOI))
	end := headerOff + maxScan
	if end > v.Length() {
		end = v.Length()
	}
	off, ok := v.Find(jpegEOI, start, end)
	if !ok {
		return 0, false
	}
	return off + int64(len(jpegEOI)), true
}

// Validate checks the three cheap JPEG structural markers: SOI at the
// start, EOI at the end, and at least one SOS somewhere in between.
func (p *jpegPlugin) Validate(data []byte) bool {
	if !bytes.HasPrefix(data, jpegSOI) || !bytes.HasSuffix(data, jpegEOI) {
		return false
	}
	return bytes.Contains(data, jpegSOS)
}

// FragmentedTryBridge is identical to FindFooter; JPEG has no
// additional recovery intelligence beyond "keep looking for an EOI".
// Retained as a format hook per the plugin contract, not because it
// adds anything over the primary locator.
func (p *jpegPlugin) FragmentedTryBridge(v byteview.View, headerOff, maxSpan int64, chunkSize int) (int64, bool) {
	return p.FindFooter(v, headerOff, maxSpan)
}

func (p *jpegPlugin) CandidateName(v byteview.View, headerOff int64) string {
	return fmt.Sprintf("jpeg_%012x", headerOff)
}
