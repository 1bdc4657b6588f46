package plugin

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/shubham030/forensic-carver/internal/byteview"
)

var (
	zipLFH       = []byte{'P', 'K', 0x03, 0x04} // Local File Header
	zipEOCD      = []byte{'P', 'K', 0x05, 0x06} // End of Central Directory
	zipEOCD64Loc = []byte{'P', 'K', 0x06, 0x07} // ZIP64 EOCD Locator
	zipEOCD64Rec = []byte{'P', 'K', 0x06, 0x06} // ZIP64 EOCD Record
)

const (
	eocdFixedSize      = 22 // signature..comment length, excluding comment bytes
	eocd64RecMinSize   = 56 // minimum ZIP64 EOCD record size
)

// eocdFields is the fixed 22-byte little-endian layout of an EOCD
// record, not counting the trailing variable-length comment.
type eocdFields struct {
	Signature      [4]byte
	DiskNumber     uint16
	DiskWithCD     uint16
	EntriesOnDisk  uint16
	TotalEntries   uint16
	CDSize         uint32
	CDOffset       uint32
	CommentLength  uint16
}

type zipPlugin struct {
	headers [][]byte
}

func newZIPPlugin() *zipPlugin {
	return &zipPlugin{headers: [][]byte{zipLFH}}
}

func (p *zipPlugin) Format() string { return "zip" }

func (p *zipPlugin) Headers() [][]byte { return p.headers }

func (p *zipPlugin) FindHeader(v byteview.View, from int64) (int64, bool) {
	return FindFirstHeader(v, p.headers, from)
}

// FindFooter implements the variable-length EOCD/ZIP64 search described
// in spec §4.2.3.
func (p *zipPlugin) FindFooter(v byteview.View, headerOff, maxScan int64) (int64, bool) {
	end := headerOff + maxScan
	if end > v.Length() {
		end = v.Length()
	}

	locOff, haveLoc := v.RFind(zipEOCD64Loc, headerOff, end)
	recOff, haveRec := v.RFind(zipEOCD64Rec, headerOff, end)
	eocdOff, haveEOCD := v.RFind(zipEOCD, headerOff, end)

	if haveLoc && haveRec {
		if haveEOCD && eocdOff > recOff {
			return parseEOCDEnd(v, eocdOff, end), true
		}
		return min64(recOff+eocd64RecMinSize, v.Length()), true
	}

	if haveEOCD {
		return parseEOCDEnd(v, eocdOff, end), true
	}

	return 0, false
}

// parseEOCDEnd reads the fixed 22-byte EOCD layout at eocdOffAbs and
// returns the offset just past the trailing comment, clamped to the
// view length. If the structure is truncated by endSearchAbs, it
// downgrades conservatively to a bare 22-byte end.
func parseEOCDEnd(v byteview.View, eocdOffAbs, endSearchAbs int64) int64 {
	if eocdOffAbs+eocdFixedSize > endSearchAbs {
		return min64(eocdOffAbs+eocdFixedSize, v.Length())
	}

	raw := v.Slice(eocdOffAbs, eocdOffAbs+eocdFixedSize)
	var fields eocdFields
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &fields); err != nil {
		return min64(eocdOffAbs+eocdFixedSize, v.Length())
	}

	end := eocdOffAbs + eocdFixedSize + int64(fields.CommentLength)
	return min64(end, v.Length())
}

// Validate requires an LFH plus at least one of {EOCD, EOCD64 record,
// EOCD64 locator}.
func (p *zipPlugin) Validate(data []byte) bool {
	if !bytes.Contains(data, zipLFH) {
		return false
	}
	return bytes.Contains(data, zipEOCD) ||
		bytes.Contains(data, zipEOCD64Rec) ||
		bytes.Contains(data, zipEOCD64Loc)
}

// FragmentedTryBridge scans forward for the first occurrence of each
// signature in priority order {EOCD, EOCD64 locator, EOCD64 record};
// an EOCD match uses the parsed-comment end, locator/record matches
// just return match offset + signature length.
func (p *zipPlugin) FragmentedTryBridge(v byteview.View, headerOff, maxSpan int64, chunkSize int) (int64, bool) {
	end := headerOff + maxSpan
	if end > v.Length() {
		end = v.Length()
	}

	if off, ok := v.Find(zipEOCD, headerOff, end); ok {
		return parseEOCDEnd(v, off, end), true
	}
	if off, ok := v.Find(zipEOCD64Loc, headerOff, end); ok {
		return off + int64(len(zipEOCD64Loc)), true
	}
	if off, ok := v.Find(zipEOCD64Rec, headerOff, end); ok {
		return off + int64(len(zipEOCD64Rec)), true
	}
	return 0, false
}

func (p *zipPlugin) CandidateName(v byteview.View, headerOff int64) string {
	return fmt.Sprintf("zip_%012x", headerOff)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
