// Package byteview provides a read-only, random-access view over the bytes
// of a disk image or an already-carved blob. A View never copies bytes;
// even Slice returns a sub-slice of the backing array.
package byteview

import (
	"bytes"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// View is a read-only, random-access byte range with substring search.
// MappedView and BufferView both implement it with identical semantics.
type View interface {
	// Length returns the total number of bytes in the view.
	Length() int64

	// Find returns the offset of the first occurrence of needle within
	// [from, to), or false if none exists.
	Find(needle []byte, from, to int64) (int64, bool)

	// RFind returns the offset of the last occurrence of needle within
	// [from, to), or false if none exists.
	RFind(needle []byte, from, to int64) (int64, bool)

	// Slice returns the bytes in [from, to). The returned slice aliases
	// the view's backing array; callers must not retain it past the
	// view's lifetime if the view is later closed.
	Slice(from, to int64) []byte
}

// MappedView is a View backed by a read-only memory mapping of a regular
// file. Used for the top-level scan of an image.
type MappedView struct {
	m mmap.MMap
}

// OpenMapped memory-maps path read-only and returns a MappedView over it.
// The caller owns the returned view and must call Close when done.
func OpenMapped(path string) (*MappedView, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.Wrap(err, "mmap image")
	}
	return &MappedView{m: m}, nil
}

// Close unmaps the underlying region.
func (v *MappedView) Close() error {
	return v.m.Unmap()
}

func (v *MappedView) Length() int64 { return int64(len(v.m)) }

func (v *MappedView) Find(needle []byte, from, to int64) (int64, bool) {
	return find(v.m, needle, from, to)
}

func (v *MappedView) RFind(needle []byte, from, to int64) (int64, bool) {
	return rfind(v.m, needle, from, to)
}

func (v *MappedView) Slice(from, to int64) []byte {
	return v.m[from:to]
}

// BufferView is a View backed by an owned in-memory byte slice. Used for
// recursive embedded scans over bytes already carved out of a parent view.
type BufferView struct {
	b []byte
}

// NewBufferView wraps b as a View. b is not copied.
func NewBufferView(b []byte) *BufferView {
	return &BufferView{b: b}
}

func (v *BufferView) Length() int64 { return int64(len(v.b)) }

func (v *BufferView) Find(needle []byte, from, to int64) (int64, bool) {
	return find(v.b, needle, from, to)
}

func (v *BufferView) RFind(needle []byte, from, to int64) (int64, bool) {
	return rfind(v.b, needle, from, to)
}

func (v *BufferView) Slice(from, to int64) []byte {
	return v.b[from:to]
}

func find(b []byte, needle []byte, from, to int64) (int64, bool) {
	if from < 0 {
		from = 0
	}
	if to > int64(len(b)) {
		to = int64(len(b))
	}
	if from >= to {
		return 0, false
	}
	idx := bytes.Index(b[from:to], needle)
	if idx < 0 {
		return 0, false
	}
	return from + int64(idx), true
}

func rfind(b []byte, needle []byte, from, to int64) (int64, bool) {
	if from < 0 {
		from = 0
	}
	if to > int64(len(b)) {
		to = int64(len(b))
	}
	if from >= to {
		return 0, false
	}
	idx := bytes.LastIndex(b[from:to], needle)
	if idx < 0 {
		return 0, false
	}
	return from + int64(idx), true
}
