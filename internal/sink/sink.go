// Package sink writes carved byte ranges to persistent storage.
package sink

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// extensions maps a format tag to the file extension its artifacts get
// written with. Formats not listed get ".bin".
var extensions = map[string]string{
	"jpeg": ".jpg",
	"pdf":  ".pdf",
	"zip":  ".zip",
}

// Sink writes carved bytes under a naming convention and returns an
// opaque identifier (a path-like string) recorded in the carve record.
type Sink interface {
	Write(format, name string, data []byte) (string, error)
}

// DirSink writes artifacts to <root>/carved/<name><ext>.
type DirSink struct {
	root string
}

// NewDirSink creates the output directory layout rooted at root
// (<root> and <root>/carved) if absent, and returns a Sink over it.
func NewDirSink(root string) (*DirSink, error) {
	carved := filepath.Join(root, "carved")
	if err := os.MkdirAll(carved, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}
	return &DirSink{root: root}, nil
}

// Write implements Sink. The write is not fsync'd; write-then-close is
// sufficient for this tool's durability contract.
func (s *DirSink) Write(format, name string, data []byte) (string, error) {
	ext := extensions[format]
	if ext == "" {
		ext = ".bin"
	}
	path := filepath.Join(s.root, "carved", name+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "create artifact %s", path)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return "", errors.Wrapf(err, "write artifact %s", path)
	}
	return path, nil
}
