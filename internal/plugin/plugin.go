// Package plugin defines the format descriptor contract (spec: Format
// Plugin) and the fixed set of concrete variants: JPEG, PDF, ZIP.
package plugin

import "github.com/shubham030/forensic-carver/internal/byteview"

// Plugin describes one carvable file format. Implementations must never
// decode file content; validation is a cheap structural check only.
type Plugin interface {
	// Format returns the plugin's tag, e.g. "jpeg".
	Format() string

	// Headers returns the plugin's declared header signatures. Every
	// signature is a literal needle; the list is never empty.
	Headers() [][]byte

	// FindHeader returns the nearest header occurrence at or after from.
	// The default behavior (shared via FindFirstHeader) searches only
	// the first declared signature.
	FindHeader(v byteview.View, from int64) (int64, bool)

	// FindFooter returns the exclusive end offset of the carved file
	// given a header at headerOff, searching within
	// [headerOff, headerOff+maxScan).
	FindFooter(v byteview.View, headerOff, maxScan int64) (int64, bool)

	// Validate performs a cheap structural check on the carved bytes.
	Validate(data []byte) bool

	// FragmentedTryBridge is a best-effort alternate footer locator,
	// invoked only when FindFooter failed and fragmented carving is
	// enabled.
	FragmentedTryBridge(v byteview.View, headerOff, maxSpan int64, chunkSize int) (int64, bool)

	// CandidateName returns a deterministic, collision-free artifact
	// label derived from the format tag and header offset.
	CandidateName(v byteview.View, headerOff int64) string
}

// FindFirstHeader is the default find-header behavior shared by plugins
// that don't override it: the nearest occurrence, at or after from, of
// the plugin's first declared signature. Per spec, only the first
// signature ever drives the forward scan; additional signatures are
// exposed for plugins that override FindHeader themselves, but none of
// JPEG/PDF/ZIP currently need to.
func FindFirstHeader(v byteview.View, headers [][]byte, from int64) (int64, bool) {
	return v.Find(headers[0], from, v.Length())
}

// Registry is the fixed, ordered set of enabled plugins for a run.
type Registry struct {
	plugins []Plugin
}

// all is the complete, compile-time-fixed set of supported plugins,
// keyed by format tag.
var all = map[string]Plugin{
	"jpeg": newJPEGPlugin(),
	"pdf":  newPDFPlugin(),
	"zip":  newZIPPlugin(),
}

// NewRegistry builds a Registry containing the named formats, in the
// order given. Unknown format tags are a configuration error.
func NewRegistry(formats []string) (*Registry, error) {
	r := &Registry{}
	for _, f := range formats {
		p, ok := all[f]
		if !ok {
			return nil, &UnknownFormatError{Format: f}
		}
		r.plugins = append(r.plugins, p)
	}
	return r, nil
}

// Plugins returns the enabled plugins in configured order.
func (r *Registry) Plugins() []Plugin {
	return r.plugins
}

// UnknownFormatError reports a format tag not in the fixed plugin set.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return "unknown carve format: " + e.Format
}
