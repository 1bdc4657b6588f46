// Package scan implements the carving engine: the scanner that iterates
// format plugins over a byte view, carves non-overlapping candidates,
// validates them, writes artifacts through a sink, and recursively
// rescans carved blobs for embedded files up to a configured depth.
package scan

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/shubham030/forensic-carver/internal/byteview"
	"github.com/shubham030/forensic-carver/internal/plugin"
	"github.com/shubham030/forensic-carver/internal/record"
	"github.com/shubham030/forensic-carver/internal/sink"
)

const (
	// DefaultMaxSize bounds any single emitted artifact absent an
	// explicit override.
	DefaultMaxSize = 512 * 1024 * 1024
)

// DefaultScanWindows returns the default maximum forward search span
// per format, used by the CLI shell when the operator doesn't override
// them.
func DefaultScanWindows() map[string]int64 {
	return map[string]int64{
		"jpeg": 128 * 1024 * 1024,
		"pdf":  256 * 1024 * 1024,
		"zip":  256 * 1024 * 1024,
	}
}

// Options is the immutable configuration for one scan run.
type Options struct {
	// Formats lists the enabled plugin tags, in scan order.
	Formats []string
	// MaxSize is the hard upper bound, in bytes, on any single carved file.
	MaxSize int64
	// EmbeddedDepth is the recursion depth limit; 0 disables recursion.
	EmbeddedDepth int
	// Fragmented enables the fragmented-bridge heuristic when the
	// primary footer locator fails.
	Fragmented bool
	// ChunkSize is reserved granularity passed to the bridge heuristic.
	ChunkSize int
	// ScanWindows maps a format tag to its maximum forward search span.
	// A format absent from the map falls back to MaxSize.
	ScanWindows map[string]int64
	// OnRecord, if set, is invoked synchronously right after each
	// record is appended to the store. It exists purely for progress
	// reporting (CLI logging, a TUI's live view) — the scanner itself
	// never branches on it.
	OnRecord func(record.Record)
}

func (o Options) windowFor(format string) int64 {
	if w, ok := o.ScanWindows[format]; ok && w > 0 {
		return w
	}
	return o.MaxSize
}

// Scanner is the carving engine for one run: a fixed plugin registry,
// a byte sink, and the options governing carve behavior.
type Scanner struct {
	registry *plugin.Registry
	opts     Options
	sink     sink.Sink
	log      *logrus.Logger
}

// New builds a Scanner. The returned Scanner is safe to Run exactly once
// per view; it owns no state across separate Run calls.
func New(opts Options, s sink.Sink, log *logrus.Logger) (*Scanner, error) {
	reg, err := plugin.NewRegistry(opts.Formats)
	if err != nil {
		return nil, errors.Wrap(err, "build plugin registry")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scanner{registry: reg, opts: opts, sink: s, log: log}, nil
}

// Open resolves a top-level image path to a memory-mapped View. The
// returned close func unmaps the region; callers must call it when the
// scan completes.
func Open(imagePath string) (byteview.View, func() error, error) {
	v, err := byteview.OpenMapped(imagePath)
	if err != nil {
		return nil, nil, err
	}
	return v, v.Close, nil
}

// Run performs one full top-level scan of v and returns the carve
// records in append (discovery) order.
func (s *Scanner) Run(v byteview.View) ([]record.Record, error) {
	store := record.NewStore()
	if err := s.scanLevel(v, store, 0, "", ""); err != nil {
		return nil, err
	}
	return store.Records(), nil
}

// scanLevel runs every enabled plugin over v, independently, except the
// plugin matching parentFormat when this is an embedded (parentName !=
// "") scan — the immediate-child-level self-match suppression. Deeper
// descendants may re-encounter the grandparent's format; the exclusion
// is re-derived fresh at each recursion level from that level's own
// producing plugin, not accumulated across ancestors.
func (s *Scanner) scanLevel(v byteview.View, store *record.Store, depth int, parentName, parentFormat string) error {
	for _, p := range s.registry.Plugins() {
		if parentFormat != "" && p.Format() == parentFormat {
			continue
		}
		if err := s.scanPlugin(v, p, store, depth, parentName); err != nil {
			return err
		}
	}
	return nil
}

// scanPlugin runs the single-plugin scan loop described in spec §4.3.1:
// advance a cursor across v, carve each non-overlapping candidate,
// validate, write, record, and recurse into embedded content before
// resuming the scan past the candidate's end.
func (s *Scanner) scanPlugin(v byteview.View, p plugin.Plugin, store *record.Store, depth int, parentName string) error {
	window := s.opts.windowFor(p.Format())
	length := v.Length()

	var cursor int64
	for cursor < length {
		header, found := p.FindHeader(v, cursor)
		if !found {
			break
		}

		end, footerFound := p.FindFooter(v, header, window)
		fragmented := false
		if !footerFound && s.opts.Fragmented {
			end, footerFound = p.FragmentedTryBridge(v, header, window, s.opts.ChunkSize)
			fragmented = footerFound
		}
		if !footerFound {
			cursor = header + 1
			continue
		}

		size := end - header
		if size <= 0 || size > s.opts.MaxSize {
			cursor = header + 1
			continue
		}

		data := v.Slice(header, end)
		validated := p.Validate(data)
		name := p.CandidateName(v, header)
		if parentName != "" {
			name = fmt.Sprintf("%s__%s_%08x", parentName, p.Format(), header)
		}

		outPath, err := s.sink.Write(p.Format(), name, data)
		if err != nil {
			return errors.Wrapf(err, "write carved %s at %d", p.Format(), header)
		}

		notes := ""
		switch {
		case parentName != "":
			notes = record.NoteEmbedded
		case fragmented:
			notes = record.NoteFragmentedBridge
		}

		rec := record.Record{
			Format:         p.Format(),
			Start:          header,
			End:            end,
			Size:           size,
			OutPath:        outPath,
			Validated:      validated,
			EmbeddedParent: parentName,
			Notes:          notes,
		}
		store.Append(rec)
		if s.opts.OnRecord != nil {
			s.opts.OnRecord(rec)
		}

		s.log.WithFields(logrus.Fields{
			"format":    p.Format(),
			"start":     header,
			"end":       end,
			"depth":     depth,
			"validated": validated,
		}).Info("carved artifact")

		if s.opts.EmbeddedDepth > depth {
			child := byteview.NewBufferView(data)
			if err := s.scanLevel(child, store, depth+1, name, p.Format()); err != nil {
				return err
			}
		}

		cursor = end
	}
	return nil
}
