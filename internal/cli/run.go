package cli

import (
	"strings"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shubham030/forensic-carver/internal/index"
	"github.com/shubham030/forensic-carver/internal/scan"
	"github.com/shubham030/forensic-carver/internal/sink"
)

func newRunCmd() *cobra.Command {
	var (
		outDir      string
		formats     []string
		maxSize     string
		depth       int
		fragmented  bool
		chunkSize   int
		scanWindows []string
	)

	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Scan a disk image or raw device and carve matching files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image := args[0]

			maxBytes, err := units.RAMInBytes(viper.GetString("max-size"))
			if err != nil {
				return errors.Wrap(err, "parse max-size")
			}

			windows := scan.DefaultScanWindows()
			for _, w := range viper.GetStringSlice("scan-window") {
				format, size, ok := strings.Cut(w, "=")
				if !ok {
					return errors.Errorf("invalid --scan-window %q, want format=size", w)
				}
				bytes, err := units.RAMInBytes(size)
				if err != nil {
					return errors.Wrapf(err, "parse --scan-window %q", w)
				}
				windows[format] = bytes
			}

			s, err := sink.NewDirSink(viper.GetString("out"))
			if err != nil {
				return errors.Wrap(err, "create output sink")
			}

			opts := scan.Options{
				Formats:       viper.GetStringSlice("formats"),
				MaxSize:       maxBytes,
				EmbeddedDepth: viper.GetInt("embedded-depth"),
				Fragmented:    viper.GetBool("fragmented"),
				ChunkSize:     viper.GetInt("chunk-size"),
				ScanWindows:   windows,
			}

			scanner, err := scan.New(opts, s, log)
			if err != nil {
				return errors.Wrap(err, "build scanner")
			}

			view, closeFn, err := scan.Open(image)
			if err != nil {
				return errors.Wrapf(err, "open image %s", image)
			}
			defer closeFn()

			records, err := scanner.Run(view)
			if err != nil {
				return errors.Wrap(err, "scan")
			}

			log.WithField("carved", len(records)).Info("scan complete")
			return index.Write(viper.GetString("out"), records)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&outDir, "out", "./carve-out", "output directory for carved files and indexes")
	flags.StringSliceVar(&formats, "formats", []string{"jpeg", "pdf", "zip"}, "enabled format plugins")
	flags.StringVar(&maxSize, "max-size", "512MiB", "maximum size of any single carved file")
	flags.IntVar(&depth, "embedded-depth", 1, "recursion depth for embedded-file scanning (0 disables)")
	flags.BoolVar(&fragmented, "fragmented", false, "enable the fragmented-bridge heuristic when the primary footer locator fails")
	flags.IntVar(&chunkSize, "chunk-size", 4096, "granularity passed to the fragmented-bridge heuristic (reserved; no format plugin reads it)")
	flags.StringSliceVar(&scanWindows, "scan-window", nil, "override a format's forward search span, format=size (repeatable)")

	for _, name := range []string{"out", "formats", "max-size", "embedded-depth", "fragmented", "chunk-size", "scan-window"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	return cmd
}
