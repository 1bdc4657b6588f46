package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shubham030/forensic-carver/internal/device"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List storage devices available as scan targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := device.List()
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no devices found")
				return nil
			}
			for _, d := range devices {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-10s %-8s %s\n", d.Path, d.SizeHuman, d.Filesystem, d.Name)
			}
			return nil
		},
	}
}
