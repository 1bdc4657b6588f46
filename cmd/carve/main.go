// Command carve runs the forensic file carver against a disk image or
// raw device, or lists candidate devices to target.
package main

import (
	"fmt"
	"os"

	"github.com/shubham030/forensic-carver/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
