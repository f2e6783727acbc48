// Command hyprlax-ctl is the standalone control client for a running
// hyprlax daemon, per spec.md §4.7. It is a thin wrapper around the same
// ctlcli package hyprlax itself uses for its `ctl` subcommand.
package main

import (
	"os"

	"github.com/hyprlax/hyprlax/internal/ctlcli"
)

func main() {
	os.Exit(ctlcli.Run(os.Args[1:]))
}
