// Command hyprlax is the wallpaper daemon, per spec.md §6's CLI surface.
// Invoking it as `hyprlax ctl <args...>` delegates to the same control
// client hyprlax-ctl exposes as its own binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/hyprlax/hyprlax/internal/config"
	"github.com/hyprlax/hyprlax/internal/ctlcli"
	"github.com/hyprlax/hyprlax/internal/daemon"
	"github.com/hyprlax/hyprlax/internal/herr"
	"github.com/hyprlax/hyprlax/internal/legacyconfig"
	"github.com/hyprlax/hyprlax/internal/logsetup"
)

// version is set at release build time via -ldflags; "dev" covers local
// builds.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 && args[0] == "ctl" {
		return ctlcli.Run(args[1:])
	}

	fs := config.NewFlagSet("hyprlax")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if v, _ := fs.GetBool("version"); v {
		fmt.Println("hyprlax " + version)
		return 0
	}

	cfg, err := config.Load(fs, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	closer, err := logsetup.Configure(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closer.Close()

	if err := maybeOfferLegacyConversion(cfg); err != nil {
		logrus.WithError(err).Error("legacy config conversion failed")
		return exitCodeFor(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Error("hyprlax failed to start")
		return exitCodeFor(err)
	}
	defer d.Close()

	if err := d.Run(ctx); err != nil {
		logrus.WithError(err).Error("hyprlax exited with an error")
		return exitCodeFor(err)
	}
	return 0
}

// maybeOfferLegacyConversion implements spec.md §4.7's startup offer: when
// --config points at a legacy .conf, convert it to TOML before the rest of
// Load's TOML-only runtime takes over. Only an explicit --config path is
// considered; the legacy default path is not checked.
func maybeOfferLegacyConversion(cfg *config.Config) error {
	path := cfg.ConfigPath
	if path == "" || !legacyconfig.IsLegacyPath(path) {
		return nil
	}
	_, err := legacyconfig.Convert(legacyconfig.Options{
		SrcPath:        path,
		AssumeYes:      cfg.AssumeYes || legacyconfig.EnvAssumeYes(),
		NonInteractive: cfg.NonInteractive || legacyconfig.EnvNonInteractive(),
	})
	return err
}

// exitCodeFor maps a daemon startup/run error onto spec.md §6's exit-code
// table: AlreadyRunning and every other startup failure are general
// failures (1); a refused legacy-conversion prompt is 3.
func exitCodeFor(err error) int {
	if herr.CodeOf(err) == herr.CodeRefused {
		return 3
	}
	return 1
}
