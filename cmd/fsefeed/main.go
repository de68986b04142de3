package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/fsefeed/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/fsefeed/config.toml)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Args:       flag.Args(),
	}

	if err := app.Run(ctx, opts); err != nil {
		if errors.Is(err, app.ErrUsage) {
			return 2
		}
		fmt.Fprintf(os.Stderr, "fsefeed: %v\n", err)
		return 1
	}
	return 0
}
