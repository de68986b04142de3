package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/five82/fsefeed/internal/config"
	"github.com/five82/fsefeed/internal/datafeed"
	"github.com/five82/fsefeed/internal/fse"
)

// Options configure one fsefeed invocation.
type Options struct {
	ConfigPath string
	PrefsPath  string   // empty uses default ~/.config/fsefeed/prefs.toml
	Args       []string // subcommand and its arguments
	Stdout     io.Writer
	Stderr     io.Writer
	// Fetcher replaces the HTTP feed client; nil builds one from the config.
	Fetcher fse.Fetcher
}

// ErrUsage reports a command line that could not be understood. The usage
// text has already been written to Stderr.
var ErrUsage = errors.New("usage")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *env, args []string) error
}

var commands = []command{
	{"jobs", "list assignments departing one or more airports", runJobs},
	{"planes", "list aircraft of one make/model", runPlanes},
	{"owned", "list aircraft owned by a user or group", runOwned},
	{"configs", "list aircraft types and their capacities", runConfigs},
	{"browse", "browse aircraft of a make/model interactively", runBrowse},
}

// env is what every subcommand receives.
type env struct {
	cfg       config.Config
	client    *datafeed.Client
	logger    *slog.Logger
	stdout    io.Writer
	stderr    io.Writer
	prefsPath string
}

// Run loads configuration, builds the data feed client and executes the
// subcommand named by opts.Args[0].
func Run(ctx context.Context, opts Options) error {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	if len(opts.Args) == 0 {
		printUsage(stderr)
		return ErrUsage
	}
	cmd, ok := lookup(opts.Args[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", opts.Args[0])
		printUsage(stderr)
		return ErrUsage
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := initLogger(cfg.Log, stderr)

	fetcher := opts.Fetcher
	if fetcher == nil {
		httpClient, err := fse.NewClient(cfg.BaseURL, cfg.AccessKey, cfg.Timeout)
		if err != nil {
			return fmt.Errorf("init feed client (set access_key or %s): %w", config.AccessKeyEnv, err)
		}
		fetcher = httpClient
	}

	client := datafeed.New(fetcher, datafeed.Options{
		Concurrency:   cfg.FetchConcurrency,
		ValidateTypes: cfg.ValidateTypes,
		Logger:        logger,
	})
	defer client.Close()

	e := &env{
		cfg:       cfg,
		client:    client,
		logger:    logger,
		stdout:    stdout,
		stderr:    stderr,
		prefsPath: opts.PrefsPath,
	}
	logger.Debug("running command", "command", cmd.name, "base_url", cfg.BaseURL)
	return cmd.run(ctx, e, opts.Args[1:])
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: fsefeed [-config path] [-prefs path] <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
}
