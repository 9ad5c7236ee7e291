// Package cli wires the todo command line: global flags, configuration,
// logging and the subcommands that drive the todo store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/todostore"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options carry process-level inputs into Run.
type Options struct {
	Version string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Flags holds the values of the global flags.
type Flags struct {
	ConfigPath string
	APIURL     string
	Timeout    time.Duration
	LogLevel   string
	LogFile    string
	Theme      string
	Color      bool
	NoColor    bool
}

// App is the state shared by subcommands once the Before hook has run.
type App struct {
	Flags  Flags
	Config *config.Config
	Store  *todostore.Store
	Logger zerolog.Logger

	opts     Options
	closeLog func()
}

// usageError marks errors caused by bad invocation (exit code 2).
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// Run executes the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opts Options) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	app := &App{opts: opts, closeLog: func() {}}
	defer func() { app.closeLog() }()

	err := app.Command().Run(ctx, args)
	if err == nil {
		return 0
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		ui.Fail(opts.Stderr, uerr.msg)
		return 2
	}
	ui.Fail(opts.Stderr, err.Error())
	return 1
}

// Command builds the root command with every subcommand registered.
func (a *App) Command() *cli.Command {
	root := &cli.Command{
		Name:      "todo",
		Usage:     "Track tasks in a remote todo collection",
		UsageText: "todo [global options] command [command options]",
		Description: `todo lists, creates, completes and deletes tasks stored behind a
/api/v1/todo REST collection.

Run 'todo ui' for the interactive list, or 'todo serve' to start a local
development collection.`,
		Version:   a.opts.Version,
		Reader:    a.opts.Stdin,
		Writer:    a.opts.Stdout,
		ErrWriter: a.opts.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TADA_CONFIG"),
				Value:       config.DefaultConfigPath(),
				Destination: &a.Flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "api-url",
				Usage:       "base URL of the todo collection server",
				Sources:     cli.EnvVars("TADA_API_URL"),
				Destination: &a.Flags.APIURL,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "per-request timeout",
				Sources:     cli.EnvVars("TADA_TIMEOUT"),
				Destination: &a.Flags.Timeout,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("TADA_LOG_LEVEL"),
				Destination: &a.Flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file, '-' for stderr (defaults to <data-dir>/tada.log)",
				Sources:     cli.EnvVars("TADA_LOG_FILE"),
				Destination: &a.Flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "output theme (classic, neon, mono)",
				Sources:     cli.EnvVars("TADA_THEME"),
				Destination: &a.Flags.Theme,
			},
			&cli.BoolFlag{
				Name:        "color",
				Usage:       "force colored output",
				Destination: &a.Flags.Color,
			},
			&cli.BoolFlag{
				Name:        "no-color",
				Usage:       "disable colored output",
				Destination: &a.Flags.NoColor,
			},
		},
		Before: a.before,
		After: func(context.Context, *cli.Command) error {
			a.closeLog()
			a.closeLog = func() {}
			return nil
		},
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return &usageError{msg: err.Error()}
		},
	}

	NewLsCmd(a).Register(root)
	NewAddCmd(a).Register(root)
	NewDoneCmd(a).Register(root)
	NewRmCmd(a).Register(root)
	NewUICmd(a).Register(root)
	NewServeCmd(a).Register(root)

	return root
}

func (a *App) before(ctx context.Context, c *cli.Command) (context.Context, error) {
	cfg, err := config.Load(a.Flags.ConfigPath)
	if err != nil {
		return ctx, fmt.Errorf("load config: %w", err)
	}

	if c.IsSet("api-url") {
		cfg.APIURL = a.Flags.APIURL
	}
	if c.IsSet("timeout") {
		cfg.Timeout = a.Flags.Timeout
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = a.Flags.LogLevel
	}
	if c.IsSet("log-file") {
		cfg.Log.File = a.Flags.LogFile
	}
	if c.IsSet("theme") {
		cfg.Theme = a.Flags.Theme
	}
	if err := cfg.Validate(); err != nil {
		return ctx, fmt.Errorf("invalid config: %w", err)
	}
	a.Config = cfg

	logFile := cfg.Log.File
	switch logFile {
	case "":
		logFile = filepath.Join(config.DefaultDataDir(), "tada.log")
	case "-":
		logFile = ""
	}
	logger, closer, err := logging.New(cfg.Log.Level, logFile, a.opts.Stderr)
	if err != nil {
		return ctx, fmt.Errorf("setup logger: %w", err)
	}
	log.Logger = logger
	a.Logger = logger
	a.closeLog = closer

	ui.SetOutput(a.opts.Stdout)
	ui.SetColorForcing(a.Flags.Color, a.Flags.NoColor)
	ui.SetTheme(cfg.Theme)

	userAgent := "tada"
	if a.opts.Version != "" {
		userAgent += "/" + a.opts.Version
	}
	client := api.New(cfg.APIURL,
		api.WithTimeout(cfg.Timeout),
		api.WithUserAgent(userAgent),
		api.WithLogger(logging.Component("api")),
	)
	a.Store = todostore.New(client, logging.Component("store"))

	logger.Debug().Str("api", client.Endpoint()).Msg("todo client ready")
	return ctx, nil
}
