package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

type ServeCmd struct {
	app *App

	// flags
	addr     string
	dataFile string
}

// NewServeCmd creates a new serve command
func NewServeCmd(app *App) *ServeCmd {
	return &ServeCmd{app: app}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run a local development todo collection",
		UsageText: "todo serve [--addr <host:port>] [--data-file <path>]",
		Description: `Serves GET/POST/PUT/DELETE /api/v1/todo from memory. With --data-file
the collection is loaded from and saved to a JSON file.

Point the client at it with --api-url http://<addr>.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Sources:     cli.EnvVars("TADA_SERVER_ADDR"),
				Destination: &cmd.addr,
			},
			&cli.StringFlag{
				Name:        "data-file",
				Usage:       "JSON file to persist todos in",
				Sources:     cli.EnvVars("TADA_SERVER_DATA_FILE"),
				Destination: &cmd.dataFile,
			},
		},
		Action: cmd.run,
	})

	return root
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.app.Config.Server
	if c.IsSet("addr") {
		cfg.Addr = cmd.addr
	}
	if c.IsSet("data-file") {
		cfg.DataFile = cmd.dataFile
	}

	out := c.Root().Writer
	var persist server.Persister
	if cfg.DataFile != "" {
		fs := jsonstore.New(cfg.DataFile)
		_, _ = fmt.Fprintf(out, "persisting todos to %s\n", fs.Path())
		persist = fs
	}
	repo, err := server.NewRepository(persist)
	if err != nil {
		return fmt.Errorf("open collection: %w", err)
	}

	srv := server.New(server.Config{Addr: cfg.Addr}, repo, logging.Component("server"))
	_, _ = fmt.Fprintf(out, "serving /api/v1/todo on http://%s\n", cfg.Addr)
	return srv.Run(ctx)
}
