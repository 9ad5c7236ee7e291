package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Makepad-fr/tada/internal/ui"
)

type LsCmd struct {
	app *App

	// flags
	group      bool
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(app *App) *LsCmd {
	return &LsCmd{app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "ls",
		Aliases:   []string{"list"},
		Usage:     "List all todos",
		UsageText: "todo ls [--group] [--json]",
		Description: `Fetches the collection and prints it in server order inside a panel
with completion counts. Indexes shown are valid for 'todo done' and 'todo rm'.

Use --json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "group",
				Aliases:     []string{"g"},
				Usage:       "group output by pending/done",
				Destination: &cmd.group,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return root
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	store := cmd.app.Store
	if err := store.LoadAll(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	items := store.Items()
	out := c.Root().Writer

	if cmd.jsonOutput {
		enc := json.NewEncoder(out)
		for _, it := range items {
			if err := enc.Encode(it); err != nil {
				return fmt.Errorf("encode todo: %w", err)
			}
		}
		return nil
	}

	ui.Panel(out, panelLines(items, cmd.group, time.Now()))
	return nil
}
