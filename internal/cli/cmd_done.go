package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Makepad-fr/tada/internal/ui"
)

type DoneCmd struct {
	app *App
}

// NewDoneCmd creates a new done command
func NewDoneCmd(app *App) *DoneCmd {
	return &DoneCmd{app: app}
}

// Register adds the done command to the application
func (cmd *DoneCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "done",
		Aliases:   []string{"toggle"},
		Usage:     "Toggle a todo between pending and completed",
		UsageText: "todo done <index|id>",
		Description: `Flips the status of one todo. The argument is a 1-based index from
'todo ls' or a todo id.

Examples:
  todo done 2
  todo done 6650c3b1e4f0a2d9c1b2a3f4`,
		Action: cmd.run,
	})

	return root
}

func (cmd *DoneCmd) run(ctx context.Context, c *cli.Command) error {
	if c.NArg() != 1 {
		return usagef("usage: todo done <index|id>")
	}

	store := cmd.app.Store
	if err := store.LoadAll(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	td, err := resolveTarget(store.Items(), c.Args().First())
	if err != nil {
		return err
	}

	if err := store.ToggleStatus(ctx, td.ID, td.Status); err != nil {
		return fmt.Errorf("done: %w", err)
	}

	msg := "marked completed: "
	if td.Status {
		msg = "marked pending: "
	}
	ui.OK(c.Root().Writer, msg+td.Name)
	return nil
}
