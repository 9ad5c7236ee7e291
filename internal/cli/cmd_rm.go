package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Makepad-fr/tada/internal/ui"
)

type RmCmd struct {
	app *App
}

// NewRmCmd creates a new rm command
func NewRmCmd(app *App) *RmCmd {
	return &RmCmd{app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "rm",
		Aliases:   []string{"delete"},
		Usage:     "Delete a todo",
		UsageText: "todo rm <index|id>",
		Action:    cmd.run,
	})

	return root
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	if c.NArg() != 1 {
		return usagef("usage: todo rm <index|id>")
	}

	store := cmd.app.Store
	if err := store.LoadAll(ctx); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	td, err := resolveTarget(store.Items(), c.Args().First())
	if err != nil {
		return err
	}

	if err := store.Remove(ctx, td.ID); err != nil {
		return fmt.Errorf("rm: %w", err)
	}

	ui.OK(c.Root().Writer, "removed "+td.Name)
	return nil
}
