package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Makepad-fr/tada/internal/tui"
)

type UICmd struct {
	app *App
}

// NewUICmd creates a new ui command
func NewUICmd(app *App) *UICmd {
	return &UICmd{app: app}
}

// Register adds the ui command to the application
func (cmd *UICmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "ui",
		Usage:     "Open the interactive todo list",
		UsageText: "todo ui",
		Description: `Keys:
  space   toggle completed/pending
  d       delete
  a       create (tab between fields, enter to submit, esc to keep as draft)
  r       reload
  /       filter
  q       quit`,
		Action: cmd.run,
	})

	return root
}

func (cmd *UICmd) run(ctx context.Context, _ *cli.Command) error {
	if err := tui.Run(ctx, cmd.app.Store); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
