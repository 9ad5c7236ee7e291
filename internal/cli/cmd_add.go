package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/Makepad-fr/tada/internal/duedate"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

type AddCmd struct {
	app *App

	// flags
	description string
	due         string
}

// NewAddCmd creates a new add command
func NewAddCmd(app *App) *AddCmd {
	return &AddCmd{app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Create a todo",
		UsageText: "todo add [--description <text>] [--due <date>] <name...>",
		Description: `Submits a new todo. The name may be several words.

--due takes a date (2024-01-01) or a phrase such as "tomorrow" or
"next friday". Without a name on an interactive terminal a form asks for
the fields.

Examples:
  todo add Buy milk
  todo add -d 2% --due tomorrow Buy milk
  todo add`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "optional description",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "due date, ISO or natural language",
				Destination: &cmd.due,
			},
		},
		Action: cmd.run,
	})

	return root
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	d := model.Draft{
		Name:        strings.TrimSpace(strings.Join(c.Args().Slice(), " ")),
		Description: cmd.description,
	}

	rawDue := cmd.due
	if d.Name == "" {
		if !isTerminal(c.Root().Reader) {
			return usagef("usage: todo add <name...>")
		}
		var err error
		if d, rawDue, err = promptDraft(d, rawDue); err != nil {
			return err
		}
	}

	due, err := duedate.Parse(rawDue, time.Now())
	if err != nil {
		return usagef("%v", err)
	}
	d.DueDate = due

	store := cmd.app.Store
	store.SetDraft(d)
	if err := store.SubmitDraft(ctx); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	ui.OK(c.Root().Writer, "added "+d.Name)
	return nil
}

// promptDraft collects the draft through a form. The due date comes back raw.
func promptDraft(d model.Draft, due string) (model.Draft, string, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task Name").
				Value(&d.Name),
			huh.NewText().
				Title("Task Description").
				Value(&d.Description),
			huh.NewInput().
				Title("Due Date").
				Description(`YYYY-MM-DD or a phrase like "next friday"; leave empty for none`).
				Value(&due).
				Validate(func(s string) error {
					_, err := duedate.Parse(s, time.Now())
					return err
				}),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return d, due, usagef("add: cancelled")
		}
		return d, due, fmt.Errorf("form: %w", err)
	}
	return d, due, nil
}

func isTerminal(r any) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
