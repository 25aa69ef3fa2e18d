package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/pkg/iojson"
)

type ThemesCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewThemesCmd creates a new themes command
func NewThemesCmd(flags *Flags) *ThemesCmd {
	return &ThemesCmd{flags: flags}
}

// Register adds the themes command to the application
func (cmd *ThemesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "themes",
		Usage:     "List available themes",
		UsageText: "quill themes [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ThemesCmd) run(ctx context.Context, c *cli.Command) error {
	names := styles.ThemeNames()
	out := c.Root().Writer

	if cmd.jsonOutput {
		type theme struct {
			Name   string `json:"name"`
			Active bool   `json:"active"`
		}
		list := make([]theme, 0, len(names))
		for _, name := range names {
			list = append(list, theme{Name: name, Active: name == cmd.flags.Config.Theme})
		}
		return iojson.WriteWith(out, c.Root().ErrWriter, list)
	}

	for _, name := range names {
		marker := " "
		if name == cmd.flags.Config.Theme {
			marker = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %s\n", marker, name); err != nil {
			return err
		}
	}
	return nil
}
