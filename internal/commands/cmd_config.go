package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/pkg/iojson"
)

type ConfigCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewConfigCmd creates a new config command
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Inspect and validate configuration",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate the configuration file",
				UsageText: "quill config validate [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output validation errors as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runValidate,
			},
			{
				Name:      "show",
				Usage:     "Print the resolved configuration",
				UsageText: "quill config show",
				Action:    cmd.runShow,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)
	if err == nil {
		if !cmd.jsonOutput {
			fmt.Fprintln(c.Root().Writer, "Configuration is valid")
		}
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if cmd.jsonOutput && errors.As(err, &fieldErrs) {
		_ = iojson.WriteWith(c.Root().ErrWriter, c.Root().ErrWriter, fieldErrs)
		return cli.Exit("", 1)
	}

	return fmt.Errorf("invalid configuration: %w", err)
}

func (cmd *ConfigCmd) runShow(ctx context.Context, c *cli.Command) error {
	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, cmd.flags.Config)
}
