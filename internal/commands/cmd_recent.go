package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/store/jsonfile"
	"github.com/colonyops/quill/pkg/iojson"
)

type RecentCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewRecentCmd creates a new recent command
func NewRecentCmd(flags *Flags) *RecentCmd {
	return &RecentCmd{flags: flags}
}

// Register adds the recent command to the application
func (cmd *RecentCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "recent",
		Usage:     "List recently edited files",
		UsageText: "quill recent [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
		Commands: []*cli.Command{
			{
				Name:      "clear",
				Usage:     "Clear the recent file list",
				UsageText: "quill recent clear",
				Action:    cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *RecentCmd) run(ctx context.Context, c *cli.Command) error {
	recents := jsonfile.NewRecentStore(cmd.flags.Config.RecentFile())

	entries, err := recents.List()
	if err != nil {
		return fmt.Errorf("list recent files: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No recent files")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PATH\tOFFSET\tOPENED")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", e.Path, e.Offset, e.OpenedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func (cmd *RecentCmd) runClear(ctx context.Context, c *cli.Command) error {
	recents := jsonfile.NewRecentStore(cmd.flags.Config.RecentFile())
	if err := recents.Clear(); err != nil {
		return fmt.Errorf("clear recent files: %w", err)
	}
	fmt.Fprintln(c.Root().Writer, "Recent file list cleared")
	return nil
}
