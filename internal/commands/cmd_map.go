package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/markdown"
	"github.com/colonyops/quill/pkg/iojson"
)

type MapCmd struct {
	flags *Flags

	// flags
	offset     int
	start      int
	end        int
	jsonOutput bool
}

// offsetHit is the JSON shape for a point lookup.
type offsetHit struct {
	Offset int            `json:"offset"`
	Entry  markdown.Entry `json:"entry"`
}

// rangeHit is the JSON shape for a range lookup.
type rangeHit struct {
	Entry      markdown.Entry `json:"entry"`
	LocalStart int            `json:"localStart"`
	LocalEnd   int            `json:"localEnd"`
}

// NewMapCmd creates a new map command
func NewMapCmd(flags *Flags) *MapCmd {
	return &MapCmd{flags: flags, offset: -1, start: -1, end: -1}
}

// Register adds the map command to the application
func (cmd *MapCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "map",
		Usage:     "Inspect the source map of a markdown file",
		UsageText: "quill map [--offset n | --start n --end n] [--json] <file>",
		Description: `Lists every mapped markdown element with its id, kind, and byte range.

With --offset the command prints the first element whose range contains
the offset. With --start and --end it prints every element overlapping
the half-open range, with the overlap in element-local coordinates.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "offset",
				Usage:       "look up the element containing this byte offset",
				Value:       -1,
				Destination: &cmd.offset,
			},
			&cli.IntFlag{
				Name:        "start",
				Usage:       "range lookup start offset (requires --end)",
				Value:       -1,
				Destination: &cmd.start,
			},
			&cli.IntFlag{
				Name:        "end",
				Usage:       "range lookup end offset (requires --start)",
				Value:       -1,
				Destination: &cmd.end,
			},
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

func (cmd *MapCmd) run(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("map requires a file argument")
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	sm := markdown.NewPipeline().SourceMap(source)
	out := c.Root().Writer

	switch {
	case cmd.offset >= 0:
		return cmd.runOffsetLookup(out, sm)
	case cmd.start >= 0 || cmd.end >= 0:
		return cmd.runRangeLookup(out, sm)
	default:
		return cmd.runList(out, sm)
	}
}

func (cmd *MapCmd) runOffsetLookup(out io.Writer, sm *markdown.SourceMap) error {
	id, ok := sm.FindElementByOffset(cmd.offset)
	if !ok {
		return fmt.Errorf("no element contains offset %d", cmd.offset)
	}
	entry, _ := sm.Get(id)

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, offsetHit{Offset: cmd.offset, Entry: entry})
	}

	_, err := fmt.Fprintf(out, "%s %s [%d,%d)\n", entry.ID, entry.Kind, entry.Range.Start, entry.Range.End)
	return err
}

func (cmd *MapCmd) runRangeLookup(out io.Writer, sm *markdown.SourceMap) error {
	if cmd.start < 0 || cmd.end < 0 {
		return fmt.Errorf("range lookup requires both --start and --end")
	}

	hits := sm.FindEntriesInRange(cmd.start, cmd.end)

	if cmd.jsonOutput {
		results := make([]rangeHit, 0, len(hits))
		for _, h := range hits {
			results = append(results, rangeHit{Entry: h.Entry, LocalStart: h.LocalStart, LocalEnd: h.LocalEnd})
		}
		return iojson.WriteWith(out, os.Stderr, results)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tRANGE\tLOCAL")
	for _, h := range hits {
		_, _ = fmt.Fprintf(w, "%s\t%s\t[%d,%d)\t[%d,%d)\n",
			h.Entry.ID, h.Entry.Kind, h.Entry.Range.Start, h.Entry.Range.End, h.LocalStart, h.LocalEnd)
	}
	return w.Flush()
}

func (cmd *MapCmd) runList(out io.Writer, sm *markdown.SourceMap) error {
	entries := sm.Entries()

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No mapped elements")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tRANGE")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t[%d,%d)\n", e.ID, e.Kind, e.Range.Start, e.Range.End)
	}
	return w.Flush()
}
