package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/internal/core/eventbus"
	"github.com/colonyops/quill/internal/core/logging"
	"github.com/colonyops/quill/internal/core/recent"
	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/internal/store/jsonfile"
	"github.com/colonyops/quill/internal/tui"
)

type EditCmd struct {
	flags *Flags
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags) *EditCmd {
	return &EditCmd{flags: flags}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Open a markdown file in the editor",
		UsageText: "quill edit [file]",
		Description: `Opens the given file in the terminal editor with a live preview pane.

If the file does not exist it is created on first save. With no argument an
interactive prompt asks for a filename.`,
		Action: cmd.run,
	})

	return app
}

// Run executes the editor. Exported for use as default command.
func (cmd *EditCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the editor requires a terminal")
	}

	path := c.Args().First()
	if path == "" {
		var err error
		path, err = cmd.promptFilename()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("prompt filename: %w", err)
		}
	}

	doc, err := document.Load(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	ctx = logging.WithDocument(ctx, doc.Path)
	log.Info().Ctx(ctx).Msg("opening editor")

	recents := jsonfile.NewRecentStore(cmd.flags.Config.RecentFile())
	cmd.touchRecent(recents, doc.Path, 0)

	if cmd.flags.Bus != nil {
		cmd.flags.Bus.PublishDocumentOpened(eventbus.DocumentOpenedPayload{Path: doc.Path})
	}

	m := tui.New(doc, cmd.flags.Config, tui.Options{Bus: cmd.flags.Bus})
	p := tea.NewProgram(m)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	if model, ok := finalModel.(tui.Model); ok {
		cmd.touchRecent(recents, doc.Path, model.CursorOffset())
	}

	return nil
}

// touchRecent records the file in the recent list. Failures are logged,
// never surfaced: losing the recent list should not break editing.
func (cmd *EditCmd) touchRecent(recents recent.Store, path string, offset int) {
	err := recents.Touch(recent.Entry{
		Path:     path,
		Offset:   offset,
		OpenedAt: time.Now(),
	}, cmd.flags.Config.Recent.MaxEntries)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to record recent file")
	}
}

func (cmd *EditCmd) promptFilename() (string, error) {
	var name string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("File name").
				Description("Path of the markdown file to edit").
				Placeholder("untitled.md").
				Validate(validateFilename).
				Value(&name),
		),
	).WithTheme(styles.FormTheme()).Run()
	if err != nil {
		return "", err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "untitled.md"
	}
	return name, nil
}

func validateFilename(s string) error {
	if strings.ContainsRune(s, '\x00') {
		return fmt.Errorf("invalid file name")
	}
	return nil
}
