package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/commands"
	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/eventbus"
	"github.com/colonyops/quill/internal/core/logging"
	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "quill",
		Usage:     "A terminal markdown editor with live preview",
		UsageText: "quill [global options] [command] [file]",
		Description: `Quill edits markdown in a split view: raw text on the left, a rendered
preview on the right. Every rendered element is mapped back to its byte
range in the source, so the preview tracks the cursor as you type.

Run 'quill <file>' to start editing.
Run 'quill render' or 'quill map' to use the source mapper from scripts.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("QUILL_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/quill.log)",
				Sources:     cli.EnvVars("QUILL_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("QUILL_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("QUILL_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; the TUI owns the terminal.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "quill.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures the name is valid)
			palette, _ := styles.GetPalette(cfg.Theme)
			styles.SetTheme(palette)

			bus := eventbus.New(0)
			bus.RegisterDebugLogging()
			bus.Start(ctx)
			flags.Bus = bus

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if flags.Bus != nil && flags.Bus.Dropped() > 0 {
				log.Warn().Int("dropped", flags.Bus.Dropped()).Msg("event bus dropped events")
			}
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	editCmd := commands.NewEditCmd(flags)

	app = editCmd.Register(app)
	app = commands.NewRenderCmd(flags).Register(app)
	app = commands.NewMapCmd(flags).Register(app)
	app = commands.NewRecentCmd(flags).Register(app)
	app = commands.NewThemesCmd(flags).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)

	// Open the editor when invoked as 'quill [file]' with no subcommand
	app.Action = editCmd.Run

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
