package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/markdown"
	"github.com/colonyops/quill/pkg/iojson"
)

type RenderCmd struct {
	flags *Flags

	// flags
	withMap bool
	outPath string
}

// renderResult is the JSON shape emitted with --map.
type renderResult struct {
	Path string           `json:"path"`
	HTML string           `json:"html"`
	Map  []markdown.Entry `json:"map"`
}

// NewRenderCmd creates a new render command
func NewRenderCmd(flags *Flags) *RenderCmd {
	return &RenderCmd{flags: flags}
}

// Register adds the render command to the application
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Render markdown files to annotated HTML",
		UsageText: "quill render [--map] [-o path] <file|glob>",
		Description: `Renders markdown to HTML where every element carries data-source-* attributes
pointing back into the markdown source.

The argument may be a literal path or a glob pattern like 'docs/**/*.md'.
With --map the output is JSON including the source map instead of raw HTML.
With -o, output goes to the given file, or directory when the glob matches
more than one file.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "map",
				Usage:       "emit JSON with the HTML and the source map",
				Destination: &cmd.withMap,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write output to this file or directory",
				Destination: &cmd.outPath,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RenderCmd) run(ctx context.Context, c *cli.Command) error {
	pattern := c.Args().First()
	if pattern == "" {
		return fmt.Errorf("render requires a file or glob argument")
	}

	paths, err := resolvePattern(pattern)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match %q", pattern)
	}
	if cmd.withMap && cmd.outPath != "" {
		return fmt.Errorf("--map and -o are mutually exclusive")
	}

	pipeline := markdown.NewPipeline()
	out := c.Root().Writer

	var results []renderResult
	for _, path := range paths {
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		html, ann, err := pipeline.RenderHTML(source)
		if err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}

		if cmd.withMap {
			results = append(results, renderResult{
				Path: path,
				HTML: string(html),
				Map:  markdown.BuildSourceMap(ann).Entries(),
			})
			continue
		}

		if cmd.outPath == "" {
			if _, err := out.Write(html); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			continue
		}

		target, err := outputTarget(cmd.outPath, path, len(paths) > 1)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, html, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
	}

	if cmd.withMap {
		// One JSON document regardless of how many files matched.
		if len(results) == 1 {
			return iojson.WriteWith(out, os.Stderr, results[0])
		}
		return iojson.WriteWith(out, os.Stderr, results)
	}

	return nil
}

// resolvePattern expands a glob argument, or returns the literal path when
// it contains no glob metacharacters.
func resolvePattern(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}

	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad glob %q: %w", pattern, err)
	}
	return paths, nil
}

// outputTarget maps a source path to its HTML output path. With multiple
// inputs the -o flag names a directory and each file keeps its base name.
func outputTarget(outPath, srcPath string, multi bool) (string, error) {
	if !multi {
		if info, err := os.Stat(outPath); err == nil && info.IsDir() {
			return filepath.Join(outPath, htmlName(srcPath)), nil
		}
		return outPath, nil
	}

	if err := os.MkdirAll(outPath, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return filepath.Join(outPath, htmlName(srcPath)), nil
}

func htmlName(srcPath string) string {
	base := filepath.Base(srcPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
}
