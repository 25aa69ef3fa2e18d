package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func runRenderCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := &cli.Command{
		Name:      "quill",
		Writer:    &buf,
		ErrWriter: &bytes.Buffer{},
	}
	NewRenderCmd(testFlags(t)).Register(app)

	err := app.Run(context.Background(), append([]string{"quill", "render"}, args...))
	return buf.String(), err
}

func TestRenderCmd_HTMLToStdout(t *testing.T) {
	path := writeMarkdown(t, "Hello **world**!")

	out, err := runRenderCmd(t, path)
	require.NoError(t, err)

	assert.Contains(t, out, `<strong data-source-start="6" data-source-end="15"`)
	assert.Contains(t, out, `data-text-start="8" data-text-end="13"`)
	assert.Contains(t, out, `<p data-source-start="0" data-source-end="16"`)
}

func TestRenderCmd_WithMap(t *testing.T) {
	path := writeMarkdown(t, "Hello **world**!")

	out, err := runRenderCmd(t, "--map", path)
	require.NoError(t, err)

	var result struct {
		Path string `json:"path"`
		HTML string `json:"html"`
		Map  []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"map"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, path, result.Path)
	assert.Contains(t, result.HTML, "<strong")
	require.NotEmpty(t, result.Map)
	assert.Equal(t, "md-0", result.Map[0].ID)
}

func TestRenderCmd_WithMapGlobEmitsSingleArray(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("# B"), 0o644))

	out, err := runRenderCmd(t, "--map", filepath.Join(dir, "*.md"))
	require.NoError(t, err)

	var results []struct {
		Path string `json:"path"`
		HTML string `json:"html"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results),
		"multi-file output must be one JSON document")
	require.Len(t, results, 2)
	assert.Contains(t, results[0].HTML, "<h1")
	assert.Contains(t, results[1].HTML, "<h1")
}

func TestRenderCmd_MapAndOutputAreExclusive(t *testing.T) {
	path := writeMarkdown(t, "# Title")
	outFile := filepath.Join(t.TempDir(), "out.html")

	out, err := runRenderCmd(t, "--map", "-o", outFile, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
	assert.Empty(t, out, "the check fires before anything renders")
	assert.NoFileExists(t, outFile)
}

func TestRenderCmd_GlobToOutputDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("# B"), 0o644))
	outDir := filepath.Join(t.TempDir(), "html")

	_, err := runRenderCmd(t, "-o", outDir, filepath.Join(dir, "*.md"))
	require.NoError(t, err)

	for _, name := range []string{"a.html", "b.html"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)
		assert.Contains(t, string(data), "<h1")
		assert.Contains(t, string(data), "data-source-start")
	}
}

func TestRenderCmd_OutputFile(t *testing.T) {
	path := writeMarkdown(t, "# Title")
	outFile := filepath.Join(t.TempDir(), "out.html")

	_, err := runRenderCmd(t, "-o", outFile, path)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1")
}

func TestRenderCmd_MissingArg(t *testing.T) {
	_, err := runRenderCmd(t)
	require.Error(t, err)
}

func TestRenderCmd_NoGlobMatches(t *testing.T) {
	_, err := runRenderCmd(t, filepath.Join(t.TempDir(), "*.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files match")
}

func TestHTMLName(t *testing.T) {
	assert.Equal(t, "notes.html", htmlName("/tmp/docs/notes.md"))
	assert.Equal(t, "README.html", htmlName("README.markdown"))
}
