package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"semgraph/config"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const snapshotJSON = `{
  "nodes": [
    {"id": "A", "label": "alpha.md", "cluster_id": 0, "size_kb": 4, "keywords": ["parser"]},
    {"id": "B", "label": "beta.md", "cluster_id": 1, "size_kb": 120},
    {"id": "C", "label": "gamma.md", "cluster_id": 0, "size_kb": 0.5}
  ],
  "edges": [
    {"source": "A", "target": "B", "weight": 0.8},
    {"source": "B", "target": "C", "weight": 0.5},
    {"source": "C", "target": "Z", "weight": 0.5}
  ],
  "clusters": [
    {"id": 0, "label": "Notes", "color": "#ff6b6b"},
    {"id": 1, "label": "Docs", "color": "#4ecdc4"}
  ]
}`

func writeSnapshot(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// run executes the command tree with an isolated config directory.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root, e := newRootCmd()
	defer e.close()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestLayout(t *testing.T) {
	path := writeSnapshot(t, t.TempDir(), "graph.json", snapshotJSON)

	out, _, err := run(t, "", "layout", path, "--log-level", "error")
	require.NoError(t, err)

	var res layoutResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.AtRest)
	assert.Len(t, res.Nodes, 3)
	assert.Equal(t, 2, res.Edges)
	assert.Equal(t, 1, res.Issues)
	assert.LessOrEqual(t, res.Ticks, config.Default().Layout.MaxTicks())
	for _, n := range res.Nodes {
		assert.GreaterOrEqual(t, n.Radius, 8.0)
	}
}

func TestLayoutStdinAndMaxTicks(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pos.json")
	_, _, err := run(t, snapshotJSON, "layout", "-", "--max-ticks", "10", "-o", file)
	require.NoError(t, err)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var res layoutResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, 10, res.Ticks)
	assert.False(t, res.AtRest)
}

func TestLayoutErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, "", "layout", filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := writeSnapshot(t, dir, "bad.json", `{"nodes": [`)
	_, _, err = run(t, "", "layout", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")

	_, _, err = run(t, "", "layout")
	assert.Error(t, err, "snapshot argument required")
}

func TestExport(t *testing.T) {
	in := t.TempDir()
	a := writeSnapshot(t, in, "first.json", snapshotJSON)
	b := writeSnapshot(t, in, "second.json", snapshotJSON)
	outDir := filepath.Join(t.TempDir(), "out")

	for _, format := range []string{"svg", "json"} {
		t.Run(format, func(t *testing.T) {
			out, _, err := run(t, "", "export", a, b, "--format", format, "--out-dir", outDir, "--jobs", "2", "--log-level", "error")
			require.NoError(t, err)
			assert.Contains(t, out, "first.json")
			assert.Contains(t, out, "second.json")

			for _, name := range []string{"first", "second"} {
				data, err := os.ReadFile(filepath.Join(outDir, name+"."+format))
				require.NoError(t, err)
				assert.Contains(t, string(data), "gamma.md")
			}
		})
	}
}

func TestExportSameBaseName(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(in, "a"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(in, "b"), 0o755))
	a := writeSnapshot(t, filepath.Join(in, "a"), "g.json", snapshotJSON)
	b := writeSnapshot(t, filepath.Join(in, "b"), "g.json", strings.Replace(snapshotJSON, "gamma.md", "delta.md", 1))
	outDir := t.TempDir()

	_, _, err := run(t, "", "export", a, b, "--format", "json", "--out-dir", outDir, "--jobs", "2", "--log-level", "error")
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	first, err := os.ReadFile(filepath.Join(outDir, "g.json"))
	require.NoError(t, err)
	assert.Contains(t, string(first), "gamma.md")
	second, err := os.ReadFile(filepath.Join(outDir, "g-1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(second), "delta.md")
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths([]string{"a/g.json", "b/g.json", "g-1.json", "c/g.json", "x.json"}, "out", ".svg")
	assert.Equal(t, []string{
		filepath.Join("out", "g.svg"),
		filepath.Join("out", "g-1.svg"),
		filepath.Join("out", "g-1-1.svg"),
		filepath.Join("out", "g-2.svg"),
		filepath.Join("out", "x.svg"),
	}, got)
}

func TestExportFailures(t *testing.T) {
	in := t.TempDir()
	good := writeSnapshot(t, in, "good.json", snapshotJSON)
	outDir := t.TempDir()

	out, _, err := run(t, "", "export", good, filepath.Join(in, "missing.json"), "--out-dir", outDir, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 exports failed")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "✗")
	_, statErr := os.Stat(filepath.Join(outDir, "good.svg"))
	assert.NoError(t, statErr, "one failure does not stop the others")

	_, _, err = run(t, "", "export", good, "--format", "png")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "graph.json", snapshotJSON)

	out, _, err := run(t, "", "validate", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "dangling-edge")
	assert.Contains(t, out, "dropped")
	assert.Contains(t, out, "C->Z")
	assert.Contains(t, out, "kept 3 nodes, 2 edges, 2 clusters")

	_, _, err = run(t, "", "validate", path, "--strict", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 issues")

	clean := writeSnapshot(t, dir, "clean.json", `{"nodes": [{"id": "A", "label": "a", "cluster_id": 0, "size_kb": 1}], "edges": [], "clusters": [{"id": 0, "label": "x", "color": "#ffffff"}]}`)
	out, _, err = run(t, "", "validate", clean, "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "snapshot is clean")
}

func TestLogsGoToStderr(t *testing.T) {
	path := writeSnapshot(t, t.TempDir(), "graph.json", snapshotJSON)

	_, errOut, err := run(t, "", "validate", path, "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, errOut, "snapshot element dropped")

	logFile := filepath.Join(t.TempDir(), "semgraph.log")
	_, errOut, err = run(t, "", "validate", path, "--log-level", "warn", "--log-file", logFile)
	require.NoError(t, err)
	assert.Empty(t, errOut)
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "snapshot element dropped")

	_, _, err = run(t, "", "validate", path, "--log-level", "chatty")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	t.Run("path", func(t *testing.T) {
		out, _, err := run(t, "", "config", "path")
		require.NoError(t, err)
		assert.Equal(t, config.Path()+"\n", out)
	})

	t.Run("show", func(t *testing.T) {
		out, _, err := run(t, "", "config", "show")
		require.NoError(t, err)
		assert.Contains(t, out, "[layout]")
		assert.Contains(t, out, "link_distance = 80.0")
		assert.Contains(t, out, "[terminal]")
	})

	t.Run("init with explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.toml")
		out, _, err := run(t, "", "--config", path, "config", "init")
		require.NoError(t, err)
		assert.Contains(t, out, "wrote "+path)

		cfg, err := config.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("custom config is applied", func(t *testing.T) {
		path := writeSnapshot(t, t.TempDir(), "custom.toml", "[export]\nformat = \"json\"\n")
		snap := writeSnapshot(t, t.TempDir(), "graph.json", snapshotJSON)
		outDir := t.TempDir()
		_, _, err := run(t, "", "--config", path, "export", snap, "--out-dir", outDir, "--log-level", "error")
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(outDir, "graph.json"))
		assert.NoError(t, err)
	})

	t.Run("missing explicit config", func(t *testing.T) {
		_, _, err := run(t, "", "--config", filepath.Join(t.TempDir(), "nope.toml"), "config", "show")
		assert.Error(t, err)
	})
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "graph", baseName("/tmp/x/graph.json"))
	assert.Equal(t, "a.b", baseName("a.b.json"))
	assert.Equal(t, "stdin", baseName("-"))
}
