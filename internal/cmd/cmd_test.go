package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.py"), []byte("x = 1\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "b.py"), []byte("y = 2\n"), 0o644))
	return src
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["combine"])
	assert.True(t, names["extract"])
	assert.True(t, names["tree"])
}

func TestDefaultArgsRewritesToCombine(t *testing.T) {
	root := NewRootCommand()

	assert.Equal(t, []string{"combine", "src"}, DefaultArgs(root, []string{"src"}))
	assert.Equal(t, []string{"extract", "b.json"}, DefaultArgs(root, []string{"extract", "b.json"}))
	assert.Equal(t, []string{"tree", "src"}, DefaultArgs(root, []string{"tree", "src"}))
	assert.Equal(t, []string{"--help"}, DefaultArgs(root, []string{"--help"}))
	assert.Empty(t, DefaultArgs(root, nil))
}

func TestCombineCommandFlags(t *testing.T) {
	cmd := NewCombineCommand()

	for _, flag := range []string{"config", "output", "format", "toc", "tree", "line-numbers", "max-tokens", "sort", "clipboard", "stdout", "dry-run"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %s should exist", flag)
	}
	assert.Equal(t, "srcbundle.yaml", cmd.Flags().Lookup("config").DefValue)
}

func TestExtractCommandFlags(t *testing.T) {
	cmd := NewExtractCommand()

	for _, flag := range []string{"output-dir", "clipboard", "force", "dry-run"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %s should exist", flag)
	}
	assert.Equal(t, "extracted", cmd.Flags().Lookup("output-dir").DefValue)
}

func TestCombineToStdout(t *testing.T) {
	src := writeSource(t)

	stdout, _, err := execute(t, "combine", src, "--stdout", "--format", "json")
	require.NoError(t, err)

	var records []struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "a.py", records[0].Path)
	assert.Equal(t, "x = 1\n", records[0].Content)
	assert.Equal(t, "sub/b.py", records[1].Path)
}

func TestCombineWritesOutputFile(t *testing.T) {
	src := writeSource(t)
	out := filepath.Join(t.TempDir(), "bundle.txt")

	_, stderr, err := execute(t, "combine", src, "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "--- a.py ---")
	assert.Contains(t, string(data), "--- end sub/b.py ---")
	assert.Contains(t, stderr, "COMBINE COMPLETE")
	assert.Contains(t, stderr, "Files Combined: 2 of 2 discovered")
}

func TestCombineDryRunListsFiles(t *testing.T) {
	src := writeSource(t)
	out := filepath.Join(t.TempDir(), "bundle.txt")

	stdout, _, err := execute(t, "combine", src, "-o", out, "--dry-run")
	require.NoError(t, err)

	assert.Equal(t, "a.py\nsub/b.py\n", stdout)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCombineConflictingOutputFlags(t *testing.T) {
	src := writeSource(t)

	_, _, err := execute(t, "combine", src, "--stdout", "--clipboard")
	assert.Error(t, err)
}

func TestCombinePairingRejectsStdoutAndClipboard(t *testing.T) {
	src := writeSource(t)
	cfgPath := filepath.Join(t.TempDir(), "srcbundle.yaml")
	cfg := "pairing:\n  enabled: true\n  source_extensions: [\".py\"]\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	_, _, err := execute(t, "combine", src, "--config", cfgPath, "--stdout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pairing")

	_, _, err = execute(t, "combine", src, "--config", cfgPath, "--clipboard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pairing")
}

func TestCombineWarnsWhenCustomTemplatesBreakExtraction(t *testing.T) {
	src := writeSource(t)
	cfgPath := filepath.Join(t.TempDir(), "srcbundle.yaml")
	cfg := "output:\n  header_template: \">> {{FILENAME}}\\n\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	_, stderr, err := execute(t, "combine", src, "--config", cfgPath, "--stdout")
	require.NoError(t, err)
	assert.Contains(t, stderr, "extract will not be able to decode")

	// Default templates stay quiet.
	_, stderr, err = execute(t, "combine", src, "--stdout")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "extract will not be able to decode")
}

func TestCombineNoRoots(t *testing.T) {
	_, _, err := execute(t, "combine", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestCombineInvalidFormat(t *testing.T) {
	src := writeSource(t)

	_, _, err := execute(t, "combine", src, "--format", "yaml", "--stdout")
	assert.Error(t, err)
}

func TestCombineExtractRoundTrip(t *testing.T) {
	src := writeSource(t)
	bundle := filepath.Join(t.TempDir(), "bundle.json")

	_, _, err := execute(t, "combine", src, "-o", bundle)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "restored")
	_, stderr, err := execute(t, "extract", bundle, "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, stderr, "extracted 2 files (json format)")

	data, err := os.ReadFile(filepath.Join(dest, "a.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))

	data, err = os.ReadFile(filepath.Join(dest, "sub", "b.py"))
	require.NoError(t, err)
	assert.Equal(t, "y = 2\n", string(data))
}

func TestExtractFromStdin(t *testing.T) {
	doc := `[{"path":"a.py","content":"x = 1\n"}]`
	dest := filepath.Join(t.TempDir(), "out")

	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(bytes.NewBufferString(doc))
	root.SetArgs([]string{"extract", "-", "-o", dest})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(dest, "a.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))
}

func TestExtractDryRun(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(bundle, []byte(`[{"path":"a.py","content":"x"}]`), 0o644))
	dest := filepath.Join(t.TempDir(), "out")

	stdout, _, err := execute(t, "extract", bundle, "-o", dest, "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "a.py\n", stdout)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractRejectsUnsafeDocument(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "bundle.json")
	doc := `[{"path":"ok.txt","content":"fine"},{"path":"../escape.txt","content":"bad"}]`
	require.NoError(t, os.WriteFile(bundle, []byte(doc), 0o644))
	dest := filepath.Join(t.TempDir(), "out")

	_, _, err := execute(t, "extract", bundle, "-o", dest)
	require.Error(t, err)

	// Nothing at all gets written when any path is unsafe.
	_, statErr := os.Stat(filepath.Join(dest, "ok.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractUndetectableInput(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "prose.txt")
	require.NoError(t, os.WriteFile(bundle, []byte("just prose\n"), 0o644))

	_, _, err := execute(t, "extract", bundle)
	assert.Error(t, err)
}

func TestExtractNonEmptyDestinationWithoutForce(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(bundle, []byte(`[{"path":"a.py","content":"new"}]`), 0o644))

	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "existing.txt"), []byte("old"), 0o644))

	// Stdin is not a terminal under test, so the confirm path declines.
	_, _, err := execute(t, "extract", bundle, "-o", dest)
	assert.Error(t, err)

	_, _, err = execute(t, "extract", bundle, "-o", dest, "--force")
	assert.NoError(t, err)
}

func TestTreeCommand(t *testing.T) {
	src := writeSource(t)

	stdout, _, err := execute(t, "tree", src)
	require.NoError(t, err)

	assert.Contains(t, stdout, filepath.Base(src)+"/\n")
	assert.Contains(t, stdout, "├── a.py (6.00 B)")
	assert.Contains(t, stdout, "└── b.py (6.00 B)")
	assert.Contains(t, stdout, "2 files, 12.00 B")
}
