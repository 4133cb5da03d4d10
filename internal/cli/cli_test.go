package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merkle-snap/internal/tree"
	"merkle-snap/internal/workspace"
)

func init() {
	color.NoColor = true
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func baseArgs(t *testing.T, dir string) []string {
	return []string{
		"--config", filepath.Join(t.TempDir(), "absent.yaml"),
		"--dir", dir,
		"--log-level", "error",
	}
}

func execute(t *testing.T, stdin string, dir string, args ...string) (string, error) {
	t.Helper()
	out := &syncBuffer{}
	cmd := NewRootCommand(strings.NewReader(stdin), out)
	cmd.SetArgs(append(args, baseArgs(t, dir)...))
	err := cmd.Execute()
	return out.String(), err
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{"file1.txt": "A", "file2.txt": "B", "file3.txt": "C"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestInteractive_ModifyThenCheckStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo_files")

	out, err := execute(t, "1\n2\n2\nB2\n1\n5\n", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Initializing demo files...")
	assert.Contains(t, out, "Project state saved!")
	assert.Contains(t, out, "No changes detected")
	assert.Contains(t, out, "File file2.txt has been modified with new content: B2")
	assert.Contains(t, out, "Previous content: Initial content of file 2")
	assert.Contains(t, out, "Current content: B2")
	assert.Contains(t, out, "Modified: file2.txt")
	assert.Contains(t, out, "Current Merkle Tree Structure:")
	assert.Contains(t, out, "│   ├── file3.txt (")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Exiting..."))

	data, err := os.ReadFile(filepath.Join(dir, "file2.txt"))
	require.NoError(t, err)
	assert.Equal(t, "B2", string(data))
}

func TestInteractive_RebuildClearsChanges(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo_files")

	out, err := execute(t, "2\n1\nchanged\n3\n1\n5\n", dir)
	require.NoError(t, err)

	assert.NotContains(t, out, "Modified: file1.txt")
	assert.Equal(t, 2, strings.Count(out, "Project state saved!"))
	assert.Contains(t, out, "No changes detected")
}

func TestInteractive_InvalidInput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo_files")

	out, err := execute(t, "9\n2\n7\n2\nabc\n5\n", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Invalid option!")
	assert.Equal(t, 2, strings.Count(out, "Invalid file number!"))
}

func TestInteractive_ShowContents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo_files")

	out, err := execute(t, "4\n5\n", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Current file contents:\nFile 1: Initial content of file 1\nFile 2: Initial content of file 2\nFile 3: Initial content of file 3\n")
}

func TestInteractive_EndOfInput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo_files")

	out, err := execute(t, "", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exiting...")
}

func TestTreeCommand(t *testing.T) {
	out, err := execute(t, "", fixtureDir(t), "tree")
	require.NoError(t, err)

	assert.Contains(t, out, "Root hash: 7996152d510d9713d516af62bdd13fcebc676209ff98bebb571826afc51ddd60\n")
	assert.Contains(t, out, "Files: 3\n")
	assert.Contains(t, out, "├── root (7996152d...)\n│   ├── file1.txt (559aead0...)\n")
}

func TestTreeCommand_JSON(t *testing.T) {
	out, err := execute(t, "", fixtureDir(t), "tree", "--json")
	require.NoError(t, err)

	var decoded tree.SerializedTree
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "sha256", decoded.Algorithm)
	assert.Equal(t, 3, decoded.Files)
	assert.Equal(t, "7996152d510d9713d516af62bdd13fcebc676209ff98bebb571826afc51ddd60", decoded.Tree.Digest)
}

func TestTreeCommand_MissingDirectory(t *testing.T) {
	_, err := execute(t, "", filepath.Join(t.TempDir(), "missing"), "tree")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory unavailable")
}

func TestWriteAndShowCommands(t *testing.T) {
	dir := fixtureDir(t)

	out, err := execute(t, "", dir, "write", "3", "hello", "world")
	require.NoError(t, err)
	assert.Contains(t, out, "File file3.txt has been modified with new content: hello world")

	out, err = execute(t, "", dir, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "File 3: hello world")
}

func TestWriteCommand_InvalidIndex(t *testing.T) {
	dir := fixtureDir(t)

	_, err := execute(t, "", dir, "write", "4", "x")
	assert.True(t, errors.Is(err, workspace.ErrInvalidIndex), "got %v", err)

	_, err = execute(t, "", dir, "write", "two", "x")
	assert.True(t, errors.Is(err, workspace.ErrInvalidIndex), "got %v", err)
}

func TestConfigFlagOverrides(t *testing.T) {
	dir := fixtureDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file4.txt"), []byte("D"), 0o644))

	_, err := execute(t, "", dir, "write", "4", "x", "--files", "4")
	require.NoError(t, err)

	_, err = execute(t, "", dir, "show", "--files", "0")
	require.Error(t, err)
}

func TestWatchCommand(t *testing.T) {
	dir := fixtureDir(t)
	configPath := filepath.Join(t.TempDir(), "merkle-snap.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("watch_debounce: 20ms\nlog_level: error\n"), 0o644))

	out := &syncBuffer{}
	cmd := NewRootCommand(strings.NewReader(""), out)
	cmd.SetArgs([]string{"watch", "--config", configPath, "--dir", dir})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching ")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file1.txt"), []byte("A2"), 0o644))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Modified: file1.txt")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "1 change(s): 0 new, 1 modified, 0 removed")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestTreeCommand_TracksEveryRegularFileByDefault(t *testing.T) {
	dir := fixtureDir(t)

	out, err := execute(t, "", dir, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Files: 3\n")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.tmp"), []byte("scratch"), 0o644))

	out, err = execute(t, "", dir, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Files: 4\n")
	assert.Contains(t, out, "├── notes.tmp (")
	assert.NotContains(t, out, "Root hash: 7996152d510d9713d516af62bdd13fcebc676209ff98bebb571826afc51ddd60")
}

func TestWatchCommand_ReportsNewTmpFileUnderDefaultConfig(t *testing.T) {
	dir := fixtureDir(t)
	configPath := filepath.Join(t.TempDir(), "merkle-snap.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("watch_debounce: 20ms\nlog_level: error\n"), 0o644))

	out := &syncBuffer{}
	cmd := NewRootCommand(strings.NewReader(""), out)
	cmd.SetArgs([]string{"watch", "--config", configPath, "--dir", dir})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching ")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.tmp"), []byte("scratch"), 0o644))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "New file: notes.tmp")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "1 change(s): 1 new, 0 modified, 0 removed")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestWatchCommand_SkipsExcludedNames(t *testing.T) {
	dir := fixtureDir(t)
	configPath := filepath.Join(t.TempDir(), "merkle-snap.yaml")
	require.NoError(t, os.WriteFile(configPath,
		[]byte("watch_debounce: 20ms\nlog_level: error\nexclude: [\"scratch\", \"*.swp\"]\n"), 0o644))

	out := &syncBuffer{}
	cmd := NewRootCommand(strings.NewReader(""), out)
	cmd.SetArgs([]string{"watch", "--config", configPath, "--dir", dir})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching ")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "edit.swp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file2.txt"), []byte("B2"), 0o644))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Modified: file2.txt")
	}, 5*time.Second, 10*time.Millisecond)
	assert.NotContains(t, out.String(), "scratch")
	assert.NotContains(t, out.String(), "edit.swp")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}
