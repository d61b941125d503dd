package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenReadFile(t *testing.T) {
	dir := t.TempDir()
	write := NewWriteFileTool(dir)
	read := NewReadFileTool(dir)

	out, err := write.Invoke(context.Background(), map[string]interface{}{
		"path":    "notes/todo.md",
		"content": "buy pasta",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "todo.md")

	got, err := read.Invoke(context.Background(), map[string]interface{}{"path": "notes/todo.md"})
	require.NoError(t, err)
	assert.Equal(t, "buy pasta", got)
}

func TestReadFileRejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	read := NewReadFileTool(dir)

	_, err := read.Invoke(context.Background(), map[string]interface{}{"path": "../outside.txt"})
	assert.Error(t, err)

	_, err = read.Invoke(context.Background(), map[string]interface{}{"path": "/etc/passwd"})
	assert.Error(t, err)
}

func TestReadFileTruncatesLargeFiles(t *testing.T) {
	dir := t.TempDir()
	big := make([]byte, maxFileReadBytes+100)
	for i := range big {
		big[i] = 'a'
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.txt"), big, 0o644))

	read := NewReadFileTool(dir)
	got, err := read.Invoke(context.Background(), map[string]interface{}{"path": "big.txt"})
	require.NoError(t, err)
	assert.Contains(t, got, "(truncated)")
	assert.Less(t, len(got), len(big))
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	list := NewListFilesTool(dir)
	got, err := list.Invoke(context.Background(), map[string]interface{}{})
	require.NoError(t, err)
	assert.Contains(t, got, "a.txt")
	assert.Contains(t, got, "sub/")
}

func TestListFilesEmptyDirectory(t *testing.T) {
	list := NewListFilesTool(t.TempDir())
	got, err := list.Invoke(context.Background(), map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "(empty directory)", got)
}
