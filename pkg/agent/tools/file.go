package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sidekick-ai-be/pkg/agent/tool"
)

// maxFileReadBytes bounds what a single read_file call can feed back into
// the model context.
const maxFileReadBytes = 64 * 1024

// ReadFileTool reads a file inside the agent's working directory.
type ReadFileTool struct {
	workDir string
}

// WriteFileTool writes a file inside the agent's working directory,
// creating parent directories as needed.
type WriteFileTool struct {
	workDir string
}

// ListFilesTool lists entries of a directory inside the working directory.
type ListFilesTool struct {
	workDir string
}

func NewReadFileTool(workDir string) *ReadFileTool   { return &ReadFileTool{workDir: workDir} }
func NewWriteFileTool(workDir string) *WriteFileTool { return &WriteFileTool{workDir: workDir} }
func NewListFilesTool(workDir string) *ListFilesTool { return &ListFilesTool{workDir: workDir} }

// resolveInside joins a relative path onto the working directory and rejects
// anything that escapes it.
func resolveInside(workDir, rel string) (string, error) {
	if rel == "" {
		rel = "."
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("absolute paths are not allowed: %s", rel)
	}
	full := filepath.Clean(filepath.Join(workDir, rel))
	root := filepath.Clean(workDir)
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes the working directory: %s", rel)
	}
	return full, nil
}

func (t *ReadFileTool) Name() string { return "read_file" }
func (t *ReadFileTool) Description() string {
	return "Read a text file from the agent working directory. The path is relative to that directory."
}
func (t *ReadFileTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"path": tool.StringProperty("Relative path of the file to read"),
	}, "path")
}

func (t *ReadFileTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	path, err := resolveInside(t.workDir, tool.StringArg(args, "path"))
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > maxFileReadBytes {
		return string(data[:maxFileReadBytes]) + "\n... (truncated)", nil
	}
	return string(data), nil
}

func (t *WriteFileTool) Name() string { return "write_file" }
func (t *WriteFileTool) Description() string {
	return "Write text content to a file in the agent working directory, overwriting any existing file."
}
func (t *WriteFileTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"path":    tool.StringProperty("Relative path of the file to write"),
		"content": tool.StringProperty("Full text content of the file"),
	}, "path", "content")
}

func (t *WriteFileTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	path, err := resolveInside(t.workDir, tool.StringArg(args, "path"))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create parent directory: %w", err)
	}
	content := tool.StringArg(args, "content")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return fmt.Sprintf("wrote %d bytes to %s", len(content), tool.StringArg(args, "path")), nil
}

func (t *ListFilesTool) Name() string { return "list_files" }
func (t *ListFilesTool) Description() string {
	return "List the entries of a directory in the agent working directory."
}
func (t *ListFilesTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"path": tool.StringProperty("Relative path of the directory to list, defaults to the working directory root"),
	})
}

func (t *ListFilesTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	path, err := resolveInside(t.workDir, tool.StringArg(args, "path"))
	if err != nil {
		return "", err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("failed to list directory: %w", err)
	}
	if len(entries) == 0 {
		return "(empty directory)", nil
	}
	var sb strings.Builder
	for _, entry := range entries {
		if entry.IsDir() {
			sb.WriteString(entry.Name() + "/\n")
		} else {
			sb.WriteString(entry.Name() + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
