package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"sidekick-ai-be/pkg/agent/tool"
)

const maxCodeOutputBytes = 16 * 1024

// CodeTool runs a short Python snippet in the working directory. It must be
// explicitly enabled in configuration; when disabled the registry simply
// never includes it.
type CodeTool struct {
	workDir    string
	pythonPath string
}

func NewCodeTool(workDir, pythonPath string) *CodeTool {
	if pythonPath == "" {
		pythonPath = "python3"
	}
	return &CodeTool{workDir: workDir, pythonPath: pythonPath}
}

func (t *CodeTool) Name() string { return "run_python" }
func (t *CodeTool) Description() string {
	return "Execute a short Python snippet and return its stdout and stderr. Use print() to produce output."
}
func (t *CodeTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"code": tool.StringProperty("Python source code to execute"),
	}, "code")
}

func (t *CodeTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	code := tool.StringArg(args, "code")
	if strings.TrimSpace(code) == "" {
		return "", errors.New("code must not be empty")
	}

	cmd := exec.CommandContext(ctx, t.pythonPath, "-c", code)
	cmd.Dir = t.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	var sb strings.Builder
	if stdout.Len() > 0 {
		sb.WriteString(truncate(stdout.String(), maxCodeOutputBytes))
	}
	if stderr.Len() > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("stderr:\n")
		sb.WriteString(truncate(stderr.String(), maxCodeOutputBytes))
	}

	if runErr != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if sb.Len() > 0 {
			return "", fmt.Errorf("execution failed: %v\n%s", runErr, sb.String())
		}
		return "", fmt.Errorf("execution failed: %w", runErr)
	}
	if sb.Len() == 0 {
		return "(no output)", nil
	}
	return sb.String(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n... (truncated)"
}
