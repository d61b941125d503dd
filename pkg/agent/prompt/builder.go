package prompt

import (
	"fmt"
	"strings"
	"time"
)

// Options describe the exchange the system prompt is built for.
type Options struct {
	WorkspaceName    string
	ToolNames        []string
	RetrievalEnabled bool
	Now              time.Time
}

// BuildSystem renders the system message for one exchange. The prompt only
// mentions capabilities that actually exist in the exchange's tool view, so
// the model is never told about retrieval it cannot use.
func BuildSystem(opts Options) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var sb strings.Builder
	sb.WriteString("You are Sidekick, a personal co-worker agent. ")
	sb.WriteString("You complete tasks for the user by reasoning step by step and calling tools when they help.\n\n")

	if opts.WorkspaceName != "" {
		fmt.Fprintf(&sb, "You are working inside the workspace %q. ", opts.WorkspaceName)
		if opts.RetrievalEnabled {
			sb.WriteString("The workspace has indexed documents; use the search_workspace tool when the user's question may be answered by them.\n\n")
		} else {
			sb.WriteString("\n\n")
		}
	} else {
		sb.WriteString("No workspace is selected, so no document retrieval is available; answer from the conversation and your other tools.\n\n")
	}

	if len(opts.ToolNames) > 0 {
		fmt.Fprintf(&sb, "Available tools: %s.\n", strings.Join(opts.ToolNames, ", "))
		sb.WriteString("Call a tool only when you need it. When you have enough information, answer directly without calling any tool.\n\n")
	} else {
		sb.WriteString("No tools are available in this conversation; answer directly.\n\n")
	}

	fmt.Fprintf(&sb, "The current date is %s.", now.Format("Monday, 2 January 2006"))
	return sb.String()
}
