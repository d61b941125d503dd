package tool

import "context"

// Tool is a named capability with a declared argument schema. The decision
// step requests it by name; the dispatcher executes it.
type Tool interface {
	Name() string
	Description() string
	// Schema returns the JSON schema of the arguments object.
	Schema() map[string]interface{}
	Invoke(ctx context.Context, args map[string]interface{}) (string, error)
}

// Request is one tool invocation requested by a decision step.
type Request struct {
	ID   string
	Name string
	Args map[string]interface{}
}

// Result is the outcome of one invocation. Result order always matches
// request order within a dispatch batch.
type Result struct {
	RequestID string
	Name      string
	OK        bool
	Output    string
	Error     string
}

// Failure builds a failed Result for a request.
func Failure(req Request, reason string) Result {
	return Result{
		RequestID: req.ID,
		Name:      req.Name,
		OK:        false,
		Error:     reason,
	}
}

// Success builds a successful Result for a request.
func Success(req Request, output string) Result {
	return Result{
		RequestID: req.ID,
		Name:      req.Name,
		OK:        true,
		Output:    output,
	}
}

// ObjectSchema is a helper for the common "object with string properties"
// argument shape.
func ObjectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// StringProperty describes one string argument.
func StringProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// StringArg extracts a string argument, tolerating absent keys.
func StringArg(args map[string]interface{}, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// IntArg extracts an integer argument; JSON numbers arrive as float64.
func IntArg(args map[string]interface{}, key string, fallback int) int {
	if args == nil {
		return fallback
	}
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
