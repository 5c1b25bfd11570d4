package mcpserver

import (
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// parseJSON parses a JSON string into the target type.
func parseJSON(data string, target any) error {
	return json.Unmarshal([]byte(data), target)
}

// textResult wraps plain text as a tool result.
func textResult(text string) *mcp.CallToolResult {
	return mcp.NewToolResultText(text)
}

// jsonResult serializes a value as an indented-JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// timeNow is a hook for tests.
var timeNow = time.Now
