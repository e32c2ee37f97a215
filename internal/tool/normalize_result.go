package tool

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/inbox-digest/internal/normalize"
)

// NormalizeAgentResultRequest carries a raw agent result.
type NormalizeAgentResultRequest struct {
	Payload string `json:"payload" jsonschema:"agent result as JSON text, or free text the agent produced"`
}

// NormalizeAgentResult extracts email summaries from a payload. Text that is not JSON is
// searched as is, so fenced blocks inside prose are still found.
func NormalizeAgentResult(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input NormalizeAgentResultRequest,
) (*mcp.CallToolResult, normalize.Normalized, error) {
	var payload any = input.Payload

	var decoded any
	if err := json.Unmarshal([]byte(input.Payload), &decoded); err == nil {
		payload = decoded
	}

	return nil, normalize.Normalize(payload), nil
}
