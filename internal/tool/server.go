package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with the inbox digest tools.
func NewServer(svc agentCaller, agentID string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "inbox-digest", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_inbox",
		Description: "Ask the email agent to fetch and summarize the latest inbox messages",
	}, NewSummarizeInbox(svc, agentID).SummarizeInbox)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize_agent_result",
		Description: "Extract email summaries from a raw agent result payload",
	}, NormalizeAgentResult)

	return server
}
