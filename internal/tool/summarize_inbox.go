// Package tool exposes the inbox digest over the Model Context Protocol.
package tool

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/inbox-digest/internal/agent"
	"github.com/hal9000y/inbox-digest/internal/failure"
	"github.com/hal9000y/inbox-digest/internal/normalize"
)

// SummarizeInboxRequest selects which emails the agent summarizes.
type SummarizeInboxRequest struct {
	Query      string `json:"query,omitempty" jsonschema:"optional filter, e.g. from:alice or is:unread"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"number of emails to summarize, 1 to 50"`
}

type agentCaller interface {
	Call(ctx context.Context, message, agentID string) (*agent.Result, error)
}

// NewSummarizeInbox creates a new SummarizeInbox tool.
func NewSummarizeInbox(svc agentCaller, agentID string) *SummarizeInbox {
	return &SummarizeInbox{
		svc:     svc,
		agentID: agentID,
	}
}

// SummarizeInbox runs one agent fetch and returns the normalized digest.
type SummarizeInbox struct {
	svc     agentCaller
	agentID string
}

func (t *SummarizeInbox) SummarizeInbox(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeInboxRequest,
) (*mcp.CallToolResult, normalize.Normalized, error) {
	input.MaxResults = normalizeMaxResults(input.MaxResults)

	res, err := t.svc.Call(ctx, agent.Instruction(input.MaxResults, input.Query), t.agentID)
	if err != nil {
		log.Println(fmt.Errorf("svc.Call failed: %w", err))
		return nil, normalize.Normalized{}, errors.New(failure.FromError(err).Message)
	}

	if !res.Success {
		f := failure.Classify(res.ErrorText(), res.RawText())
		return nil, normalize.Normalized{}, errors.New(f.Message)
	}

	return nil, normalize.Normalize(res.Payload()), nil
}

func normalizeMaxResults(maxResults int) int {
	if maxResults <= 0 {
		return 10
	}
	if maxResults > 50 {
		return 50
	}
	return maxResults
}
