// Package failure classifies failed agent calls into user-facing messages.
package failure

import (
	"errors"
	"strings"

	"github.com/hal9000y/inbox-digest/internal/agent"
)

// Category is the kind of failure shown to the user.
type Category string

const (
	CategoryAuth      Category = "auth"
	CategoryConfig    Category = "config"
	CategoryTimeout   Category = "timeout"
	CategoryAgentTask Category = "agent_task"
	CategoryGeneric   Category = "generic"
	CategoryUnknown   Category = "unknown"
)

const (
	MessageAuth      = "Gmail authentication is required. Please connect your Gmail account through the platform settings to allow the agent to access your emails."
	MessageConfig    = "Server configuration error: API key is not set. Please contact the administrator."
	MessageTimeout   = "The request timed out. The agent may be processing a large number of emails. Please try again with fewer emails."
	MessageAgentTask = "The email agent encountered an error while processing. This may be a temporary issue. Please try again."
	MessageUnknown   = "Failed to fetch emails. Please try again."
)

// Failure is a classified fetch failure.
type Failure struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

var (
	authMarkers      = []string{"tool_auth", "authentication", "OAuth", "credentials", "not authenticated", "401"}
	configMarkers    = []string{"API_KEY not configured", "API key is not set"}
	timeoutMarkers   = []string{"timed out", "timeout"}
	agentTaskMarkers = []string{"Agent task failed", "task failed"}
)

// Classify inspects the agent error together with the raw response text.
// Matching is case-sensitive and checked in priority order.
func Classify(rawError, rawResponse string) Failure {
	full := rawError + " " + rawResponse

	switch {
	case containsAny(full, authMarkers):
		return Failure{Category: CategoryAuth, Message: MessageAuth}
	case containsAny(full, configMarkers):
		return Failure{Category: CategoryConfig, Message: MessageConfig}
	case containsAny(full, timeoutMarkers):
		return Failure{Category: CategoryTimeout, Message: MessageTimeout}
	case containsAny(full, agentTaskMarkers):
		return Failure{Category: CategoryAgentTask, Message: MessageAgentTask}
	case strings.TrimSpace(rawError) != "":
		return Failure{Category: CategoryGeneric, Message: rawError}
	default:
		return Failure{Category: CategoryUnknown, Message: MessageUnknown}
	}
}

// FromError classifies a transport error returned by the agent client. A timeout is
// always a timeout, whatever else the error text mentions.
func FromError(err error) Failure {
	if errors.Is(err, agent.ErrTimeout) {
		return Failure{Category: CategoryTimeout, Message: MessageTimeout}
	}

	return Classify(err.Error(), "")
}

// Title is the heading of the error panel.
func (f Failure) Title() string {
	if f.Category == CategoryAuth {
		return "Gmail Connection Required"
	}
	return "Failed to fetch emails"
}

// Hint is an optional follow-up line shown under the message.
func (f Failure) Hint() string {
	if f.Category == CategoryAuth {
		return "The Gmail integration needs OAuth authorization. Once connected, click Summarize Inbox again."
	}
	return ""
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
