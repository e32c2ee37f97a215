// Package agent talks to the external agent that reads and summarizes the mailbox.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hal9000y/inbox-digest/internal/auth"
)

// ErrTimeout is returned when the agent does not answer in time.
var ErrTimeout = errors.New("agent request timed out")

// MissingKeyError is the error reported when no API key is configured.
const MissingKeyError = "AGENT_API_KEY not configured"

const maxBodySize = 1 << 20

// Instruction builds the natural-language request sent to the agent.
func Instruction(maxResults int, query string) string {
	msg := fmt.Sprintf("Please fetch and summarize my latest %d emails.", maxResults)
	if q := strings.TrimSpace(query); q != "" {
		msg = fmt.Sprintf("%s Filter: %s", msg, q)
	}
	return msg
}

// Result is the envelope returned by the agent service.
type Result struct {
	Success     bool `json:"success"`
	Response    any  `json:"response,omitempty"`
	RawResponse any  `json:"raw_response,omitempty"`
	Error       any  `json:"error,omitempty"`
}

// Payload returns the envelope as the generic tree walked by the normalizer.
func (r *Result) Payload() map[string]any {
	p := map[string]any{"success": r.Success}
	if r.Response != nil {
		p["response"] = r.Response
	}
	if r.RawResponse != nil {
		p["raw_response"] = r.RawResponse
	}
	if r.Error != nil {
		p["error"] = r.Error
	}
	return p
}

// ErrorText returns the error string, falling back to response.message.
func (r *Result) ErrorText() string {
	if s, ok := r.Error.(string); ok && s != "" {
		return s
	}
	if m, ok := r.Response.(map[string]any); ok {
		if s, ok := m["message"].(string); ok {
			return s
		}
	}
	return ""
}

// RawText returns raw_response when it is a string.
func (r *Result) RawText() string {
	s, _ := r.RawResponse.(string)
	return s
}

type creds interface {
	APIKey() (string, error)
	Transport(base http.RoundTripper) http.RoundTripper
}

type chatRequest struct {
	UserID    string `json:"user_id"`
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type envelope struct {
	Success     *bool `json:"success"`
	Response    any   `json:"response"`
	RawResponse any   `json:"raw_response"`
	Error       any   `json:"error"`
}

// Client calls the agent service over HTTP.
type Client struct {
	url          string
	userID       string
	creds        creds
	httpClt      *http.Client
	newSessionID func() string
}

// NewClient creates a Client. A zero timeout leaves the deadline to the caller's context.
func NewClient(url, userID string, creds creds, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		userID: userID,
		creds:  creds,
		httpClt: &http.Client{
			Timeout:   timeout,
			Transport: creds.Transport(nil),
		},
		newSessionID: uuid.NewString,
	}
}

// Call sends message to the agent and returns its envelope. Agent-side failures come
// back as an unsuccessful Result; only transport failures are returned as errors.
func (c *Client) Call(ctx context.Context, message, agentID string) (*Result, error) {
	if _, err := c.creds.APIKey(); errors.Is(err, auth.ErrTokenNotSet) {
		return &Result{Success: false, Error: MissingKeyError}, nil
	}

	sessionID := c.newSessionID()
	log.Printf("Calling agent %s, session %s", agentID, sessionID)

	payload, err := json.Marshal(chatRequest{
		UserID:    c.userID,
		AgentID:   agentID,
		SessionID: sessionID,
		Message:   message,
	})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClt.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("httpClt.Do failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("io.ReadAll failed: %w", err)
	}

	return decodeResult(resp.StatusCode, body), nil
}

func decodeResult(status int, body []byte) *Result {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Success != nil {
		return &Result{
			Success:     *env.Success,
			Response:    env.Response,
			RawResponse: env.RawResponse,
			Error:       env.Error,
		}
	}

	if status < 200 || status > 299 {
		return &Result{
			Success:     false,
			Error:       fmt.Sprintf("agent returned HTTP %d", status),
			RawResponse: string(body),
		}
	}

	res := &Result{Success: true, RawResponse: string(body)}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		res.Response = decoded
	}

	return res
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
