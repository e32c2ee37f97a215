package auth

import (
	"errors"
	"fmt"
	"net/http"
)

type creds interface {
	APIKey() (string, error)
	Scheme() Scheme
}

// HTTPHandler reports whether the agent credentials are configured.
type HTTPHandler struct {
	creds   creds
	agentID string
}

// NewHTTPHandler creates an HTTP handler for the agent credential status.
func NewHTTPHandler(creds creds, agentID string) *HTTPHandler {
	return &HTTPHandler{creds: creds, agentID: agentID}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	key, err := h.creds.APIKey()
	if errors.Is(err, ErrTokenNotSet) {
		http.Error(w, "Agent API key not configured", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "Agent: %s, key: %s, scheme: %s", h.agentID, maskLeft(key), h.creds.Scheme())
}

func maskLeft(s string) string {
	rs := []rune(s)
	for i := 0; i < len(rs)-4; i++ {
		rs[i] = 'X'
	}
	return string(rs)
}
