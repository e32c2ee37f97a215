package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
)

// DefaultKeys are the wrapper keys agents are known to nest their payload under,
// probed in this order.
var DefaultKeys = []string{"result", "response", "data", "output", "content", "text", "message", "raw_response"}

const (
	// EmailDepth bounds the search for the email list.
	EmailDepth = 8
	// ContainerDepth bounds the search for the object holding total_count and message.
	ContainerDepth = 6
)

var fencedBlockRE = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// Searcher walks an agent result through the probe keys, decoding JSON strings and
// fenced code blocks on the way, until it meets something that looks like an email list.
type Searcher struct {
	Keys     []string
	MaxDepth int
}

// Emails returns the first email list found, or nil.
func (s Searcher) Emails(v any) []any {
	list, _, _ := s.Find(v)
	return list
}

// Container returns the object whose "emails" field holds the first email list found.
// It is nil when nothing was found or when the list was a bare array.
func (s Searcher) Container(v any) map[string]any {
	_, parent, _ := s.Find(v)
	return parent
}

// Find returns the first email list found together with the object holding it and
// that object's depth. parent is nil for a bare array.
func (s Searcher) Find(v any) (list []any, parent map[string]any, depth int) {
	return s.walk(v, 0)
}

func (s Searcher) walk(v any, depth int) ([]any, map[string]any, int) {
	if depth > s.MaxDepth {
		return nil, nil, 0
	}

	switch t := v.(type) {
	case string:
		decoded, ok := decodeEmbedded(t)
		if !ok {
			return nil, nil, 0
		}
		return s.walk(decoded, depth+1)

	case []any:
		if looksLikeEmails(t) {
			return t, nil, depth
		}

	case map[string]any:
		if list := nonEmptyList(t["emails"]); list != nil {
			return list, t, depth
		}

		for _, key := range s.Keys {
			child, ok := t[key]
			if !ok || child == nil {
				continue
			}
			if list, parent, d := s.walk(child, depth+1); list != nil {
				return list, parent, d
			}
		}
	}

	return nil, nil, 0
}

// decodeEmbedded decodes a string holding JSON directly, or JSON inside a markdown
// fenced code block.
func decodeEmbedded(s string) (any, bool) {
	trimmed := strings.TrimSpace(s)

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if v, ok := decodeJSON(trimmed); ok {
			return v, true
		}
	}

	m := fencedBlockRE.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, false
	}

	return decodeJSON(m[1])
}

func decodeJSON(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}

	return v, true
}

func looksLikeEmails(list []any) bool {
	if len(list) == 0 {
		return false
	}

	first, ok := list[0].(map[string]any)
	if !ok {
		return false
	}

	for _, key := range []string{"sender", "subject", "summary_bullets"} {
		if _, ok := first[key]; ok {
			return true
		}
	}

	return false
}

func nonEmptyList(v any) []any {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}

	return list
}
