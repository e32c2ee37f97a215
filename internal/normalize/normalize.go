// Package normalize extracts the email summary list from the variably shaped replies
// of the inbox agent.
package normalize

// Strategy tries to extract normalized data from an agent result.
type Strategy func(result any) (Normalized, bool)

// Normalizer runs an ordered chain of strategies; the first one that finds emails wins.
type Normalizer struct {
	emails         Searcher
	containerDepth int
}

// New creates a Normalizer probing the given wrapper keys.
func New(keys []string, emailDepth, containerDepth int) *Normalizer {
	return &Normalizer{
		emails:         Searcher{Keys: keys, MaxDepth: emailDepth},
		containerDepth: containerDepth,
	}
}

var defaultNormalizer = New(DefaultKeys, EmailDepth, ContainerDepth)

// Normalize extracts emails, total count and message from result using the default
// probe keys and depth limits.
func Normalize(result any) Normalized {
	return defaultNormalizer.Normalize(result)
}

// Normalize never fails: when no strategy finds emails it returns an empty list along
// with whatever plain message the result carries.
func (n *Normalizer) Normalize(result any) Normalized {
	for _, strategy := range n.Strategies() {
		if out, ok := strategy(result); ok {
			return out
		}
	}

	return Normalized{
		Emails:  []EmailSummary{},
		Message: fallbackMessage(result),
	}
}

// Strategies returns the chain in evaluation order.
func (n *Normalizer) Strategies() []Strategy {
	return []Strategy{
		DirectPath,
		NestedPath,
		n.RawResponse,
		n.DeepSearch,
		n.TextField,
	}
}

// DirectPath reads response.result, decoding it once when it is a string.
func DirectPath(result any) (Normalized, bool) {
	m, ok := agentData(result).(map[string]any)
	if !ok {
		return Normalized{}, false
	}

	return fromContainer(m)
}

// NestedPath reads response.result.result.
func NestedPath(result any) (Normalized, bool) {
	m, ok := agentData(result).(map[string]any)
	if !ok {
		return Normalized{}, false
	}

	nested := m["result"]
	if s, ok := nested.(string); ok {
		nested, _ = decodeJSON(s)
	}

	nm, ok := nested.(map[string]any)
	if !ok {
		return Normalized{}, false
	}

	return fromContainer(nm)
}

// RawResponse decodes the raw_response string and searches it, recovering
// total_count and message from the object holding the list when that object is
// within the container depth.
func (n *Normalizer) RawResponse(result any) (Normalized, bool) {
	m, ok := result.(map[string]any)
	if !ok {
		return Normalized{}, false
	}

	raw, ok := m["raw_response"].(string)
	if !ok || raw == "" {
		return Normalized{}, false
	}

	parsed, ok := decodeJSON(raw)
	if !ok {
		return Normalized{}, false
	}

	list, parent, depth := n.emails.Find(parsed)
	if len(list) == 0 {
		return Normalized{}, false
	}

	out := Normalized{
		Emails:     decodeSummaries(list),
		TotalCount: len(list),
	}
	if parent != nil && depth <= n.containerDepth {
		out.TotalCount = countOr(parent["total_count"], len(list))
		out.Message = stringField(parent, "message")
	}

	return out, true
}

// DeepSearch searches the whole result.
func (n *Normalizer) DeepSearch(result any) (Normalized, bool) {
	return fromList(n.emails.Emails(result))
}

// TextField searches the text field of response.result.
func (n *Normalizer) TextField(result any) (Normalized, bool) {
	m, ok := agentData(result).(map[string]any)
	if !ok {
		return Normalized{}, false
	}

	text, ok := m["text"].(string)
	if !ok {
		return Normalized{}, false
	}

	return fromList(n.emails.Emails(text))
}

func agentData(result any) any {
	v := lookup(result, "response", "result")
	if s, ok := v.(string); ok {
		if decoded, ok := decodeJSON(s); ok {
			return decoded
		}
	}

	return v
}

func lookup(v any, path ...string) any {
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[key]
	}

	return v
}

func fromContainer(m map[string]any) (Normalized, bool) {
	list := nonEmptyList(m["emails"])
	if list == nil {
		return Normalized{}, false
	}

	return Normalized{
		Emails:     decodeSummaries(list),
		TotalCount: countOr(m["total_count"], len(list)),
		Message:    stringField(m, "message"),
	}, true
}

func fromList(list []any) (Normalized, bool) {
	if len(list) == 0 {
		return Normalized{}, false
	}

	return Normalized{
		Emails:     decodeSummaries(list),
		TotalCount: len(list),
	}, true
}

func countOr(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return def
	}
}

func fallbackMessage(result any) string {
	var candidates []any
	if m, ok := agentData(result).(map[string]any); ok {
		candidates = append(candidates, m["text"], m["message"])
	}
	candidates = append(candidates, lookup(result, "response", "message"))

	for _, c := range candidates {
		if s, ok := c.(string); ok && s != "" {
			return s
		}
	}

	return ""
}
