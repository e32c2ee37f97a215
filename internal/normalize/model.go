package normalize

// EmailSummary is one inbox message as reported by the agent.
// Every field is optional; values of an unexpected type decode to their zero value.
type EmailSummary struct {
	Sender         string   `json:"sender,omitempty" jsonschema:"sender, optionally in Name <email> form"`
	Subject        string   `json:"subject,omitempty" jsonschema:"email subject"`
	Date           string   `json:"date,omitempty" jsonschema:"ISO-8601 date as reported by the agent"`
	SummaryBullets []string `json:"summary_bullets,omitempty" jsonschema:"short summary bullet points"`
	ActionTag      string   `json:"action_tag,omitempty" jsonschema:"recommended action label"`
	Urgency        string   `json:"urgency,omitempty" jsonschema:"high, medium or low"`
	FullSummary    string   `json:"full_summary,omitempty" jsonschema:"longer summary, may contain simple markdown"`
	Snippet        string   `json:"snippet,omitempty" jsonschema:"excerpt of the original message"`
}

// Normalized is the structured data extracted from an agent result.
type Normalized struct {
	Emails     []EmailSummary `json:"emails" jsonschema:"email summaries found in the agent result"`
	TotalCount int            `json:"total_count" jsonschema:"total number of emails reported"`
	Message    string         `json:"message" jsonschema:"status message reported by the agent"`
}

func decodeSummaries(list []any) []EmailSummary {
	emails := make([]EmailSummary, 0, len(list))
	for _, item := range list {
		emails = append(emails, decodeSummary(item))
	}

	return emails
}

func decodeSummary(v any) EmailSummary {
	m, ok := v.(map[string]any)
	if !ok {
		return EmailSummary{}
	}

	return EmailSummary{
		Sender:         stringField(m, "sender"),
		Subject:        stringField(m, "subject"),
		Date:           stringField(m, "date"),
		SummaryBullets: stringsField(m, "summary_bullets"),
		ActionTag:      stringField(m, "action_tag"),
		Urgency:        stringField(m, "urgency"),
		FullSummary:    stringField(m, "full_summary"),
		Snippet:        stringField(m, "snippet"),
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringsField(m map[string]any, key string) []string {
	list, ok := m[key].([]any)
	if !ok {
		return nil
	}

	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}

	return out
}
