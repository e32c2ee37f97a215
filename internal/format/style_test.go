package format_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hal9000y/inbox-digest/internal/format"
)

func TestActionTagClass(t *testing.T) {
	cases := map[string]string{
		"Reply Needed":          "tag tag-reply",
		"FYI":                   "tag tag-fyi",
		"Review":                "tag tag-review",
		"Approval Required":     "tag tag-approval",
		"Follow Up":             "tag tag-follow",
		"No Action":             "tag tag-neutral",
		"":                      "tag tag-neutral",
		"Something else":        "tag tag-neutral",
		"Review and reply ASAP": "tag tag-reply",
	}

	for tag, expected := range cases {
		t.Run(tag, func(t *testing.T) {
			assert.Equal(t, expected, format.ActionTagClass(tag))
		})
	}
}

func TestUrgencyStyle(t *testing.T) {
	assert.Equal(t, "High", format.UrgencyStyle("HIGH").Label)
	assert.Equal(t, "dot dot-red", format.UrgencyStyle("high").Dot)
	assert.Equal(t, "Medium", format.UrgencyStyle("medium").Label)
	assert.Equal(t, "urgency-amber", format.UrgencyStyle("Medium").Text)
	assert.Equal(t, "Low", format.UrgencyStyle("low").Label)
	assert.Equal(t, "Low", format.UrgencyStyle("critical").Label)
	assert.Equal(t, "Low", format.UrgencyStyle("").Label)
}

func TestSplitSender(t *testing.T) {
	cases := []struct {
		sender        string
		expectedName  string
		expectedEmail string
	}{
		{sender: "Sarah Chen <sarah@example.com>", expectedName: "Sarah Chen", expectedEmail: "sarah@example.com"},
		{sender: `"Ops Team" <ops@example.com>`, expectedName: "Ops Team", expectedEmail: "ops@example.com"},
		{sender: "plain@example.com", expectedName: "plain@example.com"},
		{sender: "Broken <", expectedName: "Broken"},
		{sender: "", expectedName: ""},
	}

	for _, tc := range cases {
		t.Run(tc.sender, func(t *testing.T) {
			name, email := format.SplitSender(tc.sender)
			assert.Equal(t, tc.expectedName, name)
			assert.Equal(t, tc.expectedEmail, email)
		})
	}
}

func TestFormatDate(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{input: "2025-01-15T09:32:00Z", expected: "Jan 15, 2025, 9:32 AM"},
		{input: "2025-01-15T21:05:00.123Z", expected: "Jan 15, 2025, 9:05 PM"},
		{input: "2025-01-15T09:32:00+02:00", expected: "Jan 15, 2025, 7:32 AM"},
		{input: "2025-01-15", expected: "Jan 15, 2025, 12:00 AM"},
		{input: "yesterday afternoon", expected: "yesterday afternoon"},
		{input: "", expected: ""},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, format.FormatDate(tc.input, time.UTC))
		})
	}
}
