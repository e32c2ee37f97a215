package inbox

import "github.com/hal9000y/inbox-digest/internal/normalize"

// SampleMessage is the status line shown with the sample set.
const SampleMessage = "Showing 5 sample email summaries for demonstration purposes."

var sampleEmails = []normalize.EmailSummary{
	{
		Sender:  "Priya Raman <priya.raman@northwind.example>",
		Subject: "Vendor contract sign-off needed by Thursday",
		Date:    "2025-03-04T08:45:00Z",
		SummaryBullets: []string{
			"Renewal terms were negotiated down by 9%",
			"Legal has cleared the liability clause",
			"Signature required before the Thursday deadline",
		},
		ActionTag:   "Approval Required",
		Urgency:     "high",
		FullSummary: "## Contract renewal\nPriya needs your approval on the renewed vendor contract.\n\n- Price reduced by **9%**\n- Term extended to 24 months\n\n1. Review the redlined copy\n2. Sign in the portal",
		Snippet:     "Hi, attaching the final redline of the Northwind contract for your signature...",
	},
	{
		Sender:  "Tomás Ortega <tomas@clientside.example>",
		Subject: "Re: Launch date for the onboarding flow",
		Date:    "2025-03-04T07:10:00Z",
		SummaryBullets: []string{
			"Client asks whether the March 18 launch still holds",
			"They want a short demo before go-live",
		},
		ActionTag:   "Reply Needed",
		Urgency:     "medium",
		FullSummary: "Tomás wants confirmation of the **March 18** launch and proposes a 30 minute demo on the 14th.",
		Snippet:     "Quick check before I brief our leadership: are we still on track for the 18th?",
	},
	{
		Sender:  "People Team <people@northwind.example>",
		Subject: "Office closed on Friday for maintenance",
		Date:    "2025-03-03T16:00:00Z",
		SummaryBullets: []string{
			"Building power maintenance all day Friday",
			"Remote work is expected; no leave needed",
		},
		ActionTag:   "FYI",
		Urgency:     "low",
		FullSummary: "The office is closed on Friday. Everyone works remotely that day.",
		Snippet:     "Please note the office will be closed this Friday while the power systems are serviced...",
	},
	{
		Sender:  "CI Pipeline <ci@builds.example>",
		Subject: "Nightly build failed on main",
		Date:    "2025-03-04T03:12:00Z",
		SummaryBullets: []string{
			"Integration suite failed in the payments package",
			"Last green build was two nights ago",
			"Three commits landed since then",
		},
		ActionTag:   "Review",
		Urgency:     "high",
		FullSummary: "### Failure details\n- Failing job: integration-payments\n- First failing commit: 4f2c9e1\n\nLogs are attached to the pipeline run.",
		Snippet:     "[FAILED] nightly #2214 on main: 3 tests failed in ./payments/...",
	},
	{
		Sender:  "Hannah Becker <h.becker@partners.example>",
		Subject: "Following up on the co-marketing proposal",
		Date:    "2025-03-02T11:30:00Z",
		SummaryBullets: []string{
			"Second follow-up on last month's proposal",
			"Suggests a joint webinar in April",
		},
		ActionTag:   "Follow Up",
		Urgency:     "medium",
		FullSummary: "Hannah is following up on the co-marketing proposal and suggests an April webinar as a first step.",
		Snippet:     "Circling back on the proposal I shared in February, would April work for a joint webinar?",
	},
}

// SampleEmails returns a copy of the built-in sample set.
func SampleEmails() []normalize.EmailSummary {
	out := make([]normalize.EmailSummary, len(sampleEmails))
	copy(out, sampleEmails)
	return out
}
