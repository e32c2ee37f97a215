package web

import (
	"html/template"
	"time"

	"github.com/hal9000y/inbox-digest/internal/format"
	"github.com/hal9000y/inbox-digest/internal/normalize"
)

type card struct {
	Index       int
	SenderName  string
	SenderEmail string
	Subject     string
	Date        string
	Bullets     []string
	ActionTag   string
	ActionClass string
	Urgency     format.Urgency
	FullSummary template.HTML
	Snippet     string
	Expanded    bool
}

func newCard(i int, e normalize.EmailSummary, expanded bool, cnv summaryConverter, loc *time.Location) card {
	sender := orDefault(e.Sender, "Unknown Sender")
	actionTag := orDefault(e.ActionTag, "No Action")
	name, email := format.SplitSender(sender)

	c := card{
		Index:       i,
		SenderName:  name,
		SenderEmail: email,
		Subject:     orDefault(e.Subject, "No Subject"),
		Date:        format.FormatDate(e.Date, loc),
		Bullets:     e.SummaryBullets,
		ActionTag:   actionTag,
		ActionClass: format.ActionTagClass(actionTag),
		Urgency:     format.UrgencyStyle(orDefault(e.Urgency, "low")),
		Snippet:     e.Snippet,
		Expanded:    expanded,
	}

	if expanded && e.FullSummary != "" {
		// RenderMarkdown escapes all text it emits.
		c.FullSummary = template.HTML(format.RenderMarkdown(cnv.SummaryMD(e.FullSummary)))
	}

	return c
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
