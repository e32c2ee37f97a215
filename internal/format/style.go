package format

import (
	"regexp"
	"strings"
	"time"
)

// ActionTagClass maps an action tag onto its pill style. The first matching
// keyword wins.
func ActionTagClass(tag string) string {
	t := strings.ToLower(tag)

	switch {
	case strings.Contains(t, "reply"):
		return "tag tag-reply"
	case strings.Contains(t, "fyi"):
		return "tag tag-fyi"
	case strings.Contains(t, "review"):
		return "tag tag-review"
	case strings.Contains(t, "approval"):
		return "tag tag-approval"
	case strings.Contains(t, "follow"):
		return "tag tag-follow"
	default:
		return "tag tag-neutral"
	}
}

// Urgency is the indicator shown next to a card's sender.
type Urgency struct {
	Dot   string
	Label string
	Text  string
}

// UrgencyStyle maps an urgency string onto its indicator; anything but high or
// medium is low.
func UrgencyStyle(urgency string) Urgency {
	switch strings.ToLower(urgency) {
	case "high":
		return Urgency{Dot: "dot dot-red", Label: "High", Text: "urgency-red"}
	case "medium":
		return Urgency{Dot: "dot dot-amber", Label: "Medium", Text: "urgency-amber"}
	default:
		return Urgency{Dot: "dot dot-green", Label: "Low", Text: "urgency-green"}
	}
}

var angleAddrRE = regexp.MustCompile(`<(.+?)>`)

// SplitSender splits "Name <email>" into its parts. Without angle brackets the whole
// string is the name.
func SplitSender(sender string) (name, email string) {
	idx := strings.Index(sender, "<")
	if idx == -1 {
		return sender, ""
	}

	name = strings.Trim(strings.TrimSpace(sender[:idx]), "\"")
	if m := angleAddrRE.FindStringSubmatch(sender); m != nil {
		email = m[1]
	}

	return name, email
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// FormatDate renders an agent date as "Jan 2, 2006, 3:04 PM" in loc. Dates that do not
// parse are returned as given.
func FormatDate(s string, loc *time.Location) string {
	if s == "" {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.In(loc).Format("Jan 2, 2006, 3:04 PM")
		}
	}

	return s
}
