package inbox

import (
	"github.com/hal9000y/inbox-digest/internal/failure"
	"github.com/hal9000y/inbox-digest/internal/normalize"
)

// View is what the page shows for a State.
type View struct {
	Emails   []normalize.EmailSummary
	Total    int
	Message  string
	Loading  bool
	Failure  *failure.Failure
	Expanded int

	ShowFilters bool
	Query       string
	MaxResults  int
	HasFetched  bool
	ShowSample  bool

	ShowStatus bool
	ShowError  bool
	ShowEmpty  bool
	ShowCards  bool
}

// View derives the displayed data; sample mode substitutes the built-in set
// without touching the live results.
func (s State) View() View {
	v := View{
		Emails:      s.Emails,
		Total:       s.TotalCount,
		Message:     s.Message,
		Loading:     s.Loading,
		Failure:     s.Failure,
		Expanded:    s.Expanded,
		ShowFilters: s.ShowFilters,
		Query:       s.Query,
		MaxResults:  s.MaxResults,
		HasFetched:  s.HasFetched,
		ShowSample:  s.ShowSample,
	}

	if s.ShowSample {
		v.Emails = SampleEmails()
		v.Total = len(v.Emails)
		v.Message = SampleMessage
	}

	v.ShowStatus = v.Message != "" && !v.Loading && (len(v.Emails) > 0 || v.ShowSample)
	v.ShowError = v.Failure != nil && !v.Loading
	v.ShowEmpty = !v.Loading && v.Failure == nil && len(v.Emails) == 0
	v.ShowCards = !v.Loading && len(v.Emails) > 0

	return v
}
