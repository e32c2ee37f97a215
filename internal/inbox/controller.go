// Package inbox holds the state of the inbox digest page and the actions that change it.
package inbox

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/hal9000y/inbox-digest/internal/agent"
	"github.com/hal9000y/inbox-digest/internal/failure"
	"github.com/hal9000y/inbox-digest/internal/normalize"
)

const (
	MinMaxResults     = 1
	MaxMaxResults     = 50
	DefaultMaxResults = 10

	// NoCard is the Expanded value when every card is collapsed.
	NoCard = -1

	NoEmailsMessage = "The agent responded but no email summaries were found. Try again or adjust your filters."
)

// ErrMaxResultsRange is returned when the max results bound is outside 1..50.
var ErrMaxResultsRange = fmt.Errorf("max results must be between %d and %d", MinMaxResults, MaxMaxResults)

// State is one immutable snapshot of the page state.
type State struct {
	Emails      []normalize.EmailSummary
	TotalCount  int
	Message     string
	Loading     bool
	Failure     *failure.Failure
	Expanded    int
	ShowFilters bool
	Query       string
	MaxResults  int
	HasFetched  bool
	ShowSample  bool
}

type caller interface {
	Call(ctx context.Context, message, agentID string) (*agent.Result, error)
}

// Controller owns the page state. Every action commits a whole new State.
type Controller struct {
	mu      sync.Mutex
	state   State
	agent   caller
	agentID string
}

// NewController creates a Controller with an initial max results bound.
func NewController(agent caller, agentID string, maxResults int) *Controller {
	if maxResults < MinMaxResults || maxResults > MaxMaxResults {
		maxResults = DefaultMaxResults
	}

	return &Controller{
		agent:   agent,
		agentID: agentID,
		state: State{
			Expanded:   NoCard,
			MaxResults: maxResults,
		},
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Controller) update(fn func(s *State)) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state
	fn(&next)
	c.state = next

	return next
}

type outcome struct {
	emails     []normalize.EmailSummary
	totalCount int
	message    string
	failure    *failure.Failure
}

// Fetch asks the agent for a fresh digest and replaces the live results with it.
// Overlapping calls are not serialized; the last one to finish wins.
func (c *Controller) Fetch(ctx context.Context) State {
	return c.finish(ctx, c.update(beginFetch))
}

// Start commits the loading state and runs the fetch in the background, returning
// a channel that receives the final state. It does nothing and reports false while
// another fetch is loading.
func (c *Controller) Start(ctx context.Context) (<-chan State, bool) {
	started := false
	state := c.update(func(s *State) {
		if s.Loading {
			return
		}
		beginFetch(s)
		started = true
	})
	if !started {
		return nil, false
	}

	done := make(chan State, 1)
	go func() {
		defer close(done)
		done <- c.finish(ctx, state)
	}()

	return done, true
}

func beginFetch(s *State) {
	s.Emails = nil
	s.TotalCount = 0
	s.Message = ""
	s.Failure = nil
	s.Expanded = NoCard
	s.Loading = true
	s.HasFetched = true
}

func (c *Controller) finish(ctx context.Context, started State) State {
	out := c.fetch(ctx, started.MaxResults, started.Query)

	return c.update(func(s *State) {
		s.Loading = false
		s.Emails = out.emails
		s.TotalCount = out.totalCount
		s.Message = out.message
		s.Failure = out.failure
	})
}

func (c *Controller) fetch(ctx context.Context, maxResults int, query string) outcome {
	res, err := c.agent.Call(ctx, agent.Instruction(maxResults, query), c.agentID)
	if err != nil {
		log.Println(fmt.Errorf("agent.Call failed: %w", err))
		f := failure.FromError(err)
		return outcome{failure: &f}
	}

	if !res.Success {
		f := failure.Classify(res.ErrorText(), res.RawText())
		log.Printf("Agent call unsuccessful, category: %s", f.Category)
		return outcome{failure: &f}
	}

	n := normalize.Normalize(res.Payload())
	log.Printf("Agent returned %d emails, total %d", len(n.Emails), n.TotalCount)

	out := outcome{
		emails:     n.Emails,
		totalCount: n.TotalCount,
		message:    n.Message,
	}
	if len(out.emails) == 0 && out.message == "" {
		out.message = NoEmailsMessage
	}

	return out
}

// ToggleCard expands card i, or collapses it when it is already expanded.
func (c *Controller) ToggleCard(i int) State {
	return c.update(func(s *State) {
		if s.Expanded == i {
			s.Expanded = NoCard
			return
		}
		s.Expanded = i
	})
}

// ToggleFilters shows or hides the filter panel.
func (c *Controller) ToggleFilters() State {
	return c.update(func(s *State) { s.ShowFilters = !s.ShowFilters })
}

// ToggleSample switches between live results and the built-in sample set.
func (c *Controller) ToggleSample() State {
	return c.update(func(s *State) { s.ShowSample = !s.ShowSample })
}

// SetQuery sets the free-text filter used by the next fetch.
func (c *Controller) SetQuery(q string) State {
	return c.update(func(s *State) { s.Query = q })
}

// SetMaxResults sets the bound used by the next fetch. Out of range values leave the
// state unchanged.
func (c *Controller) SetMaxResults(n int) (State, error) {
	if n < MinMaxResults || n > MaxMaxResults {
		return c.Snapshot(), ErrMaxResultsRange
	}

	return c.update(func(s *State) { s.MaxResults = n }), nil
}
