package inbox_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/inbox-digest/internal/agent"
	"github.com/hal9000y/inbox-digest/internal/failure"
	"github.com/hal9000y/inbox-digest/internal/inbox"
	"github.com/hal9000y/inbox-digest/internal/normalize"
)

type callerFunc func(ctx context.Context, message, agentID string) (*agent.Result, error)

func (f callerFunc) Call(ctx context.Context, message, agentID string) (*agent.Result, error) {
	return f(ctx, message, agentID)
}

func returning(res *agent.Result, err error) callerFunc {
	return func(context.Context, string, string) (*agent.Result, error) { return res, err }
}

func successWith(emails ...any) *agent.Result {
	return &agent.Result{
		Success: true,
		Response: map[string]any{
			"status": "success",
			"result": map[string]any{"emails": emails, "total_count": 9.0, "message": "Latest digest"},
		},
	}
}

func TestNewController(t *testing.T) {
	s := inbox.NewController(returning(nil, nil), "agent-1", 0).Snapshot()
	assert.Equal(t, inbox.DefaultMaxResults, s.MaxResults)
	assert.Equal(t, inbox.NoCard, s.Expanded)
	assert.False(t, s.HasFetched)

	v := s.View()
	assert.True(t, v.ShowEmpty)
	assert.False(t, v.ShowCards)
	assert.False(t, v.ShowStatus)
}

func TestFetch(t *testing.T) {
	cases := []struct {
		name     string
		caller   callerFunc
		expected inbox.State
	}{
		{
			name:   "success",
			caller: returning(successWith(map[string]any{"subject": "Hi"}), nil),
			expected: inbox.State{
				Emails:     []normalize.EmailSummary{{Subject: "Hi"}},
				TotalCount: 9,
				Message:    "Latest digest",
				Expanded:   inbox.NoCard,
				MaxResults: inbox.DefaultMaxResults,
				HasFetched: true,
			},
		},
		{
			name:   "success_without_emails_or_message",
			caller: returning(&agent.Result{Success: true, Response: map[string]any{"result": map[string]any{}}}, nil),
			expected: inbox.State{
				Emails:     []normalize.EmailSummary{},
				Message:    inbox.NoEmailsMessage,
				Expanded:   inbox.NoCard,
				MaxResults: inbox.DefaultMaxResults,
				HasFetched: true,
			},
		},
		{
			name:   "agent_auth_failure",
			caller: returning(&agent.Result{Success: false, Error: "agent returned HTTP 401"}, nil),
			expected: inbox.State{
				Failure:    &failure.Failure{Category: failure.CategoryAuth, Message: failure.MessageAuth},
				Expanded:   inbox.NoCard,
				MaxResults: inbox.DefaultMaxResults,
				HasFetched: true,
			},
		},
		{
			name:   "transport_timeout",
			caller: returning(nil, fmt.Errorf("%w: %w", agent.ErrTimeout, context.DeadlineExceeded)),
			expected: inbox.State{
				Failure:    &failure.Failure{Category: failure.CategoryTimeout, Message: failure.MessageTimeout},
				Expanded:   inbox.NoCard,
				MaxResults: inbox.DefaultMaxResults,
				HasFetched: true,
			},
		},
		{
			name:   "transport_error_verbatim",
			caller: returning(nil, errors.New("connection refused")),
			expected: inbox.State{
				Failure:    &failure.Failure{Category: failure.CategoryGeneric, Message: "connection refused"},
				Expanded:   inbox.NoCard,
				MaxResults: inbox.DefaultMaxResults,
				HasFetched: true,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := inbox.NewController(tc.caller, "agent-1", inbox.DefaultMaxResults)
			assert.Equal(t, tc.expected, c.Fetch(context.Background()))
			assert.Equal(t, tc.expected, c.Snapshot())
		})
	}
}

func TestFetchRequestAndLoadingState(t *testing.T) {
	var c *inbox.Controller
	var gotMessage, gotAgentID string
	var during inbox.State

	c = inbox.NewController(callerFunc(func(_ context.Context, message, agentID string) (*agent.Result, error) {
		gotMessage, gotAgentID = message, agentID
		during = c.Snapshot()
		return successWith(map[string]any{"sender": "a"}), nil
	}), "agent-42", 10)

	c.SetQuery("from:ceo")
	_, err := c.SetMaxResults(25)
	require.NoError(t, err)
	c.ToggleCard(3)

	c.Fetch(context.Background())

	assert.Equal(t, "Please fetch and summarize my latest 25 emails. Filter: from:ceo", gotMessage)
	assert.Equal(t, "agent-42", gotAgentID)
	assert.True(t, during.Loading)
	assert.True(t, during.HasFetched)
	assert.Empty(t, during.Emails)
	assert.Equal(t, inbox.NoCard, during.Expanded)
	assert.False(t, during.View().ShowEmpty)
	assert.False(t, during.View().ShowCards)
}

func TestFetchOverwrites(t *testing.T) {
	results := []*agent.Result{
		successWith(map[string]any{"subject": "first"}, map[string]any{"subject": "second"}),
		successWith(map[string]any{"subject": "third"}),
		{Success: false, Error: "Agent task failed"},
	}
	call := 0
	c := inbox.NewController(callerFunc(func(context.Context, string, string) (*agent.Result, error) {
		res := results[call]
		call++
		return res, nil
	}), "agent-1", 10)

	s := c.Fetch(context.Background())
	require.Len(t, s.Emails, 2)

	s = c.Fetch(context.Background())
	require.Len(t, s.Emails, 1)
	assert.Equal(t, "third", s.Emails[0].Subject)

	s = c.Fetch(context.Background())
	assert.Empty(t, s.Emails)
	assert.Zero(t, s.TotalCount)
	require.NotNil(t, s.Failure)
	assert.Equal(t, failure.CategoryAgentTask, s.Failure.Category)

	v := s.View()
	assert.True(t, v.ShowError)
	assert.False(t, v.ShowEmpty)
}

func TestToggleCard(t *testing.T) {
	c := inbox.NewController(returning(nil, nil), "agent-1", 10)

	assert.Equal(t, 2, c.ToggleCard(2).Expanded)
	assert.Equal(t, 4, c.ToggleCard(4).Expanded)
	assert.Equal(t, inbox.NoCard, c.ToggleCard(4).Expanded)
	assert.Equal(t, 0, c.ToggleCard(0).Expanded)
}

func TestSampleMode(t *testing.T) {
	c := inbox.NewController(returning(successWith(map[string]any{"subject": "live"}), nil), "agent-1", 10)
	live := c.Fetch(context.Background())

	sample := c.ToggleSample()
	v := sample.View()
	require.Len(t, v.Emails, 5)
	assert.Equal(t, 5, v.Total)
	assert.Equal(t, inbox.SampleMessage, v.Message)
	assert.True(t, v.ShowStatus)
	assert.True(t, v.ShowCards)

	restored := c.ToggleSample()
	assert.Equal(t, live, restored)
	assert.Equal(t, "live", restored.View().Emails[0].Subject)
}

func TestSampleModeBeforeAnyFetch(t *testing.T) {
	c := inbox.NewController(returning(nil, nil), "agent-1", 10)

	v := c.ToggleSample().View()
	assert.Len(t, v.Emails, 5)
	assert.False(t, v.ShowEmpty)
	assert.False(t, v.HasFetched)
}

func TestSetMaxResults(t *testing.T) {
	c := inbox.NewController(returning(nil, nil), "agent-1", 10)

	for _, n := range []int{0, -3, 51} {
		s, err := c.SetMaxResults(n)
		require.ErrorIs(t, err, inbox.ErrMaxResultsRange)
		assert.Equal(t, 10, s.MaxResults)
	}

	for _, n := range []int{1, 50} {
		s, err := c.SetMaxResults(n)
		require.NoError(t, err)
		assert.Equal(t, n, s.MaxResults)
	}
}

func TestToggleFilters(t *testing.T) {
	c := inbox.NewController(returning(nil, nil), "agent-1", 10)

	assert.True(t, c.ToggleFilters().ShowFilters)
	assert.False(t, c.ToggleFilters().ShowFilters)
}

func TestStatusBannerRules(t *testing.T) {
	s := inbox.State{Message: "Inbox zero", HasFetched: true, Emails: []normalize.EmailSummary{}}
	v := s.View()
	assert.False(t, v.ShowStatus)
	assert.True(t, v.ShowEmpty)

	s.Emails = []normalize.EmailSummary{{Subject: "x"}}
	assert.True(t, s.View().ShowStatus)

	s.Loading = true
	v = s.View()
	assert.False(t, v.ShowStatus)
	assert.False(t, v.ShowCards)
	assert.False(t, v.ShowEmpty)
}

func TestStart(t *testing.T) {
	release := make(chan struct{})
	calls := 0
	c := inbox.NewController(callerFunc(func(context.Context, string, string) (*agent.Result, error) {
		calls++
		<-release
		return successWith(map[string]any{"subject": "Hi"}), nil
	}), "agent-1", 5)

	done, ok := c.Start(context.Background())
	require.True(t, ok)

	loading := c.Snapshot()
	assert.True(t, loading.Loading)
	assert.True(t, loading.HasFetched)
	assert.False(t, loading.View().ShowEmpty)

	_, ok = c.Start(context.Background())
	assert.False(t, ok, "a second fetch must not start while one is loading")

	close(release)
	final := <-done

	assert.False(t, final.Loading)
	require.Len(t, final.Emails, 1)
	assert.Equal(t, "Hi", final.Emails[0].Subject)
	assert.Equal(t, 1, calls)
	assert.Equal(t, final, c.Snapshot())

	_, open := <-done
	assert.False(t, open)
}
