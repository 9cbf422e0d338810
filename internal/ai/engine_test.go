package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasket-app/tasket-api/internal/logging"
	"github.com/tasket-app/tasket-api/internal/todo"
)

type fakeClient struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeClient) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestEngine(client Client) *Engine {
	return NewEngine(client, logging.NewLogger(true))
}

func TestPrioritize_EmptyTaskList(t *testing.T) {
	client := &fakeClient{err: errors.New("must not be called")}
	engine := newTestEngine(client)

	groups, err := engine.Prioritize(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, client.prompts, "empty task list must not reach the completion service")
	assert.NotNil(t, groups.Focus)
	assert.NotNil(t, groups.QuickWins)
	assert.NotNil(t, groups.DeepWork)
	assert.NotNil(t, groups.Optional)
}

func TestPrioritize_ParsesFencedReply(t *testing.T) {
	client := &fakeClient{reply: "Here you go:\n```json\n{\"focus\": [{\"_id\": \"t1\", \"title\": \"Ship release\", \"tip\": \"Start with the changelog\"}]}\n```"}
	engine := newTestEngine(client)

	tasks := []*todo.Todo{{ID: uuid.New(), Title: "Ship release"}}
	groups, err := engine.Prioritize(context.Background(), tasks)
	require.NoError(t, err)

	require.Len(t, groups.Focus, 1)
	assert.Equal(t, "Ship release", groups.Focus[0].Title)
	assert.Equal(t, "Start with the changelog", groups.Focus[0].Tip)

	// Missing buckets come back empty, not nil.
	assert.NotNil(t, groups.QuickWins)
	assert.NotNil(t, groups.DeepWork)
	assert.NotNil(t, groups.Optional)
}

func TestPrioritize_MalformedReply(t *testing.T) {
	client := &fakeClient{reply: "I cannot help with that."}
	engine := newTestEngine(client)

	tasks := []*todo.Todo{{ID: uuid.New(), Title: "Ship release"}}
	_, err := engine.Prioritize(context.Background(), tasks)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPrioritize_UpstreamFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("HTTP 503")}
	engine := newTestEngine(client)

	tasks := []*todo.Todo{{ID: uuid.New(), Title: "Ship release"}}
	_, err := engine.Prioritize(context.Background(), tasks)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Len(t, client.prompts, 1, "exactly one attempt, no retry")
}

func TestInsight_Actions(t *testing.T) {
	task := TaskInfo{ID: "t1", Title: "Write report", Description: "Quarterly numbers"}

	tests := []struct {
		name   string
		action Action
		reply  string
		check  func(t *testing.T, payload any)
	}{
		{
			name:   "breakdown",
			action: ActionBreakdown,
			reply:  `{"steps": ["Outline", "Draft", "Review"]}`,
			check: func(t *testing.T, payload any) {
				b, ok := payload.(*Breakdown)
				require.True(t, ok)
				assert.Len(t, b.Steps, 3)
			},
		},
		{
			name:   "motivate",
			action: ActionMotivate,
			reply:  `{"message": "You have got this!"}`,
			check: func(t *testing.T, payload any) {
				m, ok := payload.(*Motivation)
				require.True(t, ok)
				assert.NotEmpty(t, m.Message)
			},
		},
		{
			name:   "strategy",
			action: ActionStrategy,
			reply:  `{"strategies": ["Timebox it", "Start with data"]}`,
			check: func(t *testing.T, payload any) {
				s, ok := payload.(*Strategies)
				require.True(t, ok)
				assert.Len(t, s.Strategies, 2)
			},
		},
		{
			name:   "obstacles",
			action: ActionObstacles,
			reply:  `{"obstacles": [{"blocker": "Missing data", "solution": "Ask finance"}]}`,
			check: func(t *testing.T, payload any) {
				o, ok := payload.(*Obstacles)
				require.True(t, ok)
				require.Len(t, o.Obstacles, 1)
				assert.Equal(t, "Missing data", o.Obstacles[0].Blocker)
			},
		},
		{
			name:   "default tip",
			action: Action("unknown-action"),
			reply:  `{"tip": "Do it first thing", "estimatedTime": "30 min", "difficulty": "Easy"}`,
			check: func(t *testing.T, payload any) {
				tip, ok := payload.(*QuickTip)
				require.True(t, ok)
				assert.Equal(t, "Do it first thing", tip.Tip)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(&fakeClient{reply: tt.reply})
			payload, err := engine.Insight(context.Background(), task, tt.action)
			require.NoError(t, err)
			tt.check(t, payload)
		})
	}
}

func TestInsight_RejectsEmptyPayloads(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		reply  string
	}{
		{"breakdown without steps", ActionBreakdown, `{"steps": []}`},
		{"motivation without message", ActionMotivate, `{"message": ""}`},
		{"strategy without entries", ActionStrategy, `{"strategies": []}`},
		{"obstacles without entries", ActionObstacles, `{"obstacles": []}`},
		{"tip without tip", ActionTip, `{"tip": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(&fakeClient{reply: tt.reply})
			_, err := engine.Insight(context.Background(), TaskInfo{Title: "x"}, tt.action)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestPlanWorkspace_UnknownTechnique(t *testing.T) {
	client := &fakeClient{err: errors.New("must not be called")}
	engine := newTestEngine(client)

	_, err := engine.PlanWorkspace(context.Background(), TaskInfo{Title: "x"}, "scrumfall")
	assert.ErrorIs(t, err, ErrUnknownTechnique)
	assert.Empty(t, client.prompts)
}

func TestPlanWorkspace_FiltersComponentsAndSanitizes(t *testing.T) {
	client := &fakeClient{reply: `{
		"ui_components": ["Pomodoro Timer", "Crypto Miner", "notes pad"],
		"layout": "",
		"guidance": "Work in 25-minute sprints.",
		"html_summary": "<h2>Focus Time</h2><script>alert('x')</script><p>Go!</p>"
	}`}
	engine := newTestEngine(client)

	plan, err := engine.PlanWorkspace(context.Background(), TaskInfo{Title: "Learn React"}, "pomodoro")
	require.NoError(t, err)

	assert.Equal(t, []string{"Pomodoro Timer", "notes pad"}, plan.UIComponents)
	assert.Equal(t, "two-column", plan.Layout, "empty layout falls back to the technique default")
	assert.NotContains(t, plan.HTMLSummary, "<script>")
	assert.Contains(t, plan.HTMLSummary, "<h2>Focus Time</h2>")
}

func TestPlanWorkspace_EmptyComponentListFallsBack(t *testing.T) {
	client := &fakeClient{reply: `{
		"ui_components": ["Made Up Widget"],
		"layout": "grid",
		"guidance": "g",
		"html_summary": ""
	}`}
	engine := newTestEngine(client)

	plan, err := engine.PlanWorkspace(context.Background(), TaskInfo{Title: "x"}, "eisenhower")
	require.NoError(t, err)

	// Nothing survived the filter, so the full technique set is returned.
	assert.Equal(t, []string{"Eisenhower Matrix", "Notes Pad"}, plan.UIComponents)
}

func TestLookupTechnique_Normalization(t *testing.T) {
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"pomodoro", "Pomodoro", true},
		{"Pomodoro", "Pomodoro", true},
		{"Time Blocking", "Time Blocking", true},
		{"time-blocking", "Time Blocking", true},
		{"  DeepWork  ", "Deep Work", true},
		{"kanban", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			tech, ok := LookupTechnique(tt.key)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, tech.Name)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"fenced block", "Sure!\n```json\n{\"a\": 1}\n```\nDone.", `{"a": 1}`},
		{"bare json", "  {\"a\": 1}  ", `{"a": 1}`},
		{"prefers first fence", "```json\n{\"a\": 1}\n```\n```json\n{\"b\": 2}\n```", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.raw))
		})
	}
}
