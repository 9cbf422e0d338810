package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/tasket-app/tasket-api/internal/logging"
	"github.com/tasket-app/tasket-api/internal/todo"
)

// Action is a narrow on-demand insight request for a single task.
type Action string

const (
	ActionBreakdown Action = "breakdown"
	ActionMotivate  Action = "motivate"
	ActionStrategy  Action = "strategy"
	ActionObstacles Action = "obstacles"
	// ActionTip is the default when no action is named.
	ActionTip Action = "tip"
)

// PrioritizedTask is a task enriched with advisory fields by the completion
// service.
type PrioritizedTask struct {
	ID            string `json:"_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Tip           string `json:"tip"`
	EstimatedTime string `json:"estimatedTime"`
	Difficulty    string `json:"difficulty"`
	AIInsight     string `json:"aiInsight"`
}

// PriorityGroups is the four-bucket classification of a task set. It is
// derived fresh on every call and never persisted; two calls may classify the
// same task differently.
type PriorityGroups struct {
	Focus     []PrioritizedTask `json:"focus"`
	QuickWins []PrioritizedTask `json:"quick_wins"`
	DeepWork  []PrioritizedTask `json:"deep_work"`
	Optional  []PrioritizedTask `json:"optional"`
}

// Breakdown lists smaller action steps for one task.
type Breakdown struct {
	Steps []string `json:"steps"`
}

// Motivation is a single motivational message.
type Motivation struct {
	Message string `json:"message"`
}

// Strategies lists tactical approaches for one task.
type Strategies struct {
	Strategies []string `json:"strategies"`
}

// Obstacle pairs a likely blocker with its fix.
type Obstacle struct {
	Blocker  string `json:"blocker"`
	Solution string `json:"solution"`
}

// Obstacles lists likely blockers for one task.
type Obstacles struct {
	Obstacles []Obstacle `json:"obstacles"`
}

// QuickTip is the default single-task insight.
type QuickTip struct {
	Tip           string `json:"tip"`
	EstimatedTime string `json:"estimatedTime"`
	Difficulty    string `json:"difficulty"`
}

// WorkspacePlan is the AI's plan for a technique workspace. HTMLSummary is
// sanitized before it leaves the engine.
type WorkspacePlan struct {
	UIComponents []string `json:"ui_components"`
	Layout       string   `json:"layout"`
	Guidance     string   `json:"guidance"`
	HTMLSummary  string   `json:"html_summary"`
}

// TaskInfo carries the task fields insight prompts are built from.
type TaskInfo struct {
	ID          string
	Title       string
	Description string
}

// Engine builds prompts for the completion service and parses its constrained
// JSON replies. Any reply that violates the expected schema surfaces as
// ErrUnavailable; there is no retry and no caching.
type Engine struct {
	client    Client
	logger    *logging.Logger
	sanitizer *bluemonday.Policy
}

func NewEngine(client Client, logger *logging.Logger) *Engine {
	return &Engine{
		client:    client,
		logger:    logger,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Prioritize classifies the task set into the four priority buckets. An empty
// task set short-circuits to four empty buckets without an upstream call.
func (e *Engine) Prioritize(ctx context.Context, tasks []*todo.Todo) (*PriorityGroups, error) {
	groups := &PriorityGroups{
		Focus:     []PrioritizedTask{},
		QuickWins: []PrioritizedTask{},
		DeepWork:  []PrioritizedTask{},
		Optional:  []PrioritizedTask{},
	}

	if len(tasks) == 0 {
		return groups, nil
	}

	taskJSON, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}

	prompt := fmt.Sprintf(prioritizePrompt, string(taskJSON))

	raw, err := e.client.Generate(ctx, prompt)
	if err != nil {
		e.logger.Warn("prioritization call failed", "error", err)
		return nil, ErrUnavailable
	}

	if err := json.Unmarshal([]byte(extractJSON(raw)), groups); err != nil {
		e.logger.Warn("prioritization reply is not valid JSON", "error", err)
		return nil, ErrUnavailable
	}

	// A missing bucket means an empty bucket, not an error.
	if groups.Focus == nil {
		groups.Focus = []PrioritizedTask{}
	}
	if groups.QuickWins == nil {
		groups.QuickWins = []PrioritizedTask{}
	}
	if groups.DeepWork == nil {
		groups.DeepWork = []PrioritizedTask{}
	}
	if groups.Optional == nil {
		groups.Optional = []PrioritizedTask{}
	}

	return groups, nil
}

// Insight runs one of the fixed per-task actions and returns its typed
// payload: Breakdown, Motivation, Strategies, Obstacles or QuickTip.
func (e *Engine) Insight(ctx context.Context, task TaskInfo, action Action) (any, error) {
	var prompt string
	switch action {
	case ActionBreakdown:
		prompt = fmt.Sprintf(breakdownPrompt, task.Title, task.Description)
	case ActionMotivate:
		prompt = fmt.Sprintf(motivatePrompt, task.Title)
	case ActionStrategy:
		prompt = fmt.Sprintf(strategyPrompt, task.Title, task.Description)
	case ActionObstacles:
		prompt = fmt.Sprintf(obstaclesPrompt, task.Title)
	default:
		prompt = fmt.Sprintf(tipPrompt, task.Title)
	}

	raw, err := e.client.Generate(ctx, prompt)
	if err != nil {
		e.logger.Warn("insight call failed", "action", string(action), "error", err)
		return nil, ErrUnavailable
	}

	payload, err := parseInsight(extractJSON(raw), action)
	if err != nil {
		e.logger.Warn("insight reply violates schema", "action", string(action), "error", err)
		return nil, ErrUnavailable
	}

	return payload, nil
}

// PlanWorkspace asks the service for a workspace plan constrained to the
// technique's component set. The returned component list is filtered to the
// allowed set and the HTML fragment is sanitized before delivery.
func (e *Engine) PlanWorkspace(ctx context.Context, task TaskInfo, techniqueKey string) (*WorkspacePlan, error) {
	tech, ok := LookupTechnique(techniqueKey)
	if !ok {
		return nil, ErrUnknownTechnique
	}

	description := task.Description
	if description == "" {
		description = "No description provided."
	}

	prompt := fmt.Sprintf(workspacePrompt,
		tech.Name,
		strings.Join(tech.Components, ", "),
		task.Title,
		description,
		tech.Layout,
	)

	raw, err := e.client.Generate(ctx, prompt)
	if err != nil {
		e.logger.Warn("workspace plan call failed", "technique", tech.Name, "error", err)
		return nil, ErrUnavailable
	}

	plan := new(WorkspacePlan)
	if err := json.Unmarshal([]byte(extractJSON(raw)), plan); err != nil {
		e.logger.Warn("workspace plan reply is not valid JSON", "error", err)
		return nil, ErrUnavailable
	}

	plan.UIComponents = filterComponents(plan.UIComponents, tech.Components)
	if len(plan.UIComponents) == 0 {
		plan.UIComponents = tech.Components
	}
	if plan.Layout == "" {
		plan.Layout = tech.Layout
	}
	// Never trust completion-service HTML.
	plan.HTMLSummary = e.sanitizer.Sanitize(plan.HTMLSummary)

	return plan, nil
}

func parseInsight(jsonText string, action Action) (any, error) {
	switch action {
	case ActionBreakdown:
		var b Breakdown
		if err := json.Unmarshal([]byte(jsonText), &b); err != nil {
			return nil, err
		}
		if len(b.Steps) == 0 {
			return nil, fmt.Errorf("breakdown reply has no steps")
		}
		return &b, nil
	case ActionMotivate:
		var m Motivation
		if err := json.Unmarshal([]byte(jsonText), &m); err != nil {
			return nil, err
		}
		if m.Message == "" {
			return nil, fmt.Errorf("motivation reply has no message")
		}
		return &m, nil
	case ActionStrategy:
		var s Strategies
		if err := json.Unmarshal([]byte(jsonText), &s); err != nil {
			return nil, err
		}
		if len(s.Strategies) == 0 {
			return nil, fmt.Errorf("strategy reply has no strategies")
		}
		return &s, nil
	case ActionObstacles:
		var o Obstacles
		if err := json.Unmarshal([]byte(jsonText), &o); err != nil {
			return nil, err
		}
		if len(o.Obstacles) == 0 {
			return nil, fmt.Errorf("obstacles reply has no entries")
		}
		return &o, nil
	default:
		var t QuickTip
		if err := json.Unmarshal([]byte(jsonText), &t); err != nil {
			return nil, err
		}
		if t.Tip == "" {
			return nil, fmt.Errorf("tip reply has no tip")
		}
		return &t, nil
	}
}

var fencedJSON = regexp.MustCompile("(?s)```json(.*?)```")

// extractJSON returns the first fenced JSON block if present, otherwise the
// whole reply trimmed.
func extractJSON(raw string) string {
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// filterComponents keeps only components the technique allows.
func filterComponents(requested, allowed []string) []string {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, c := range allowed {
		allowedSet[strings.ToLower(c)] = struct{}{}
	}

	var filtered []string
	for _, c := range requested {
		if _, ok := allowedSet[strings.ToLower(strings.TrimSpace(c))]; ok {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
