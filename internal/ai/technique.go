package ai

import (
	"errors"
	"strings"
)

// ErrUnknownTechnique is returned when a workspace plan is requested for a
// technique that is not registered.
var ErrUnknownTechnique = errors.New("unknown technique")

// Technique is a named productivity method with the UI components the AI may
// plan with and a layout hint for the frontend.
type Technique struct {
	Name       string
	Components []string
	Layout     string
}

// The registry is fixed: the AI is never allowed to invent components outside
// a technique's list.
var techniques = map[string]Technique{
	"pomodoro": {
		Name:       "Pomodoro",
		Components: []string{"Pomodoro Timer", "Focus Tracker", "Notes Pad"},
		Layout:     "two-column",
	},
	"eisenhower": {
		Name:       "Eisenhower Matrix",
		Components: []string{"Eisenhower Matrix", "Notes Pad"},
		Layout:     "grid",
	},
	"deepwork": {
		Name:       "Deep Work",
		Components: []string{"Deep Work Session", "Notes Pad"},
		Layout:     "stacked",
	},
	"time-blocking": {
		Name:       "Time Blocking",
		Components: []string{"Time Block Planner", "Notes Pad"},
		Layout:     "stacked",
	},
}

// LookupTechnique normalizes the key ("Time Blocking" -> "time-blocking") and
// resolves it against the registry.
func LookupTechnique(key string) (Technique, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "-")
	t, ok := techniques[normalized]
	return t, ok
}
