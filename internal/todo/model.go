package todo

import (
	"time"

	"github.com/google/uuid"
)

// Todo is an owned task record. JSON keys mirror the frontend contract.
type Todo struct {
	ID          uuid.UUID `json:"_id"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	Pomodoro    *Pomodoro `json:"pomodoro,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Pomodoro tracks focus-timer progress for a task.
type Pomodoro struct {
	EstimatedPomodoros int        `json:"estimatedPomodoros"`
	CompletedPomodoros int        `json:"completedPomodoros"`
	IsActive           bool       `json:"isActive"`
	StartTime          *time.Time `json:"startTime,omitempty"`
}

// NewTodo carries the caller-supplied fields for task creation.
type NewTodo struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Pomodoro    *Pomodoro `json:"pomodoro,omitempty"`
}

// Patch is a partial update: only non-nil fields are applied, everything else
// keeps its prior value.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
	Pomodoro    *Pomodoro `json:"pomodoro,omitempty"`
}

// Sort selects the ordering for owner listings.
type Sort int

const (
	// SortInsertion returns tasks in creation order (the default listing).
	SortInsertion Sort = iota
	// SortCreatedDesc returns newest tasks first (prioritization read path).
	SortCreatedDesc
)
