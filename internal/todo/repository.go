package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/tasket-app/tasket-api/internal/database"
)

// ErrNotFound covers both a missing task and a task owned by someone else.
// Callers cannot distinguish the two, so ownership is never leaked.
var ErrNotFound = errors.New("todo not found")

// Repository handles todo persistence. Every mutation matches on both the
// task id and the owner id.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// ListByOwner returns all tasks owned by ownerID in the requested order.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, sort Sort) ([]*Todo, error) {
	var dbTodos []*database.Todo

	q := r.db.NewSelect().
		Model(&dbTodos).
		Where("user_id = ?", ownerID)

	switch sort {
	case SortCreatedDesc:
		q = q.Order("created_at DESC")
	default:
		q = q.Order("created_at ASC")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	todos := make([]*Todo, 0, len(dbTodos))
	for _, dbt := range dbTodos {
		todos = append(todos, mapDBTodoToModel(dbt))
	}

	return todos, nil
}

// GetByOwner retrieves a single task, scoped to its owner.
func (r *Repository) GetByOwner(ctx context.Context, ownerID, todoID uuid.UUID) (*Todo, error) {
	dbTodo := new(database.Todo)
	err := r.db.NewSelect().
		Model(dbTodo).
		Where("id = ?", todoID).
		Where("user_id = ?", ownerID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return mapDBTodoToModel(dbTodo), nil
}

// Create inserts a new task stamped with the owner reference.
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, fields NewTodo) (*Todo, error) {
	dbTodo := &database.Todo{
		UserID:      ownerID,
		Title:       fields.Title,
		Description: fields.Description,
		Pomodoro:    mapPomodoroToDB(fields.Pomodoro),
	}

	_, err := r.db.NewInsert().
		Model(dbTodo).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return mapDBTodoToModel(dbTodo), nil
}

// Update applies a partial patch to a task owned by ownerID and returns the
// updated record. A task that does not exist or belongs to another user yields
// ErrNotFound and no change.
func (r *Repository) Update(ctx context.Context, ownerID, todoID uuid.UUID, patch Patch) (*Todo, error) {
	q := r.db.NewUpdate().
		Model((*database.Todo)(nil)).
		Set("updated_at = NOW()").
		Where("id = ?", todoID).
		Where("user_id = ?", ownerID)

	if patch.Title != nil {
		q = q.Set("title = ?", *patch.Title)
	}
	if patch.Description != nil {
		q = q.Set("description = ?", *patch.Description)
	}
	if patch.Completed != nil {
		q = q.Set("completed = ?", *patch.Completed)
	}
	if patch.Pomodoro != nil {
		q = q.Set("pomodoro = ?", mapPomodoroToDB(patch.Pomodoro))
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByOwner(ctx, ownerID, todoID)
}

// Delete removes a task owned by ownerID. Zero matched rows is reported as
// deleted=false rather than an error.
func (r *Repository) Delete(ctx context.Context, ownerID, todoID uuid.UUID) (bool, error) {
	result, err := r.db.NewDelete().
		Model((*database.Todo)(nil)).
		Where("id = ?", todoID).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func mapDBTodoToModel(dbt *database.Todo) *Todo {
	return &Todo{
		ID:          dbt.ID,
		UserID:      dbt.UserID,
		Title:       dbt.Title,
		Description: dbt.Description,
		Completed:   dbt.Completed,
		Pomodoro:    mapDBPomodoroToModel(dbt.Pomodoro),
		CreatedAt:   dbt.CreatedAt,
	}
}

func mapDBPomodoroToModel(dbp *database.Pomodoro) *Pomodoro {
	if dbp == nil {
		return nil
	}
	return &Pomodoro{
		EstimatedPomodoros: dbp.EstimatedPomodoros,
		CompletedPomodoros: dbp.CompletedPomodoros,
		IsActive:           dbp.IsActive,
		StartTime:          dbp.StartTime,
	}
}

func mapPomodoroToDB(p *Pomodoro) *database.Pomodoro {
	if p == nil {
		return nil
	}
	return &database.Pomodoro{
		EstimatedPomodoros: p.EstimatedPomodoros,
		CompletedPomodoros: p.CompletedPomodoros,
		IsActive:           p.IsActive,
		StartTime:          p.StartTime,
	}
}
