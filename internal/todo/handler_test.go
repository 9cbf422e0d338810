package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasket-app/tasket-api/internal/auth"
	"github.com/tasket-app/tasket-api/internal/httputil"
	"github.com/tasket-app/tasket-api/internal/user"
)

type fakeStore struct {
	todos map[uuid.UUID]*Todo // keyed by todo id
}

func newFakeStore() *fakeStore {
	return &fakeStore{todos: make(map[uuid.UUID]*Todo)}
}

func (f *fakeStore) add(ownerID uuid.UUID, title string) *Todo {
	t := &Todo{
		ID:        uuid.New(),
		UserID:    ownerID,
		Title:     title,
		CreatedAt: time.Now(),
	}
	f.todos[t.ID] = t
	return t
}

func (f *fakeStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, sort Sort) ([]*Todo, error) {
	var out []*Todo
	for _, t := range f.todos {
		if t.UserID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByOwner(ctx context.Context, ownerID, todoID uuid.UUID) (*Todo, error) {
	t, ok := f.todos[todoID]
	if !ok || t.UserID != ownerID {
		return nil, ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) Create(ctx context.Context, ownerID uuid.UUID, input NewTodo) (*Todo, error) {
	t := &Todo{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Pomodoro:    input.Pomodoro,
		CreatedAt:   time.Now(),
	}
	f.todos[t.ID] = t
	return t, nil
}

func (f *fakeStore) Update(ctx context.Context, ownerID, todoID uuid.UUID, patch Patch) (*Todo, error) {
	t, ok := f.todos[todoID]
	if !ok || t.UserID != ownerID {
		return nil, ErrNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.Pomodoro != nil {
		t.Pomodoro = patch.Pomodoro
	}
	return t, nil
}

func (f *fakeStore) Delete(ctx context.Context, ownerID, todoID uuid.UUID) (bool, error) {
	t, ok := f.todos[todoID]
	if !ok || t.UserID != ownerID {
		return false, nil
	}
	delete(f.todos, todoID)
	return true, nil
}

// authedRequest builds a request carrying an authenticated user, the way
// RequireAuth leaves it.
func authedRequest(t *testing.T, method, target string, body any, u *user.User) *http.Request {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := context.WithValue(req.Context(), auth.UserContextKey, u)
	return req.WithContext(ctx)
}

func testUser() *user.User {
	return &user.User{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}
}

func TestCreate_RequiresTitle(t *testing.T) {
	handler := NewHandler(newFakeStore())
	rec := httptest.NewRecorder()

	req := authedRequest(t, http.MethodPost, "/todos", CreateTodoRequest{Description: "no title"}, testUser())
	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, httputil.CodeTitleRequired, errResp.Code)
}

func TestCreate_ReturnsTodoWithOwner(t *testing.T) {
	handler := NewHandler(newFakeStore())
	owner := testUser()
	rec := httptest.NewRecorder()

	req := authedRequest(t, http.MethodPost, "/todos", CreateTodoRequest{
		Title:    "Write tests",
		Pomodoro: &Pomodoro{EstimatedPomodoros: 3},
	}, owner)
	handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Write tests", created.Title)
	assert.Equal(t, owner.ID, created.UserID)
	require.NotNil(t, created.Pomodoro)
	assert.Equal(t, 3, created.Pomodoro.EstimatedPomodoros)
	assert.False(t, created.Completed)
}

func TestList_OnlyOwnTodos(t *testing.T) {
	store := newFakeStore()
	owner := testUser()
	other := testUser()
	store.add(owner.ID, "mine")
	store.add(other.ID, "not mine")

	handler := NewHandler(store)
	rec := httptest.NewRecorder()
	handler.List(rec, authedRequest(t, http.MethodGet, "/todos", nil, owner))

	require.Equal(t, http.StatusOK, rec.Code)

	var todos []Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todos))
	require.Len(t, todos, 1)
	assert.Equal(t, "mine", todos[0].Title)
}

func TestUpdate_PartialFields(t *testing.T) {
	store := newFakeStore()
	owner := testUser()
	existing := store.add(owner.ID, "original title")
	existing.Description = "original description"

	handler := NewHandler(store)
	rec := httptest.NewRecorder()
	completed := true
	req := authedRequest(t, http.MethodPut, "/todos", UpdateTodoRequest{
		ID:        existing.ID.String(),
		Completed: &completed,
	}, owner)
	handler.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var updated Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)
	// Absent fields keep their values.
	assert.Equal(t, "original title", updated.Title)
	assert.Equal(t, "original description", updated.Description)
}

func TestUpdate_ForeignTodoLooksMissing(t *testing.T) {
	store := newFakeStore()
	other := testUser()
	foreign := store.add(other.ID, "not yours")

	handler := NewHandler(store)
	rec := httptest.NewRecorder()
	title := "stolen"
	req := authedRequest(t, http.MethodPut, "/todos", UpdateTodoRequest{
		ID:    foreign.ID.String(),
		Title: &title,
	}, testUser())
	handler.Update(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not yours", foreign.Title)
}

func TestDelete_ReportsMissingWithoutError(t *testing.T) {
	handler := NewHandler(newFakeStore())
	rec := httptest.NewRecorder()

	req := authedRequest(t, http.MethodDelete, "/todos", DeleteTodoRequest{ID: uuid.NewString()}, testUser())
	handler.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DeleteTodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestDelete_OwnTodo(t *testing.T) {
	store := newFakeStore()
	owner := testUser()
	existing := store.add(owner.ID, "done with this")

	handler := NewHandler(store)
	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodDelete, "/todos", DeleteTodoRequest{ID: existing.ID.String()}, owner)
	handler.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DeleteTodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, store.todos)
}

func TestDelete_ForeignTodoNotRemoved(t *testing.T) {
	store := newFakeStore()
	other := testUser()
	foreign := store.add(other.ID, "not yours")

	handler := NewHandler(store)
	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodDelete, "/todos", DeleteTodoRequest{ID: foreign.ID.String()}, testUser())
	handler.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DeleteTodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Len(t, store.todos, 1)
}
