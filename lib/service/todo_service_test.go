package service

import (
	"context"
	"errors"
	"testing"

	"todobackend/lib/data"
	"todobackend/lib/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTodoRepository keeps items in a map keyed the way the table is,
// mirroring DynamoDB's per-key semantics closely enough for the service
// contract: update of a missing key fails, delete of one does not.
type fakeTodoRepository struct {
	items map[string]map[string]models.TodoItem
	err   error
}

func newFakeRepo() *fakeTodoRepository {
	return &fakeTodoRepository{items: map[string]map[string]models.TodoItem{}}
}

func (f *fakeTodoRepository) GetTodos(ctx context.Context, userID string) ([]models.TodoItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	todos := make([]models.TodoItem, 0, len(f.items[userID]))
	for _, todo := range f.items[userID] {
		todos = append(todos, todo)
	}
	return todos, nil
}

func (f *fakeTodoRepository) CreateTodo(ctx context.Context, todo models.TodoItem) (models.TodoItem, error) {
	if f.err != nil {
		return models.TodoItem{}, f.err
	}
	if f.items[todo.UserID] == nil {
		f.items[todo.UserID] = map[string]models.TodoItem{}
	}
	f.items[todo.UserID][todo.TodoID] = todo
	return todo, nil
}

func (f *fakeTodoRepository) UpdateTodo(ctx context.Context, userID, todoID string, update models.TodoUpdate) error {
	if f.err != nil {
		return f.err
	}
	todo, ok := f.items[userID][todoID]
	if !ok {
		return data.ErrTodoNotFound
	}
	todo.Name = update.Name
	todo.DueDate = update.DueDate
	todo.Done = update.Done
	f.items[userID][todoID] = todo
	return nil
}

func (f *fakeTodoRepository) DeleteTodo(ctx context.Context, userID, todoID string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.items[userID], todoID)
	return nil
}

type fakeIssuer struct {
	err error
}

func (f *fakeIssuer) PublicURL(todoID string) string {
	return "https://todo-attachments.s3.us-east-2.amazonaws.com/" + todoID + ".png"
}

func (f *fakeIssuer) SignedUploadURL(ctx context.Context, todoID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://todo-attachments.s3.us-east-2.amazonaws.com/" + todoID + "?X-Amz-Signature=sig", nil
}

func newService(repo data.TodoRepository) *TodoService {
	return NewTodoService(repo, &fakeIssuer{}, logrus.New())
}

func boolPtr(v bool) *bool { return &v }

func Test_CreateTodo_AssignsGeneratedFields(t *testing.T) {
	svc := newService(newFakeRepo())

	created, err := svc.CreateTodo(context.Background(), "u1", models.CreateTodoRequest{
		Name:    "buy milk",
		DueDate: "2024-01-01",
	})

	require.NoError(t, err)
	assert.Equal(t, "u1", created.UserID)
	assert.NotEmpty(t, created.TodoID)
	assert.NotEmpty(t, created.CreatedAt)
	assert.False(t, created.Done)
	assert.Contains(t, created.AttachmentURL, created.TodoID)
}

func Test_CreateTodo_Validation(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.CreateTodo(context.Background(), "u1", models.CreateTodoRequest{DueDate: "2024-01-01"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateTodo(context.Background(), "u1", models.CreateTodoRequest{Name: "buy milk"})
	assert.ErrorIs(t, err, ErrValidation)
}

func Test_CreateThenGet_ReadYourWrite(t *testing.T) {
	svc := newService(newFakeRepo())

	created, err := svc.CreateTodo(context.Background(), "u1", models.CreateTodoRequest{
		Name:    "buy milk",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)

	todos, err := svc.GetTodos(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, created, todos[0])

	// Another owner never sees it
	others, err := svc.GetTodos(context.Background(), "u2")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func Test_GetTodos_EmptyOwner(t *testing.T) {
	svc := newService(newFakeRepo())

	todos, err := svc.GetTodos(context.Background(), "nobody")

	require.NoError(t, err)
	assert.Empty(t, todos)
}

func Test_UpdateTodo_MutatesOnlyAllowedFields(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	created, err := svc.CreateTodo(context.Background(), "u1", models.CreateTodoRequest{
		Name:    "buy milk",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)

	err = svc.UpdateTodo(context.Background(), "u1", created.TodoID, models.UpdateTodoRequest{
		Name:    "buy oat milk",
		DueDate: "2024-02-01",
		Done:    boolPtr(true),
	})
	require.NoError(t, err)

	todos, err := svc.GetTodos(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	updated := todos[0]
	assert.Equal(t, "buy oat milk", updated.Name)
	assert.Equal(t, "2024-02-01", updated.DueDate)
	assert.True(t, updated.Done)
	assert.Equal(t, created.TodoID, updated.TodoID)
	assert.Equal(t, created.UserID, updated.UserID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.AttachmentURL, updated.AttachmentURL)
}

func Test_UpdateTodo_Validation(t *testing.T) {
	svc := newService(newFakeRepo())

	// done missing entirely, not just false
	err := svc.UpdateTodo(context.Background(), "u1", "t1", models.UpdateTodoRequest{
		Name:    "x",
		DueDate: "2024-01-01",
	})
	assert.ErrorIs(t, err, ErrValidation)

	// an explicit false is valid input
	repo := newFakeRepo()
	svc = newService(repo)
	created, err := svc.CreateTodo(context.Background(), "u1", models.CreateTodoRequest{
		Name:    "x",
		DueDate: "2024-01-01",
	})
	require.NoError(t, err)
	err = svc.UpdateTodo(context.Background(), "u1", created.TodoID, models.UpdateTodoRequest{
		Name:    "x",
		DueDate: "2024-01-01",
		Done:    boolPtr(false),
	})
	assert.NoError(t, err)
}

func Test_UpdateTodo_NotFound(t *testing.T) {
	svc := newService(newFakeRepo())

	err := svc.UpdateTodo(context.Background(), "u1", "missing", models.UpdateTodoRequest{
		Name:    "x",
		DueDate: "2024-01-01",
		Done:    boolPtr(false),
	})

	assert.ErrorIs(t, err, data.ErrTodoNotFound)
}

func Test_DeleteTodo_Idempotent(t *testing.T) {
	svc := newService(newFakeRepo())

	assert.NoError(t, svc.DeleteTodo(context.Background(), "u1", "never-existed"))
}

func Test_DeleteTodo_RequiresID(t *testing.T) {
	svc := newService(newFakeRepo())

	assert.ErrorIs(t, svc.DeleteTodo(context.Background(), "u1", ""), ErrValidation)
}

func Test_GenerateUploadURL(t *testing.T) {
	svc := newService(newFakeRepo())

	url, err := svc.GenerateUploadURL(context.Background(), "abc")

	require.NoError(t, err)
	assert.Contains(t, url, "/abc")

	_, err = svc.GenerateUploadURL(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func Test_UpstreamErrorsPropagate(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("service unavailable")
	svc := newService(repo)

	_, err := svc.GetTodos(context.Background(), "u1")
	assert.ErrorContains(t, err, "service unavailable")

	_, err = svc.CreateTodo(context.Background(), "u1", models.CreateTodoRequest{
		Name:    "x",
		DueDate: "2024-01-01",
	})
	assert.ErrorContains(t, err, "service unavailable")
}
