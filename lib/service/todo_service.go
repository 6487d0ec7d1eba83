// Package service holds the business layer shared by the handler Lambdas:
// request validation, id and timestamp assignment, and owner scoping of
// every store operation.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todobackend/lib/data"
	"todobackend/lib/models"
	"todobackend/lib/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrValidation marks a malformed request body; handlers map it to 400.
var ErrValidation = errors.New("validation failed")

// TodoService coordinates the todo repository and the attachment URL issuer
type TodoService struct {
	repo     data.TodoRepository
	issuer   storage.URLIssuer
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewTodoService(repo data.TodoRepository, issuer storage.URLIssuer, logger *logrus.Logger) *TodoService {
	return &TodoService{
		repo:     repo,
		issuer:   issuer,
		validate: validator.New(),
		logger:   logger,
	}
}

// GetTodos lists every todo owned by userID
func (s *TodoService) GetTodos(ctx context.Context, userID string) ([]models.TodoItem, error) {
	return s.repo.GetTodos(ctx, userID)
}

// CreateTodo assigns the generated todoId, the creation timestamp and the
// attachment URL, then stores the item. Done always starts false.
func (s *TodoService) CreateTodo(ctx context.Context, userID string, request models.CreateTodoRequest) (models.TodoItem, error) {
	if err := s.validate.Struct(request); err != nil {
		return models.TodoItem{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	todoID := uuid.NewString()
	todo := models.TodoItem{
		UserID:        userID,
		TodoID:        todoID,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Name:          request.Name,
		DueDate:       request.DueDate,
		Done:          false,
		AttachmentURL: s.issuer.PublicURL(todoID),
	}

	created, err := s.repo.CreateTodo(ctx, todo)
	if err != nil {
		return models.TodoItem{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"todo_id":   todoID,
		"operation": "CreateTodo",
	}).Info("Created todo")

	return created, nil
}

// UpdateTodo replaces the three mutable fields of an existing todo
func (s *TodoService) UpdateTodo(ctx context.Context, userID, todoID string, request models.UpdateTodoRequest) error {
	if todoID == "" {
		return fmt.Errorf("%w: todoId is required", ErrValidation)
	}
	if err := s.validate.Struct(request); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return s.repo.UpdateTodo(ctx, userID, todoID, models.TodoUpdate{
		Name:    request.Name,
		DueDate: request.DueDate,
		Done:    *request.Done,
	})
}

// DeleteTodo removes a todo; deleting a nonexistent one succeeds
func (s *TodoService) DeleteTodo(ctx context.Context, userID, todoID string) error {
	if todoID == "" {
		return fmt.Errorf("%w: todoId is required", ErrValidation)
	}
	return s.repo.DeleteTodo(ctx, userID, todoID)
}

// GenerateUploadURL issues a presigned PUT URL for the attachment object
// keyed by todoID
func (s *TodoService) GenerateUploadURL(ctx context.Context, todoID string) (string, error) {
	if todoID == "" {
		return "", fmt.Errorf("%w: todoId is required", ErrValidation)
	}
	return s.issuer.SignedUploadURL(ctx, todoID)
}
