// Package main implements DELETE /todos/{todoId}. Deletion is idempotent:
// removing a todo that never existed succeeds.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"

	"todobackend/lib/api"
	"todobackend/lib/auth"
	"todobackend/lib/clients"
	"todobackend/lib/config"
	"todobackend/lib/data"
	"todobackend/lib/service"
	"todobackend/lib/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

// Global variables for Lambda cold start optimization
var (
	logger      *logrus.Logger
	isLocal     bool
	cfg         *config.Config
	todoService *service.TodoService
)

// Handler processes DELETE /todos/{todoId}
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID, err := auth.ExtractUserIDFromRequest(request)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error":     err.Error(),
			"operation": "Handler",
		}).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	todoID := request.PathParameters["todoId"]

	if err := todoService.DeleteTodo(ctx, userID, todoID); err != nil {
		if errors.Is(err, service.ErrValidation) {
			return api.ErrorResponse(http.StatusBadRequest, "todoId is required", logger), nil
		}
		logger.WithError(err).Error("Failed to delete todo")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to delete todo", logger), nil
	}

	return api.EmptyResponse(http.StatusNoContent), nil
}

func init() {
	var err error

	isLocal = parseIsLocal()
	logger = setupLogger(isLocal)

	cfg, err = config.Load(nil)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error loading configuration")
	}
	if err := cfg.ValidateStore(); err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Invalid configuration")
	}

	todoRepository := &data.TodoDao{
		DB:        clients.NewDynamoDBClient(isLocal),
		TableName: cfg.TableName,
		Logger:    logger,
	}

	todoService = service.NewTodoService(todoRepository, nil, logger)

	logger.Info("Delete-todo service initialized successfully")
}

func main() {
	lambda.Start(Handler)
}

func parseIsLocal() bool {
	isLocal, _ := strconv.ParseBool(os.Getenv("IS_LOCAL"))
	return isLocal
}

func setupLogger(isLocal bool) *logrus.Logger {
	logger := logrus.New()
	util.SetLogLevel(logger, os.Getenv("LOG_LEVEL"))
	logger.SetFormatter(&logrus.JSONFormatter{PrettyPrint: isLocal})
	return logger
}
