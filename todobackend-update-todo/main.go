// Package main implements PATCH /todos/{todoId}: replace the three mutable
// fields (name, dueDate, done) of an existing todo. A missing item is a 404.
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
	"todobackend/lib/models"
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

// Handler processes PATCH /todos/{todoId}
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

	var updateRequest models.UpdateTodoRequest
	if err := api.ParseJSONBody(request.Body, &updateRequest); err != nil {
		logger.WithError(err).Error("Invalid request body for update todo")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger), nil
	}

	err = todoService.UpdateTodo(ctx, userID, todoID, updateRequest)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return api.ErrorResponse(http.StatusBadRequest, "Missing required fields", logger), nil
		case errors.Is(err, data.ErrTodoNotFound):
			return api.ErrorResponse(http.StatusNotFound, "Todo not found", logger), nil
		default:
			logger.WithError(err).Error("Failed to update todo")
			return api.ErrorResponse(http.StatusInternalServerError, "Failed to update todo", logger), nil
		}
	}

	return api.SuccessResponse(http.StatusOK, map[string]string{"status": "updated"}, logger), nil
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

	logger.Info("Update-todo service initialized successfully")
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
