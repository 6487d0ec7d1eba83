// Package main implements GET /todos: list every todo owned by the
// authenticated caller.
package main

import (
	"context"
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

// Handler processes GET /todos
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID, err := auth.ExtractUserIDFromRequest(request)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error":     err.Error(),
			"operation": "Handler",
		}).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"operation": "Handler",
	}).Debug("Listing todos")

	todos, err := todoService.GetTodos(ctx, userID)
	if err != nil {
		logger.WithError(err).Error("Failed to list todos")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to list todos", logger), nil
	}

	return api.SuccessResponse(http.StatusOK, models.TodoListResponse{Items: todos}, logger), nil
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

	logger.Info("Get-todos service initialized successfully")
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
