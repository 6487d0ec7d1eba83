// Package main implements POST /todos: create a todo for the authenticated
// caller. The handler assigns the generated todoId, the creation timestamp
// and the attachment URL; done always starts false.
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
	"todobackend/lib/storage"
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

// Handler processes POST /todos
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID, err := auth.ExtractUserIDFromRequest(request)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error":     err.Error(),
			"operation": "Handler",
		}).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", logger), nil
	}

	var createRequest models.CreateTodoRequest
	if err := api.ParseJSONBody(request.Body, &createRequest); err != nil {
		logger.WithError(err).Error("Invalid request body for create todo")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", logger), nil
	}

	todo, err := todoService.CreateTodo(ctx, userID, createRequest)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return api.ErrorResponse(http.StatusBadRequest, "Missing required fields", logger), nil
		}
		logger.WithError(err).Error("Failed to create todo")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to create todo", logger), nil
	}

	return api.SuccessResponse(http.StatusCreated, todo, logger), nil
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
	if err := cfg.ValidateAttachments(); err != nil {
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

	issuer := &storage.AttachmentIssuer{
		S3:     clients.NewS3Client(isLocal, cfg.BucketRegion, cfg.BucketName),
		Bucket: cfg.BucketName,
		Region: cfg.BucketRegion,
		Expiry: cfg.SignedURLExpiry,
	}

	todoService = service.NewTodoService(todoRepository, issuer, logger)

	logger.Info("Create-todo service initialized successfully")
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
