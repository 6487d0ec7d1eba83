// Package main implements POST /todos/{todoId}/attachment: issue a
// short-lived presigned URL permitting a single PUT of the attachment object
// keyed by the todo's id.
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

// Handler processes POST /todos/{todoId}/attachment
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

	logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"todo_id":   todoID,
		"operation": "Handler",
	}).Debug("Generating upload URL")

	uploadURL, err := todoService.GenerateUploadURL(ctx, todoID)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return api.ErrorResponse(http.StatusBadRequest, "todoId is required", logger), nil
		}
		logger.WithError(err).Error("Failed to generate upload URL")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to generate upload URL", logger), nil
	}

	return api.SuccessResponse(http.StatusCreated, models.UploadURLResponse{UploadURL: uploadURL}, logger), nil
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
	if err := cfg.ValidateAttachments(); err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Invalid configuration")
	}

	issuer := &storage.AttachmentIssuer{
		S3:     clients.NewS3Client(isLocal, cfg.BucketRegion, cfg.BucketName),
		Bucket: cfg.BucketName,
		Region: cfg.BucketRegion,
		Expiry: cfg.SignedURLExpiry,
	}

	todoService = service.NewTodoService(nil, issuer, logger)

	logger.Info("Generate-upload-url service initialized successfully")
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
