// Package main implements the API Gateway custom TOKEN authorizer.
//
// The authorizer validates the bearer credential against the identity
// provider's published key set and answers with an IAM policy document:
// Allow with the token's subject as principal when the credential verifies,
// Deny otherwise. Every failure becomes a Deny decision; the function never
// returns an error to the runtime, so a bad token can never surface as a 5xx.
package main

import (
	"context"
	"os"
	"strconv"

	"todobackend/lib/auth"
	"todobackend/lib/clients"
	"todobackend/lib/config"
	"todobackend/lib/data"
	"todobackend/lib/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

// Global variables for Lambda cold start optimization
var (
	logger   *logrus.Logger
	isLocal  bool
	cfg      *config.Config
	verifier *auth.Verifier
)

// Handler authorizes a single request
func Handler(ctx context.Context, event events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	logger.WithFields(logrus.Fields{
		"method_arn": event.MethodArn,
		"operation":  "Handler",
	}).Debug("Authorizing request")

	subject, err := verifier.Authorize(ctx, event.AuthorizationToken)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error":     err.Error(),
			"operation": "Handler",
		}).Warn("Authorization denied")
		return generatePolicy("user", "Deny"), nil
	}

	logger.WithFields(logrus.Fields{
		"sub":       subject,
		"operation": "Handler",
	}).Info("Authorization allowed")

	return generatePolicy(subject, "Allow"), nil
}

// generatePolicy builds the IAM policy document API Gateway consumes
func generatePolicy(principalID, effect string) events.APIGatewayCustomAuthorizerResponse {
	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: principalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: "2012-10-17",
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{"execute-api:Invoke"},
					Effect:   effect,
					Resource: []string{"*"},
				},
			},
		},
	}
}

func init() {
	isLocal = parseIsLocal()
	logger = setupLogger(isLocal)

	// JWKS URL can live in the parameter store; skip SSM in local mode
	var ssmParams map[string]string
	if !isLocal {
		ssmRepository := &data.SSMDao{
			SSM:    clients.NewSSMClient(isLocal),
			Logger: logger,
		}

		var err error
		ssmParams, err = ssmRepository.GetParameters()
		if err != nil {
			logger.WithFields(logrus.Fields{
				"operation": "init",
				"error":     err.Error(),
			}).Fatal("Error while getting SSM params from parameter store")
		}
	}

	var err error
	cfg, err = config.Load(ssmParams)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error loading configuration")
	}
	if err := cfg.ValidateAuth(); err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Invalid configuration")
	}

	verifier = auth.NewVerifier(cfg.JWKSURL, cfg.KeyCacheTTL, logger)

	logger.Info("Authorizer initialized successfully")
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
