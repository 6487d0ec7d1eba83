// Package config holds the explicit runtime configuration for every Lambda
// in this module. Values come from the environment and, when running in the
// cloud, can be overridden by SSM parameters fetched during cold start.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"todobackend/lib/constants"
)

const (
	defaultRegion          = "us-east-2"
	defaultSignedURLExpiry = 300 * time.Second
)

// Config enumerates every knob the Lambdas read. It is constructed once in
// each Lambda's init() and passed into the components that need it.
type Config struct {
	TableName       string
	BucketName      string
	BucketRegion    string
	SignedURLExpiry time.Duration
	JWKSURL         string
	KeyCacheTTL     time.Duration
	IsLocal         bool
	LogLevel        string
}

// Load builds a Config from the environment, then overlays any SSM
// parameters present in ssmParams (may be nil for Lambdas that skip the
// parameter store). Malformed numeric or boolean values are errors;
// completeness is checked per-Lambda via the Validate helpers.
func Load(ssmParams map[string]string) (*Config, error) {
	cfg := &Config{
		TableName:       os.Getenv("TODOS_TABLE"),
		BucketName:      os.Getenv("ATTACHMENTS_BUCKET"),
		BucketRegion:    os.Getenv("BUCKET_REGION"),
		JWKSURL:         os.Getenv("JWKS_URL"),
		SignedURLExpiry: defaultSignedURLExpiry,
		LogLevel:        os.Getenv("LOG_LEVEL"),
	}

	if cfg.BucketRegion == "" {
		cfg.BucketRegion = defaultRegion
	}

	if v := os.Getenv("IS_LOCAL"); v != "" {
		isLocal, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid IS_LOCAL value %q: %w", v, err)
		}
		cfg.IsLocal = isLocal
	}

	if v := os.Getenv("SIGNED_URL_EXPIRATION"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid SIGNED_URL_EXPIRATION value %q", v)
		}
		cfg.SignedURLExpiry = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("JWKS_CACHE_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("invalid JWKS_CACHE_SECONDS value %q", v)
		}
		cfg.KeyCacheTTL = time.Duration(seconds) * time.Second
	}

	// SSM parameters win over the environment so operators can rotate
	// values without redeploying the functions.
	if v, ok := ssmParams[constants.TODOS_TABLE]; ok && v != "" {
		cfg.TableName = v
	}
	if v, ok := ssmParams[constants.ATTACHMENTS_BUCKET]; ok && v != "" {
		cfg.BucketName = v
	}
	if v, ok := ssmParams[constants.JWKS_URL]; ok && v != "" {
		cfg.JWKSURL = v
	}

	return cfg, nil
}

// ValidateStore checks the fields the todo CRUD Lambdas need.
func (c *Config) ValidateStore() error {
	if c.TableName == "" {
		return errors.New("TODOS_TABLE is not configured")
	}
	return nil
}

// ValidateAttachments checks the fields the upload-url Lambda needs.
func (c *Config) ValidateAttachments() error {
	if c.BucketName == "" {
		return errors.New("ATTACHMENTS_BUCKET is not configured")
	}
	return nil
}

// ValidateAuth checks the fields the authorizer Lambda needs.
func (c *Config) ValidateAuth() error {
	if c.JWKSURL == "" {
		return errors.New("JWKS_URL is not configured")
	}
	return nil
}
