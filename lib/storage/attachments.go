// Package storage issues attachment URLs for todo items: a deterministic
// public object URL assigned at creation time and short-lived presigned
// upload URLs.
package storage

import (
	"context"
	"fmt"
	"time"

	"todobackend/lib/clients"
)

// URLIssuer is what the business layer needs from this package
type URLIssuer interface {
	PublicURL(todoID string) string
	SignedUploadURL(ctx context.Context, todoID string) (string, error)
}

// AttachmentIssuer implements URLIssuer for a single configured bucket
type AttachmentIssuer struct {
	S3     clients.S3ClientInterface
	Bucket string
	Region string
	Expiry time.Duration
}

// PublicURL returns the object URL an item's attachment will live at once
// uploaded. Pure string formatting, no network call.
func (issuer *AttachmentIssuer) PublicURL(todoID string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s.png", issuer.Bucket, issuer.Region, todoID)
}

// SignedUploadURL returns a time-limited URL permitting a single PUT of the
// object keyed by todoID.
func (issuer *AttachmentIssuer) SignedUploadURL(ctx context.Context, todoID string) (string, error) {
	url, err := issuer.S3.GenerateUploadURL(ctx, todoID, issuer.Expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload url: %w", err)
	}
	return url, nil
}
