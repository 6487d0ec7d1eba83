package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockS3Client struct {
	Err        error
	LastKey    string
	LastExpiry time.Duration
}

func (m *MockS3Client) GenerateUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	m.LastKey = key
	m.LastExpiry = expiry
	if m.Err != nil {
		return "", m.Err
	}
	return "https://todo-attachments.s3.us-east-2.amazonaws.com/" + key + "?X-Amz-Signature=abc", nil
}

func (m *MockS3Client) ObjectExists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func Test_PublicURL(t *testing.T) {
	issuer := &AttachmentIssuer{Bucket: "todo-attachments", Region: "us-east-2"}

	url := issuer.PublicURL("abc-123")

	assert.Equal(t, "https://todo-attachments.s3.us-east-2.amazonaws.com/abc-123.png", url)
}

func Test_SignedUploadURL(t *testing.T) {
	mock := &MockS3Client{}
	issuer := &AttachmentIssuer{S3: mock, Bucket: "todo-attachments", Region: "us-east-2", Expiry: 2 * time.Minute}

	url, err := issuer.SignedUploadURL(context.Background(), "abc")

	require.NoError(t, err)
	assert.Contains(t, url, "/abc")
	assert.Equal(t, "abc", mock.LastKey)
	assert.Equal(t, 2*time.Minute, mock.LastExpiry)
}

func Test_SignedUploadURL_Error(t *testing.T) {
	mock := &MockS3Client{Err: errors.New("presign failed")}
	issuer := &AttachmentIssuer{S3: mock, Bucket: "todo-attachments", Region: "us-east-2", Expiry: time.Minute}

	_, err := issuer.SignedUploadURL(context.Background(), "abc")

	assert.ErrorContains(t, err, "presign failed")
}
