package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todobackend/lib/constants"
)

func Test_Load_FromEnvironment(t *testing.T) {
	//Arrange
	t.Setenv("TODOS_TABLE", "Todos-dev")
	t.Setenv("ATTACHMENTS_BUCKET", "todo-attachments-dev")
	t.Setenv("SIGNED_URL_EXPIRATION", "120")
	t.Setenv("JWKS_URL", "https://idp.example.com/.well-known/jwks.json")
	t.Setenv("IS_LOCAL", "true")
	t.Setenv("LOG_LEVEL", "debug")

	//Act
	cfg, err := Load(nil)

	//Assert
	require.NoError(t, err)
	assert.Equal(t, "Todos-dev", cfg.TableName)
	assert.Equal(t, "todo-attachments-dev", cfg.BucketName)
	assert.Equal(t, 120*time.Second, cfg.SignedURLExpiry)
	assert.Equal(t, "https://idp.example.com/.well-known/jwks.json", cfg.JWKSURL)
	assert.True(t, cfg.IsLocal)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "us-east-2", cfg.BucketRegion)
	assert.Equal(t, time.Duration(0), cfg.KeyCacheTTL)
}

func Test_Load_Defaults(t *testing.T) {
	cfg, err := Load(nil)

	require.NoError(t, err)
	assert.Equal(t, 300*time.Second, cfg.SignedURLExpiry)
	assert.False(t, cfg.IsLocal)
}

func Test_Load_SSMOverridesEnvironment(t *testing.T) {
	//Arrange
	t.Setenv("TODOS_TABLE", "Todos-env")
	t.Setenv("JWKS_URL", "https://env.example.com/jwks.json")
	params := map[string]string{
		constants.TODOS_TABLE: "Todos-ssm",
		constants.JWKS_URL:    "https://ssm.example.com/jwks.json",
	}

	//Act
	cfg, err := Load(params)

	//Assert
	require.NoError(t, err)
	assert.Equal(t, "Todos-ssm", cfg.TableName)
	assert.Equal(t, "https://ssm.example.com/jwks.json", cfg.JWKSURL)
}

func Test_Load_InvalidExpiration(t *testing.T) {
	t.Setenv("SIGNED_URL_EXPIRATION", "soon")

	_, err := Load(nil)

	assert.Error(t, err)
}

func Test_Load_InvalidIsLocal(t *testing.T) {
	t.Setenv("IS_LOCAL", "maybe")

	_, err := Load(nil)

	assert.Error(t, err)
}

func Test_Validate(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateStore())
	assert.Error(t, cfg.ValidateAttachments())
	assert.Error(t, cfg.ValidateAuth())

	cfg = &Config{
		TableName:  "Todos",
		BucketName: "attachments",
		JWKSURL:    "https://idp.example.com/jwks.json",
	}
	assert.NoError(t, cfg.ValidateStore())
	assert.NoError(t, cfg.ValidateAttachments())
	assert.NoError(t, cfg.ValidateAuth())
}
