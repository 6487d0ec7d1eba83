package constants

const (
	ALLOWED_ORIGINS    = "/todobackend/ALLOWED_ORIGINS"
	JWKS_URL           = "/todobackend/JWKS_URL"
	TODOS_TABLE        = "/todobackend/TODOS_TABLE"
	ATTACHMENTS_BUCKET = "/todobackend/ATTACHMENTS_BUCKET"

	SSM_PARAMETER_PATH = "/todobackend"
)
