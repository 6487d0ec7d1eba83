package auth

import (
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

// ExtractUserIDFromRequest pulls the verified caller identity out of the API
// Gateway authorizer context. The custom authorizer has already validated
// the credential by the time a data-plane handler runs; its principal id is
// the token's subject claim.
func ExtractUserIDFromRequest(request events.APIGatewayProxyRequest) (string, error) {
	authorizer := request.RequestContext.Authorizer
	if authorizer == nil {
		return "", fmt.Errorf("authorizer context not found in request")
	}

	if principalID, ok := authorizer["principalId"].(string); ok && principalID != "" {
		return principalID, nil
	}

	// Some API Gateway configurations expose the decoded claims instead
	if claims, ok := authorizer["claims"].(map[string]interface{}); ok {
		if sub, ok := claims["sub"].(string); ok && sub != "" {
			return sub, nil
		}
	}

	return "", fmt.Errorf("principal not found in authorizer context")
}
