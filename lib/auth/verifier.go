package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingToken      = errors.New("missing authentication token")
	ErrInvalidAuthHeader = errors.New("invalid authentication header")
	ErrMalformedToken    = errors.New("malformed token")
	ErrKeyFetch          = errors.New("signing key fetch failed")
	ErrUnknownSigningKey = errors.New("unknown signing key")
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token has expired")
)

// jwksDocument is the identity provider's published key set
type jwksDocument struct {
	Keys []jwksKey `json:"keys"`
}

type jwksKey struct {
	Kid string   `json:"kid"`
	X5c []string `json:"x5c"`
}

// Verifier validates bearer credentials against the identity provider's
// JWKS endpoint. Only RS256 signatures are accepted; any other algorithm is
// rejected outright to prevent algorithm-confusion attacks.
type Verifier struct {
	jwksURL    string
	httpClient *http.Client
	logger     *logrus.Logger

	// Optional time-bounded key-set cache. A TTL of zero disables caching
	// and every Authorize call re-fetches the key set.
	cacheTTL  time.Duration
	mu        sync.Mutex
	cached    []jwksKey
	fetchedAt time.Time
}

// NewVerifier creates a Verifier for the given JWKS endpoint
func NewVerifier(jwksURL string, cacheTTL time.Duration, logger *logrus.Logger) *Verifier {
	return &Verifier{
		jwksURL:    jwksURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		cacheTTL:   cacheTTL,
	}
}

// Authorize validates the raw Authorization header value and returns the
// token's subject claim, the caller identity every data operation is scoped
// by. Every failure path returns one of the sentinel errors above.
func (v *Verifier) Authorize(ctx context.Context, authHeader string) (string, error) {
	tokenString, err := extractToken(authHeader)
	if err != nil {
		return "", err
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}))
	claims := &jwt.RegisteredClaims{}

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, ErrMalformedToken
		}

		certificate, err := v.getSigningCertificate(ctx, kid)
		if err != nil {
			return nil, err
		}

		pemCert := "-----BEGIN CERTIFICATE-----\n" + certificate + "\n-----END CERTIFICATE-----\n"
		publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemCert))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownSigningKey, err)
		}
		return publicKey, nil
	})

	if err != nil {
		// Errors from the keyfunc pass through unchanged
		switch {
		case errors.Is(err, ErrMalformedToken),
			errors.Is(err, ErrKeyFetch),
			errors.Is(err, ErrUnknownSigningKey):
			return "", err
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
		default:
			return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	v.logger.WithFields(logrus.Fields{
		"sub":       claims.Subject,
		"operation": "Authorize",
	}).Debug("Token verified")

	return claims.Subject, nil
}

// extractToken pulls the token out of a "Bearer <token>" header value.
// The scheme comparison is case-insensitive.
func extractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// getSigningCertificate returns the base64 DER certificate for kid from the
// key set, fetching (or re-using the cached copy of) the JWKS document.
func (v *Verifier) getSigningCertificate(ctx context.Context, kid string) (string, error) {
	keys, err := v.getKeys(ctx)
	if err != nil {
		return "", err
	}

	for _, key := range keys {
		if key.Kid == kid && len(key.X5c) > 0 {
			return key.X5c[0], nil
		}
	}

	return "", ErrUnknownSigningKey
}

func (v *Verifier) getKeys(ctx context.Context) ([]jwksKey, error) {
	if v.cacheTTL > 0 {
		v.mu.Lock()
		if v.cached != nil && time.Since(v.fetchedAt) < v.cacheTTL {
			keys := v.cached
			v.mu.Unlock()
			return keys, nil
		}
		v.mu.Unlock()
	}

	keys, err := v.fetchKeys(ctx)
	if err != nil {
		return nil, err
	}

	if v.cacheTTL > 0 {
		v.mu.Lock()
		v.cached = keys
		v.fetchedAt = time.Now()
		v.mu.Unlock()
	}

	return keys, nil
}

func (v *Verifier) fetchKeys(ctx context.Context) ([]jwksKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.WithError(err).WithFields(logrus.Fields{
			"jwks_url":  v.jwksURL,
			"operation": "fetchKeys",
		}).Error("Failed to fetch signing key set")
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrKeyFetch, resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}

	return doc.Keys, nil
}
