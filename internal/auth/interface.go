package auth

import "coscribe/internal/domain/models"

// TokenVerifier validates a bearer token and returns its claims. Token
// issuance belongs to the external auth service; this server only verifies.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*models.AccessClaims, error)
	Close() error
}
