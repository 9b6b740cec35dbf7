package types

import "github.com/google/uuid"

// TokenClaims carries the authenticated identity extracted from a bearer token.
type TokenClaims struct {
	UserID uuid.UUID
}
