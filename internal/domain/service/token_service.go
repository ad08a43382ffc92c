package service

import (
	"github.com/golang-jwt/jwt/v5"

	"coffeexport/internal/domain/entity"
)

// Claims defines the custom claims for the JWT access tokens.
type Claims struct {
	Role           string `json:"role"`
	OrganizationID string `json:"org,omitempty"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// Tokens are issued by an external identity provider in production; GenerateAccessToken
// exists for tooling and tests.
type TokenService interface {
	// GenerateAccessToken signs an access token for the actor.
	GenerateAccessToken(actor entity.Actor) (string, error)

	// ValidateToken checks a token string and returns the actor it identifies.
	ValidateToken(tokenString string) (entity.Actor, error)
}
