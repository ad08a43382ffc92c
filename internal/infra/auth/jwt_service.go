// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"coffeexport/config"
	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/service"
)

const (
	accessTTL = 15 * time.Minute
	issuer    = "coffeexport"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Access),
		ttl:    accessTTL,
		now:    time.Now,
	}, nil
}

// GenerateAccessToken signs an HS256 token carrying the actor's role and organization.
func (s *jwtService) GenerateAccessToken(actor entity.Actor) (string, error) {
	if !actor.Role.IsValid() {
		return "", errors.Errorf("invalid role %q", actor.Role)
	}

	now := s.now()
	claims := service.Claims{
		Role: actor.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	if actor.OrganizationID != uuid.Nil {
		claims.OrganizationID = actor.OrganizationID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return signed, nil
}

// ValidateToken checks the signature and expiry and maps the claims onto an Actor.
func (s *jwtService) ValidateToken(tokenString string) (entity.Actor, error) {
	claims := &service.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(issuer))
	if err != nil {
		return entity.Actor{}, errors.Wrap(err, "failed to parse token")
	}

	actorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return entity.Actor{}, errors.Wrap(err, "invalid subject")
	}

	role := entity.ActorRole(claims.Role)
	if !role.IsValid() {
		return entity.Actor{}, errors.Errorf("invalid role %q", claims.Role)
	}

	actor := entity.Actor{ID: actorID, Role: role}
	if claims.OrganizationID != "" {
		orgID, err := uuid.Parse(claims.OrganizationID)
		if err != nil {
			return entity.Actor{}, errors.Wrap(err, "invalid organization")
		}
		actor.OrganizationID = orgID
	}

	return actor, nil
}
