// Package handler contains the thin echo handlers of the API.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"coffeexport/internal/delivery/api/middleware"
	"coffeexport/internal/delivery/api/response"
	"coffeexport/internal/domain/entity"
	domainerrors "coffeexport/internal/domain/errors"
)

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// WhoAmI echoes the actor resolved from the access token.
func WhoAmI(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"actor_id":        actor.ID,
		"role":            actor.Role,
		"organization_id": actor.OrganizationID,
	})
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails(name + " must be a UUID")
	}

	return id, nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, dest any) error {
	if err := c.Bind(dest); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}
	if err := c.Validate(dest); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}

// auditQuery reads from, to (RFC3339), limit and offset query parameters.
func auditQuery(c echo.Context) (entity.AuditQuery, error) {
	var query entity.AuditQuery

	for name, dest := range map[string]**time.Time{"from": &query.From, "to": &query.To} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return query, domainerrors.ErrValidationFailed.WithDetails(name + " must be RFC3339")
		}
		*dest = &t
	}

	for name, dest := range map[string]*int{"limit": &query.Limit, "offset": &query.Offset} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return query, domainerrors.ErrValidationFailed.WithDetails(name + " must be a non-negative integer")
		}
		*dest = n
	}

	return query, nil
}
