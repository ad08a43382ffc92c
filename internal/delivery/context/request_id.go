// Package context carries request-scoped values between the delivery layer and usecases:
// the request id used as the audit correlation id, the request logger and the actor.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	loggerKey
	actorKey
)

// echo.Context keys mirror the context.Context ones.
const (
	echoRequestIDKey = "request_id"
	echoActorKey     = "actor"
)

// HeaderXRequestID is the header carrying the request id in and out of the service.
const HeaderXRequestID = "X-Request-Id"

// GetRequestID returns the id assigned by the request-id middleware, or a fresh one
// for handlers reached without it.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(echoRequestIDKey).(string); ok && id != "" {
		return id
	}

	return uuid.NewString()
}

func SetRequestID(c echo.Context, requestID string) {
	c.Set(echoRequestIDKey, requestID)
}

// GetRequestIDFromContext returns "" outside a request, e.g. in worker jobs.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetLoggerOrDefault returns the request logger, which already carries the request id,
// or fallback when ctx has none.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}
