package context

import (
	"context"

	"github.com/labstack/echo/v4"

	"coffeexport/internal/domain/entity"
)

// SetActor stores the authenticated actor in echo.Context.
func SetActor(c echo.Context, actor entity.Actor) {
	c.Set(echoActorKey, actor)
}

// GetActor returns the authenticated actor, if any.
func GetActor(c echo.Context) (entity.Actor, bool) {
	actor, ok := c.Get(echoActorKey).(entity.Actor)

	return actor, ok
}

// WithActor returns a new context carrying the actor.
func WithActor(ctx context.Context, actor entity.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
