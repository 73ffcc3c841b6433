package auth

import (
	"context"

	"github.com/viewtube/backend/internal/models"
)

type ctxKey string

const userKey ctxKey = "currentUser"

// WithUser stores the authenticated user on the context. The middleware
// clears credential fields before calling this, so downstream handlers only
// ever see a sanitized record.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser retrieves the authenticated user attached by the middleware.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}
