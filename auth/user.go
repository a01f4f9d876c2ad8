package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicekit/store"
)

// UserLoader loads the account a token belongs to.
type UserLoader interface {
	Get(ctx context.Context, id uint) (*store.User, error)
}

type userKey struct{}

// WithUser stores u on ctx.
func WithUser(ctx context.Context, u *store.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the user stored by WithUser.
func UserFrom(ctx context.Context) (*store.User, bool) {
	u, _ := ctx.Value(userKey{}).(*store.User)
	return u, u != nil
}

// CurrentUser returns the authenticated user of a gin request.
func CurrentUser(c *gin.Context) (*store.User, bool) {
	return UserFrom(c.Request.Context())
}
