package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicekit/auth"
	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/logger"
)

// Identity verifies the bearer token, loads its user and stores the user
// on the request context. Requests without a valid token or whose user no
// longer exists get 401.
func Identity(tokens auth.TokenParser, users auth.UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, apperrors.Unauthorized("Authorization header required"))
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abort(c, apperrors.Unauthorized("Invalid authorization header format"))
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			abort(c, apperrors.InvalidToken().WithCause(err))
			return
		}
		id, ok := claims.AccountID()
		if !ok {
			abort(c, apperrors.InvalidToken())
			return
		}

		ctx := c.Request.Context()
		user, err := users.Get(ctx, id)
		if err != nil {
			if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrCodeNotFound {
				abort(c, apperrors.Unauthorized("Unknown user"))
				return
			}
			abort(c, apperrors.Wrap(err))
			return
		}

		ctx = logger.ContextWithUserID(auth.WithUser(ctx, user), user.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abort(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}
