package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"artflight/internal/app"
	"artflight/internal/model"
	"artflight/internal/transport/http/response"
)

const (
	ContextUserIDKey = "user_id"
	ContextUserKey   = "current_user"
)

// Authenticator resolves an access token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, access string) (*model.User, error)
}

// AuthJWT rejects requests without a valid access token.
func AuthJWT(auth Authenticator) gin.HandlerFunc {
	return authenticate(auth, true)
}

// OptionalAuth attaches the user when a token is present. A malformed or
// expired token is still rejected.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return authenticate(auth, false)
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

func authenticate(auth Authenticator, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			if required {
				response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication credentials were not provided")
				return
			}
			c.Next()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid authorization scheme")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, app.ErrInvalidToken) {
				response.Abort(c, http.StatusUnauthorized, response.CodeTokenInvalid, "given token not valid for any token type")
				return
			}
			_ = c.Error(err)
			response.Abort(c, http.StatusInternalServerError, response.CodeInternalServer, "authentication failed")
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserKey, user)
		c.Next()
	}
}
