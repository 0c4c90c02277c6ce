package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"artflight/internal/app"
	"artflight/internal/model"
)

type stubAuth map[string]*model.User

func (s stubAuth) Authenticate(_ context.Context, access string) (*model.User, error) {
	if access == "boom" {
		return nil, errors.New("database unavailable")
	}
	user, ok := s[access]
	if !ok {
		return nil, app.ErrInvalidToken
	}
	return user, nil
}

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			c.String(http.StatusOK, user.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return r
}

func TestAuthentication(t *testing.T) {
	auth := stubAuth{"good": {ID: 7, Username: "mira"}}

	tests := []struct {
		name     string
		mw       gin.HandlerFunc
		header   string
		wantCode int
		wantBody string
	}{
		{name: "required without header", mw: AuthJWT(auth), wantCode: http.StatusUnauthorized},
		{name: "required with valid token", mw: AuthJWT(auth), header: "Bearer good", wantCode: http.StatusOK, wantBody: "mira"},
		{name: "required with unknown token", mw: AuthJWT(auth), header: "Bearer bad", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", mw: AuthJWT(auth), header: "Token good", wantCode: http.StatusUnauthorized},
		{name: "backend failure", mw: AuthJWT(auth), header: "Bearer boom", wantCode: http.StatusInternalServerError},
		{name: "optional without header", mw: OptionalAuth(auth), wantCode: http.StatusOK, wantBody: "anonymous"},
		{name: "optional with valid token", mw: OptionalAuth(auth), header: "Bearer good", wantCode: http.StatusOK, wantBody: "mira"},
		{name: "optional with invalid token", mw: OptionalAuth(auth), header: "Bearer bad", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newRouter(tt.mw).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
