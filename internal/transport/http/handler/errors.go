package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"artflight/internal/app"
	"artflight/internal/transport/http/response"
)

const msgInvalidPayload = "invalid request payload"

// writeError maps service errors to the HTTP status and envelope code.
func writeError(c *gin.Context, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, verr.Error())
	case errors.Is(err, app.ErrEmailExists):
		response.Error(c, http.StatusBadRequest, response.CodeEmailExists, "email already exists")
	case errors.Is(err, app.ErrUsernameExists):
		response.Error(c, http.StatusBadRequest, response.CodeUsernameExists, "username already exists")
	case errors.Is(err, app.ErrInvalidUID):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidUID, "Invalid UID")
	case errors.Is(err, app.ErrInvalidResetToken):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidResetToken, "Invalid or expired token")
	case errors.Is(err, app.ErrIncorrectPassword):
		response.Error(c, http.StatusBadRequest, response.CodeIncorrectPassword, "Current password is incorrect")
	case errors.Is(err, app.ErrInvalidCredential):
		response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, app.ErrInvalidToken):
		response.Error(c, http.StatusUnauthorized, response.CodeTokenInvalid, "Token is invalid or expired")
	case errors.Is(err, app.ErrAccountDisabled):
		response.Error(c, http.StatusForbidden, response.CodeAccountDisabled, "User account is disabled")
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Not found.")
	case errors.Is(err, app.ErrInvalidPage):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Invalid page.")
	case errors.Is(err, app.ErrSlugConflict):
		response.Error(c, http.StatusConflict, response.CodeConflict, "Conflict")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "internal server error")
	}
}

func badPayload(c *gin.Context) {
	response.Error(c, http.StatusBadRequest, response.CodeBadRequest, msgInvalidPayload)
}

// idParam parses a numeric path parameter; anything else is a 404.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Not found.")
		return 0, false
	}
	return uint(id), true
}
