package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"artflight/internal/app"
	"artflight/internal/transport/http/middleware"
	"artflight/internal/transport/http/response"
)

type UserHandler struct {
	userService  *app.UserService
	imageService *app.ArtImageService
}

type UpdateProfileRequest struct {
	Bio *string `json:"bio"`
}

func NewUserHandler(userService *app.UserService, imageService *app.ArtImageService) *UserHandler {
	return &UserHandler{userService: userService, imageService: imageService}
}

// List supports ?q= search over first name, last name and username.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	profile, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, profile)
}

func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.userService.Profile(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, profile)
}

// UpdateMe accepts multipart (bio, avatar) or JSON (bio). Email and username
// are ignored.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var input app.UpdateProfileInput

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		upload, closeFn, ok := formUpload(c, "avatar")
		if !ok {
			return
		}
		defer closeFn()
		input.Avatar = upload
		if v, ok := c.GetPostForm("bio"); ok {
			input.Bio = &v
		}
	} else {
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badPayload(c)
			return
		}
		input.Bio = req.Bio
	}

	profile, err := h.userService.UpdateMe(c.Request.Context(), middleware.CurrentUser(c), input)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, profile)
}

// MyArtworks lists the caller's own images.
func (h *UserHandler) MyArtworks(c *gin.Context) {
	h.artworks(c, middleware.CurrentUser(c).ID)
}

// UserArtworks serves /users/{id}/my_artworks; id must be the caller or "me".
func (h *UserHandler) UserArtworks(c *gin.Context) {
	user := middleware.CurrentUser(c)
	target := user.ID
	if c.Param("id") != "me" {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		target = id
	}
	if err := app.CheckArtworksAccess(user, target); err != nil {
		writeError(c, err)
		return
	}
	h.artworks(c, target)
}

func (h *UserHandler) artworks(c *gin.Context, userID uint) {
	images, err := h.imageService.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, images)
}
