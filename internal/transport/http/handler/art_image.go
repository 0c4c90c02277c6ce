package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"artflight/internal/app"
	"artflight/internal/transport/http/middleware"
	"artflight/internal/transport/http/response"
)

type ArtImageHandler struct {
	imageService *app.ArtImageService
}

func NewArtImageHandler(imageService *app.ArtImageService) *ArtImageHandler {
	return &ArtImageHandler{imageService: imageService}
}

func (h *ArtImageHandler) List(c *gin.Context) {
	images, err := h.imageService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, images)
}

// Create accepts multipart fields image, caption and title.
func (h *ArtImageHandler) Create(c *gin.Context) {
	upload, closeFn, ok := formUpload(c, "image")
	if !ok {
		return
	}
	defer closeFn()

	view, err := h.imageService.Create(c.Request.Context(), middleware.CurrentUser(c), app.CreateArtImageInput{
		Image:   upload,
		Caption: c.PostForm("caption"),
		Title:   c.PostForm("title"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, view)
}

func (h *ArtImageHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	view, err := h.imageService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, view)
}

// Update serves PUT and PATCH; every field is optional.
func (h *ArtImageHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	upload, closeFn, ok := formUpload(c, "image")
	if !ok {
		return
	}
	defer closeFn()

	input := app.UpdateArtImageInput{Image: upload}
	if v, ok := c.GetPostForm("caption"); ok {
		input.Caption = &v
	}
	if v, ok := c.GetPostForm("title"); ok {
		input.Title = &v
	}

	view, err := h.imageService.Update(c.Request.Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, view)
}

func (h *ArtImageHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.imageService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

// formUpload opens the optional multipart file field. A missing field yields
// a nil upload; ok is false once an error response has been written.
func formUpload(c *gin.Context, field string) (*app.Upload, func(), bool) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, true
		}
		badPayload(c)
		return nil, noop, false
	}
	return openUpload(c, fh)
}

func openUpload(c *gin.Context, fh *multipart.FileHeader) (*app.Upload, func(), bool) {
	f, err := fh.Open()
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "read upload failed")
		return nil, func() {}, false
	}
	return &app.Upload{Body: f, Size: fh.Size, Filename: fh.Filename}, func() { _ = f.Close() }, true
}
