package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"artflight/internal/app"
	"artflight/internal/transport/http/middleware"
	"artflight/internal/transport/http/response"
)

type PostHandler struct {
	postService *app.PostService
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Slug    string `json:"slug"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type postListResponse struct {
	Count    int64              `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []app.PostListItem `json:"results"`
}

func NewPostHandler(postService *app.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) List(c *gin.Context) {
	pageSize := app.PageSize(c.Query("page_size"))
	page, err := h.postService.List(c.Request.Context(), c.Query("page"), pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	body := postListResponse{Count: page.Count, Results: page.Results}
	if page.HasNext {
		body.Next = pageLink(c, page.Page+1)
	}
	if page.HasPrev {
		body.Previous = pageLink(c, page.Page-1)
	}
	response.OK(c, body)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	post, err := h.postService.Create(c.Request.Context(), middleware.CurrentUser(c), app.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Slug:    req.Slug,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, post)
}

func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.postService.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, post)
}

// Update serves PUT (full) and PATCH (partial).
func (h *PostHandler) Update(c *gin.Context) {
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	partial := c.Request.Method == http.MethodPatch
	post, err := h.postService.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("slug"), app.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
	}, partial)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.postService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("slug")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

// pageLink rebuilds the request URL pointing at page. Page 1 drops the
// parameter.
func pageLink(c *gin.Context, page int) *string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := c.Request.URL.Query()
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	link := u.String()
	return &link
}
