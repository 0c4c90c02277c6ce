package app

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"artflight/internal/model"
	"artflight/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	excerptLength   = 200
	maxTitleLength  = 255
)

type PostService struct {
	posts *repository.BlogPostRepository
}

type CreatePostInput struct {
	Title   string
	Content string
	Slug    string
}

// UpdatePostInput holds the editable fields; nil means unchanged.
type UpdatePostInput struct {
	Title   *string
	Content *string
}

type PostListItem struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	AuthorName string    `json:"author_name"`
	Excerpt    string    `json:"excerpt"`
	CreatedAt  time.Time `json:"created_at"`
}

type PostDetail struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Author     uint      `json:"author"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type PostPage struct {
	Count    int64
	Page     int
	PageSize int
	HasNext  bool
	HasPrev  bool
	Results  []PostListItem
}

func NewPostService(posts *repository.BlogPostRepository) *PostService {
	return &PostService{posts: posts}
}

// Slugify lower-cases title and replaces spaces with hyphens.
func Slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

// Excerpt returns the first 200 characters of content plus "..." when it is
// longer, otherwise content unchanged.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= excerptLength {
		return content
	}
	return string([]rune(content)[:excerptLength]) + "..."
}

// PageSize resolves the page_size query parameter.
func PageSize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func (s *PostService) Create(ctx context.Context, actor *model.User, input CreatePostInput) (*PostDetail, error) {
	if actor == nil || !actor.IsStaff {
		return nil, ErrForbidden
	}
	title, err := cleanTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, invalid("content", "this field may not be blank")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if utf8.RuneCountInString(slug) > maxTitleLength {
		return nil, invalid("slug", "ensure this field has no more than 255 characters")
	}

	post := &model.BlogPost{
		AuthorID: actor.ID,
		Title:    title,
		Slug:     slug,
		Content:  input.Content,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return nil, ErrSlugConflict
		}
		return nil, err
	}
	return toPostDetail(post), nil
}

// List returns one page of posts. page is the raw query value; empty means 1
// and "last" means the final page.
func (s *PostService) List(ctx context.Context, page string, pageSize int) (*PostPage, error) {
	count, err := s.posts.Count(ctx)
	if err != nil {
		return nil, err
	}

	numPages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if numPages == 0 {
		numPages = 1
	}

	n := 1
	switch page = strings.TrimSpace(page); page {
	case "":
	case "last":
		n = numPages
	default:
		n, err = strconv.Atoi(page)
		if err != nil || n < 1 || n > numPages {
			return nil, ErrInvalidPage
		}
	}

	posts, err := s.posts.List(ctx, (n-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	results := make([]PostListItem, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		results = append(results, PostListItem{
			ID:         p.ID,
			Title:      p.Title,
			Slug:       p.Slug,
			AuthorName: p.AuthorName(),
			Excerpt:    Excerpt(p.Content),
			CreatedAt:  p.CreatedAt,
		})
	}

	return &PostPage{
		Count:    count,
		Page:     n,
		PageSize: pageSize,
		HasNext:  n < numPages,
		HasPrev:  n > 1,
		Results:  results,
	}, nil
}

func (s *PostService) Get(ctx context.Context, slug string) (*PostDetail, error) {
	post, err := s.find(ctx, slug)
	if err != nil {
		return nil, err
	}
	return toPostDetail(post), nil
}

// Update applies input; with partial false both title and content are required.
func (s *PostService) Update(ctx context.Context, actor *model.User, slug string, input UpdatePostInput, partial bool) (*PostDetail, error) {
	if actor == nil || !actor.IsStaff {
		return nil, ErrForbidden
	}
	post, err := s.find(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !partial && (input.Title == nil || input.Content == nil) {
		if input.Title == nil {
			return nil, invalid("title", "this field is required")
		}
		return nil, invalid("content", "this field is required")
	}
	if input.Title != nil {
		title, err := cleanTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		post.Title = title
	}
	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, invalid("content", "this field may not be blank")
		}
		post.Content = *input.Content
	}

	if err := s.posts.UpdateContent(ctx, post); err != nil {
		return nil, err
	}
	return toPostDetail(post), nil
}

func (s *PostService) Delete(ctx context.Context, actor *model.User, slug string) error {
	if actor == nil || !actor.IsStaff {
		return ErrForbidden
	}
	post, err := s.find(ctx, slug)
	if err != nil {
		return err
	}
	return s.posts.Delete(ctx, post.ID)
}

func (s *PostService) find(ctx context.Context, slug string) (*model.BlogPost, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title", "this field may not be blank")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", invalid("title", "ensure this field has no more than 255 characters")
	}
	return title, nil
}

func toPostDetail(p *model.BlogPost) *PostDetail {
	return &PostDetail{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Content:    p.Content,
		Author:     p.AuthorID,
		AuthorName: p.AuthorName(),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
