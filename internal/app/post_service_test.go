package app

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artflight/internal/model"
	"artflight/internal/testutil"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello World"))
	assert.Equal(t, "a--b", Slugify("A  B"))
	assert.Equal(t, "café-notes", Slugify("Café Notes"))
}

func TestExcerpt(t *testing.T) {
	exact := strings.Repeat("a", 200)
	long := strings.Repeat("b", 201)
	runes := strings.Repeat("é", 201)

	assert.Equal(t, "short", Excerpt("short"))
	assert.Equal(t, exact, Excerpt(exact))
	assert.Equal(t, strings.Repeat("b", 200)+"...", Excerpt(long))
	assert.Equal(t, strings.Repeat("é", 200)+"...", Excerpt(runes))
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, 10, PageSize(""))
	assert.Equal(t, 10, PageSize("abc"))
	assert.Equal(t, 10, PageSize("0"))
	assert.Equal(t, 25, PageSize("25"))
	assert.Equal(t, 50, PageSize("51"))
	assert.Equal(t, 50, PageSize("1000"))
}

func TestPostCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := f.user(t, "boss@example.com", testutil.Staff())
	member := f.user(t, "ann@example.com")

	_, err := f.posts.Create(ctx, member, CreatePostInput{Title: "Hi", Content: "c"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.posts.Create(ctx, nil, CreatePostInput{Title: "Hi", Content: "c"})
	assert.ErrorIs(t, err, ErrForbidden)

	post, err := f.posts.Create(ctx, staff, CreatePostInput{Title: "Hello World", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, staff.ID, post.Author)
	assert.Equal(t, "boss", post.AuthorName)

	custom, err := f.posts.Create(ctx, staff, CreatePostInput{Title: "Other", Content: "body", Slug: "my-slug"})
	require.NoError(t, err)
	assert.Equal(t, "my-slug", custom.Slug)

	_, err = f.posts.Create(ctx, staff, CreatePostInput{Title: "hello world", Content: "again"})
	assert.ErrorIs(t, err, ErrSlugConflict)

	_, err = f.posts.Create(ctx, staff, CreatePostInput{Title: " ", Content: "body"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPostList_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := f.user(t, "boss@example.com", testutil.Staff())

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		require.NoError(t, f.db.Create(&model.BlogPost{
			AuthorID:  staff.ID,
			Title:     fmt.Sprintf("Post %d", i),
			Slug:      fmt.Sprintf("post-%d", i),
			Content:   strings.Repeat("x", 250),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	first, err := f.posts.List(ctx, "", PageSize(""))
	require.NoError(t, err)
	assert.Equal(t, int64(12), first.Count)
	require.Len(t, first.Results, 10)
	assert.Equal(t, "post-11", first.Results[0].Slug)
	assert.Equal(t, strings.Repeat("x", 200)+"...", first.Results[0].Excerpt)
	assert.Equal(t, "boss", first.Results[0].AuthorName)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	second, err := f.posts.List(ctx, "2", 10)
	require.NoError(t, err)
	require.Len(t, second.Results, 2)
	assert.False(t, second.HasNext)
	assert.True(t, second.HasPrev)

	last, err := f.posts.List(ctx, "last", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, last.Page)
	assert.Len(t, last.Results, 2)

	for _, page := range []string{"0", "3", "-1", "abc"} {
		_, err := f.posts.List(ctx, page, 10)
		assert.ErrorIs(t, err, ErrInvalidPage, page)
	}
}

func TestPostList_EmptyFirstPage(t *testing.T) {
	f := newFixture(t)

	page, err := f.posts.List(context.Background(), "1", 10)
	require.NoError(t, err)
	assert.Zero(t, page.Count)
	assert.Empty(t, page.Results)

	_, err = f.posts.List(context.Background(), "2", 10)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestPostUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := f.user(t, "boss@example.com", testutil.Staff())
	member := f.user(t, "ann@example.com")
	_, err := f.posts.Create(ctx, staff, CreatePostInput{Title: "Hello World", Content: "body"})
	require.NoError(t, err)

	title := "Brand New Title"
	_, err = f.posts.Update(ctx, member, "hello-world", UpdatePostInput{Title: &title}, true)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.posts.Update(ctx, staff, "hello-world", UpdatePostInput{Title: &title}, false)
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := f.posts.Update(ctx, staff, "hello-world", UpdatePostInput{Title: &title}, true)
	require.NoError(t, err)
	assert.Equal(t, "Brand New Title", updated.Title)
	assert.Equal(t, "hello-world", updated.Slug)
	assert.Equal(t, "body", updated.Content)

	_, err = f.posts.Update(ctx, staff, "missing", UpdatePostInput{Title: &title}, true)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.posts.Delete(ctx, member, "hello-world"), ErrForbidden)
	require.NoError(t, f.posts.Delete(ctx, staff, "hello-world"))
	_, err = f.posts.Get(ctx, "hello-world")
	assert.ErrorIs(t, err, ErrNotFound)
}
