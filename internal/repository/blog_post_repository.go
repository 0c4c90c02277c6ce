package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"artflight/internal/model"
)

type BlogPostRepository struct {
	db *gorm.DB
}

func NewBlogPostRepository(db *gorm.DB) *BlogPostRepository {
	return &BlogPostRepository{db: db}
}

func (r *BlogPostRepository) Create(ctx context.Context, post *model.BlogPost) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.BlogPost{}).Where("slug = ?", post.Slug).Count(&count).Error; err != nil {
			return fmt.Errorf("check slug failed: %w", err)
		}
		if count > 0 {
			return ErrSlugTaken
		}
		if err := tx.Create(post).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlugTaken
			}
			return fmt.Errorf("create blog post failed: %w", err)
		}
		return tx.Preload("Author").First(post, post.ID).Error
	})
}

func (r *BlogPostRepository) GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := r.db.WithContext(ctx).Preload("Author").Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query blog post by slug failed: %w", err)
	}
	return &post, nil
}

// Count returns the number of posts.
func (r *BlogPostRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.BlogPost{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count blog posts failed: %w", err)
	}
	return count, nil
}

// List returns one page of posts, newest first.
func (r *BlogPostRepository) List(ctx context.Context, offset, limit int) ([]model.BlogPost, error) {
	var posts []model.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list blog posts failed: %w", err)
	}
	return posts, nil
}

// UpdateContent persists title and content; the slug never changes here.
func (r *BlogPostRepository) UpdateContent(ctx context.Context, post *model.BlogPost) error {
	err := r.db.WithContext(ctx).
		Model(post).
		Select("title", "content", "updated_at").
		Updates(post).Error
	if err != nil {
		return fmt.Errorf("update blog post failed: %w", err)
	}
	return nil
}

func (r *BlogPostRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.BlogPost{}, id).Error; err != nil {
		return fmt.Errorf("delete blog post failed: %w", err)
	}
	return nil
}
