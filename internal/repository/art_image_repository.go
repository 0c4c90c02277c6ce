package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"artflight/internal/model"
)

type ArtImageRepository struct {
	db *gorm.DB
}

func NewArtImageRepository(db *gorm.DB) *ArtImageRepository {
	return &ArtImageRepository{db: db}
}

func (r *ArtImageRepository) Create(ctx context.Context, img *model.ArtImage) error {
	if err := r.db.WithContext(ctx).Create(img).Error; err != nil {
		return fmt.Errorf("create art image failed: %w", err)
	}
	return nil
}

func (r *ArtImageRepository) GetByID(ctx context.Context, id uint) (*model.ArtImage, error) {
	var img model.ArtImage
	if err := r.db.WithContext(ctx).First(&img, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query art image by id failed: %w", err)
	}
	return &img, nil
}

// List returns all images, newest upload first.
func (r *ArtImageRepository) List(ctx context.Context) ([]model.ArtImage, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *ArtImageRepository) ListByUser(ctx context.Context, userID uint) ([]model.ArtImage, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// Update persists caption, title and image key.
func (r *ArtImageRepository) Update(ctx context.Context, img *model.ArtImage) error {
	err := r.db.WithContext(ctx).
		Model(img).
		Select("caption", "title", "image", "updated_at").
		Updates(img).Error
	if err != nil {
		return fmt.Errorf("update art image failed: %w", err)
	}
	return nil
}

func (r *ArtImageRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.ArtImage{}, id).Error; err != nil {
		return fmt.Errorf("delete art image failed: %w", err)
	}
	return nil
}

func (r *ArtImageRepository) find(query *gorm.DB) ([]model.ArtImage, error) {
	var images []model.ArtImage
	if err := query.Order("uploaded_at DESC").Order("id DESC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("list art images failed: %w", err)
	}
	return images, nil
}
