package app

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"artflight/internal/model"
	"artflight/internal/repository"
	"artflight/internal/storage"
)

type ArtImageService struct {
	images *repository.ArtImageRepository
	media  *mediaStore
}

type ArtImageView struct {
	ID         uint      `json:"id"`
	User       uint      `json:"user"`
	Image      *string   `json:"image"`
	Caption    string    `json:"caption"`
	Title      string    `json:"title"`
	UploadedAt time.Time `json:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateArtImageInput struct {
	Image   *Upload
	Caption string
	Title   string
}

// UpdateArtImageInput holds optional changes; nil fields are left alone.
type UpdateArtImageInput struct {
	Image   *Upload
	Caption *string
	Title   *string
}

func NewArtImageService(images *repository.ArtImageRepository, store storage.Storage, maxUploadBytes int64, log *slog.Logger) *ArtImageService {
	return &ArtImageService{
		images: images,
		media:  &mediaStore{store: store, maxBytes: maxUploadBytes, log: log},
	}
}

// Create stores the upload and records it under actor, who must be signed in.
func (s *ArtImageService) Create(ctx context.Context, actor *model.User, input CreateArtImageInput) (*ArtImageView, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	caption, title, err := cleanImageText(input.Caption, input.Title)
	if err != nil {
		return nil, err
	}

	key, err := s.media.save(ctx, storage.FolderArtImages, "image", input.Image)
	if err != nil {
		return nil, err
	}

	img := &model.ArtImage{
		UserID:  actor.ID,
		Image:   key,
		Caption: caption,
		Title:   title,
	}
	if err := s.images.Create(ctx, img); err != nil {
		s.media.remove(ctx, key)
		return nil, err
	}
	return s.view(ctx, img)
}

func (s *ArtImageService) List(ctx context.Context) ([]ArtImageView, error) {
	images, err := s.images.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, images)
}

// ListByOwner returns the images uploaded by userID, newest first.
func (s *ArtImageService) ListByOwner(ctx context.Context, userID uint) ([]ArtImageView, error) {
	images, err := s.images.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, images)
}

func (s *ArtImageService) Get(ctx context.Context, id uint) (*ArtImageView, error) {
	img, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, img)
}

func (s *ArtImageService) Update(ctx context.Context, actor *model.User, id uint, input UpdateArtImageInput) (*ArtImageView, error) {
	img, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	caption, title := img.Caption, img.Title
	if input.Caption != nil {
		caption = *input.Caption
	}
	if input.Title != nil {
		title = *input.Title
	}
	if img.Caption, img.Title, err = cleanImageText(caption, title); err != nil {
		return nil, err
	}

	oldKey := ""
	if input.Image != nil {
		key, err := s.media.save(ctx, storage.FolderArtImages, "image", input.Image)
		if err != nil {
			return nil, err
		}
		oldKey, img.Image = img.Image, key
	}

	if err := s.images.Update(ctx, img); err != nil {
		if oldKey != "" {
			s.media.remove(ctx, img.Image)
		}
		return nil, err
	}
	s.media.remove(ctx, oldKey)
	return s.view(ctx, img)
}

func (s *ArtImageService) Delete(ctx context.Context, actor *model.User, id uint) error {
	img, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.images.Delete(ctx, img.ID); err != nil {
		return err
	}
	s.media.remove(ctx, img.Image)
	return nil
}

func (s *ArtImageService) find(ctx context.Context, id uint) (*model.ArtImage, error) {
	img, err := s.images.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrNotFound
	}
	return img, nil
}

// owned loads id and checks that actor owns it or is staff.
func (s *ArtImageService) owned(ctx context.Context, actor *model.User, id uint) (*model.ArtImage, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	img, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if img.UserID != actor.ID && !actor.IsStaff {
		return nil, ErrForbidden
	}
	return img, nil
}

func (s *ArtImageService) view(ctx context.Context, img *model.ArtImage) (*ArtImageView, error) {
	u, err := s.media.url(ctx, img.Image)
	if err != nil {
		return nil, err
	}
	return &ArtImageView{
		ID:         img.ID,
		User:       img.UserID,
		Image:      u,
		Caption:    img.Caption,
		Title:      img.Title,
		UploadedAt: img.UploadedAt,
		UpdatedAt:  img.UpdatedAt,
	}, nil
}

func (s *ArtImageService) views(ctx context.Context, images []model.ArtImage) ([]ArtImageView, error) {
	out := make([]ArtImageView, 0, len(images))
	for i := range images {
		v, err := s.view(ctx, &images[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func cleanImageText(caption, title string) (string, string, error) {
	caption, title = strings.TrimSpace(caption), strings.TrimSpace(title)
	if utf8.RuneCountInString(caption) > 255 {
		return "", "", invalid("caption", "ensure this field has no more than 255 characters")
	}
	if utf8.RuneCountInString(title) > 255 {
		return "", "", invalid("title", "ensure this field has no more than 255 characters")
	}
	return caption, title, nil
}
