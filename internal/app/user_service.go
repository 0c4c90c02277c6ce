package app

import (
	"context"
	"log/slog"

	"artflight/internal/model"
	"artflight/internal/repository"
	"artflight/internal/storage"
)

type UserService struct {
	users *repository.UserRepository
	media *mediaStore
}

// Profile is the public user representation; email and username are read-only.
type Profile struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

type UpdateProfileInput struct {
	Bio    *string
	Avatar *Upload
}

func NewUserService(users *repository.UserRepository, store storage.Storage, maxUploadBytes int64, log *slog.Logger) *UserService {
	return &UserService{
		users: users,
		media: &mediaStore{store: store, maxBytes: maxUploadBytes, log: log},
	}
}

// List returns non-superusers matching q (empty q lists all).
func (s *UserService) List(ctx context.Context, q string) ([]Profile, error) {
	users, err := s.users.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]Profile, 0, len(users))
	for i := range users {
		p, err := s.Profile(ctx, &users[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// Get returns a non-superuser by id.
func (s *UserService) Get(ctx context.Context, id uint) (*Profile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsSuperuser {
		return nil, ErrNotFound
	}
	return s.Profile(ctx, user)
}

func (s *UserService) Profile(ctx context.Context, user *model.User) (*Profile, error) {
	p := &Profile{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Bio:      user.Bio,
	}
	if user.Avatar != nil {
		u, err := s.media.url(ctx, *user.Avatar)
		if err != nil {
			return nil, err
		}
		p.Avatar = u
	}
	return p, nil
}

// UpdateMe applies a partial profile update for the caller.
func (s *UserService) UpdateMe(ctx context.Context, actor *model.User, input UpdateProfileInput) (*Profile, error) {
	var avatarKey *string
	if input.Avatar != nil {
		key, err := s.media.save(ctx, storage.FolderAvatars, "avatar", input.Avatar)
		if err != nil {
			return nil, err
		}
		avatarKey = &key
	}

	if err := s.users.UpdateProfile(ctx, actor.ID, input.Bio, avatarKey); err != nil {
		if avatarKey != nil {
			s.media.remove(ctx, *avatarKey)
		}
		return nil, err
	}

	if input.Bio != nil {
		bio := *input.Bio
		actor.Bio = &bio
	}
	if avatarKey != nil {
		if actor.Avatar != nil {
			s.media.remove(ctx, *actor.Avatar)
		}
		actor.Avatar = avatarKey
	}
	return s.Profile(ctx, actor)
}

// CheckArtworksAccess allows a caller to read only its own artworks.
func CheckArtworksAccess(actor *model.User, targetID uint) error {
	if actor == nil || actor.ID != targetID {
		return ErrForbidden
	}
	return nil
}
