package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"artflight/internal/model"
	"artflight/internal/repository"
	"artflight/internal/storage"
	"artflight/internal/validation"
)

// AdminService backs the operator CLI.
type AdminService struct {
	users *repository.UserRepository
	media *mediaStore
}

func NewAdminService(users *repository.UserRepository, store storage.Storage, log *slog.Logger) *AdminService {
	return &AdminService{
		users: users,
		media: &mediaStore{store: store, log: log},
	}
}

func (s *AdminService) CreateSuperuser(ctx context.Context, email, password, username string) (*model.User, error) {
	email, err := validation.NormalizeEmail(email)
	if err != nil {
		return nil, invalid("email", err.Error())
	}
	username = strings.TrimSpace(username)
	explicit := username != ""
	if explicit {
		if err := validation.ValidateUsername(username); err != nil {
			return nil, invalid("username", err.Error())
		}
	} else {
		username = validation.UsernameFromEmail(email)
	}
	if err := validation.ValidatePassword(password, validation.EmailLocalPart(email), username); err != nil {
		return nil, invalid("password", err.Error())
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := s.users.CreateUnique(ctx, user, explicit); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailExists
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, ErrUsernameExists
		default:
			return nil, err
		}
	}
	return user, nil
}

func (s *AdminService) SetStaff(ctx context.Context, email string, staff bool) (*model.User, error) {
	return s.setFlag(ctx, email, "is_staff", staff)
}

func (s *AdminService) SetActive(ctx context.Context, email string, active bool) (*model.User, error) {
	return s.setFlag(ctx, email, "is_active", active)
}

// DeleteUser removes the user, its posts and images, then purges stored media.
func (s *AdminService) DeleteUser(ctx context.Context, email string) error {
	user, err := s.byEmail(ctx, email)
	if err != nil {
		return err
	}
	keys, err := s.users.Delete(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		s.media.remove(ctx, key)
	}
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.ListAll(ctx)
}

func (s *AdminService) setFlag(ctx context.Context, email, column string, value bool) (*model.User, error) {
	user, err := s.byEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetFlags(ctx, user.ID, map[string]interface{}{column: value}); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, user.ID)
}

func (s *AdminService) byEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
