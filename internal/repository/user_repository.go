package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"artflight/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUnique inserts user inside one transaction after checking the email
// and username. When usernameExplicit is false a taken username gets a numeric
// suffix instead of failing.
func (r *UserRepository) CreateUnique(ctx context.Context, user *model.User, usernameExplicit bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, "email = ?", user.Email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}

		base := user.Username
		for i := 1; ; i++ {
			taken, err := exists(tx, "username = ?", user.Username)
			if err != nil {
				return err
			}
			if !taken {
				break
			}
			if usernameExplicit {
				return ErrUsernameTaken
			}
			user.Username = base + strconv.Itoa(i)
		}

		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return fmt.Errorf("create user failed: %w", err)
		}
		return nil
	})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

// Search lists non-superusers, optionally filtered by a case-insensitive
// match on first name, last name or username.
func (r *UserRepository) Search(ctx context.Context, q string) ([]model.User, error) {
	query := r.db.WithContext(ctx).Model(&model.User{}).Where("is_superuser = ?", false)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(username) LIKE ?",
			like, like, like,
		)
	}

	var users []model.User
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("search users failed: %w", err)
	}
	return users, nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return users, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"last_login": at})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"password_hash": hash})
}

// UpdateProfile writes the editable profile columns (bio, avatar).
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint, bio, avatar *string) error {
	fields := map[string]interface{}{}
	if bio != nil {
		fields["bio"] = *bio
	}
	if avatar != nil {
		fields["avatar"] = *avatar
	}
	if len(fields) == 0 {
		return nil
	}
	return r.updateColumns(ctx, id, fields)
}

func (r *UserRepository) SetFlags(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.updateColumns(ctx, id, fields)
}

// Delete removes the user and everything it owns in one transaction. It
// returns the media keys that were referenced by the deleted rows.
func (r *UserRepository) Delete(ctx context.Context, id uint) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, id).Error; err != nil {
			return fmt.Errorf("load user for delete failed: %w", err)
		}
		if user.Avatar != nil && *user.Avatar != "" {
			keys = append(keys, *user.Avatar)
		}

		var images []string
		if err := tx.Model(&model.ArtImage{}).Where("user_id = ?", id).Pluck("image", &images).Error; err != nil {
			return fmt.Errorf("collect art images failed: %w", err)
		}
		keys = append(keys, images...)

		if err := tx.Where("user_id = ?", id).Delete(&model.ArtImage{}).Error; err != nil {
			return fmt.Errorf("delete art images failed: %w", err)
		}
		if err := tx.Where("author_id = ?", id).Delete(&model.BlogPost{}).Error; err != nil {
			return fmt.Errorf("delete blog posts failed: %w", err)
		}
		if err := tx.Delete(&model.User{}, id).Error; err != nil {
			return fmt.Errorf("delete user failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *UserRepository) updateColumns(ctx context.Context, id uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("update user failed: %w", err)
	}
	return nil
}

func exists(tx *gorm.DB, query string, arg interface{}) (bool, error) {
	var count int64
	if err := tx.Model(&model.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user uniqueness failed: %w", err)
	}
	return count > 0, nil
}
