// Package testutil builds throwaway dependencies for package tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"artflight/internal/model"
	"artflight/internal/platform/database"
	"artflight/internal/validation"
)

// NewSQLiteDB returns a migrated in-memory database closed at test end.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.New(context.Background(), "sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// DiscardLogger drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// UserOption tweaks a seeded user before insert.
type UserOption func(*model.User)

func Staff() UserOption { return func(u *model.User) { u.IsStaff = true } }

func Superuser() UserOption {
	return func(u *model.User) { u.IsStaff = true; u.IsSuperuser = true }
}

func Inactive() UserOption { return func(u *model.User) { u.IsActive = false } }

func Named(first, last string) UserOption {
	return func(u *model.User) { u.FirstName = first; u.LastName = last }
}

// CreateUser inserts an active user whose password is password.
func CreateUser(t *testing.T, db *gorm.DB, email, password string, opts ...UserOption) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Username:     validation.EmailLocalPart(email),
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	for _, opt := range opts {
		opt(user)
	}
	require.NoError(t, db.Create(user).Error, fmt.Sprintf("seed user %s", email))
	return user
}
