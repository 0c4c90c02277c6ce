package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artflight/internal/model"
)

func TestNew_SQLiteMemoryAndMigrate(t *testing.T) {
	db, err := New(context.Background(), "sqlite", "file::memory:")
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable(&model.User{}))
	assert.True(t, db.Migrator().HasTable(&model.BlogPost{}))
	assert.True(t, db.Migrator().HasTable(&model.ArtImage{}))
	assert.True(t, db.Migrator().HasColumn(&model.User{}, "date_joined"))
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(context.Background(), "oracle", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
