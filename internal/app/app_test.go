package app

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"artflight/internal/cache"
	"artflight/internal/model"
	"artflight/internal/repository"
	"artflight/internal/storage"
	"artflight/internal/testutil"
)

const testPassword = "Lantern-Corvid-88"

func TestMain(m *testing.M) {
	bcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, msg model.MailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

type fixture struct {
	db        *gorm.DB
	redis     *miniredis.Miniredis
	store     *storage.Local
	mediaDir  string
	publisher *mockPublisher
	tokens    *TokenService
	auth      *AuthService
	posts     *PostService
	images    *ArtImageService
	users     *UserService
	admin     *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	mr := miniredis.RunT(t)
	rdb := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	dir := t.TempDir()
	store, err := storage.NewLocal(dir, "/media/", storage.MediaLocation(false))
	require.NoError(t, err)

	log := testutil.DiscardLogger()
	userRepo := repository.NewUserRepository(db)
	tokens := NewTokenService(userRepo, cache.NewTokenBlacklist(rdb), TokenConfig{
		Secret:      "jwt-test-secret",
		AccessTTL:   5 * time.Minute,
		RefreshTTL:  24 * time.Hour,
		ResetSecret: "app-test-secret",
		ResetTTL:    72 * time.Hour,
	})
	publisher := &mockPublisher{}

	return &fixture{
		db:        db,
		redis:     mr,
		store:     store,
		mediaDir:  dir,
		publisher: publisher,
		tokens:    tokens,
		auth:      NewAuthService(userRepo, tokens, publisher, "https://art.example.com/", log),
		posts:     NewPostService(repository.NewBlogPostRepository(db)),
		images:    NewArtImageService(repository.NewArtImageRepository(db), store, 1<<20, log),
		users:     NewUserService(userRepo, store, 1<<20, log),
		admin:     NewAdminService(userRepo, store, log),
	}
}

func (f *fixture) user(t *testing.T, email string, opts ...testutil.UserOption) *model.User {
	t.Helper()
	return testutil.CreateUser(t, f.db, email, testPassword, opts...)
}

func pngUpload(t *testing.T) *Upload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return &Upload{Body: bytes.NewReader(buf.Bytes()), Size: int64(buf.Len()), Filename: "art.png"}
}
