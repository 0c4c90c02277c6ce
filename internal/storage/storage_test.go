package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSniffImage(t *testing.T) {
	data := pngBytes(t)

	mt, r, err := SniffImage(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mt.String())
	assert.Equal(t, ".png", mt.Extension())

	replayed, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, replayed)
}

func TestSniffImage_RejectsNonImage(t *testing.T) {
	tests := map[string]string{
		"pdf":          "%PDF-1.4 not an image at all",
		"svg":          `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(document.cookie)</script></svg>`,
		"svg with xml": `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`,
		"html":         "<!DOCTYPE html><html><body>hi</body></html>",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := SniffImage(strings.NewReader(body))
			assert.ErrorIs(t, err, ErrNotImage)
		})
	}
}

func TestNewObjectKey(t *testing.T) {
	a := NewObjectKey(FolderArtImages, "png")
	b := NewObjectKey(FolderArtImages, ".PNG")

	assert.True(t, strings.HasPrefix(a, "art_images/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.True(t, strings.HasSuffix(b, ".png"))
	assert.NotEqual(t, a, b)
}

func TestLocal_SaveURLDelete(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	media, err := NewLocal(dir, "/media/", MediaLocation(false))
	require.NoError(t, err)
	require.NoError(t, media.Ping(ctx))

	require.NoError(t, media.Save(ctx, "avatars/a.png", bytes.NewReader([]byte("one")), "image/png"))

	content, err := os.ReadFile(filepath.Join(dir, "avatars", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(content))

	u, err := media.URL(ctx, "avatars/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/media/avatars/a.png", u)

	err = media.Save(ctx, "avatars/a.png", bytes.NewReader([]byte("two")), "image/png")
	assert.ErrorIs(t, err, ErrObjectExists)

	require.NoError(t, media.Delete(ctx, "avatars/a.png"))
	require.NoError(t, media.Delete(ctx, "avatars/a.png"))
	_, err = os.Stat(filepath.Join(dir, "avatars", "a.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocal_StaticOverwrites(t *testing.T) {
	ctx := context.Background()
	static, err := NewLocal(t.TempDir(), "/static", StaticLocation())
	require.NoError(t, err)

	require.NoError(t, static.Save(ctx, "app.css", strings.NewReader("a"), "text/css"))
	require.NoError(t, static.Save(ctx, "app.css", strings.NewReader("b"), "text/css"))

	content, err := os.ReadFile(filepath.Join(static.Root(), "app.css"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(content))
}

func TestLocal_RejectsTraversal(t *testing.T) {
	media, err := NewLocal(t.TempDir(), "/media", MediaLocation(false))
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../escape.png", "a/../../b"} {
		err := media.Save(context.Background(), key, strings.NewReader("x"), "image/png")
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func offlineS3Client() *s3.Client {
	return s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
		BaseEndpoint: aws.String("http://minio.local:9000"),
		UsePathStyle: true,
	})
}

func TestS3_PublicURL(t *testing.T) {
	cfg := S3Config{Endpoint: "minio.local:9000", Region: "us-east-1", Bucket: "art"}
	store := NewS3(offlineS3Client(), cfg, MediaLocation(true))

	u, err := store.URL(context.Background(), "art_images/x y.png")
	require.NoError(t, err)
	assert.Equal(t, "http://minio.local:9000/art/media/art_images/x%20y.png", u)

	cfg.CustomDomain = "cdn.example.com"
	store = NewS3(offlineS3Client(), cfg, MediaLocation(true))
	u, err = store.URL(context.Background(), "art_images/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/art_images/a.png", u)
}

func TestS3_PrivateURLIsPresigned(t *testing.T) {
	cfg := S3Config{Endpoint: "minio.local:9000", Region: "us-east-1", Bucket: "art", PresignTTL: 15 * time.Minute}
	store := NewS3(offlineS3Client(), cfg, MediaLocation(false))

	raw, err := store.URL(context.Background(), "avatars/a.png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/art/media/avatars/a.png", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
