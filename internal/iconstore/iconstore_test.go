package iconstore

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
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

func TestSniff(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		data, contentType, err := Sniff(bytes.NewReader(pngBytes(t)))
		require.NoError(t, err)
		assert.Equal(t, "image/png", contentType)
		assert.NotEmpty(t, data)
	})

	t.Run("text", func(t *testing.T) {
		_, _, err := Sniff(strings.NewReader("hello, world"))
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("truncated png", func(t *testing.T) {
		_, _, err := Sniff(bytes.NewReader(pngBytes(t)[:16]))
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("too large", func(t *testing.T) {
		_, _, err := Sniff(bytes.NewReader(make([]byte, MaxBytes+1)))
		assert.ErrorIs(t, err, ErrTooLarge)
	})
}

func TestNewKey(t *testing.T) {
	userID := uuid.New()
	key := NewKey(userID, "image/jpeg")

	assert.True(t, strings.HasPrefix(key, "icons/"+userID.String()+"/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, NewKey(userID, "image/jpeg"))
}

func TestDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	d := NewDisk(dir, "/media/")
	key := NewKey(uuid.New(), "image/png")

	require.NoError(t, d.Put(ctx, key, "image/png", bytes.NewReader([]byte("icon"))))

	got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "icon", string(got))

	u, err := d.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/media/"+key, u)

	require.NoError(t, d.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, d.Delete(ctx, key), "deleting twice")
}

func TestDiskRejectsEscapingKeys(t *testing.T) {
	d := NewDisk(t.TempDir(), "/media/")

	for _, key := range []string{"../evil.png", "/etc/passwd", ""} {
		err := d.Put(context.Background(), key, "image/png", strings.NewReader("x"))
		assert.Error(t, err, key)
	}
}

func TestS3PresignedURL(t *testing.T) {
	s, err := NewS3(context.Background(), S3Options{
		Bucket:    "icons",
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	raw, err := s.URL(context.Background(), "icons/a/b.png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/icons/icons/a/b.png", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
