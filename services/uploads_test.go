package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bitemebuddy/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid PNG: signature plus IHDR chunk header is enough for detection
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89,
}

func newTestUploader(t *testing.T, maxSize int64) *Uploader {
	t.Helper()
	u := NewUploader(config.UploadConfig{
		Dir:          t.TempDir(),
		URLPrefix:    "/static/uploads",
		MaxSize:      maxSize,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif"},
	})
	require.NoError(t, u.EnsureDirs())
	return u
}

func TestUploaderSavesAllowedImage(t *testing.T) {
	u := newTestUploader(t, 1024)

	url, err := u.SaveReader(bytes.NewReader(pngBytes), UploadMenu)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/static/uploads/menu/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	onDisk := filepath.Join(u.Dir(), "menu", filepath.Base(url))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	assert.True(t, u.Delete(url))
	assert.False(t, u.Delete(url), "second delete finds nothing")
}

func TestUploaderRejections(t *testing.T) {
	u := newTestUploader(t, 16)

	_, err := u.SaveReader(strings.NewReader("hello"), UploadMenu)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = u.SaveReader(bytes.NewReader(pngBytes), UploadMenu)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestUploaderDeleteIgnoresForeignPaths(t *testing.T) {
	u := newTestUploader(t, 1024)
	assert.False(t, u.Delete(""))
	assert.False(t, u.Delete("https://example.com/x.png"))
	assert.False(t, u.Delete("/static/uploads/../../etc/passwd"))
}
