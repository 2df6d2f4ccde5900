package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeBase64Image(t *testing.T) {
	t.Run("ValidPNG", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
		data, ext, err := DecodeBase64Image("data:image/png;base64," + payload)

		assert.NoError(t, err)
		assert.Equal(t, "png", ext)
		assert.Equal(t, []byte("png-bytes"), data)
	})

	t.Run("JPEGExtension", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte("jpg-bytes"))
		_, ext, err := DecodeBase64Image("data:image/jpeg;base64," + payload)

		assert.NoError(t, err)
		assert.Equal(t, "jpeg", ext)
	})

	t.Run("NotADataURL", func(t *testing.T) {
		_, _, err := DecodeBase64Image("https://example.com/pic.png")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})

	t.Run("MissingPayload", func(t *testing.T) {
		_, _, err := DecodeBase64Image("data:image/png;base64,")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})

	t.Run("BadBase64", func(t *testing.T) {
		_, _, err := DecodeBase64Image("data:image/png;base64,!!!not-base64!!!")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})
}

func TestDiskStore(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveAndRemove", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewDiskStore(root, "http://localhost:8080/")
		assert.NoError(t, err)

		url, err := store.Save(ctx, []byte("png-bytes"), "png", "recipes/images")
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "http://localhost:8080/media/recipes/images/"))
		assert.True(t, strings.HasSuffix(url, ".png"))

		rel := strings.TrimPrefix(url, "http://localhost:8080/media/")
		onDisk := filepath.Join(root, filepath.FromSlash(rel))
		content, err := os.ReadFile(onDisk)
		assert.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), content)

		assert.NoError(t, store.Remove(ctx, url))
		_, err = os.Stat(onDisk)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("SaveEmpty", func(t *testing.T) {
		store, err := NewDiskStore(t.TempDir(), "http://localhost:8080")
		assert.NoError(t, err)

		_, err = store.Save(ctx, nil, "png", "avatars")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})

	t.Run("RemoveForeignURL", func(t *testing.T) {
		store, err := NewDiskStore(t.TempDir(), "http://localhost:8080")
		assert.NoError(t, err)

		// URLs we never issued are ignored, not an error
		assert.NoError(t, store.Remove(ctx, "http://elsewhere.example/media/x.png"))
	})

	t.Run("RemoveMissingFile", func(t *testing.T) {
		store, err := NewDiskStore(t.TempDir(), "http://localhost:8080")
		assert.NoError(t, err)

		assert.NoError(t, store.Remove(ctx, "http://localhost:8080/media/avatars/gone.png"))
	})
}
