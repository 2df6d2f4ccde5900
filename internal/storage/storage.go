// Package storage persists uploaded media (recipe images, user avatars) and
// hands back URLs. The rest of the app treats an image as an opaque URL once
// stored, so swapping the disk store for an object store only touches this
// package.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidImage = errors.New("invalid image data")

// MediaStore stores a decoded blob under a subdirectory and returns the URL
// it will be served from.
type MediaStore interface {
	Save(ctx context.Context, data []byte, ext, subdir string) (string, error)
	Remove(ctx context.Context, url string) error
}

// DiskStore writes media under root and serves it from baseURL + "/media".
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Save(ctx context.Context, data []byte, ext, subdir string) (string, error) {
	if len(data) == 0 {
		return "", ErrInvalidImage
	}
	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}

	return fmt.Sprintf("%s/media/%s/%s", s.baseURL, subdir, name), nil
}

// Remove deletes the file behind a URL previously returned by Save. Unknown
// URLs are ignored.
func (s *DiskStore) Remove(ctx context.Context, url string) error {
	prefix := s.baseURL + "/media/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	rel := strings.TrimPrefix(url, prefix)
	path := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}

// DecodeBase64Image parses a "data:image/<ext>;base64,<payload>" data URL as
// sent by clients for recipe images and avatars.
func DecodeBase64Image(dataURL string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, "", ErrInvalidImage
	}
	meta, payload, found := strings.Cut(dataURL, ";base64,")
	if !found || payload == "" {
		return nil, "", ErrInvalidImage
	}
	ext := strings.TrimPrefix(meta, "data:image/")
	if ext == "" {
		return nil, "", ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return data, ext, nil
}
