package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// PhotoStore persists uploaded photo blobs and hands back the public URL
// they are served under.
type PhotoStore interface {
	Store(userID string, ext string, data []byte) (string, error)
	Delete(url string) error
}

// LocalPhotoStore keeps uploads on the local filesystem under a public
// root, mirrored by the static file route.
type LocalPhotoStore struct {
	root      string
	urlPrefix string
}

// NewLocalPhotoStore builds a store rooted at dir. Files land in
// dir/uploads/photos and are served at /uploads/photos.
func NewLocalPhotoStore(dir string) (*LocalPhotoStore, error) {
	root := filepath.Join(dir, "uploads", "photos")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create upload directory")
	}

	return &LocalPhotoStore{
		root:      root,
		urlPrefix: "/uploads/photos",
	}, nil
}

// Store writes the blob and returns its URL. Filenames carry the owner
// and a millisecond timestamp so concurrent uploads never collide.
func (s *LocalPhotoStore) Store(userID string, ext string, data []byte) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "jpg"
	}

	name := fmt.Sprintf("%s_%d.%s", userID, time.Now().UnixMilli(), ext)

	if err := os.WriteFile(filepath.Join(s.root, name), data, 0o644); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store photo")
	}

	return s.urlPrefix + "/" + name, nil
}

// Delete removes the blob behind a URL previously returned by Store.
// URLs outside the store's prefix are ignored.
func (s *LocalPhotoStore) Delete(url string) error {
	name, ok := strings.CutPrefix(url, s.urlPrefix+"/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return nil
	}

	err := os.Remove(filepath.Join(s.root, name))
	if err != nil && !os.IsNotExist(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete photo")
	}

	return nil
}
