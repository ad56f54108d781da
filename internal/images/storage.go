// Package images stores entry cover images on disk. The rest of the system
// only ever sees path strings: a relative path under the data directory for
// local files, or an http(s) URL stored verbatim.
package images

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"vaultry/internal/apperr"
)

// MaxImageSize caps accepted image files at 10MB.
const MaxImageSize = 10 * 1024 * 1024

// Storage manages cover image files under <dataDir>/images.
type Storage struct {
	imagesDir string
}

// NewStorage creates a Storage rooted at dataDir.
func NewStorage(dataDir string) *Storage {
	return &Storage{imagesDir: filepath.Join(dataDir, "images")}
}

// IsURL reports whether a cover path is a remote URL rather than a managed
// local file.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// SaveLocal copies a local image file into managed storage and returns its
// relative path. The file must be a JPEG, PNG, WebP, or GIF no larger than
// MaxImageSize. The stored name combines the entry id with a random suffix
// so replacing a cover never clashes with a stale file.
func (s *Storage) SaveLocal(vaultID, entryID int64, sourcePath string) (string, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return "", apperr.Validation("Cannot read image file: %v", err)
	}
	if info.Size() > MaxImageSize {
		return "", apperr.Validation("Image size exceeds 10MB limit (%dMB)", info.Size()/(1024*1024))
	}

	ext, err := detectExtension(sourcePath)
	if err != nil {
		return "", err
	}

	vaultDir := fmt.Sprintf("%d-%s", vaultID, slug.Make(fmt.Sprintf("vault-%d", vaultID)))
	dir := filepath.Join(s.imagesDir, vaultDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperr.Internal("Failed to create vault image directory: %v", err)
	}

	name := fmt.Sprintf("%d-%s.%s", entryID, uuid.NewString(), ext)
	relPath := filepath.Join("images", vaultDir, name)

	if err := copyFile(sourcePath, filepath.Join(dir, name)); err != nil {
		return "", apperr.Internal("Failed to store image: %v", err)
	}
	return relPath, nil
}

// Delete removes a managed image file. URLs and already-missing files are
// no-ops.
func (s *Storage) Delete(relPath string) error {
	if relPath == "" || IsURL(relPath) {
		return nil
	}
	err := os.Remove(s.FullPath(relPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// FullPath resolves a stored relative path against the data directory.
func (s *Storage) FullPath(relPath string) string {
	return filepath.Join(filepath.Dir(s.imagesDir), relPath)
}

// Read returns the bytes of a managed image file.
func (s *Storage) Read(relPath string) ([]byte, error) {
	if IsURL(relPath) {
		return nil, apperr.Validation("Cover image is a URL, not a stored file")
	}
	data, err := os.ReadFile(s.FullPath(relPath))
	if err != nil {
		return nil, apperr.Internal("Cover image file not found: %s", relPath)
	}
	return data, nil
}

// detectExtension sniffs the image format from the file header.
func detectExtension(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperr.Validation("Failed to read image file: %v", err)
	}
	defer f.Close()

	header := make([]byte, 512)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return "", apperr.Validation("Failed to read image file: %v", err)
	}

	switch http.DetectContentType(header[:n]) {
	case "image/jpeg":
		return "jpg", nil
	case "image/png":
		return "png", nil
	case "image/webp":
		return "webp", nil
	case "image/gif":
		return "gif", nil
	}
	return "", apperr.Validation("Invalid image format. Supported: JPEG, PNG, WebP, GIF")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
