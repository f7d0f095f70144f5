package infra

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists uploaded product images on local disk and returns the
// public URL they are served under (gin static route /static/images).
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("images: create storage dir: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the storage directory, for wiring the static route.
func (s *ImageStore) Dir() string { return s.dir }

// Save writes the uploaded file under a random name, keeping the extension.
func (s *ImageStore) Save(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		return "", fmt.Errorf("images: unsupported file type %q", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("images: open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("images: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("images: write file: %w", err)
	}
	return "/static/images/" + name, nil
}
