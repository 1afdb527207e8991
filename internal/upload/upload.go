// Package upload stores product images received as multipart files.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"phoneshop/internal/apperr"
)

const (
	FieldName    = "images"
	MaxFiles     = 5
	MaxImageSize = 5 << 20
	PublicPrefix = "/uploads"
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// Storage writes images into a directory served under PublicPrefix. Stored
// files are never removed: order snapshots keep referencing them after the
// product changes.
type Storage struct {
	dir    string
	logger *zap.Logger
}

func NewStorage(dir string, logger *zap.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Storage{dir: dir, logger: logger}, nil
}

func (s *Storage) Dir() string {
	return s.dir
}

// Validate checks every file before anything is written.
func Validate(files []*multipart.FileHeader) error {
	if len(files) > MaxFiles {
		return apperr.Validation("Too many files. At most 5 images can be uploaded")
	}
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if _, ok := allowedExtensions[ext]; !ok {
			return apperr.Validation("Only image files are allowed (JPEG, PNG, WebP)", file.Filename)
		}
		contentType := strings.ToLower(strings.TrimSpace(file.Header.Get("Content-Type")))
		if _, ok := allowedContentTypes[contentType]; !ok {
			return apperr.Validation("Only image files are allowed (JPEG, PNG, WebP)", file.Filename)
		}
		if file.Size > MaxImageSize {
			return apperr.Validation("File too large. Maximum size is 5MB", file.Filename)
		}
	}
	return nil
}

// Save validates and stores files, returning their public paths in order.
func (s *Storage) Save(files []*multipart.FileHeader) ([]string, error) {
	if err := Validate(files); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		name, err := s.save(file)
		if err != nil {
			return nil, apperr.Store("store upload", err)
		}
		paths = append(paths, path.Join(PublicPrefix, name))
	}
	return paths, nil
}

func (s *Storage) save(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	filename := FieldName + "-" + primitive.NewObjectID().Hex() + ext
	fullPath := filepath.Join(s.dir, filename)

	in, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", file.Filename, err)
	}
	defer in.Close()

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", fullPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("write %s: %w", fullPath, err)
	}

	s.logger.Info("image stored", zap.String("file", filename), zap.Int64("size", file.Size))
	return filename, nil
}
