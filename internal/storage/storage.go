// Package storage хранит загружаемые изображения крю.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// File представляет загружаемый файл
type File struct {
	Name    string
	Content io.Reader
}

// Store определяет операции хранилища изображений
type Store interface {
	// Upload сохраняет файл и возвращает публичный URL
	Upload(ctx context.Context, file File) (string, error)

	// Delete удаляет ранее загруженный файл по его URL
	Delete(ctx context.Context, fileURL string) error
}

// DiskStore реализует Store поверх локальной директории.
// Имена объектов генерируются через uuid чтобы исключить коллизии.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore создает DiskStore, создавая директорию при необходимости
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}

	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload сохраняет файл и возвращает публичный URL
func (s *DiskStore) Upload(_ context.Context, file File) (string, error) {
	key := uuid.NewString() + filepath.Ext(file.Name)

	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file.Content); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

// Delete удаляет ранее загруженный файл по его URL
func (s *DiskStore) Delete(_ context.Context, fileURL string) error {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return fmt.Errorf("invalid image url %q: %w", fileURL, err)
	}

	key := path.Base(parsed.Path)
	if key == "." || key == "/" {
		return fmt.Errorf("invalid image url %q", fileURL)
	}

	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}
