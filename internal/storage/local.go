package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// LocalService keeps media files in a directory on disk.
type LocalService struct {
	root string
}

func NewLocalService(root string) (*LocalService, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalService{root: filepath.Clean(root)}, nil
}

func (s *LocalService) Save(ctx context.Context, name string, body io.Reader, contentType string) (ObjectInfo, error) {
	path, err := s.resolve(name)
	if err != nil {
		return ObjectInfo{}, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create file %s: %w", name, err)
	}
	n, err := io.Copy(f, body)
	closeErr := f.Close()
	if err != nil {
		_ = os.Remove(path)
		return ObjectInfo{}, fmt.Errorf("write file %s: %w", name, err)
	}
	if closeErr != nil {
		return ObjectInfo{}, fmt.Errorf("close file %s: %w", name, closeErr)
	}

	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(name))
	}
	return ObjectInfo{Key: name, Size: n, ContentType: contentType}, nil
}

func (s *LocalService) Open(ctx context.Context, name string) (io.ReadCloser, ObjectInfo, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, ObjectInfo{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ObjectInfo{}, ErrObjectNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("open file %s: %w", name, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("stat file %s: %w", name, err)
	}
	if fi.IsDir() {
		f.Close()
		return nil, ObjectInfo{}, ErrObjectNotFound
	}

	modified := fi.ModTime()
	return f, ObjectInfo{
		Key:          name,
		Size:         fi.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(name)),
		LastModified: &modified,
	}, nil
}

func (s *LocalService) resolve(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.root, name), nil
}

// validateName only admits flat names so objects cannot escape the root.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	return nil
}

var _ Service = (*LocalService)(nil)
