package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrObjectNotFound is returned by Open when no object is stored under the name.
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidName is returned for names that are empty or contain path separators.
	ErrInvalidName = errors.New("invalid object name")
)

type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified *time.Time
}

// Service stores uploaded media under flat object names.
type Service interface {
	Save(ctx context.Context, name string, body io.Reader, contentType string) (ObjectInfo, error)
	Open(ctx context.Context, name string) (io.ReadCloser, ObjectInfo, error)
}
