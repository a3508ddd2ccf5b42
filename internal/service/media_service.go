package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"shopfront/internal/storage"
)

// ImagePath is the URL path under which uploaded media is served.
const ImagePath = "/images"

// MediaService persists uploaded files and reports where they can be fetched.
type MediaService interface {
	Upload(ctx context.Context, field, originalName string, body io.Reader, contentType string) (string, error)
}

type mediaService struct {
	store   storage.Service
	baseURL string
	now     func() time.Time
}

func NewMediaService(store storage.Service, baseURL string) MediaService {
	return &mediaService{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// Upload stores body as <field>_<unix millis><ext> and returns its public URL.
func (s *mediaService) Upload(ctx context.Context, field, originalName string, body io.Reader, contentType string) (string, error) {
	name := fmt.Sprintf("%s_%d%s", field, s.now().UnixMilli(), filepath.Ext(filepath.Base(originalName)))
	if _, err := s.store.Save(ctx, name, body, contentType); err != nil {
		return "", err
	}
	return s.baseURL + ImagePath + "/" + name, nil
}
