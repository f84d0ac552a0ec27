package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"surana-backend/internal/apperr"
	"surana-backend/internal/kvstore"
	"surana-backend/internal/model"
)

// GalleryService saved generated images. Images live in two lists:
// galleryImages and savedDesignImages; the gallery shows their union.
type GalleryService struct {
	store  kvstore.Store
	logger *zap.Logger

	// serializes read-modify-write of both lists
	mu sync.Mutex
}

// NewGalleryService creates a GalleryService
func NewGalleryService(store kvstore.Store, logger *zap.Logger) *GalleryService {
	return &GalleryService{store: store, logger: logger.Named("gallery")}
}

// readList loads one list; corrupt data reads as empty
func (s *GalleryService) readList(ctx context.Context, key model.StorageKey) ([]model.GeneratedImage, error) {
	var images []model.GeneratedImage
	_, err := kvstore.GetJSON(ctx, s.store, key.String(), &images)
	if errors.Is(err, apperr.ErrStorageCorruption) {
		s.logger.Warn("image list unreadable, treating as empty", zap.String("key", key.String()), zap.Error(err))
		return nil, nil
	}
	return images, err
}

// List gallery images followed by saved designs not already shown. A non-blank
// query keeps images whose prompt contains it, case-insensitively.
func (s *GalleryService) List(ctx context.Context, query string) ([]model.GeneratedImage, error) {
	gallery, err := s.readList(ctx, model.KeyGalleryImages)
	if err != nil {
		return nil, err
	}
	designs, err := s.readList(ctx, model.KeySavedDesignImages)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(gallery))
	all := make([]model.GeneratedImage, 0, len(gallery)+len(designs))
	for _, img := range gallery {
		seen[img.ImageURL] = true
		all = append(all, img)
	}
	for _, img := range designs {
		if seen[img.ImageURL] {
			continue
		}
		seen[img.ImageURL] = true
		all = append(all, img)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	filtered := make([]model.GeneratedImage, 0, len(all))
	for _, img := range all {
		if strings.Contains(strings.ToLower(img.PositivePrompt), q) {
			filtered = append(filtered, img)
		}
	}
	return filtered, nil
}

// AddDesign records a saved design in both lists
func (s *GalleryService) AddDesign(ctx context.Context, img model.GeneratedImage) error {
	if err := s.appendTo(ctx, img, model.KeySavedDesignImages, model.KeyGalleryImages); err != nil {
		return err
	}
	s.logger.Info("design saved to gallery", zap.String("url", img.ImageURL))
	return nil
}

// AddGenerated records a fresh render in galleryImages only
func (s *GalleryService) AddGenerated(ctx context.Context, img model.GeneratedImage) error {
	return s.appendTo(ctx, img, model.KeyGalleryImages)
}

func (s *GalleryService) appendTo(ctx context.Context, img model.GeneratedImage, keys ...model.StorageKey) error {
	if strings.TrimSpace(img.ImageURL) == "" {
		return fmt.Errorf("%w: image URL is required", apperr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		images, err := s.readList(ctx, key)
		if err != nil {
			return err
		}
		images = append(images, img)
		if err := kvstore.SetJSON(ctx, s.store, key.String(), images); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes every image with url from both lists
func (s *GalleryService) Delete(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: image URL is required", apperr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, key := range []model.StorageKey{model.KeyGalleryImages, model.KeySavedDesignImages} {
		images, err := s.readList(ctx, key)
		if err != nil {
			return err
		}
		kept := images[:0]
		for _, img := range images {
			if img.ImageURL != url {
				kept = append(kept, img)
			}
		}
		if len(kept) == len(images) {
			continue
		}
		removed += len(images) - len(kept)
		if err := kvstore.SetJSON(ctx, s.store, key.String(), kept); err != nil {
			return err
		}
	}

	if removed == 0 {
		return fmt.Errorf("image %q: %w", url, apperr.ErrNotFound)
	}
	s.logger.Info("gallery image deleted", zap.String("url", url), zap.Int("entries", removed))
	return nil
}
