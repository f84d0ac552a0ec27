package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"surana-backend/internal/apperr"
	"surana-backend/internal/imagegen"
)

// SearchTab which palette the moodboard search fills
type SearchTab string

const (
	TabImages SearchTab = "images"
	TabColors SearchTab = "colors"

	searchImageSize = 512
)

var SampleImages = []string{
	"https://images.unsplash.com/photo-1616486338812-3dadae4b4ace?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1583847268964-b28dc8f51f92?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1600607687920-4e2a09cf159d?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1505409628601-edc9af17fda6?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1600210492493-0946911123ea?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1615529179035-e760f6a2dcee?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1532372320572-cda25653a694?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1586105251261-72a756497a11?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
}

var SampleColors = []string{
	"#E8C4C4", "#F7EDE2", "#D8E2DC", "#FAD2E1", "#ECE4DB",
	"#EDDCD2", "#D0F2EB", "#FDE2E4", "#99C1B9", "#E2CFC4",
	"#FFF1E6", "#F0EFEB", "#A2BDDA", "#FFC7C7", "#DCEAEB",
}

// SearchResult palette entries (image URLs or hex colors)
type SearchResult struct {
	Results []string `json:"results"`
	Notice  string   `json:"notice,omitempty"`
}

// MoodboardSearch fills the moodboard side panel
type MoodboardSearch struct {
	keys   KeySource
	images imagegen.Generator
	logger *zap.Logger
}

// NewMoodboardSearch creates a MoodboardSearch
func NewMoodboardSearch(keys KeySource, images imagegen.Generator, logger *zap.Logger) *MoodboardSearch {
	return &MoodboardSearch{keys: keys, images: images, logger: logger.Named("search")}
}

func samples(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Search blank queries return nothing. Image searches lead with a freshly
// generated image when a Runware key is set; failures fall back to samples.
func (s *MoodboardSearch) Search(ctx context.Context, tab SearchTab, query string) (SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return SearchResult{Results: []string{}}, nil
	}

	switch tab {
	case TabColors:
		return SearchResult{Results: samples(SampleColors)}, nil
	case TabImages, "":
	default:
		return SearchResult{}, fmt.Errorf("%w: unknown search tab %q", apperr.ErrInvalidInput, tab)
	}

	key, err := s.keys.APIKey(ctx, ProviderRunware)
	if err != nil {
		return SearchResult{}, err
	}
	if key == "" {
		return SearchResult{Results: samples(SampleImages)}, nil
	}

	img, err := s.images.Generate(ctx, key, imagegen.Request{
		PositivePrompt: "Interior design element: " + query,
		Width:          searchImageSize,
		Height:         searchImageSize,
	})
	if err != nil {
		s.logger.Warn("search image generation failed", zap.String("query", query), zap.Error(err))
		return SearchResult{
			Results: samples(SampleImages),
			Notice:  "Failed to generate image. Using sample images instead.",
		}, nil
	}

	return SearchResult{Results: append([]string{img.ImageURL}, SampleImages...)}, nil
}
