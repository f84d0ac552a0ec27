package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"surana-backend/internal/apperr"
	"surana-backend/internal/imagegen"
	"surana-backend/internal/model"
)

// Option catalogue entry
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var Rooms = []Option{
	{"living-room", "Living Room"},
	{"bedroom", "Bedroom"},
	{"kitchen", "Kitchen"},
	{"bathroom", "Bathroom"},
	{"dining-room", "Dining Room"},
	{"office", "Home Office"},
	{"outdoor", "Outdoor Space"},
}

var Styles = []Option{
	{"modern", "Modern"},
	{"traditional", "Traditional"},
	{"scandinavian", "Scandinavian"},
	{"industrial", "Industrial"},
	{"minimalist", "Minimalist"},
	{"bohemian", "Bohemian"},
	{"mid-century", "Mid-Century Modern"},
	{"farmhouse", "Farmhouse"},
	{"coastal", "Coastal"},
	{"contemporary", "Contemporary"},
}

// ColorSchemes values accepted for the optional color scheme
var ColorSchemes = []string{"neutral", "warm", "cool", "monochromatic", "bold", "pastel", "earth tone"}

const (
	designImageWidth  = 1024
	designImageHeight = 768
	defaultBudget     = 50
)

// PromptOptions design generator inputs. Budget is on a 0-100 scale.
type PromptOptions struct {
	Room        string `json:"room"`
	Style       string `json:"style"`
	ColorScheme string `json:"colorScheme,omitempty"`
	Budget      *int   `json:"budget,omitempty"`
}

func lookupName(opts []Option, id, fallback string) string {
	for _, o := range opts {
		if o.ID == id {
			return o.Name
		}
	}
	return fallback
}

func budgetDescription(budget int) string {
	switch {
	case budget < 30:
		return "budget-friendly, affordable"
	case budget < 70:
		return "mid-range quality"
	default:
		return "luxury, high-end"
	}
}

// BuildPrompt assembles the photorealistic render prompt. Unknown room or
// style ids fall back to generic words.
func BuildPrompt(opts PromptOptions) (string, error) {
	budget := defaultBudget
	if opts.Budget != nil {
		budget = *opts.Budget
	}
	if budget < 0 || budget > 100 {
		return "", fmt.Errorf("%w: budget must be between 0 and 100", apperr.ErrInvalidInput)
	}

	room := lookupName(Rooms, opts.Room, "room")
	style := lookupName(Styles, opts.Style, "style")

	colorDesc := ""
	if opts.ColorScheme != "" {
		colorDesc = fmt.Sprintf("with %s color scheme", opts.ColorScheme)
	}

	return fmt.Sprintf(
		"A photorealistic interior design for a %s %s, %s %s. The space should have great lighting, feature realistic furniture, decor, and textures. 8k, detailed render, interior design photography",
		style, room, budgetDescription(budget), colorDesc,
	), nil
}

// DesignService full-room render generation
type DesignService struct {
	keys    KeySource
	images  imagegen.Generator
	gallery *GalleryService
	logger  *zap.Logger
}

// NewDesignService creates a DesignService
func NewDesignService(keys KeySource, images imagegen.Generator, gallery *GalleryService, logger *zap.Logger) *DesignService {
	return &DesignService{keys: keys, images: images, gallery: gallery, logger: logger.Named("design")}
}

// Generate renders prompt at 1024x768
func (s *DesignService) Generate(ctx context.Context, prompt string) (model.GeneratedImage, error) {
	key, err := s.keys.APIKey(ctx, ProviderRunware)
	if err != nil {
		return model.GeneratedImage{}, err
	}
	if key == "" {
		return model.GeneratedImage{}, fmt.Errorf("%w: please enter your Runware API key first", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(prompt) == "" {
		return model.GeneratedImage{}, fmt.Errorf("%w: please enter a prompt for the design", apperr.ErrInvalidInput)
	}

	return s.images.Generate(ctx, key, imagegen.Request{
		PositivePrompt: prompt,
		Width:          designImageWidth,
		Height:         designImageHeight,
	})
}

// Describe renders a free-text room description and records the result in
// galleryImages. A failed gallery write is logged; the image is still returned.
func (s *DesignService) Describe(ctx context.Context, description string) (model.GeneratedImage, error) {
	description = strings.TrimSpace(description)
	key, err := s.keys.APIKey(ctx, ProviderRunware)
	if err != nil {
		return model.GeneratedImage{}, err
	}
	if key == "" {
		return model.GeneratedImage{}, fmt.Errorf("%w: please enter your Runware API key first", apperr.ErrInvalidInput)
	}
	if description == "" {
		return model.GeneratedImage{}, fmt.Errorf("%w: please record or type a description first", apperr.ErrInvalidInput)
	}

	img, err := s.images.Generate(ctx, key, imagegen.Request{
		PositivePrompt: "Interior design: " + description,
		Width:          designImageWidth,
		Height:         designImageHeight,
	})
	if err != nil {
		return model.GeneratedImage{}, err
	}

	if err := s.gallery.AddGenerated(ctx, img); err != nil {
		s.logger.Warn("failed to record described design in gallery", zap.String("url", img.ImageURL), zap.Error(err))
	}
	return img, nil
}

// Save keeps a generated design in the gallery
func (s *DesignService) Save(ctx context.Context, img model.GeneratedImage) error {
	return s.gallery.AddDesign(ctx, img)
}
