package moodboard

import (
	"fmt"

	"surana-backend/internal/apperr"
)

// Kind item kind; decides rendering and default size
type Kind string

const (
	KindImage Kind = "image"
	KindColor Kind = "color"
	KindText  Kind = "text"
)

func (k Kind) String() string {
	return string(k)
}

// Size width/height in canvas pixels
type Size struct {
	Width  float64
	Height float64
}

// Content what an item shows. Implemented only by Image, Color and Text.
type Content interface {
	Kind() Kind
	// Value is the flat string form stored on the wire: URL, hex color or text.
	Value() string
	defaultSize() Size
}

// Image image URL or data URI. Reachability is not checked.
type Image struct {
	URL string
}

// Color swatch color, normally a hex string. Not validated.
type Color struct {
	Hex string
}

// Text free text note
type Text struct {
	Body string
}

func (Image) Kind() Kind { return KindImage }
func (Color) Kind() Kind { return KindColor }
func (Text) Kind() Kind  { return KindText }

func (c Image) Value() string { return c.URL }
func (c Color) Value() string { return c.Hex }
func (c Text) Value() string  { return c.Body }

func (Image) defaultSize() Size { return Size{Width: 150, Height: 150} }
func (Color) defaultSize() Size { return Size{Width: 80, Height: 80} }
func (Text) defaultSize() Size  { return Size{Width: 150, Height: 30} }

// NewContent builds the content for a wire kind. Only the kind is checked.
func NewContent(kind Kind, value string) (Content, error) {
	switch kind {
	case KindImage:
		return Image{URL: value}, nil
	case KindColor:
		return Color{Hex: value}, nil
	case KindText:
		return Text{Body: value}, nil
	default:
		return nil, fmt.Errorf("%w: unknown item kind %q", apperr.ErrInvalidInput, kind)
	}
}
