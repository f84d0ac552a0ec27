package moodboard

import (
	"encoding/json"
)

// Item one placed element on a board
type Item struct {
	ID      string
	Content Content
	X       float64
	Y       float64
	Width   float64
	Height  float64
	ZIndex  int
}

// Kind shortcut for Content.Kind
func (i Item) Kind() Kind {
	return i.Content.Kind()
}

// itemJSON flattened wire/storage shape
type itemJSON struct {
	ID      string  `json:"id"`
	Type    Kind    `json:"type"`
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	ZIndex  int     `json:"zIndex"`
}

func (i Item) MarshalJSON() ([]byte, error) {
	out := itemJSON{
		ID:     i.ID,
		Width:  i.Width,
		Height: i.Height,
		X:      i.X,
		Y:      i.Y,
		ZIndex: i.ZIndex,
	}
	if i.Content != nil {
		out.Type = i.Content.Kind()
		out.Content = i.Content.Value()
	}
	return json.Marshal(out)
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var in itemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	content, err := NewContent(in.Type, in.Content)
	if err != nil {
		return err
	}
	*i = Item{
		ID:      in.ID,
		Content: content,
		X:       in.X,
		Y:       in.Y,
		Width:   in.Width,
		Height:  in.Height,
		ZIndex:  in.ZIndex,
	}
	return nil
}

// Board named collection of items in insertion order
type Board struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Clone deep-copies the item slice
func (b Board) Clone() Board {
	items := make([]Item, len(b.Items))
	copy(items, b.Items)
	return Board{Name: b.Name, Items: items}
}
