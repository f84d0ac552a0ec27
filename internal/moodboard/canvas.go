// Package moodboard holds the canvas model: freely positioned, z-ordered items
// on a bounded surface, pointer-driven dragging, and named board snapshots.
package moodboard

import (
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
)

const (
	DefaultWidth  = 600
	DefaultHeight = 600
	DefaultName   = "My Moodboard"

	// spawnRange upper bound of the random initial position on each axis
	spawnRange = 200
)

type dragState struct {
	itemID  string
	offsetX float64
	offsetY float64
}

// Canvas the current board being edited. It is not safe for concurrent use;
// the owning session applies every call in event order.
type Canvas struct {
	name   string
	width  float64
	height float64
	items  []Item

	// nextZ shared z-order counter; only grows
	nextZ int
	drag  *dragState

	randFloat func() float64
	newID     func() string
}

// Option configures a Canvas
type Option func(*Canvas)

// WithSize sets the initial rendered bounds
func WithSize(width, height float64) Option {
	return func(c *Canvas) {
		c.width = width
		c.height = height
	}
}

// WithRand makes initial placement deterministic
func WithRand(r *rand.Rand) Option {
	return func(c *Canvas) {
		c.randFloat = r.Float64
	}
}

// WithIDFunc overrides item id generation
func WithIDFunc(f func() string) Option {
	return func(c *Canvas) {
		c.newID = f
	}
}

// NewCanvas creates an empty canvas
func NewCanvas(opts ...Option) *Canvas {
	c := &Canvas{
		name:      DefaultName,
		width:     DefaultWidth,
		height:    DefaultHeight,
		nextZ:     1,
		randFloat: rand.Float64,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddItem places content at a random position in [0,200) on each axis.
func (c *Canvas) AddItem(content Content) Item {
	return c.AddItemAt(content, c.randFloat()*spawnRange, c.randFloat()*spawnRange)
}

// AddItemAt places content at exactly (x, y). The position is not clamped;
// drops from outside the canvas may land partially off it.
func (c *Canvas) AddItemAt(content Content, x, y float64) Item {
	size := content.defaultSize()
	item := Item{
		ID:      c.newID(),
		Content: content,
		X:       x,
		Y:       y,
		Width:   size.Width,
		Height:  size.Height,
		ZIndex:  c.takeZ(),
	}
	c.items = append(c.items, item)
	return item
}

func (c *Canvas) takeZ() int {
	z := c.nextZ
	c.nextZ++
	return z
}

func (c *Canvas) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// BeginDrag starts dragging id from the given pointer position and brings the
// item to the front. Unknown ids are ignored.
func (c *Canvas) BeginDrag(id string, pointerX, pointerY float64) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}

	item := &c.items[i]
	item.ZIndex = c.takeZ()
	c.drag = &dragState{
		itemID:  id,
		offsetX: pointerX - item.X,
		offsetY: pointerY - item.Y,
	}
	return true
}

// UpdateDrag moves the dragged item so it keeps its offset to the pointer,
// clamped inside the canvas. Returns false when no drag is active.
func (c *Canvas) UpdateDrag(pointerX, pointerY float64) (Item, bool) {
	if c.drag == nil {
		return Item{}, false
	}
	i := c.indexOf(c.drag.itemID)
	if i < 0 {
		c.drag = nil
		return Item{}, false
	}

	item := &c.items[i]
	item.X = clamp(pointerX-c.drag.offsetX, 0, c.width-item.Width)
	item.Y = clamp(pointerY-c.drag.offsetY, 0, c.height-item.Height)
	return *item, true
}

// clamp into [lo, hi]; lo wins when the item is larger than the canvas
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// EndDrag finishes the gesture (pointer up or pointer leaving the canvas).
func (c *Canvas) EndDrag() {
	c.drag = nil
}

// Dragging returns the id of the item being dragged
func (c *Canvas) Dragging() (string, bool) {
	if c.drag == nil {
		return "", false
	}
	return c.drag.itemID, true
}

// RemoveItem deletes id. Z-indexes are not renumbered.
func (c *Canvas) RemoveItem(id string) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	if c.drag != nil && c.drag.itemID == id {
		c.drag = nil
	}
}

// EditText replaces the body of a Text item. Other kinds are left alone.
func (c *Canvas) EditText(id, text string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	if _, ok := c.items[i].Content.(Text); !ok {
		return false
	}
	c.items[i].Content = Text{Body: text}
	return true
}

// Clear empties the board. Callers confirm destructive intent first.
func (c *Canvas) Clear() {
	c.items = nil
	c.drag = nil
}

// Resize records the canvas's current rendered bounds.
func (c *Canvas) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width = width
	c.height = height
}

// Size current rendered bounds
func (c *Canvas) Size() (width, height float64) {
	return c.width, c.height
}

func (c *Canvas) Rename(name string) {
	c.name = name
}

func (c *Canvas) Name() string {
	return c.name
}

// Item looks up one item by id
func (c *Canvas) Item(id string) (Item, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return Item{}, false
	}
	return c.items[i], true
}

// Items copy in insertion order
func (c *Canvas) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Canvas) Len() int {
	return len(c.items)
}

// Snapshot current board under the current name
func (c *Canvas) Snapshot() Board {
	return Board{Name: c.name, Items: c.Items()}
}

// Load replaces the board wholesale. The z counter continues above the
// highest loaded z-index so newly focused items still land on top.
func (c *Canvas) Load(b Board) {
	b = b.Clone()
	c.name = b.Name
	c.items = b.Items
	c.drag = nil

	maxZ := 0
	for _, it := range c.items {
		if it.ZIndex > maxZ {
			maxZ = it.ZIndex
		}
	}
	c.nextZ = maxZ + 1
}
