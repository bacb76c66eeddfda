// Package mouse maps terminal mouse events onto the hit regions laid out by
// the last paint.
package mouse

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Rect is a rectangular region in terminal cells.
type Rect struct {
	X, Y, W, H int
}

// Contains returns true if the point (x, y) is within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit region carrying the value a click on it produces.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap tracks hit regions for mouse click detection.
type HitMap struct {
	regions []Region
}

// NewHitMap creates a new empty HitMap.
func NewHitMap() *HitMap {
	return &HitMap{regions: make([]Region, 0, 8)}
}

// Clear removes all regions.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Add registers a region. Later regions win on overlap.
func (h *HitMap) Add(id string, rect Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: rect, Data: data})
}

// Test returns the topmost region containing the point, or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return &h.regions[i]
		}
	}
	return nil
}

// Regions returns a copy of all registered regions.
func (h *HitMap) Regions() []Region {
	return append([]Region(nil), h.regions...)
}

// ActionType is the kind of processed mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionHover
)

// Action is a processed mouse event.
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
}

// Handler turns tea.MouseMsg values into Actions against a HitMap.
type Handler struct {
	HitMap *HitMap

	hovered string
}

// NewHandler creates a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// Clear drops every region and forgets the hovered one.
func (h *Handler) Clear() {
	h.HitMap.Clear()
	h.hovered = ""
}

// Handle processes one mouse message. Left presses on a region are clicks.
// Motion reports a hover only when the pointer enters a different region.
func (h *Handler) Handle(msg tea.MouseMsg) Action {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return Action{Type: ActionNone}
		}
		region := h.HitMap.Test(msg.X, msg.Y)
		if region == nil {
			return Action{Type: ActionNone}
		}
		return Action{Type: ActionClick, Region: region, X: msg.X, Y: msg.Y}

	case tea.MouseActionMotion:
		region := h.HitMap.Test(msg.X, msg.Y)
		id := ""
		if region != nil {
			id = region.ID
		}
		if id == h.hovered {
			return Action{Type: ActionNone}
		}
		h.hovered = id
		if region == nil {
			return Action{Type: ActionNone}
		}
		return Action{Type: ActionHover, Region: region, X: msg.X, Y: msg.Y}
	}
	return Action{Type: ActionNone}
}
