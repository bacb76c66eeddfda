package render

import (
	"github.com/wilbur182/viewcache/internal/errors"
)

// RootTag is the tag of the node a Frontier composes its children under.
const RootTag = "div"

// Part is one child's contribution to a Frame.
type Part struct {
	Key     string
	Node    Node
	Rebuilt bool
}

// Frame is the result of one paint.
type Frame struct {
	Seq   uint64
	Root  Node
	Parts []Part
	Hash  uint64
}

// Rebuilt returns the keys of the children rebuilt for this frame.
func (f Frame) Rebuilt() []string {
	return f.keys(true)
}

// Reused returns the keys of the children whose memo was reused.
func (f Frame) Reused() []string {
	return f.keys(false)
}

func (f Frame) keys(rebuilt bool) []string {
	var keys []string
	for _, p := range f.Parts {
		if p.Rebuilt == rebuilt {
			keys = append(keys, p.Key)
		}
	}
	return keys
}

// Part returns the contribution of key.
func (f Frame) Part(key string) (Part, bool) {
	for _, p := range f.Parts {
		if p.Key == key {
			return p, true
		}
	}
	return Part{}, false
}

// Stats counts paint work over a Frontier's lifetime.
type Stats struct {
	Paints   uint64
	Rebuilds uint64
	Reuses   uint64
	Requests uint64
}

// Frontier composes memoized children in a fixed order and tracks whether a
// repaint has been requested. It is not safe for concurrent use; the host
// calls it from its single update loop.
type Frontier struct {
	keys     []string
	children map[string]*Cached
	pending  bool
	seq      uint64
	stats    Stats

	// OnNeedsFrame is called when a repaint is first requested after a
	// paint, signalling the host that a frame should be scheduled.
	OnNeedsFrame func()
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{children: make(map[string]*Cached)}
}

// Add registers r under key. Children paint in registration order.
func (f *Frontier) Add(key string, r Renderer) *Cached {
	if _, dup := f.children[key]; dup {
		errors.Invariantf("render.Frontier.Add", errors.ErrDuplicateChild, "%q", key)
		return f.children[key]
	}
	c := NewCached(r)
	f.keys = append(f.keys, key)
	f.children[key] = c
	return c
}

// Keys returns child keys in paint order.
func (f *Frontier) Keys() []string {
	return append([]string(nil), f.keys...)
}

// Child returns the memo registered under key.
func (f *Frontier) Child(key string) (*Cached, bool) {
	c, ok := f.children[key]
	return c, ok
}

// Invalidate marks key's memo unusable. It reports false for an unknown key.
func (f *Frontier) Invalidate(key string) bool {
	c, ok := f.children[key]
	if !ok {
		return false
	}
	c.Invalidate()
	return true
}

// InvalidateAll marks every memo unusable.
func (f *Frontier) InvalidateAll() {
	for _, c := range f.children {
		c.Invalidate()
	}
}

// Invalid returns the keys that will rebuild on the next paint.
func (f *Frontier) Invalid() []string {
	var keys []string
	for _, k := range f.keys {
		if !f.children[k].Valid() {
			keys = append(keys, k)
		}
	}
	return keys
}

// ScheduleRepaint requests a paint. Requests coalesce until the next Paint;
// it reports whether this call created the pending request.
func (f *Frontier) ScheduleRepaint() bool {
	f.stats.Requests++
	if f.pending {
		return false
	}
	f.pending = true
	if f.OnNeedsFrame != nil {
		f.OnNeedsFrame()
	}
	return true
}

// Pending reports whether a repaint has been requested since the last paint.
func (f *Frontier) Pending() bool {
	return f.pending
}

// Paint composes every child under a RootTag node. Valid memos are reused,
// invalid ones rebuilt; afterwards every child is clean and no repaint is
// pending.
func (f *Frontier) Paint() Frame {
	f.seq++
	frame := Frame{Seq: f.seq, Parts: make([]Part, 0, len(f.keys))}
	children := make([]Node, 0, len(f.keys))
	for _, k := range f.keys {
		node, rebuilt := f.children[k].Render()
		if rebuilt {
			f.stats.Rebuilds++
		} else {
			f.stats.Reuses++
		}
		frame.Parts = append(frame.Parts, Part{Key: k, Node: node, Rebuilt: rebuilt})
		children = append(children, node)
	}
	frame.Root = Element(RootTag, children...)
	frame.Hash = frame.Root.Hash()
	f.pending = false
	f.stats.Paints++
	return frame
}

// Stats returns lifetime counters.
func (f *Frontier) Stats() Stats {
	return f.stats
}
