package state

import (
	"github.com/wilbur182/viewcache/internal/errors"
)

// Handle is a stable reference to an Arena slot. It stays valid while the
// slot is live even if the arena's backing storage moves.
type Handle struct {
	index int
	gen   uint32
}

type slot struct {
	data AppData
	gen  uint32
	live bool
}

// Arena stores AppData values addressed by Handle.
type Arena struct {
	slots []slot
	free  []int
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc stores data and returns its handle.
func (a *Arena) Alloc(data AppData) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.data = data
		s.live = true
		return Handle{index: idx, gen: s.gen}
	}
	a.slots = append(a.slots, slot{data: data, live: true})
	return Handle{index: len(a.slots) - 1}
}

// Free releases h's slot. Later lookups through h fail.
func (a *Arena) Free(h Handle) {
	if !a.Valid(h) {
		return
	}
	s := &a.slots[h.index]
	s.live = false
	s.gen++
	s.data = AppData{}
	a.free = append(a.free, h.index)
}

// Valid reports whether h refers to a live slot.
func (a *Arena) Valid(h Handle) bool {
	if h.index < 0 || h.index >= len(a.slots) {
		return false
	}
	s := a.slots[h.index]
	return s.live && s.gen == h.gen
}

// Get returns the slot for h, or nil for a stale handle. The pointer must
// not be retained across Alloc.
func (a *Arena) Get(h Handle) *AppData {
	if !a.Valid(h) {
		return nil
	}
	return &a.slots[h.index].data
}

// Len returns the number of live slots.
func (a *Arena) Len() int {
	return len(a.slots) - len(a.free)
}

// Access returns an Access bound to h.
func (a *Arena) Access(h Handle) Access {
	return &arenaAccess{arena: a, handle: h}
}

type arenaAccess struct {
	arena   *Arena
	handle  Handle
	version uint64
}

func (a *arenaAccess) Strategy() Strategy { return StrategyArena }
func (a *arenaAccess) Version() uint64    { return a.version }

// Handle returns the slot handle this access is bound to.
func (a *arenaAccess) Handle() Handle { return a.handle }

func (a *arenaAccess) Read() AppData {
	data := a.arena.Get(a.handle)
	if data == nil {
		errors.Invariantf("state.Arena.Read", errors.ErrStaleHandle, "stale handle %d/%d", a.handle.index, a.handle.gen)
		return AppData{}
	}
	return *data
}

func (a *arenaAccess) Mutate(m Mutation) {
	data := a.arena.Get(a.handle)
	if data == nil {
		errors.Invariantf("state.Arena.Mutate", errors.ErrStaleHandle, "stale handle %d/%d", a.handle.index, a.handle.gen)
		return
	}
	m.Apply(data)
	a.version++
}
