package state

import (
	"github.com/wilbur182/viewcache/internal/errors"
)

// Cell is a reference-counted holder of AppData with a runtime borrow
// guard: any number of shared borrows, or exactly one mutable borrow.
// Every holder shares the same Cell pointer, so the address of the state
// never changes under a reader.
type Cell struct {
	data    AppData
	refs    int
	shared  int
	mut     bool
	version uint64
}

// NewCell returns a Cell holding data with one reference.
func NewCell(data AppData) *Cell {
	return &Cell{data: data, refs: 1}
}

// Clone adds a reference and returns the same Cell.
func (c *Cell) Clone() *Cell {
	c.refs++
	return c
}

// Release drops a reference.
func (c *Cell) Release() {
	if c.refs > 0 {
		c.refs--
	}
}

// Refs returns the number of live references.
func (c *Cell) Refs() int { return c.refs }

// Borrow returns a read-only view of the state and a release func. A live
// mutable borrow is an invariant violation; the view is still returned.
func (c *Cell) Borrow() (*AppData, func()) {
	if c.mut {
		errors.Invariantf("state.Cell.Borrow", errors.ErrBorrowed, "mutably borrowed")
	}
	c.shared++
	released := false
	return &c.data, func() {
		if !released {
			released = true
			c.shared--
		}
	}
}

// BorrowMut returns exclusive access and a release func. If any borrow is
// live the violation is reported and ok is false.
func (c *Cell) BorrowMut() (data *AppData, release func(), ok bool) {
	if c.mut || c.shared > 0 {
		errors.Invariantf("state.Cell.BorrowMut", errors.ErrBorrowed, "%d shared, mutable=%t", c.shared, c.mut)
		return nil, func() {}, false
	}
	c.mut = true
	released := false
	return &c.data, func() {
		if !released {
			released = true
			c.mut = false
		}
	}, true
}

// Borrowed reports whether any borrow is live.
func (c *Cell) Borrowed() bool {
	return c.mut || c.shared > 0
}

// Access returns an Access holding a new reference to c.
func (c *Cell) Access() Access {
	return &sharedAccess{cell: c.Clone()}
}

type sharedAccess struct {
	cell *Cell
}

func (a *sharedAccess) Strategy() Strategy { return StrategyShared }
func (a *sharedAccess) Version() uint64    { return a.cell.version }

// Cell exposes the underlying cell so other holders can Clone it.
func (a *sharedAccess) Cell() *Cell { return a.cell }

func (a *sharedAccess) Read() AppData {
	data, release := a.cell.Borrow()
	defer release()
	return *data
}

func (a *sharedAccess) Mutate(m Mutation) {
	data, release, ok := a.cell.BorrowMut()
	defer release()
	if !ok {
		return
	}
	m.Apply(data)
	a.cell.version++
}
