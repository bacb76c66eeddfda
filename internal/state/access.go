package state

import (
	"fmt"
	"strings"
)

// Access is the capability through which a root reads and mutates its
// AppData. Every backend drives the same invalidation algorithm; they differ
// only in who owns the value and how aliasing is controlled.
type Access interface {
	// Read returns a copy of the current state.
	Read() AppData
	// Mutate applies m to the state.
	Mutate(m Mutation)
	// Version increments on every Mutate.
	Version() uint64
	// Strategy reports which backend this is.
	Strategy() Strategy
}

// Strategy selects an Access backend.
type Strategy int

const (
	// StrategyOwned: the root owns the value outright.
	StrategyOwned Strategy = iota
	// StrategyInjected: the host owns the value and injects a pointer.
	StrategyInjected
	// StrategyShared: a reference-counted Cell with a borrow guard.
	StrategyShared
	// StrategyArena: the value sits in an Arena slot reached by Handle.
	StrategyArena
	// StrategyFunctional: every mutation produces a new immutable version.
	StrategyFunctional
)

var strategyNames = map[Strategy]string{
	StrategyOwned:      "owned",
	StrategyInjected:   "injected",
	StrategyShared:     "shared",
	StrategyArena:      "arena",
	StrategyFunctional: "functional",
}

// Strategies returns every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{StrategyOwned, StrategyInjected, StrategyShared, StrategyArena, StrategyFunctional}
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy parses a strategy name as written in config or on the
// command line.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown state strategy %q", name)
}

// NewAccess builds an Access of the given strategy. For StrategyInjected
// seed is the host-owned value and is retained; every other backend copies
// seed, or starts from New() when seed is nil.
func NewAccess(s Strategy, seed *AppData) (Access, error) {
	initial := New()
	if seed != nil {
		initial = *seed
	}

	switch s {
	case StrategyOwned:
		return &ownedAccess{data: initial}, nil
	case StrategyInjected:
		if seed == nil {
			return nil, fmt.Errorf("injected strategy requires host-owned state")
		}
		return &injectedAccess{data: seed}, nil
	case StrategyShared:
		cell := NewCell(initial)
		acc := cell.Access()
		cell.Release()
		return acc, nil
	case StrategyArena:
		arena := NewArena()
		return arena.Access(arena.Alloc(initial)), nil
	case StrategyFunctional:
		return &functionalAccess{cur: initial, prev: initial}, nil
	default:
		return nil, fmt.Errorf("unknown state strategy %d", int(s))
	}
}

type ownedAccess struct {
	data    AppData
	version uint64
}

func (a *ownedAccess) Read() AppData      { return a.data }
func (a *ownedAccess) Version() uint64    { return a.version }
func (a *ownedAccess) Strategy() Strategy { return StrategyOwned }

func (a *ownedAccess) Mutate(m Mutation) {
	m.Apply(&a.data)
	a.version++
}

// injectedAccess writes straight through to a value owned by the host.
type injectedAccess struct {
	data    *AppData
	version uint64
}

func (a *injectedAccess) Read() AppData      { return *a.data }
func (a *injectedAccess) Version() uint64    { return a.version }
func (a *injectedAccess) Strategy() Strategy { return StrategyInjected }

func (a *injectedAccess) Mutate(m Mutation) {
	m.Apply(a.data)
	a.version++
}
