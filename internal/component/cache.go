package component

import (
	"fmt"

	"github.com/wilbur182/viewcache/internal/render"
	"github.com/wilbur182/viewcache/internal/state"
)

// TextFormat is the observable shape of every component's text node.
const TextFormat = "click on me: %v %v"

// ViewCache is a component's memo of the state fields it displays.
//
// Reconcile is the only method that writes the snapshot. MutateOwnedCounter
// writes the state, never the snapshot. Render reads the snapshot only.
type ViewCache interface {
	ID() ID
	// Fields lists the tracked fields in display order.
	Fields() []state.Field
	// OwnedCounter is the one counter this component may mutate.
	OwnedCounter() state.Field
	// Delta is the fixed amount MutateOwnedCounter adds.
	Delta() int
	// Reconcile copies every drifted field out of d and reports whether any
	// field changed.
	Reconcile(d state.AppData) bool
	// MutateOwnedCounter adds Delta to OwnedCounter through acc.
	MutateOwnedCounter(acc state.Access)
	// Render builds the component's tree from the snapshot.
	Render() render.Node
	// Text is the text node Render would produce.
	Text() string
}

// New returns the cache for id seeded from d.
func New(id ID, d state.AppData) (ViewCache, error) {
	switch id {
	case Header:
		return NewHeader(d), nil
	case Content:
		return NewContent(d), nil
	case Footer:
		return NewFooter(d), nil
	default:
		return nil, fmt.Errorf("unknown component %d", int(id))
	}
}

// syncString and syncInt overwrite dst with src when they differ. Callers
// evaluate every field before combining results.
func syncString(dst *string, src string) bool {
	if *dst == src {
		return false
	}
	*dst = src
	return true
}

func syncInt(dst *int, src int) bool {
	if *dst == src {
		return false
	}
	*dst = src
	return true
}

func renderBlock(id ID, text string) render.Node {
	return render.Element("div",
		render.Element("h1", render.Text(text)).WithClick(Interaction{Source: id, Kind: Click}),
	)
}

func mutateCounter(acc state.Access, field state.Field, delta int) {
	acc.Mutate(state.AddCounter{Field: field, Delta: delta})
}
