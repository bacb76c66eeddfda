package component

import (
	"fmt"

	"github.com/wilbur182/viewcache/internal/render"
	"github.com/wilbur182/viewcache/internal/state"
)

// HeaderDelta is what a header click adds to counter2.
const HeaderDelta = 100

// HeaderCache displays the title and counter1 and owns counter2.
type HeaderCache struct {
	title    string
	counter1 int
}

// NewHeader returns a header cache seeded from d.
func NewHeader(d state.AppData) *HeaderCache {
	h := &HeaderCache{}
	h.Reconcile(d)
	return h
}

func (h *HeaderCache) ID() ID                    { return Header }
func (h *HeaderCache) OwnedCounter() state.Field { return state.FieldCounter2 }
func (h *HeaderCache) Delta() int                { return HeaderDelta }

func (h *HeaderCache) Fields() []state.Field {
	return []state.Field{state.FieldTitle, state.FieldCounter1}
}

func (h *HeaderCache) Reconcile(d state.AppData) bool {
	changed := false
	if syncString(&h.title, d.Title) {
		changed = true
	}
	if syncInt(&h.counter1, d.Counter1) {
		changed = true
	}
	return changed
}

func (h *HeaderCache) MutateOwnedCounter(acc state.Access) {
	mutateCounter(acc, h.OwnedCounter(), HeaderDelta)
}

func (h *HeaderCache) Text() string {
	return fmt.Sprintf(TextFormat, h.title, h.counter1)
}

func (h *HeaderCache) Render() render.Node {
	return renderBlock(Header, h.Text())
}
