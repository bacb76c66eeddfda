package component

import (
	"fmt"

	"github.com/wilbur182/viewcache/internal/render"
	"github.com/wilbur182/viewcache/internal/state"
)

// FooterDelta is what a footer click adds to counter1.
const FooterDelta = 100

// FooterCache displays the author and counter3 and owns counter1.
type FooterCache struct {
	author   string
	counter3 int
}

// NewFooter returns a footer cache seeded from d.
func NewFooter(d state.AppData) *FooterCache {
	f := &FooterCache{}
	f.Reconcile(d)
	return f
}

func (f *FooterCache) ID() ID                    { return Footer }
func (f *FooterCache) OwnedCounter() state.Field { return state.FieldCounter1 }
func (f *FooterCache) Delta() int                { return FooterDelta }

func (f *FooterCache) Fields() []state.Field {
	return []state.Field{state.FieldAuthor, state.FieldCounter3}
}

func (f *FooterCache) Reconcile(d state.AppData) bool {
	changed := false
	if syncString(&f.author, d.Author) {
		changed = true
	}
	if syncInt(&f.counter3, d.Counter3) {
		changed = true
	}
	return changed
}

func (f *FooterCache) MutateOwnedCounter(acc state.Access) {
	mutateCounter(acc, f.OwnedCounter(), FooterDelta)
}

func (f *FooterCache) Text() string {
	return fmt.Sprintf(TextFormat, f.author, f.counter3)
}

func (f *FooterCache) Render() render.Node {
	return renderBlock(Footer, f.Text())
}
