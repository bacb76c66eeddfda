package component

import (
	"fmt"

	"github.com/wilbur182/viewcache/internal/render"
	"github.com/wilbur182/viewcache/internal/state"
)

// ContentDelta is what a content click adds to counter3.
const ContentDelta = 10

// ContentCache displays the description and counter2 and owns counter3.
// Both displayed fields are written by header clicks, never by content
// clicks, so this cache drifts only through the root.
type ContentCache struct {
	description string
	counter2    int
}

// NewContent returns a content cache seeded from d.
func NewContent(d state.AppData) *ContentCache {
	c := &ContentCache{}
	c.Reconcile(d)
	return c
}

func (c *ContentCache) ID() ID                    { return Content }
func (c *ContentCache) OwnedCounter() state.Field { return state.FieldCounter3 }
func (c *ContentCache) Delta() int                { return ContentDelta }

func (c *ContentCache) Fields() []state.Field {
	return []state.Field{state.FieldDescription, state.FieldCounter2}
}

func (c *ContentCache) Reconcile(d state.AppData) bool {
	changed := false
	if syncString(&c.description, d.Description) {
		changed = true
	}
	if syncInt(&c.counter2, d.Counter2) {
		changed = true
	}
	return changed
}

func (c *ContentCache) MutateOwnedCounter(acc state.Access) {
	mutateCounter(acc, c.OwnedCounter(), ContentDelta)
}

func (c *ContentCache) Text() string {
	return fmt.Sprintf(TextFormat, c.description, c.counter2)
}

func (c *ContentCache) Render() render.Node {
	return renderBlock(Content, c.Text())
}
