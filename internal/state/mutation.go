package state

import (
	"github.com/wilbur182/viewcache/internal/errors"
)

// Mutation is a bounded change to AppData. Fields reports what Apply may
// write so dependency-driven invalidation can be computed before applying.
type Mutation interface {
	Fields() []Field
	Apply(d *AppData)
}

// AppendText appends Suffix to a string field.
type AppendText struct {
	Field  Field
	Suffix string
}

func (m AppendText) Fields() []Field { return []Field{m.Field} }

// Apply appends the suffix. A counter field is an invariant violation and
// leaves d untouched.
func (m AppendText) Apply(d *AppData) {
	p := d.text(m.Field)
	if p == nil {
		errors.Invariantf("state.AppendText", errors.ErrFieldKind, "%s is not a text field", m.Field)
		return
	}
	*p += m.Suffix
}

// AddCounter adds Delta to a counter field.
type AddCounter struct {
	Field Field
	Delta int
}

func (m AddCounter) Fields() []Field { return []Field{m.Field} }

// Apply adds the delta. A text field is an invariant violation and leaves d
// untouched.
func (m AddCounter) Apply(d *AppData) {
	p := d.counter(m.Field)
	if p == nil {
		errors.Invariantf("state.AddCounter", errors.ErrFieldKind, "%s is not a counter", m.Field)
		return
	}
	*p += m.Delta
}
