package state

import "fmt"

// Field names one field of AppData.
type Field int

const (
	FieldTitle Field = iota
	FieldDescription
	FieldAuthor
	FieldCounter1
	FieldCounter2
	FieldCounter3
)

var fieldNames = [...]string{
	FieldTitle:       "title",
	FieldDescription: "description",
	FieldAuthor:      "author",
	FieldCounter1:    "counter1",
	FieldCounter2:    "counter2",
	FieldCounter3:    "counter3",
}

// Fields returns every field in declaration order.
func Fields() []Field {
	return []Field{FieldTitle, FieldDescription, FieldAuthor, FieldCounter1, FieldCounter2, FieldCounter3}
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

// Valid reports whether f names a field of AppData.
func (f Field) Valid() bool {
	return f >= FieldTitle && f <= FieldCounter3
}

// IsCounter reports whether f is one of the integer counters.
func (f Field) IsCounter() bool {
	return f >= FieldCounter1 && f <= FieldCounter3
}

// Get returns the value of f in d. Strings come back as string, counters
// as int.
func (f Field) Get(d AppData) any {
	if f.IsCounter() {
		return *d.counter(f)
	}
	if p := d.text(f); p != nil {
		return *p
	}
	return nil
}

func (d *AppData) text(f Field) *string {
	switch f {
	case FieldTitle:
		return &d.Title
	case FieldDescription:
		return &d.Description
	case FieldAuthor:
		return &d.Author
	}
	return nil
}

func (d *AppData) counter(f Field) *int {
	switch f {
	case FieldCounter1:
		return &d.Counter1
	case FieldCounter2:
		return &d.Counter2
	case FieldCounter3:
		return &d.Counter3
	}
	return nil
}

// Diff returns the fields whose values differ between a and b.
func Diff(a, b AppData) []Field {
	var changed []Field
	for _, f := range Fields() {
		if f.Get(a) != f.Get(b) {
			changed = append(changed, f)
		}
	}
	return changed
}
