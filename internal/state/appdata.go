// Package state holds the single writable record every view component
// observes, and the access strategies through which it is read and mutated.
package state

// AppData is the shared application state. Display fields are read by every
// component; each counter is mutated by exactly one component.
type AppData struct {
	Title       string
	Description string
	Author      string
	Counter1    int
	Counter2    int
	Counter3    int
}

// New returns the state a root is mounted with.
func New() AppData {
	return AppData{
		Title:       "title",
		Description: "description",
		Author:      "author",
	}
}
