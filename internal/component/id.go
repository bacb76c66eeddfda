// Package component implements the view caches: per-component snapshots of
// the shared state fields each component displays.
package component

import (
	"fmt"
	"strings"
)

// ID names one component of the directory.
type ID int

const (
	Header ID = iota
	Content
	Footer
)

var idNames = [...]string{
	Header:  "header",
	Content: "content",
	Footer:  "footer",
}

// IDs returns every component in paint and reconcile order.
func IDs() []ID {
	return []ID{Header, Content, Footer}
}

func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("component(%d)", int(id))
	}
	return idNames[id]
}

// Valid reports whether id names one of the fixed components.
func (id ID) Valid() bool {
	return id >= Header && id <= Footer
}

// ParseID parses a component name.
func ParseID(name string) (ID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range idNames {
		if n == name {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown component %q", name)
}

// EventKind is the kind of UI event a component emits.
type EventKind int

const (
	// Click mutates state and requests a repaint.
	Click EventKind = iota
	// Hover is delivered but never mutates.
	Hover
)

func (k EventKind) String() string {
	switch k {
	case Click:
		return "click"
	case Hover:
		return "hover"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Interaction is the value a rendered component attaches to its clickable
// node. Hosts route it to the root; components never reach the root
// themselves.
type Interaction struct {
	Source ID
	Kind   EventKind
}
