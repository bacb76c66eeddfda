// Package render memoizes component output and decides, paint by paint,
// which children are rebuilt and which are reused verbatim.
package render

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Node is one vertex of a rendered view tree. A node with an empty Tag is a
// text node. OnClick carries the typed event a host should route to the
// root when the node is clicked.
type Node struct {
	Tag      string
	Text     string
	Children []Node
	OnClick  any
}

// Element returns a node with the given tag and children.
func Element(tag string, children ...Node) Node {
	return Node{Tag: tag, Children: children}
}

// Text returns a text node.
func Text(s string) Node {
	return Node{Text: s}
}

// WithClick returns a copy of n that emits ev when clicked.
func (n Node) WithClick(ev any) Node {
	n.OnClick = ev
	return n
}

// IsText reports whether n is a text node.
func (n Node) IsText() bool {
	return n.Tag == ""
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func (n Node) Walk(fn func(n Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n Node) walk(fn func(Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// PlainText joins the text of every text node, one line per node.
func (n Node) PlainText() string {
	var lines []string
	n.Walk(func(c Node, _ int) bool {
		if c.IsText() {
			lines = append(lines, c.Text)
		}
		return true
	})
	return strings.Join(lines, "\n")
}

// Clickable returns the event of the first node under n that has one.
func (n Node) Clickable() (any, bool) {
	var ev any
	n.Walk(func(c Node, _ int) bool {
		if ev != nil {
			return false
		}
		if c.OnClick != nil {
			ev = c.OnClick
			return false
		}
		return true
	})
	return ev, ev != nil
}

// Hash fingerprints the tree, events included. Equal trees hash equally.
func (n Node) Hash() uint64 {
	h := xxhash.New()
	n.hashInto(h)
	return h.Sum64()
}

func (n Node) hashInto(h *xxhash.Digest) {
	h.WriteString(n.Tag)
	h.Write([]byte{0})
	h.WriteString(n.Text)
	h.Write([]byte{0})
	if n.OnClick != nil {
		fmt.Fprintf(h, "%#v", n.OnClick)
	}
	h.Write([]byte{byte(len(n.Children) >> 8), byte(len(n.Children)), '{'})
	for _, c := range n.Children {
		c.hashInto(h)
	}
	h.Write([]byte{'}'})
}
