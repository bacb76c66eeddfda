package render

// Renderer produces a view tree from its own fields only.
type Renderer interface {
	Render() Node
}

// Cached memoizes the last tree produced by a Renderer. The memo is reused
// until Invalidate is called.
type Cached struct {
	inner  Renderer
	node   Node
	valid  bool
	builds int
}

// NewCached wraps r. The first Render always builds.
func NewCached(r Renderer) *Cached {
	return &Cached{inner: r}
}

// Inner returns the wrapped renderer.
func (c *Cached) Inner() Renderer { return c.inner }

// Valid reports whether the memo can be reused.
func (c *Cached) Valid() bool { return c.valid }

// Builds returns how many times the inner renderer has run.
func (c *Cached) Builds() int { return c.builds }

// Invalidate forces the next Render to rebuild.
func (c *Cached) Invalidate() {
	c.valid = false
}

// Render returns the memoized tree, rebuilding it first if invalid.
func (c *Cached) Render() (node Node, rebuilt bool) {
	if c.valid {
		return c.node, false
	}
	c.node = c.inner.Render()
	c.valid = true
	c.builds++
	return c.node, true
}
