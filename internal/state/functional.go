package state

// functionalAccess never writes into a value a reader may hold: each
// mutation derives a new version from the current one.
type functionalAccess struct {
	cur     AppData
	prev    AppData
	version uint64
}

func (a *functionalAccess) Read() AppData      { return a.cur }
func (a *functionalAccess) Version() uint64    { return a.version }
func (a *functionalAccess) Strategy() Strategy { return StrategyFunctional }

func (a *functionalAccess) Mutate(m Mutation) {
	next := a.cur
	m.Apply(&next)
	a.prev, a.cur = a.cur, next
	a.version++
}

// Previous returns the version replaced by the last mutation.
func (a *functionalAccess) Previous() AppData { return a.prev }

// LastChange returns the fields changed by the last mutation.
func (a *functionalAccess) LastChange() []Field {
	return Diff(a.prev, a.cur)
}
