// Package directory implements the root of the component tree: it owns the
// shared state access and the view caches, and is the only place that knows
// which interaction can affect which cache.
package directory

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/wilbur182/viewcache/internal/component"
	"github.com/wilbur182/viewcache/internal/errors"
	"github.com/wilbur182/viewcache/internal/render"
	"github.com/wilbur182/viewcache/internal/state"
)

// Result describes what one interaction did.
type Result struct {
	Source      component.ID
	Touched     []state.Field
	Reconciled  []component.ID
	Invalidated []component.ID
	Version     uint64
}

// Option configures a Directory.
type Option func(*Directory)

// WithPolicy selects the invalidation policy. Defaults to PolicyDiff.
func WithPolicy(p Policy) Option {
	return func(d *Directory) { d.policy = p }
}

// WithRules replaces the Canonical rule table.
func WithRules(rules []Rule) Option {
	return func(d *Directory) { d.ruleList = rules }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Directory) { d.logger = l }
}

// WithFrontier uses f instead of a fresh Frontier. Its OnNeedsFrame hook is
// how a host learns about repaint requests.
func WithFrontier(f *render.Frontier) Option {
	return func(d *Directory) { d.frontier = f }
}

// Directory is the root component.
type Directory struct {
	access   state.Access
	caches   map[component.ID]component.ViewCache
	order    []component.ID
	ruleList []Rule
	rules    map[component.ID]Rule
	policy   Policy
	readers  map[state.Field][]component.ID
	frontier *render.Frontier
	logger   *slog.Logger
}

// New mounts the three caches over acc, seeding each from the current state.
func New(acc state.Access, opts ...Option) *Directory {
	d := &Directory{
		access:   acc,
		caches:   make(map[component.ID]component.ViewCache),
		ruleList: Canonical,
		rules:    make(map[component.ID]Rule),
		readers:  make(map[state.Field][]component.ID),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.frontier == nil {
		d.frontier = render.NewFrontier()
	}

	seed := acc.Read()
	for _, id := range component.IDs() {
		cache, err := component.New(id, seed)
		if err != nil {
			errors.Invariant("directory.New", err)
			continue
		}
		d.caches[id] = cache
		d.order = append(d.order, id)
		d.frontier.Add(id.String(), cache)
		for _, f := range cache.Fields() {
			d.readers[f] = append(d.readers[f], id)
		}
	}

	for _, r := range d.ruleList {
		if err := d.checkRule(r); err != nil {
			errors.Invariant("directory.New", err)
			continue
		}
		d.rules[r.Source] = r
	}
	return d
}

func (d *Directory) checkRule(r Rule) error {
	if _, ok := d.caches[r.Source]; !ok {
		return fmt.Errorf("%w: rule source %s", errors.ErrUnknownComponent, r.Source)
	}
	owner, ok := d.caches[r.Owner]
	if !ok {
		return fmt.Errorf("%w: rule for %s delegates to %s", errors.ErrUnknownComponent, r.Source, r.Owner)
	}
	if owner.OwnedCounter() != r.Counter {
		return fmt.Errorf("%w: %s owns %s, rule for %s expects %s",
			errors.ErrNotOwner, r.Owner, owner.OwnedCounter(), r.Source, r.Counter)
	}
	if r.Append.Field.IsCounter() || !r.Append.Field.Valid() {
		return fmt.Errorf("%w: rule for %s appends to %s", errors.ErrFieldKind, r.Source, r.Append.Field)
	}
	if _, dup := d.rules[r.Source]; dup {
		return fmt.Errorf("%w: second rule for %s", errors.ErrDuplicateChild, r.Source)
	}
	return nil
}

// Dispatch routes an event emitted by a rendered component. Only clicks
// mutate; other kinds return an empty Result.
func (d *Directory) Dispatch(ev component.Interaction) (Result, error) {
	if ev.Kind != component.Click {
		return Result{Source: ev.Source, Version: d.access.Version()}, nil
	}
	return d.HandleInteraction(ev.Source)
}

// HandleInteraction applies source's rule: the root-level text mutation,
// the counter mutation delegated to the owning cache, reconciliation in
// Header, Content, Footer order, and a repaint request when any cache was
// invalidated. An unknown source is rejected without touching state.
func (d *Directory) HandleInteraction(source component.ID) (Result, error) {
	rule, ok := d.rules[source]
	if !ok {
		return Result{}, errors.New("directory.HandleInteraction", errors.KindDispatch,
			fmt.Errorf("%w: %s", errors.ErrUnknownComponent, source))
	}

	d.access.Mutate(rule.Append)
	d.caches[rule.Owner].MutateOwnedCounter(d.access)

	res := Result{Source: source, Touched: rule.Touched()}
	current := d.access.Read()
	for _, id := range d.targets(res.Touched) {
		res.Reconciled = append(res.Reconciled, id)
		if d.caches[id].Reconcile(current) {
			d.frontier.Invalidate(id.String())
			res.Invalidated = append(res.Invalidated, id)
		}
	}
	res.Version = d.access.Version()

	if len(res.Invalidated) > 0 {
		d.frontier.ScheduleRepaint()
	}

	d.logger.Debug("interaction handled",
		"source", source,
		"policy", d.policy,
		"strategy", d.access.Strategy(),
		"version", res.Version,
		"invalidated", res.Invalidated)
	return res, nil
}

// targets returns, in fixed order, the caches to reconcile after fields
// were touched.
func (d *Directory) targets(touched []state.Field) []component.ID {
	if d.policy != PolicyGraph {
		return d.order
	}
	var ids []component.ID
	for _, id := range d.order {
		for _, f := range touched {
			if slices.Contains(d.readers[f], id) {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids
}

// Refresh reconciles every cache against the current state regardless of
// policy. Hosts that write the state outside HandleInteraction, as the
// injected strategy allows, call it afterwards.
func (d *Directory) Refresh() []component.ID {
	current := d.access.Read()
	var invalidated []component.ID
	for _, id := range d.order {
		if d.caches[id].Reconcile(current) {
			d.frontier.Invalidate(id.String())
			invalidated = append(invalidated, id)
		}
	}
	if len(invalidated) > 0 {
		d.frontier.ScheduleRepaint()
	}
	return invalidated
}

// InvalidateAll drops every memo and requests a repaint, for changes that
// affect presentation rather than state.
func (d *Directory) InvalidateAll() {
	d.frontier.InvalidateAll()
	d.frontier.ScheduleRepaint()
}

// Dependents returns the caches that display f.
func (d *Directory) Dependents(f state.Field) []component.ID {
	return append([]component.ID(nil), d.readers[f]...)
}

// Paint renders the tree, reusing every cache not invalidated since the
// last paint.
func (d *Directory) Paint() render.Frame {
	return d.frontier.Paint()
}

// State returns a copy of the shared state.
func (d *Directory) State() state.AppData { return d.access.Read() }

// Access returns the state access the directory mutates through.
func (d *Directory) Access() state.Access { return d.access }

// Cache returns the cache for id.
func (d *Directory) Cache(id component.ID) (component.ViewCache, bool) {
	c, ok := d.caches[id]
	return c, ok
}

// Caches returns the caches in fixed order.
func (d *Directory) Caches() []component.ViewCache {
	out := make([]component.ViewCache, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.caches[id])
	}
	return out
}

// Policy returns the active invalidation policy.
func (d *Directory) Policy() Policy { return d.policy }

// Frontier returns the render frontier.
func (d *Directory) Frontier() *render.Frontier { return d.frontier }
