// Package host is the boundary between the engine and a terminal: it mounts
// roots into named containers, routes events to them, and collects their
// repaint requests so a frame loop can service them later.
package host

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/wilbur182/viewcache/internal/component"
	"github.com/wilbur182/viewcache/internal/directory"
	"github.com/wilbur182/viewcache/internal/errors"
	"github.com/wilbur182/viewcache/internal/render"
	"github.com/wilbur182/viewcache/internal/state"
)

// RootHandle identifies a mounted root. The zero value is never issued.
type RootHandle uint64

// Options configures a Host.
type Options struct {
	// Containers are the container IDs the host can mount into.
	Containers []string
	// Strategy selects how each root holds its state.
	Strategy state.Strategy
	// Policy selects how each root picks caches to reconcile.
	Policy directory.Policy
	// Seed, when set, is the state injected into roots mounted with
	// StrategyInjected. Other strategies copy it. Nil means state.New().
	Seed *state.AppData
	// Rules replaces directory.Canonical when non-nil.
	Rules []directory.Rule
	Logger *slog.Logger
}

type mounted struct {
	container string
	dir       *directory.Directory
}

// Host owns mounted roots. It is driven from a single goroutine.
type Host struct {
	opts       Options
	containers map[string]bool
	roots      map[RootHandle]*mounted
	next       RootHandle
	pending    []RootHandle
	logger     *slog.Logger
}

// New creates a host offering opts.Containers.
func New(opts Options) *Host {
	h := &Host{
		opts:       opts,
		containers: make(map[string]bool, len(opts.Containers)),
		roots:      make(map[RootHandle]*mounted),
		logger:     opts.Logger,
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	for _, c := range opts.Containers {
		h.containers[c] = true
	}
	return h
}

// Mount builds a root with its own state and caches inside container.
// An unknown container fails with ErrContainerNotFound.
func (h *Host) Mount(container string) (RootHandle, error) {
	const op = "host.Mount"
	if !h.containers[container] {
		return 0, errors.New(op, errors.KindConfig,
			fmt.Errorf("%w: %q", errors.ErrContainerNotFound, container))
	}

	seed := h.opts.Seed
	if seed == nil || h.opts.Strategy != state.StrategyInjected {
		initial := state.New()
		if seed != nil {
			initial = *seed
		}
		seed = &initial
	}
	acc, err := state.NewAccess(h.opts.Strategy, seed)
	if err != nil {
		return 0, errors.New(op, errors.KindConfig, err)
	}

	h.next++
	handle := h.next
	frontier := render.NewFrontier()
	frontier.OnNeedsFrame = func() { h.requestFrame(handle) }

	opts := []directory.Option{
		directory.WithPolicy(h.opts.Policy),
		directory.WithFrontier(frontier),
		directory.WithLogger(h.logger.With("root", uint64(handle))),
	}
	if h.opts.Rules != nil {
		opts = append(opts, directory.WithRules(h.opts.Rules))
	}
	h.roots[handle] = &mounted{
		container: container,
		dir:       directory.New(acc, opts...),
	}
	h.logger.Info("root mounted",
		"root", uint64(handle),
		"container", container,
		"strategy", h.opts.Strategy,
		"policy", h.opts.Policy)

	// A fresh root has never been painted.
	frontier.ScheduleRepaint()
	return handle, nil
}

// Unmount removes root and drops any repaint it had pending.
func (h *Host) Unmount(root RootHandle) error {
	if _, ok := h.roots[root]; !ok {
		return h.unknownRoot("host.Unmount", root)
	}
	delete(h.roots, root)
	h.pending = slices.DeleteFunc(h.pending, func(r RootHandle) bool { return r == root })
	return nil
}

// Dispatch delivers an event from component id inside root. An unknown root
// or component is reported and returned; the host keeps running.
// With assertions off a panic inside the engine is recovered and returned
// as a KindPanic error.
func (h *Host) Dispatch(root RootHandle, id component.ID, kind component.EventKind) (err error) {
	const op = "host.Dispatch"
	if !errors.AssertionsEnabled() {
		defer errors.RecoverTo(op, &err)
	}
	m, ok := h.roots[root]
	if !ok {
		return h.unknownRoot(op, root)
	}
	if _, err := m.dir.Dispatch(component.Interaction{Source: id, Kind: kind}); err != nil {
		e := errors.New(op, errors.KindDispatch, err)
		errors.Report(e)
		return e
	}
	return nil
}

// Paint paints root, clearing its repaint request.
func (h *Host) Paint(root RootHandle) (render.Frame, error) {
	m, ok := h.roots[root]
	if !ok {
		return render.Frame{}, h.unknownRoot("host.Paint", root)
	}
	h.pending = slices.DeleteFunc(h.pending, func(r RootHandle) bool { return r == root })
	return m.dir.Paint(), nil
}

// TakePending returns the roots that requested a repaint since the last
// call, in request order, and forgets them.
func (h *Host) TakePending() []RootHandle {
	p := h.pending
	h.pending = nil
	return p
}

// HasPending reports whether any root awaits a repaint.
func (h *Host) HasPending() bool {
	return len(h.pending) > 0
}

// Directory returns the root component of root.
func (h *Host) Directory(root RootHandle) (*directory.Directory, bool) {
	m, ok := h.roots[root]
	if !ok {
		return nil, false
	}
	return m.dir, true
}

// Container returns the container root is mounted in.
func (h *Host) Container(root RootHandle) (string, bool) {
	m, ok := h.roots[root]
	if !ok {
		return "", false
	}
	return m.container, true
}

// Roots returns every mounted root in mount order.
func (h *Host) Roots() []RootHandle {
	out := make([]RootHandle, 0, len(h.roots))
	for r := range h.roots {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// InvalidateAll drops every memo of every root, as after a theme change.
func (h *Host) InvalidateAll() {
	for _, r := range h.Roots() {
		h.roots[r].dir.InvalidateAll()
	}
}

func (h *Host) requestFrame(root RootHandle) {
	if slices.Contains(h.pending, root) {
		return
	}
	h.pending = append(h.pending, root)
}

func (h *Host) unknownRoot(op string, root RootHandle) error {
	e := errors.New(op, errors.KindDispatch, fmt.Errorf("%w: %d", errors.ErrUnknownRoot, root))
	errors.Report(e)
	return e
}
