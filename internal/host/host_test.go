package host

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wilbur182/viewcache/internal/component"
	"github.com/wilbur182/viewcache/internal/config"
	"github.com/wilbur182/viewcache/internal/directory"
	"github.com/wilbur182/viewcache/internal/errors"
	"github.com/wilbur182/viewcache/internal/state"
)

type recordingHandler struct {
	errs []*errors.Error
}

func (h *recordingHandler) HandleError(err *errors.Error)      { h.errs = append(h.errs, err) }
func (h *recordingHandler) HandlePanic(err *errors.PanicError) {}

func recordErrors(t *testing.T) *recordingHandler {
	t.Helper()
	h := &recordingHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

func newHost(t *testing.T, s state.Strategy) (*Host, RootHandle) {
	t.Helper()
	h := New(Options{
		Containers: []string{config.DefaultContainer},
		Strategy:   s,
		Policy:     directory.PolicyDiff,
	})
	root, err := h.Mount(config.DefaultContainer)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return h, root
}

func TestMountUnknownContainer(t *testing.T) {
	h := New(Options{Containers: []string{"main"}})
	_, err := h.Mount("div_for_virtual_dom")
	if !errors.Is(err, errors.ErrContainerNotFound) {
		t.Fatalf("err = %v, want ErrContainerNotFound", err)
	}
	if errors.KindOf(err) != errors.KindConfig {
		t.Errorf("kind = %s, want config", errors.KindOf(err))
	}
	if len(h.Roots()) != 0 {
		t.Error("failed mount should not register a root")
	}
}

func TestMountRequestsFirstFrame(t *testing.T) {
	h, root := newHost(t, state.StrategyOwned)
	if diff := cmp.Diff([]RootHandle{root}, h.TakePending()); diff != "" {
		t.Errorf("pending mismatch (-want +got):\n%s", diff)
	}
	if h.HasPending() {
		t.Error("TakePending should drain requests")
	}
	frame, err := h.Paint(root)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"header", "content", "footer"}, frame.Rebuilt()); diff != "" {
		t.Errorf("first frame should build everything (-want +got):\n%s", diff)
	}
}

func TestDispatchUnknownRoot(t *testing.T) {
	rec := recordErrors(t)
	h, root := newHost(t, state.StrategyOwned)

	err := h.Dispatch(root+1, component.Header, component.Click)
	if !errors.Is(err, errors.ErrUnknownRoot) {
		t.Fatalf("err = %v, want ErrUnknownRoot", err)
	}
	if errors.KindOf(err) != errors.KindDispatch {
		t.Errorf("kind = %s, want dispatch", errors.KindOf(err))
	}
	if len(rec.errs) != 1 {
		t.Errorf("reported %d errors, want 1", len(rec.errs))
	}

	// The host keeps working after a rejected event.
	if err := h.Dispatch(root, component.Header, component.Click); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
}

func TestDispatchUnknownComponent(t *testing.T) {
	recordErrors(t)
	h, root := newHost(t, state.StrategyOwned)
	h.TakePending()

	err := h.Dispatch(root, component.ID(7), component.Click)
	if !errors.Is(err, errors.ErrUnknownComponent) {
		t.Fatalf("err = %v, want ErrUnknownComponent", err)
	}
	if h.HasPending() {
		t.Error("rejected event must not request a repaint")
	}
	dir, _ := h.Directory(root)
	if dir.State() != state.New() {
		t.Error("rejected event must not mutate state")
	}
}

func TestDispatchReturnsRecoveredPanic(t *testing.T) {
	recordErrors(t)
	prev := errors.AssertionsEnabled()
	errors.SetAssertions(false)
	t.Cleanup(func() { errors.SetAssertions(prev) })

	h := New(Options{Containers: []string{"a"}})
	// A root without a directory makes the engine dereference nil.
	h.roots[99] = &mounted{container: "a"}

	err := h.Dispatch(99, component.Header, component.Click)
	if err == nil {
		t.Fatal("recovered panic should be returned")
	}
	if errors.KindOf(err) != errors.KindPanic {
		t.Errorf("kind = %s, want panic", errors.KindOf(err))
	}
}

func TestRepaintRequestsCoalesce(t *testing.T) {
	h, root := newHost(t, state.StrategyShared)
	h.TakePending()

	for i := 0; i < 3; i++ {
		if err := h.Dispatch(root, component.Header, component.Click); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]RootHandle{root}, h.TakePending()); diff != "" {
		t.Errorf("pending mismatch (-want +got):\n%s", diff)
	}
	frame, _ := h.Paint(root)
	part, _ := frame.Part("content")
	if got := part.Node.PlainText(); got != "click on me: descriptionxxx 300" {
		t.Errorf("content = %q", got)
	}
}

func TestHoverDoesNotRepaint(t *testing.T) {
	h, root := newHost(t, state.StrategyFunctional)
	h.TakePending()
	if err := h.Dispatch(root, component.Footer, component.Hover); err != nil {
		t.Fatal(err)
	}
	if h.HasPending() {
		t.Error("hover must not request a repaint")
	}
}

func TestInjectedSeedIsShared(t *testing.T) {
	seed := state.New()
	h := New(Options{
		Containers: []string{"a"},
		Strategy:   state.StrategyInjected,
		Seed:       &seed,
	})
	root, err := h.Mount("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Dispatch(root, component.Footer, component.Click); err != nil {
		t.Fatal(err)
	}
	if seed.Title != "titlez" || seed.Counter1 != 100 {
		t.Errorf("host-owned state not written through: %+v", seed)
	}
}

func TestUnmount(t *testing.T) {
	recordErrors(t)
	h, root := newHost(t, state.StrategyArena)
	if err := h.Unmount(root); err != nil {
		t.Fatal(err)
	}
	if h.HasPending() {
		t.Error("unmount should drop pending requests")
	}
	if _, err := h.Paint(root); !errors.Is(err, errors.ErrUnknownRoot) {
		t.Errorf("Paint after Unmount: err = %v", err)
	}
	if err := h.Unmount(root); !errors.Is(err, errors.ErrUnknownRoot) {
		t.Errorf("second Unmount: err = %v", err)
	}
}

func TestRootsAreIndependent(t *testing.T) {
	h := New(Options{Containers: []string{"a", "b"}})
	ra, _ := h.Mount("a")
	rb, _ := h.Mount("b")
	h.TakePending()

	if err := h.Dispatch(ra, component.Header, component.Click); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]RootHandle{ra}, h.TakePending()); diff != "" {
		t.Errorf("pending mismatch (-want +got):\n%s", diff)
	}
	db, _ := h.Directory(rb)
	if db.State() != state.New() {
		t.Error("each root must own its state")
	}
	if c, _ := h.Container(rb); c != "b" {
		t.Errorf("Container(rb) = %q", c)
	}
}

func TestInvalidateAllRepaintsEverything(t *testing.T) {
	h, root := newHost(t, state.StrategyOwned)
	h.TakePending()
	h.Paint(root)

	h.InvalidateAll()
	if !h.HasPending() {
		t.Fatal("InvalidateAll should request a repaint")
	}
	frame, _ := h.Paint(root)
	if len(frame.Reused()) != 0 {
		t.Errorf("reused %v after InvalidateAll", frame.Reused())
	}
}
