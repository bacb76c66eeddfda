package directory

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wilbur182/viewcache/internal/component"
	"github.com/wilbur182/viewcache/internal/errors"
	"github.com/wilbur182/viewcache/internal/state"
)

func newDirectory(t *testing.T, s state.Strategy, opts ...Option) *Directory {
	t.Helper()
	seed := state.New()
	acc, err := state.NewAccess(s, &seed)
	if err != nil {
		t.Fatalf("NewAccess(%s): %v", s, err)
	}
	return New(acc, opts...)
}

func texts(d *Directory) map[component.ID]string {
	out := make(map[component.ID]string)
	for _, c := range d.Caches() {
		out[c.ID()] = c.Text()
	}
	return out
}

// forEachBackend runs fn for every strategy and policy combination.
func forEachBackend(t *testing.T, fn func(t *testing.T, d *Directory)) {
	for _, s := range state.Strategies() {
		for _, p := range Policies() {
			t.Run(s.String()+"/"+p.String(), func(t *testing.T) {
				fn(t, newDirectory(t, s, WithPolicy(p)))
			})
		}
	}
}

func TestInitialPaint(t *testing.T) {
	d := newDirectory(t, state.StrategyOwned)
	frame := d.Paint()
	want := "click on me: title 0\nclick on me: description 0\nclick on me: author 0"
	if got := frame.Root.PlainText(); got != want {
		t.Errorf("initial paint = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"header", "content", "footer"}, frame.Rebuilt()); diff != "" {
		t.Errorf("first paint must build every child (-want +got):\n%s", diff)
	}
}

func TestHeaderScenario(t *testing.T) {
	forEachBackend(t, func(t *testing.T, d *Directory) {
		d.Paint()

		res, err := d.HandleInteraction(component.Header)
		if err != nil {
			t.Fatal(err)
		}

		wantState := state.AppData{
			Title: "title", Description: "descriptionx", Author: "author",
			Counter1: 0, Counter2: 100, Counter3: 0,
		}
		if diff := cmp.Diff(wantState, d.State()); diff != "" {
			t.Errorf("state mismatch (-want +got):\n%s", diff)
		}
		wantText := map[component.ID]string{
			component.Header:  "click on me: title 0",
			component.Content: "click on me: descriptionx 100",
			component.Footer:  "click on me: author 0",
		}
		if diff := cmp.Diff(wantText, texts(d)); diff != "" {
			t.Errorf("texts mismatch (-want +got):\n%s", diff)
		}

		// Content changed nothing of its own, yet must be invalidated.
		if diff := cmp.Diff([]component.ID{component.Content}, res.Invalidated); diff != "" {
			t.Errorf("invalidated (-want +got):\n%s", diff)
		}
		if !d.Frontier().Pending() {
			t.Error("a repaint should be pending")
		}

		frame := d.Paint()
		if diff := cmp.Diff([]string{"content"}, frame.Rebuilt()); diff != "" {
			t.Errorf("rebuilt (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"header", "footer"}, frame.Reused()); diff != "" {
			t.Errorf("reused (-want +got):\n%s", diff)
		}
		p, _ := frame.Part("content")
		if got := p.Node.PlainText(); got != "click on me: descriptionx 100" {
			t.Errorf("painted content = %q", got)
		}
	})
}

func TestChainedContentScenario(t *testing.T) {
	forEachBackend(t, func(t *testing.T, d *Directory) {
		d.Paint()
		if _, err := d.HandleInteraction(component.Header); err != nil {
			t.Fatal(err)
		}
		d.Paint()

		res, err := d.HandleInteraction(component.Content)
		if err != nil {
			t.Fatal(err)
		}
		got := d.State()
		if got.Description != "descriptionx" || got.Author != "authory" || got.Counter3 != 10 {
			t.Errorf("unexpected state %+v", got)
		}
		if diff := cmp.Diff([]component.ID{component.Footer}, res.Invalidated); diff != "" {
			t.Errorf("invalidated (-want +got):\n%s", diff)
		}
		frame := d.Paint()
		p, _ := frame.Part("footer")
		if text := p.Node.PlainText(); text != "click on me: authory 10" {
			t.Errorf("footer = %q", text)
		}
		if diff := cmp.Diff([]string{"footer"}, frame.Rebuilt()); diff != "" {
			t.Errorf("rebuilt (-want +got):\n%s", diff)
		}
	})
}

func TestFooterScenario(t *testing.T) {
	forEachBackend(t, func(t *testing.T, d *Directory) {
		res, err := d.HandleInteraction(component.Footer)
		if err != nil {
			t.Fatal(err)
		}
		if got := texts(d)[component.Header]; got != "click on me: titlez 100" {
			t.Errorf("header = %q", got)
		}
		if diff := cmp.Diff([]component.ID{component.Header}, res.Invalidated); diff != "" {
			t.Errorf("invalidated (-want +got):\n%s", diff)
		}
	})
}

func TestPoliciesAgree(t *testing.T) {
	script := []component.ID{
		component.Header, component.Footer, component.Content,
		component.Content, component.Header, component.Footer,
	}
	for _, s := range state.Strategies() {
		diff := newDirectory(t, s, WithPolicy(PolicyDiff))
		graph := newDirectory(t, s, WithPolicy(PolicyGraph))
		for i, id := range script {
			a, err := diff.HandleInteraction(id)
			if err != nil {
				t.Fatal(err)
			}
			b, err := graph.HandleInteraction(id)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(a.Invalidated, b.Invalidated); d != "" {
				t.Errorf("%s step %d (%s): invalidation sets differ (-diff +graph):\n%s", s, i, id, d)
			}
			if len(b.Reconciled) > len(a.Reconciled) {
				t.Errorf("%s step %d: graph reconciled more than diff", s, i)
			}
			if d := cmp.Diff(diff.Paint().Root, graph.Paint().Root); d != "" {
				t.Errorf("%s step %d: paints differ:\n%s", s, i, d)
			}
		}
	}
}

func TestGraphPolicyReconcilesDependentsOnly(t *testing.T) {
	d := newDirectory(t, state.StrategyOwned, WithPolicy(PolicyGraph))
	res, err := d.HandleInteraction(component.Header)
	if err != nil {
		t.Fatal(err)
	}
	// Header touches description and counter2, both displayed by content.
	if diff := cmp.Diff([]component.ID{component.Content}, res.Reconciled); diff != "" {
		t.Errorf("reconciled (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]state.Field{state.FieldDescription, state.FieldCounter2}, res.Touched); diff != "" {
		t.Errorf("touched (-want +got):\n%s", diff)
	}
}

func TestUnknownSourceRejected(t *testing.T) {
	d := newDirectory(t, state.StrategyOwned)
	d.Paint()
	before := d.State()

	_, err := d.HandleInteraction(component.ID(7))
	if !errors.Is(err, errors.ErrUnknownComponent) {
		t.Fatalf("err = %v, want ErrUnknownComponent", err)
	}
	if errors.KindOf(err) != errors.KindDispatch {
		t.Errorf("kind = %v, want dispatch", errors.KindOf(err))
	}
	if d.State() != before {
		t.Error("rejected interaction must not mutate state")
	}
	if d.Frontier().Pending() {
		t.Error("rejected interaction must not request a repaint")
	}
}

func TestHoverDoesNotMutate(t *testing.T) {
	d := newDirectory(t, state.StrategyOwned)
	res, err := d.Dispatch(component.Interaction{Source: component.Header, Kind: component.Hover})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Invalidated) != 0 || d.State() != state.New() {
		t.Errorf("hover mutated: %+v", res)
	}
	res, err = d.Dispatch(component.Interaction{Source: component.Header, Kind: component.Click})
	if err != nil || len(res.Invalidated) != 1 {
		t.Errorf("click dispatch = %+v, %v", res, err)
	}
}

func TestRepaintRequestedThroughFrontierHook(t *testing.T) {
	d := newDirectory(t, state.StrategyShared)
	requests := 0
	d.Frontier().OnNeedsFrame = func() { requests++ }

	d.HandleInteraction(component.Header)
	d.HandleInteraction(component.Footer)
	if requests != 1 {
		t.Errorf("requests before paint = %d, want 1", requests)
	}
	d.Paint()
	d.HandleInteraction(component.Content)
	if requests != 2 {
		t.Errorf("requests after paint = %d, want 2", requests)
	}
}

func TestRefreshPicksUpHostWrites(t *testing.T) {
	host := state.New()
	acc, err := state.NewAccess(state.StrategyInjected, &host)
	if err != nil {
		t.Fatal(err)
	}
	d := New(acc)
	d.Paint()

	host.Author = "someone else"
	got := d.Refresh()
	if diff := cmp.Diff([]component.ID{component.Footer}, got); diff != "" {
		t.Errorf("refresh invalidated (-want +got):\n%s", diff)
	}
	if !d.Frontier().Pending() {
		t.Error("refresh should request a repaint")
	}
	if d.Refresh() != nil {
		t.Error("second refresh should find nothing")
	}
}

func TestInvalidateAll(t *testing.T) {
	d := newDirectory(t, state.StrategyOwned)
	d.Paint()
	d.InvalidateAll()
	frame := d.Paint()
	if len(frame.Rebuilt()) != 3 {
		t.Errorf("rebuilt = %v, want all", frame.Rebuilt())
	}
}

func TestDependents(t *testing.T) {
	d := newDirectory(t, state.StrategyOwned)
	want := map[state.Field]component.ID{
		state.FieldTitle:       component.Header,
		state.FieldCounter1:    component.Header,
		state.FieldDescription: component.Content,
		state.FieldCounter2:    component.Content,
		state.FieldAuthor:      component.Footer,
		state.FieldCounter3:    component.Footer,
	}
	for f, id := range want {
		if diff := cmp.Diff([]component.ID{id}, d.Dependents(f)); diff != "" {
			t.Errorf("Dependents(%s) (-want +got):\n%s", f, diff)
		}
	}
}

type recorder struct{ errs []*errors.Error }

func (r *recorder) HandleError(err *errors.Error)      { r.errs = append(r.errs, err) }
func (r *recorder) HandlePanic(err *errors.PanicError) {}

func TestMisconfiguredRuleIsInvariant(t *testing.T) {
	rec := &recorder{}
	errors.SetHandler(rec)
	prev := errors.AssertionsEnabled()
	errors.SetAssertions(false)
	t.Cleanup(func() {
		errors.SetHandler(nil)
		errors.SetAssertions(prev)
	})

	bad := []Rule{{
		Source:  component.Header,
		Append:  state.AppendText{Field: state.FieldDescription, Suffix: "x"},
		Owner:   component.Footer,
		Counter: state.FieldCounter2,
	}}
	d := newDirectory(t, state.StrategyOwned, WithRules(bad))

	if len(rec.errs) != 1 || !errors.Is(rec.errs[0], errors.ErrNotOwner) {
		t.Fatalf("expected one ErrNotOwner report, got %v", rec.errs)
	}
	if _, err := d.HandleInteraction(component.Header); !errors.Is(err, errors.ErrUnknownComponent) {
		t.Errorf("dropped rule should leave header unhandled, err=%v", err)
	}
}

func TestRuleWithUnknownSourceIsDropped(t *testing.T) {
	rec := &recorder{}
	errors.SetHandler(rec)
	prev := errors.AssertionsEnabled()
	errors.SetAssertions(false)
	t.Cleanup(func() {
		errors.SetHandler(nil)
		errors.SetAssertions(prev)
	})

	stray := component.ID(7)
	rules := append(append([]Rule(nil), Canonical...), Rule{
		Source:  stray,
		Append:  state.AppendText{Field: state.FieldTitle, Suffix: "!"},
		Owner:   component.Footer,
		Counter: state.FieldCounter1,
	})
	d := newDirectory(t, state.StrategyOwned, WithRules(rules))

	if len(rec.errs) != 1 || !errors.Is(rec.errs[0], errors.ErrUnknownComponent) {
		t.Fatalf("expected one ErrUnknownComponent report, got %v", rec.errs)
	}
	if _, err := d.HandleInteraction(stray); !errors.Is(err, errors.ErrUnknownComponent) {
		t.Errorf("HandleInteraction(%s) err = %v, want ErrUnknownComponent", stray, err)
	}
	if d.State() != state.New() {
		t.Errorf("rejected source mutated state: %+v", d.State())
	}
	if _, err := d.HandleInteraction(component.Header); err != nil {
		t.Errorf("canonical rules should survive: %v", err)
	}
}

func TestLogsInteractions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := newDirectory(t, state.StrategyArena, WithLogger(logger))
	d.HandleInteraction(component.Content)
	out := buf.String()
	if !strings.Contains(out, "interaction handled") || !strings.Contains(out, "source=content") {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range Policies() {
		got, err := ParsePolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePolicy(%q) = %v, %v", p, got, err)
		}
	}
	if got, _ := ParsePolicy(""); got != PolicyDiff {
		t.Error("empty policy should default to diff")
	}
	if _, err := ParsePolicy("lazy"); err == nil {
		t.Error("expected error")
	}
}
