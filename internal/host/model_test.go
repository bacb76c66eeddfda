package host

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/wilbur182/viewcache/internal/config"
	"github.com/wilbur182/viewcache/internal/keymap"
	"github.com/wilbur182/viewcache/internal/state"
	"github.com/wilbur182/viewcache/internal/styles"
)

func newModel(t *testing.T, opts ModelOptions) Model {
	t.Helper()
	h, root := newHost(t, state.StrategyOwned)
	m := NewModel(h, root, opts)
	return step(t, m, RepaintMsg(time.Now()))
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelFirstFrame(t *testing.T) {
	m := newModel(t, ModelOptions{})
	if m.Frame().Seq != 1 {
		t.Fatalf("Seq = %d, want 1", m.Frame().Seq)
	}
	if !strings.Contains(m.View(), "click on me: author 0") {
		t.Errorf("view missing footer:\n%s", m.View())
	}
}

func TestModelKeyClickSchedulesFrame(t *testing.T) {
	m := newModel(t, ModelOptions{})

	next, cmd := m.Update(press("h"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("click should schedule a frame")
	}
	if m.Frame().Seq != 1 {
		t.Error("paint must wait for the frame tick")
	}

	// A second click inside the same interval shares the queued frame.
	next, cmd = m.Update(press("c"))
	m = next.(Model)
	if cmd != nil {
		t.Error("second click should not queue another frame")
	}

	m = step(t, m, RepaintMsg(time.Now()))
	if diff := cmp.Diff([]string{"content", "footer"}, m.Frame().Rebuilt()); diff != "" {
		t.Errorf("rebuilt mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"header"}, m.Frame().Reused()); diff != "" {
		t.Errorf("reused mismatch (-want +got):\n%s", diff)
	}
}

func TestModelMouseClick(t *testing.T) {
	m := newModel(t, ModelOptions{})
	m = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	// The footer is the third block; each block is three rows high.
	m = step(t, m, tea.MouseMsg{X: 2, Y: 7, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = step(t, m, RepaintMsg(time.Now()))

	part, _ := m.Frame().Part("header")
	if got := part.Node.PlainText(); got != "click on me: titlez 100" {
		t.Errorf("header = %q", got)
	}
}

func TestModelHoverIsIgnored(t *testing.T) {
	m := newModel(t, ModelOptions{})
	next, cmd := m.Update(tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionMotion})
	if cmd != nil {
		t.Error("hover should not schedule a frame")
	}
	if next.(Model).Frame().Seq != 1 {
		t.Error("hover should not paint")
	}
}

func TestModelThemeCycleRepaintsAll(t *testing.T) {
	defer styles.ApplyTheme("default")
	styles.ApplyTheme("default")

	var saved string
	m := newModel(t, ModelOptions{PersistTheme: func(name string) error {
		saved = name
		return nil
	}})

	next, cmd := m.Update(press("t"))
	m = next.(Model)
	if styles.GetCurrentTheme().Name != "dracula" {
		t.Errorf("theme = %q, want dracula", styles.GetCurrentTheme().Name)
	}
	if cmd == nil {
		t.Fatal("theme change should schedule work")
	}
	m = step(t, m, RepaintMsg(time.Now()))
	if len(m.Frame().Reused()) != 0 {
		t.Errorf("theme change should rebuild every block, reused %v", m.Frame().Reused())
	}

	// Run the persist command directly.
	if msg := m.persistTheme("dracula")(); msg != nil {
		t.Errorf("persist returned %v", msg)
	}
	if saved != "dracula" {
		t.Errorf("saved theme = %q", saved)
	}
}

func TestModelCopyFrame(t *testing.T) {
	var copied string
	m := newModel(t, ModelOptions{Copy: func(s string) error {
		copied = s
		return nil
	}})

	_, cmd := m.Update(press("y"))
	if cmd == nil {
		t.Fatal("copy should return a command")
	}
	msg := cmd()
	if st, ok := msg.(StatusMsg); !ok || st.Error {
		t.Errorf("copy status = %+v", msg)
	}
	want := "click on me: title 0\nclick on me: description 0\nclick on me: author 0"
	if copied != want {
		t.Errorf("copied %q", copied)
	}
}

func TestModelReloadAppliesConfig(t *testing.T) {
	defer styles.ApplyTheme("default")

	km := keymap.NewRegistry(keymap.DefaultBindings())
	m := newModel(t, ModelOptions{Keymap: km})

	cfg := config.Default()
	cfg.UI.Theme.Name = "nord"
	cfg.UI.ShowHelp = false
	cfg.Keymap.Overrides["x"] = string(keymap.ClickFooter)
	m = step(t, m, ReloadMsg{Config: cfg})

	if styles.GetCurrentTheme().Name != "nord" {
		t.Errorf("theme = %q, want nord", styles.GetCurrentTheme().Name)
	}
	if got, _ := km.Lookup("x"); got != keymap.ClickFooter {
		t.Error("keymap overrides should be applied on reload")
	}
	if m.showHelp {
		t.Error("showHelp should follow config")
	}
}

func TestModelReloadFlagsEngineChange(t *testing.T) {
	defer styles.ApplyTheme("default")

	m := newModel(t, ModelOptions{})
	same := config.Default()
	m = step(t, m, ReloadMsg{Config: same})
	if m.RestartNeeded() {
		t.Fatal("unchanged engine settings should not need a restart")
	}

	changed := config.Default()
	changed.Engine.Strategy = "arena"
	changed.Engine.Policy = "graph"
	m = step(t, m, ReloadMsg{Config: changed})
	if !m.RestartNeeded() {
		t.Error("engine change should be flagged for restart")
	}
	if !strings.Contains(m.status, "restart") {
		t.Errorf("status = %q, want restart notice", m.status)
	}

	// The mounted root keeps running with its original strategy.
	dir, _ := m.host.Directory(m.root)
	if dir.Access().Strategy() != state.StrategyOwned {
		t.Errorf("strategy = %s, want owned", dir.Access().Strategy())
	}
}

func TestModelQuit(t *testing.T) {
	m := newModel(t, ModelOptions{})
	_, cmd := m.Update(press("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit should return tea.Quit")
	}
}
