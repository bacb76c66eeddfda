package host

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wilbur182/viewcache/internal/component"
	"github.com/wilbur182/viewcache/internal/config"
	"github.com/wilbur182/viewcache/internal/features"
	"github.com/wilbur182/viewcache/internal/keymap"
	"github.com/wilbur182/viewcache/internal/markdown"
	"github.com/wilbur182/viewcache/internal/mouse"
	"github.com/wilbur182/viewcache/internal/render"
	"github.com/wilbur182/viewcache/internal/styles"
)

const statusDuration = 2 * time.Second

// RepaintMsg asks the model to paint every root with a pending request.
type RepaintMsg time.Time

// ReloadMsg carries a config reload from the file watcher.
type ReloadMsg config.Reload

// StatusMsg shows a transient line under the frame.
type StatusMsg struct {
	Text  string
	Error bool
}

// ModelOptions configures NewModel.
type ModelOptions struct {
	Config  *config.Config
	Keymap  *keymap.Registry
	Watcher *config.Watcher
	// PersistTheme saves the theme picked with the theme key. Nil skips it.
	PersistTheme func(name string) error
	// Copy writes text to the clipboard. Nil uses atotto/clipboard.
	Copy   func(text string) error
	Logger *slog.Logger
}

// Model is the interactive bubbletea front end for one mounted root.
type Model struct {
	host    *Host
	root    RootHandle
	cfg     *config.Config
	keys    *keymap.Registry
	mouse   *mouse.Handler
	painter *Painter
	help    help.Model
	md      *markdown.Renderer
	watcher *config.Watcher
	persist func(string) error
	copy    func(string) error
	logger  *slog.Logger

	frame        render.Frame
	canvas       Canvas
	frameQueued  bool
	showHelp     bool
	width        int
	status       string
	statusError  bool
	statusExpiry time.Time

	// restartNeeded is set once a reload changed engine settings, which
	// only take effect when the root is mounted again.
	restartNeeded bool
}

// NewModel creates the interactive model for root.
func NewModel(h *Host, root RootHandle, opts ModelOptions) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	keys := opts.Keymap
	if keys == nil {
		keys = keymap.NewRegistry(keymap.DefaultBindings())
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cp := opts.Copy
	if cp == nil {
		cp = clipboard.WriteAll
	}
	painter := NewPainter()
	painter.Highlight = features.IsEnabled(features.PaintStats.Name)
	return Model{
		host:     h,
		root:     root,
		cfg:      cfg,
		keys:     keys,
		mouse:    mouse.NewHandler(),
		painter:  painter,
		help:     help.New(),
		md:       markdown.NewRenderer(logger),
		watcher:  opts.Watcher,
		persist:  opts.PersistTheme,
		copy:     cp,
		logger:   logger,
		showHelp: cfg.UI.ShowHelp,
	}
}

// Init paints the first frame and starts listening for config reloads.
func (m Model) Init() tea.Cmd {
	first := func() tea.Msg { return RepaintMsg(time.Now()) }
	return tea.Batch(first, m.waitForReload())
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		cmd, ok := m.keys.Resolve(msg)
		if !ok {
			return m, nil
		}
		return m.runCommand(cmd)

	case tea.MouseMsg:
		action := m.mouse.Handle(msg)
		if action.Region == nil {
			return m, nil
		}
		in, ok := action.Region.Data.(component.Interaction)
		if !ok {
			return m, nil
		}
		switch action.Type {
		case mouse.ActionClick:
			return m.dispatch(in.Source, component.Click)
		case mouse.ActionHover:
			return m.dispatch(in.Source, component.Hover)
		}
		return m, nil

	case RepaintMsg:
		m.frameQueued = false
		m.paint()
		return m, m.scheduleFrame()

	case ReloadMsg:
		m.applyReload(config.Reload(msg))
		return m, tea.Batch(m.scheduleFrame(), m.waitForReload())

	case StatusMsg:
		m.setStatus(msg.Text, msg.Error)
		return m, nil
	}
	return m, nil
}

func (m Model) runCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	if id, ok := cmd.Target(); ok {
		return m.dispatch(id, component.Click)
	}
	switch cmd {
	case keymap.ToggleHelp:
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case keymap.NextTheme:
		name := styles.NextTheme(styles.GetCurrentTheme().Name)
		m.applyTheme(name, nil)
		m.setStatus("theme: "+name, false)
		return m, tea.Batch(m.scheduleFrame(), m.persistTheme(name))
	case keymap.CopyFrame:
		return m, m.copyFrame()
	case keymap.Quit:
		if m.watcher != nil {
			_ = m.watcher.Close()
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) dispatch(id component.ID, kind component.EventKind) (tea.Model, tea.Cmd) {
	if err := m.host.Dispatch(m.root, id, kind); err != nil {
		m.setStatus(err.Error(), true)
	}
	return m, m.scheduleFrame()
}

// scheduleFrame turns the host's pending repaint requests into one tick,
// so several interactions inside a frame interval share a paint.
func (m *Model) scheduleFrame() tea.Cmd {
	if m.frameQueued || !m.host.HasPending() {
		return nil
	}
	m.frameQueued = true
	interval := m.cfg.Host.FrameInterval
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return RepaintMsg(t)
	})
}

func (m *Model) paint() {
	for _, r := range m.host.TakePending() {
		frame, err := m.host.Paint(r)
		if err != nil {
			m.logger.Warn("paint failed", "root", uint64(r), "err", err)
			continue
		}
		if r == m.root {
			m.frame = frame
		}
	}
	m.relayout()
	m.logger.Debug("frame painted",
		"seq", m.frame.Seq,
		"rebuilt", m.frame.Rebuilt(),
		"reused", m.frame.Reused())
}

func (m *Model) relayout() {
	m.canvas = m.painter.Paint(m.frame, m.width)
	m.mouse.Clear()
	for _, r := range m.canvas.Regions {
		m.mouse.HitMap.Add(r.ID, r.Rect, r.Data)
	}
}

func (m *Model) applyTheme(name string, overrides map[string]string) {
	styles.ApplyThemeWithOverrides(name, overrides)
	m.painter.Reset()
	m.host.InvalidateAll()
}

func (m *Model) applyReload(r config.Reload) {
	if r.Err != nil {
		m.logger.Warn("config reload failed", "err", r.Err)
		m.setStatus("config: "+r.Err.Error(), true)
		return
	}
	engineChanged := r.Config.Engine != m.cfg.Engine
	if engineChanged {
		m.logger.Warn("engine settings change on restart",
			"strategy", r.Config.Engine.Strategy,
			"policy", r.Config.Engine.Policy)
		m.restartNeeded = true
	}
	m.cfg = r.Config
	if err := m.keys.ApplyOverrides(m.cfg.Keymap.Overrides); err != nil {
		m.logger.Warn("keymap override", "err", err)
	}
	m.showHelp = m.cfg.UI.ShowHelp
	m.help.ShowAll = m.showHelp
	m.applyTheme(m.cfg.UI.Theme.Name, m.cfg.UI.Theme.Overrides)
	if engineChanged {
		m.setStatus("config reloaded; engine.strategy and engine.policy apply after restart", false)
	} else {
		m.setStatus("config reloaded", false)
	}
}

func (m Model) waitForReload() tea.Cmd {
	w := m.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case r := <-w.Reloads():
			return ReloadMsg(r)
		case <-w.Done():
			return nil
		}
	}
}

func (m Model) persistTheme(name string) tea.Cmd {
	save := m.persist
	if save == nil {
		return nil
	}
	return func() tea.Msg {
		if err := save(name); err != nil {
			return StatusMsg{Text: "save theme: " + err.Error(), Error: true}
		}
		return nil
	}
}

func (m Model) copyFrame() tea.Cmd {
	text := m.frame.Root.PlainText()
	cp := m.copy
	return func() tea.Msg {
		if err := cp(text); err != nil {
			return StatusMsg{Text: "copy: " + err.Error(), Error: true}
		}
		return StatusMsg{Text: "frame copied"}
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusError = isErr
	m.statusExpiry = time.Now().Add(statusDuration)
}

// RestartNeeded reports whether a reload changed settings that only apply
// at startup.
func (m Model) RestartNeeded() bool { return m.restartNeeded }

// Frame returns the last painted frame.
func (m Model) Frame() render.Frame { return m.frame }

// View renders the frame, paint stats, status and help.
func (m Model) View() string {
	sections := []string{m.canvas.View}

	if m.cfg.UI.ShowStats && features.IsEnabled(features.PaintStats.Name) {
		sections = append(sections, m.statsLine())
	}
	if m.status != "" && time.Now().Before(m.statusExpiry) {
		style := styles.Muted
		if m.statusError {
			style = styles.ErrorText
		}
		sections = append(sections, style.Render(m.status))
	}
	if m.showHelp {
		sections = append(sections, m.helpPanel())
	} else {
		sections = append(sections, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) statsLine() string {
	var st render.Stats
	if dir, ok := m.host.Directory(m.root); ok {
		st = dir.Frontier().Stats()
	}
	return fmt.Sprintf("%s %s %s",
		styles.Title.Render(fmt.Sprintf("frame %d", m.frame.Seq)),
		styles.StatusRebuilt.Render("rebuilt "+joinOrDash(m.frame.Rebuilt())),
		styles.StatusReused.Render(fmt.Sprintf("reused %s  (%d rebuilds / %d reuses)",
			joinOrDash(m.frame.Reused()), st.Rebuilds, st.Reuses)))
}

func (m Model) helpPanel() string {
	var b strings.Builder
	b.WriteString("# Keys\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, kb := range group {
			if !kb.Enabled() {
				continue
			}
			fmt.Fprintf(&b, "- `%s` %s\n", kb.Help().Key, kb.Help().Desc)
		}
	}
	b.WriteString("\nClick a block to mutate the shared state. ")
	b.WriteString("Highlighted blocks were rebuilt on the last paint; the rest came from cache.\n")

	width := m.width
	if width <= 0 {
		width = 60
	}
	lines := m.md.Render(b.String(), styles.MarkdownTheme(), width-4)
	return styles.Help.Render(strings.Join(lines, "\n"))
}

func joinOrDash(keys []string) string {
	if len(keys) == 0 {
		return "-"
	}
	return strings.Join(keys, ",")
}
