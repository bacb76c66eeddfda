// Package keymap resolves key presses to host commands, with user overrides
// from config taking precedence over the defaults.
package keymap

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/viewcache/internal/component"
)

// Command identifies an action the host performs for a key.
type Command string

const (
	ClickHeader  Command = "click.header"
	ClickContent Command = "click.content"
	ClickFooter  Command = "click.footer"
	ToggleHelp   Command = "help"
	NextTheme    Command = "theme.next"
	CopyFrame    Command = "copy"
	Quit         Command = "quit"
)

var commandHelp = map[Command]string{
	ClickHeader:  "click header",
	ClickContent: "click content",
	ClickFooter:  "click footer",
	ToggleHelp:   "help",
	NextTheme:    "theme",
	CopyFrame:    "copy",
	Quit:         "quit",
}

// Commands returns every known command in display order.
func Commands() []Command {
	return []Command{ClickHeader, ClickContent, ClickFooter, ToggleHelp, NextTheme, CopyFrame, Quit}
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	_, ok := commandHelp[c]
	return ok
}

// Target returns the component a click command addresses.
func (c Command) Target() (component.ID, bool) {
	switch c {
	case ClickHeader:
		return component.Header, true
	case ClickContent:
		return component.Content, true
	case ClickFooter:
		return component.Footer, true
	}
	return 0, false
}

// Binding maps a key to a command.
type Binding struct {
	Key     string // e.g. "h", "ctrl+c"
	Command Command
}

// DefaultBindings returns the built-in key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		{"h", ClickHeader},
		{"1", ClickHeader},
		{"c", ClickContent},
		{"2", ClickContent},
		{"f", ClickFooter},
		{"3", ClickFooter},
		{"?", ToggleHelp},
		{"t", NextTheme},
		{"y", CopyFrame},
		{"q", Quit},
		{"ctrl+c", Quit},
	}
}

// Registry resolves keys to commands.
type Registry struct {
	mu            sync.RWMutex
	bindings      map[string]Command
	userOverrides map[string]Command
}

// NewRegistry creates a registry holding bindings.
func NewRegistry(bindings []Binding) *Registry {
	r := &Registry{
		bindings:      make(map[string]Command, len(bindings)),
		userOverrides: make(map[string]Command),
	}
	for _, b := range bindings {
		r.bindings[b.Key] = b.Command
	}
	return r
}

// SetUserOverride binds key to the command named id, replacing any default.
func (r *Registry) SetUserOverride(keyStr, id string) error {
	cmd := Command(id)
	if !cmd.Valid() {
		return fmt.Errorf("keymap: unknown command %q for key %q", id, keyStr)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userOverrides[keyStr] = cmd
	return nil
}

// ApplyOverrides installs every key → command pair from config, skipping
// unknown commands. It returns the first error seen.
func (r *Registry) ApplyOverrides(overrides map[string]string) error {
	var first error
	for k, id := range overrides {
		if err := r.SetUserOverride(k, id); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Resolve returns the command bound to msg.
func (r *Registry) Resolve(msg tea.KeyMsg) (Command, bool) {
	return r.Lookup(msg.String())
}

// Lookup returns the command bound to a key string.
func (r *Registry) Lookup(keyStr string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmd, ok := r.userOverrides[keyStr]; ok {
		return cmd, true
	}
	cmd, ok := r.bindings[keyStr]
	return cmd, ok
}

// KeysFor returns the sorted keys currently resolving to cmd.
func (r *Registry) KeysFor(cmd Command) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	effective := make(map[string]Command, len(r.bindings)+len(r.userOverrides))
	for k, c := range r.bindings {
		effective[k] = c
	}
	for k, c := range r.userOverrides {
		effective[k] = c
	}
	var keys []string
	for k, c := range effective {
		if c == cmd {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Binding returns a bubbles key.Binding for cmd, used by help.Model.
// Commands with no key are disabled so help skips them.
func (r *Registry) Binding(cmd Command) key.Binding {
	keys := r.KeysFor(cmd)
	b := key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), commandHelp[cmd]),
	)
	if len(keys) == 0 {
		b.SetEnabled(false)
	}
	return b
}

// ShortHelp implements help.KeyMap.
func (r *Registry) ShortHelp() []key.Binding {
	return []key.Binding{
		r.Binding(ClickHeader), r.Binding(ClickContent), r.Binding(ClickFooter),
		r.Binding(ToggleHelp), r.Binding(Quit),
	}
}

// FullHelp implements help.KeyMap.
func (r *Registry) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{r.Binding(ClickHeader), r.Binding(ClickContent), r.Binding(ClickFooter)},
		{r.Binding(ToggleHelp), r.Binding(NextTheme), r.Binding(CopyFrame), r.Binding(Quit)},
	}
}
