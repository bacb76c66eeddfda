package host

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wilbur182/viewcache/internal/component"
)

// Step is one scripted interaction.
type Step struct {
	Click string `yaml:"click,omitempty"`
	Hover string `yaml:"hover,omitempty"`
}

// Script is a sequence of interactions replayed without a terminal.
type Script struct {
	Steps []Step `yaml:"steps"`
}

func (s Step) event() (component.ID, component.EventKind, error) {
	switch {
	case s.Click != "" && s.Hover != "":
		return 0, 0, fmt.Errorf("step sets both click %q and hover %q", s.Click, s.Hover)
	case s.Click != "":
		id, err := component.ParseID(s.Click)
		return id, component.Click, err
	case s.Hover != "":
		id, err := component.ParseID(s.Hover)
		return id, component.Hover, err
	}
	return 0, 0, fmt.Errorf("empty step")
}

// ParseScript reads a comma-separated list of components to click, such as
// "header,content". An empty list yields an empty script.
func ParseScript(list string) (Script, error) {
	var s Script
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := component.ParseID(name); err != nil {
			return Script{}, err
		}
		s.Steps = append(s.Steps, Step{Click: name})
	}
	return s, nil
}

// LoadScript reads a YAML script file with a top-level steps list.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("parse script %s: %w", path, err)
	}
	for i, st := range s.Steps {
		if _, _, err := st.event(); err != nil {
			return Script{}, fmt.Errorf("script %s step %d: %w", path, i+1, err)
		}
	}
	return s, nil
}

// ResolveScript treats arg as a YAML file when it names one, and as a
// comma-separated click list otherwise.
func ResolveScript(arg string) (Script, error) {
	if strings.HasSuffix(arg, ".yaml") || strings.HasSuffix(arg, ".yml") {
		return LoadScript(arg)
	}
	return ParseScript(arg)
}

// RunHeadless paints root, replays script against it, and writes every
// frame with its rebuilt and reused parts to w. Each step is followed by a
// paint if the step requested one, matching one interaction per frame.
func RunHeadless(w io.Writer, h *Host, root RootHandle, script Script) error {
	if err := flushFrames(w, h, root, "mount"); err != nil {
		return err
	}
	for _, st := range script.Steps {
		id, kind, err := st.event()
		if err != nil {
			return err
		}
		if err := h.Dispatch(root, id, kind); err != nil {
			return err
		}
		label := kind.String() + " " + id.String()
		if !h.HasPending() {
			fmt.Fprintf(w, "%s: no repaint\n", label)
			continue
		}
		if err := flushFrames(w, h, root, label); err != nil {
			return err
		}
	}
	return nil
}

func flushFrames(w io.Writer, h *Host, root RootHandle, label string) error {
	for _, r := range h.TakePending() {
		frame, err := h.Paint(r)
		if err != nil {
			return err
		}
		if r != root {
			continue
		}
		fmt.Fprintf(w, "frame %d (%s) rebuilt=%s reused=%s\n",
			frame.Seq, label, joinOrDash(frame.Rebuilt()), joinOrDash(frame.Reused()))
		for _, line := range strings.Split(frame.Root.PlainText(), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	return nil
}
