// Package markdown renders the help panel through glamour, caching output
// per content, width and style.
package markdown

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
)

const (
	// MinWidthForMarkdown is the narrowest width glamour is used for.
	// Narrower panels fall back to plain wrapping.
	MinWidthForMarkdown = 30

	// MaxCacheEntries bounds the render cache before it is reset.
	MaxCacheEntries = 32
)

// Renderer wraps glamour with a render cache.
type Renderer struct {
	mu        sync.Mutex
	renderer  *glamour.TermRenderer
	lastWidth int
	lastStyle string
	cache     map[uint64][]string
	logger    *slog.Logger
}

// NewRenderer creates a renderer. A nil logger uses slog.Default().
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		cache:  make(map[uint64][]string),
		logger: logger,
	}
}

// Render renders markdown content with the named glamour style to lines.
func (r *Renderer) Render(content, style string, width int) []string {
	if content == "" {
		return []string{}
	}
	if width < MinWidthForMarkdown {
		return WrapText(content, width)
	}

	key := cacheKey(content, style, width)

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[key]; ok {
		return cached
	}

	renderer, err := r.rendererFor(style, width)
	if err != nil {
		r.logger.Warn("glamour renderer", "style", style, "err", err)
		return WrapText(content, width)
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		r.logger.Warn("glamour render", "err", err)
		return WrapText(content, width)
	}

	lines := strings.Split(strings.TrimRight(rendered, "\n\r\t "), "\n")
	if len(r.cache) >= MaxCacheEntries {
		r.cache = make(map[uint64][]string)
	}
	r.cache[key] = lines
	return lines
}

// CacheLen reports the number of cached renders.
func (r *Renderer) CacheLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func cacheKey(content, style string, width int) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(content)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(style)
	_, _ = h.Write([]byte{byte(width >> 8), byte(width)})
	return h.Sum64()
}

// rendererFor returns a glamour renderer for style and width, replacing the
// cached one when either changed. Caller holds mu.
func (r *Renderer) rendererFor(style string, width int) (*glamour.TermRenderer, error) {
	if r.renderer != nil && r.lastWidth == width && r.lastStyle == style {
		return r.renderer, nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderer = renderer
	r.lastWidth = width
	r.lastStyle = style
	return renderer, nil
}

// WrapText wraps text on word boundaries to maxWidth display cells.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	if len(words) == 0 {
		return lines
	}
	current := words[0]
	for _, word := range words[1:] {
		if runewidth.StringWidth(current)+1+runewidth.StringWidth(word) <= maxWidth {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
