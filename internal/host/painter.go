package host

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/wilbur182/viewcache/internal/component"
	"github.com/wilbur182/viewcache/internal/mouse"
	"github.com/wilbur182/viewcache/internal/render"
	"github.com/wilbur182/viewcache/internal/styles"
)

const (
	// minBlockWidth keeps blocks readable on very narrow terminals.
	minBlockWidth = 12

	// maxBlockCache bounds the block cache before it is reset.
	maxBlockCache = 64
)

// Canvas is a painted frame ready for the terminal.
type Canvas struct {
	View    string
	Regions []mouse.Region
	Height  int
}

// Painter turns frames into styled text. Blocks are cached by node hash,
// so a reused part costs a map lookup.
type Painter struct {
	cache map[uint64]string
	// Highlight frames rebuilt parts with the active border color.
	Highlight bool
}

// NewPainter creates a painter with an empty block cache.
func NewPainter() *Painter {
	return &Painter{cache: make(map[uint64]string)}
}

// Reset drops cached blocks, as after a theme change.
func (p *Painter) Reset() {
	clear(p.cache)
}

// CacheLen reports how many blocks are cached.
func (p *Painter) CacheLen() int {
	return len(p.cache)
}

// Paint lays the frame's parts out top to bottom within width cells and
// records one hit region per clickable part. The region's Data is the
// part's component.Interaction.
func (p *Painter) Paint(frame render.Frame, width int) Canvas {
	var (
		blocks []string
		canvas Canvas
	)
	for _, part := range frame.Parts {
		block := p.block(part, width)
		h := lipgloss.Height(block)
		if ev, ok := part.Node.Clickable(); ok {
			if in, ok := ev.(component.Interaction); ok {
				canvas.Regions = append(canvas.Regions, mouse.Region{
					ID:   part.Key,
					Rect: mouse.Rect{X: 0, Y: canvas.Height, W: lipgloss.Width(block), H: h},
					Data: in,
				})
			}
		}
		blocks = append(blocks, block)
		canvas.Height += h
	}
	canvas.View = lipgloss.JoinVertical(lipgloss.Left, blocks...)
	return canvas
}

func (p *Painter) block(part render.Part, width int) string {
	highlight := p.Highlight && part.Rebuilt
	key := blockKey(part.Node, width, highlight)
	if s, ok := p.cache[key]; ok {
		return s
	}

	text := strings.ReplaceAll(part.Node.PlainText(), "\n", " ")
	// Border and padding take two cells each side.
	inner := runewidth.StringWidth(text)
	if width > 0 {
		inner = min(inner, max(width-4, minBlockWidth))
	}
	text = ansi.Truncate(text, inner, "…")

	style := styles.Block
	if highlight {
		style = styles.BlockRebuilt
	}
	s := style.Width(inner + 2).Render(styles.Heading.Render(text))
	if len(p.cache) >= maxBlockCache {
		clear(p.cache)
	}
	p.cache[key] = s
	return s
}

func blockKey(n render.Node, width int, highlight bool) uint64 {
	h := xxhash.New()
	var buf [9]byte
	v := n.Hash()
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	if highlight {
		buf[8] = 1
	}
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte{byte(width >> 8), byte(width)})
	return h.Sum64()
}
