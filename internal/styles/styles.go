// Package styles holds the lipgloss styles used to paint frames, rebuilt
// whenever a theme is applied.
package styles

import "github.com/charmbracelet/lipgloss"

// Colors of the active theme.
var (
	Primary      lipgloss.Color
	Secondary    lipgloss.Color
	Accent       lipgloss.Color
	Success      lipgloss.Color
	Warning      lipgloss.Color
	Error        lipgloss.Color
	TextPrimary  lipgloss.Color
	TextMuted    lipgloss.Color
	TextSubtle   lipgloss.Color
	BgPrimary    lipgloss.Color
	BgTertiary   lipgloss.Color
	BorderNormal lipgloss.Color
	BorderActive lipgloss.Color
)

// Styles of the active theme.
var (
	// Block frames one component when it was reused from cache.
	Block lipgloss.Style
	// BlockRebuilt frames one component rebuilt on the latest paint.
	BlockRebuilt lipgloss.Style
	// Heading is the clickable h1 text inside a block.
	Heading lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	KeyHint lipgloss.Style
	// StatusRebuilt and StatusReused label the paint stats line.
	StatusRebuilt lipgloss.Style
	StatusReused  lipgloss.Style
	ErrorText     lipgloss.Style
	Help          lipgloss.Style
)

func init() {
	ApplyThemeColors(DefaultTheme)
}

func rebuildStyles() {
	Block = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	BlockRebuilt = Block.
		BorderForeground(BorderActive)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	StatusRebuilt = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	StatusReused = lipgloss.NewStyle().
		Foreground(Success)

	ErrorText = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Help = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)
}
