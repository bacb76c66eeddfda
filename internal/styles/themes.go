package styles

import (
	"regexp"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu guards themeRegistry and the current theme.
var themeMu sync.RWMutex

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds the colors a theme contributes.
type ColorPalette struct {
	Primary   string `json:"primary" yaml:"primary"`
	Secondary string `json:"secondary" yaml:"secondary"`
	Accent    string `json:"accent" yaml:"accent"`

	Success string `json:"success" yaml:"success"`
	Warning string `json:"warning" yaml:"warning"`
	Error   string `json:"error" yaml:"error"`

	TextPrimary string `json:"textPrimary" yaml:"textPrimary"`
	TextMuted   string `json:"textMuted" yaml:"textMuted"`
	TextSubtle  string `json:"textSubtle" yaml:"textSubtle"`

	BgPrimary  string `json:"bgPrimary" yaml:"bgPrimary"`
	BgTertiary string `json:"bgTertiary" yaml:"bgTertiary"`

	BorderNormal string `json:"borderNormal" yaml:"borderNormal"`
	BorderActive string `json:"borderActive" yaml:"borderActive"`

	// Glamour style name for the help panel.
	MarkdownTheme string `json:"markdownTheme" yaml:"markdownTheme"`
}

// Theme is a named palette.
type Theme struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Colors      ColorPalette `json:"colors"`
}

// Built-in themes
var (
	DefaultTheme = Theme{
		Name:        "default",
		DisplayName: "Default Dark",
		Colors: ColorPalette{
			Primary:   "#7C3AED", // Purple
			Secondary: "#3B82F6", // Blue
			Accent:    "#F59E0B", // Amber

			Success: "#10B981",
			Warning: "#F59E0B",
			Error:   "#EF4444",

			TextPrimary: "#F9FAFB",
			TextMuted:   "#6B7280",
			TextSubtle:  "#4B5563",

			BgPrimary:  "#111827",
			BgTertiary: "#374151",

			BorderNormal: "#374151",
			BorderActive: "#7C3AED",

			MarkdownTheme: "dark",
		},
	}

	DraculaTheme = Theme{
		Name:        "dracula",
		DisplayName: "Dracula",
		Colors: ColorPalette{
			Primary:   "#BD93F9",
			Secondary: "#8BE9FD",
			Accent:    "#FFB86C",

			Success: "#50FA7B",
			Warning: "#FFB86C",
			Error:   "#FF5555",

			TextPrimary: "#F8F8F2",
			TextMuted:   "#6272A4", // Comment
			TextSubtle:  "#44475A",

			BgPrimary:  "#282A36",
			BgTertiary: "#44475A",

			BorderNormal: "#44475A",
			BorderActive: "#BD93F9",

			MarkdownTheme: "dracula",
		},
	}

	NordTheme = Theme{
		Name:        "nord",
		DisplayName: "Nord",
		Colors: ColorPalette{
			Primary:   "#88C0D0", // Frost Cyan
			Secondary: "#81A1C1",
			Accent:    "#EBCB8B",

			Success: "#A3BE8C",
			Warning: "#EBCB8B",
			Error:   "#BF616A",

			TextPrimary: "#D8DEE9",
			TextMuted:   "#4C566A",
			TextSubtle:  "#434C5E",

			BgPrimary:  "#2E3440",
			BgTertiary: "#434C5E",

			BorderNormal: "#4C566A",
			BorderActive: "#88C0D0",

			MarkdownTheme: "dark",
		},
	}

	// MonoTheme avoids color for terminals where it is unwanted.
	MonoTheme = Theme{
		Name:        "mono",
		DisplayName: "Monochrome",
		Colors: ColorPalette{
			Primary:       "#FFFFFF",
			Secondary:     "#D0D0D0",
			Accent:        "#FFFFFF",
			Success:       "#D0D0D0",
			Warning:       "#FFFFFF",
			Error:         "#FFFFFF",
			TextPrimary:   "#FFFFFF",
			TextMuted:     "#808080",
			TextSubtle:    "#505050",
			BgPrimary:     "#000000",
			BgTertiary:    "#303030",
			BorderNormal:  "#505050",
			BorderActive:  "#FFFFFF",
			MarkdownTheme: "notty",
		},
	}
)

var themeRegistry = map[string]Theme{
	"default": DefaultTheme,
	"dracula": DraculaTheme,
	"nord":    NordTheme,
	"mono":    MonoTheme,
}

var currentTheme = DefaultTheme

// IsValidHexColor checks #RRGGBB or #RRGGBBAA.
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// IsValidTheme reports whether name is registered.
func IsValidTheme(name string) bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	_, ok := themeRegistry[name]
	return ok
}

// GetTheme returns a theme by name, or the default theme if not found.
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if theme, ok := themeRegistry[name]; ok {
		return theme
	}
	return DefaultTheme
}

// GetCurrentTheme returns the active theme, overrides included.
func GetCurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ListThemes returns registered theme names in sorted order.
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextTheme returns the theme after name in ListThemes order, wrapping.
func NextTheme(name string) string {
	names := ListThemes()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// RegisterTheme adds a custom theme to the registry.
func RegisterTheme(theme Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()
	themeRegistry[theme.Name] = theme
}

// ApplyTheme applies a theme by name.
func ApplyTheme(name string) {
	ApplyThemeWithOverrides(name, nil)
}

// ApplyThemeWithOverrides applies a theme with per-color overrides from
// config. Invalid hex colors are ignored.
func ApplyThemeWithOverrides(name string, overrides map[string]string) {
	theme := GetTheme(name)
	for key, value := range overrides {
		applyOverride(&theme.Colors, key, value)
	}
	ApplyThemeColors(theme)
}

func applyOverride(p *ColorPalette, key, value string) {
	if key == "markdownTheme" {
		p.MarkdownTheme = value
		return
	}
	if !IsValidHexColor(value) {
		return
	}
	switch key {
	case "primary":
		p.Primary = value
	case "secondary":
		p.Secondary = value
	case "accent":
		p.Accent = value
	case "success":
		p.Success = value
	case "warning":
		p.Warning = value
	case "error":
		p.Error = value
	case "textPrimary":
		p.TextPrimary = value
	case "textMuted":
		p.TextMuted = value
	case "textSubtle":
		p.TextSubtle = value
	case "bgPrimary":
		p.BgPrimary = value
	case "bgTertiary":
		p.BgTertiary = value
	case "borderNormal":
		p.BorderNormal = value
	case "borderActive":
		p.BorderActive = value
	}
}

// ApplyThemeColors updates the package style variables from a theme.
//
// Not safe for concurrent readers of the style variables; call it from the
// Bubble Tea update loop or before the program starts.
func ApplyThemeColors(theme Theme) {
	c := theme.Colors

	Primary = lipgloss.Color(c.Primary)
	Secondary = lipgloss.Color(c.Secondary)
	Accent = lipgloss.Color(c.Accent)
	Success = lipgloss.Color(c.Success)
	Warning = lipgloss.Color(c.Warning)
	Error = lipgloss.Color(c.Error)
	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextMuted = lipgloss.Color(c.TextMuted)
	TextSubtle = lipgloss.Color(c.TextSubtle)
	BgPrimary = lipgloss.Color(c.BgPrimary)
	BgTertiary = lipgloss.Color(c.BgTertiary)
	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)

	themeMu.Lock()
	currentTheme = theme
	themeMu.Unlock()

	rebuildStyles()
}

// MarkdownTheme returns the glamour style of the active theme.
func MarkdownTheme() string {
	return GetCurrentTheme().Colors.MarkdownTheme
}
