// Package theme holds the terminal styles used to print transcripts.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme represents a color theme
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Text       lipgloss.Color
	TextMuted  lipgloss.Color
	Error      lipgloss.Color
	Background lipgloss.Color

	// CodeStyle is the chroma style used for fenced code blocks
	CodeStyle string
}

// Dark is the default theme.
var Dark = Theme{
	Primary:    lipgloss.Color("#00ff00"),
	Secondary:  lipgloss.Color("#5fafff"),
	Text:       lipgloss.Color("#ffffff"),
	TextMuted:  lipgloss.Color("#808080"),
	Error:      lipgloss.Color("#ff5f5f"),
	Background: lipgloss.Color("#000000"),
	CodeStyle:  "monokai",
}

// Light suits light terminal backgrounds.
var Light = Theme{
	Primary:    lipgloss.Color("#007700"),
	Secondary:  lipgloss.Color("#005faf"),
	Text:       lipgloss.Color("#000000"),
	TextMuted:  lipgloss.Color("#6c6c6c"),
	Error:      lipgloss.Color("#af0000"),
	Background: lipgloss.Color("#ffffff"),
	CodeStyle:  "github",
}

var CurrentTheme = Dark

// SetTheme sets the current theme
func SetTheme(t Theme) {
	CurrentTheme = t
}

// ByName returns the named theme, falling back to Dark.
func ByName(name string) Theme {
	if name == "light" {
		return Light
	}
	return Dark
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Body      lipgloss.Style
}

// NewStyles derives the role styles from t.
func NewStyles(t Theme) Styles {
	return Styles{
		User:      lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		System:    lipgloss.NewStyle().Italic(true).Foreground(t.TextMuted),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Muted:     lipgloss.NewStyle().Foreground(t.TextMuted),
		Body:      lipgloss.NewStyle().Foreground(t.Text),
	}
}
