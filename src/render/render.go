// Package render prints conversation turns for a terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/elee1766/convo/src/session"
	"github.com/elee1766/convo/src/theme"
)

// Renderer formats turns with a theme.
type Renderer struct {
	theme  theme.Theme
	styles theme.Styles
	// Plain disables colors and highlighting
	Plain bool
}

// New returns a Renderer for t.
func New(t theme.Theme) *Renderer {
	return &Renderer{theme: t, styles: theme.NewStyles(t)}
}

// Label returns the styled role label for a turn.
func (r *Renderer) Label(turn session.Turn) string {
	var label string
	var style lipgloss.Style
	switch {
	case turn.Aborted:
		label, style = "Assistant (error)", r.styles.Error
	case turn.Role == session.RoleUser:
		label, style = "You", r.styles.User
	case turn.Role == session.RoleSystem:
		label, style = "System", r.styles.System
	default:
		label, style = "Assistant", r.styles.Assistant
	}
	if r.Plain {
		return label + ":"
	}
	return style.Render(label + ":")
}

// Turn renders a single turn wrapped to width. A width <= 0 disables wrapping.
func (r *Renderer) Turn(turn session.Turn, width int) string {
	body := turn.Content
	switch {
	case r.Plain:
	case turn.Aborted:
		body = r.styles.Error.UnsetBold().Render(body)
	default:
		body = r.highlightCode(body)
	}

	if width > 0 {
		body = ansi.Wrap(body, width, "")
	}
	return r.Label(turn) + "\n" + body + "\n"
}

// Transcript renders turns separated by blank lines.
func (r *Renderer) Transcript(turns []session.Turn, width int) string {
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		parts = append(parts, r.Turn(t, width))
	}
	return strings.Join(parts, "\n")
}

// Preview renders a turn on one line, truncated to width cells.
func (r *Renderer) Preview(turn session.Turn, width int) string {
	text := strings.Join(strings.Fields(turn.Content), " ")
	prefix := r.Label(turn) + " "
	if width > 0 {
		text = ansi.Truncate(text, max(width-ansi.StringWidth(prefix), 1), "…")
	}
	return prefix + text
}

// Fragment styles a streamed fragment. Fragments are printed as they
// arrive, so no highlighting is applied.
func (r *Renderer) Fragment(fragment string) string {
	if r.Plain {
		return fragment
	}
	return r.styles.Body.Render(fragment)
}

// highlightCode highlights fenced code blocks. Blocks without a language
// tag are left as they are.
func (r *Renderer) highlightCode(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}

	lines := strings.SplitAfter(text, "\n")
	var out, code strings.Builder
	inCode := false
	lang := ""

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if !inCode {
				inCode = true
				lang = strings.TrimPrefix(trimmed, "```")
				code.Reset()
				out.WriteString(line)
				continue
			}
			out.WriteString(r.highlight(code.String(), lang))
			out.WriteString(line)
			inCode = false
			continue
		}
		if inCode {
			code.WriteString(line)
			continue
		}
		out.WriteString(line)
	}

	// unterminated block
	if inCode {
		out.WriteString(code.String())
	}
	return out.String()
}

func (r *Renderer) highlight(code, lang string) string {
	if lang == "" {
		return code
	}
	var b strings.Builder
	if err := quick.Highlight(&b, code, lang, "terminal256", r.theme.CodeStyle); err != nil {
		return code
	}
	return b.String()
}

// Usage renders a token usage line.
func (r *Renderer) Usage(prompt, completion int) string {
	line := fmt.Sprintf("tokens: %d prompt, %d completion", prompt, completion)
	if r.Plain {
		return line
	}
	return r.styles.Muted.Render(line)
}
