package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/elee1766/convo/src/session"
	"github.com/elee1766/convo/src/theme"
	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	r := New(theme.Dark)
	r.Plain = true

	tests := []struct {
		turn session.Turn
		want string
	}{
		{session.Turn{Role: session.RoleUser}, "You:"},
		{session.Turn{Role: session.RoleAssistant}, "Assistant:"},
		{session.Turn{Role: session.RoleSystem}, "System:"},
		{session.Turn{Role: session.RoleAssistant, Aborted: true}, "Assistant (error):"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Label(tt.turn))
	}
}

func TestTranscriptPlain(t *testing.T) {
	r := New(theme.Dark)
	r.Plain = true

	turns := []session.Turn{
		{Role: session.RoleAssistant, Content: "How can I help you?"},
		{Role: session.RoleUser, Content: "Who won the Women's U.S. Open in 2018?"},
		{Role: session.RoleAssistant, Content: "Error: timeout", Aborted: true},
	}

	want := "Assistant:\nHow can I help you?\n\n" +
		"You:\nWho won the Women's U.S. Open in 2018?\n\n" +
		"Assistant (error):\nError: timeout\n"
	assert.Equal(t, want, r.Transcript(turns, 0))
}

func TestTurnWraps(t *testing.T) {
	r := New(theme.Dark)
	r.Plain = true

	out := r.Turn(session.Turn{Role: session.RoleUser, Content: "one two three four five six"}, 10)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 10)
	}
}

func TestPreviewTruncates(t *testing.T) {
	r := New(theme.Dark)
	r.Plain = true

	out := r.Preview(session.Turn{Role: session.RoleUser, Content: "a very long\nmultiline message that does not fit"}, 20)
	assert.Equal(t, 20, ansi.StringWidth(out))
	assert.True(t, strings.HasPrefix(out, "You: a very long"))
	assert.True(t, strings.HasSuffix(out, "…"))
	assert.NotContains(t, out, "\n")
}

func TestHighlightCode(t *testing.T) {
	r := New(theme.Dark)

	text := "Here:\n```go\nfunc main() {}\n```\ndone"
	out := r.highlightCode(text)

	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, ansi.Strip(out), "func main() {}")
	assert.True(t, strings.HasPrefix(out, "Here:\n```go\n"))
	assert.True(t, strings.HasSuffix(out, "```\ndone"))

	untagged := "```\nplain\n```"
	assert.Equal(t, untagged, r.highlightCode(untagged))

	unterminated := "```go\nfunc main() {}\n"
	assert.Equal(t, unterminated, r.highlightCode(unterminated))
}
