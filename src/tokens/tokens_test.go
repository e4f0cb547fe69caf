package tokens

import (
	"strings"
	"testing"

	"github.com/elee1766/convo/src/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounter(t *testing.T) *Counter {
	t.Helper()
	c, err := NewCounter()
	require.NoError(t, err)
	return c
}

func TestCount(t *testing.T) {
	c := newCounter(t)

	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 2, c.Count("hello world"))
	assert.Greater(t, c.Count(strings.Repeat("token ", 100)), 50)
}

func TestCountTurns(t *testing.T) {
	c := newCounter(t)
	turns := []session.Turn{
		{Role: session.RoleUser, Content: "hello world"},
		{Role: session.RoleAssistant, Content: ""},
	}
	assert.Equal(t, 2+2*perTurnOverhead, c.CountTurns(turns))
}

func TestTrim(t *testing.T) {
	c := newCounter(t)
	long := strings.Repeat("lorem ipsum dolor sit amet ", 20)

	turns := []session.Turn{
		{Role: session.RoleSystem, Content: "be brief"},
		{Role: session.RoleAssistant, Content: "How can I help you?"},
		{Role: session.RoleUser, Content: long},
		{Role: session.RoleAssistant, Content: long},
		{Role: session.RoleUser, Content: "and now?"},
	}

	tests := []struct {
		name      string
		budget    int
		wantRoles []session.Role
	}{
		{
			name:      "no budget",
			budget:    0,
			wantRoles: []session.Role{"system", "assistant", "user", "assistant", "user"},
		},
		{
			name:      "fits",
			budget:    10000,
			wantRoles: []session.Role{"system", "assistant", "user", "assistant", "user"},
		},
		{
			name:      "drops oldest long turns",
			budget:    c.CountTurns([]session.Turn{turns[0], turns[1], turns[4]}) + 1,
			wantRoles: []session.Role{"system", "user"},
		},
		{
			name:      "keeps required turns over budget",
			budget:    1,
			wantRoles: []session.Role{"system", "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Trim(turns, tt.budget)
			roles := make([]session.Role, 0, len(got))
			for _, g := range got {
				roles = append(roles, g.Role)
			}
			assert.Equal(t, tt.wantRoles, roles)
			assert.Equal(t, "and now?", got[len(got)-1].Content)
		})
	}
}
