// Package tokens estimates prompt sizes and trims transcripts to fit a
// model's context window.
package tokens

import (
	"fmt"

	"github.com/elee1766/convo/src/session"
	"github.com/tiktoken-go/tokenizer"
)

// perTurnOverhead approximates the role and separator tokens the chat
// format adds around each message.
const perTurnOverhead = 4

// Counter counts tokens with a tiktoken encoding.
type Counter struct {
	codec tokenizer.Codec
}

// NewCounter returns a Counter using the cl100k_base encoding.
func NewCounter() (*Counter, error) {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	return &Counter{codec: codec}, nil
}

// Count returns the number of tokens in text. Encoding failures fall back
// to a length estimate.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	ids, _, err := c.codec.Encode(text)
	if err != nil {
		return len(text)/4 + 1
	}
	return len(ids)
}

// CountTurn returns the cost of one turn including message overhead.
func (c *Counter) CountTurn(turn session.Turn) int {
	return c.Count(turn.Content) + perTurnOverhead
}

// CountTurns returns the cost of turns as sent to a model.
func (c *Counter) CountTurns(turns []session.Turn) int {
	total := 0
	for _, t := range turns {
		total += c.CountTurn(t)
	}
	return total
}

// Trim drops the oldest turns until the rest fit in budget. System turns
// and the newest user turn are always kept, so the result may exceed a
// budget too small to hold them. A budget <= 0 disables trimming.
func (c *Counter) Trim(turns []session.Turn, budget int) []session.Turn {
	if budget <= 0 || c.CountTurns(turns) <= budget {
		return turns
	}

	lastUser := -1
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == session.RoleUser {
			lastUser = i
			break
		}
	}

	keep := make([]bool, len(turns))
	used := 0
	for i, t := range turns {
		if t.Role == session.RoleSystem || i == lastUser {
			keep[i] = true
			used += c.CountTurn(t)
		}
	}

	// newest first
	for i := len(turns) - 1; i >= 0; i-- {
		if keep[i] {
			continue
		}
		cost := c.CountTurn(turns[i])
		if used+cost > budget {
			break
		}
		keep[i] = true
		used += cost
	}

	out := make([]session.Turn, 0, len(turns))
	for i, t := range turns {
		if keep[i] {
			out = append(out, t)
		}
	}
	return out
}
