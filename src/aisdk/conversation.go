package aisdk

import (
	"github.com/elee1766/convo/src/session"
)

// TurnsToMessages converts committed turns into provider messages. Aborted
// turns are our own error notices and are never sent back to the model. A
// non-empty systemPrompt is placed first.
func TurnsToMessages(systemPrompt string, turns []session.Turn) []*Message {
	messages := make([]*Message, 0, len(turns)+1)
	if systemPrompt != "" {
		messages = append(messages, &Message{Role: string(session.RoleSystem), Content: systemPrompt})
	}

	for _, t := range turns {
		if t.Aborted {
			continue
		}
		messages = append(messages, &Message{Role: string(t.Role), Content: t.Content})
	}

	return messages
}
