package session

import "time"

// Role identifies who produced a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Turn is one committed, immutable message in a transcript.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Aborted   bool      `json:"aborted,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Handle identifies one in-flight assistant turn.
type Handle struct {
	owner *Session
	seq   uint64
}

// Observer is notified after every turn is committed to a transcript.
// Commits are delivered in transcript order while the session lock is held,
// so implementations must not call back into the session.
type Observer interface {
	OnCommit(sessionID string, index int, turn Turn) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(sessionID string, index int, turn Turn) error

// OnCommit calls f.
func (f ObserverFunc) OnCommit(sessionID string, index int, turn Turn) error {
	return f(sessionID, index, turn)
}
