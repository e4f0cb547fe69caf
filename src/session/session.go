// Package session implements the conversation transcript and the
// accumulation of a single in-flight assistant reply.
//
// A Session owns an append-only list of committed turns. User turns are
// appended directly. Assistant turns are streamed: BeginAssistantTurn opens
// an accumulator, AppendFragment concatenates fragments verbatim, and
// FinalizeAssistantTurn or AbortAssistantTurn commits exactly one turn and
// closes the accumulator. Only one accumulator may be open at a time.
package session

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultFallback is committed when a finalized reply received no content.
	DefaultFallback = "I'm sorry, I couldn't process that request."

	// DefaultAbortFormat formats the turn committed by AbortAssistantTurn.
	DefaultAbortFormat = "Error: %s"
)

// ValidAbortFormat reports whether f has exactly one %s verb and no other
// verbs. Escaped percent signs are allowed.
func ValidAbortFormat(f string) bool {
	f = strings.ReplaceAll(f, "%%", "")
	return strings.Count(f, "%s") == 1 && strings.Count(f, "%") == 1
}

// Options configures a new Session.
type Options struct {
	// ID identifies the session; a UUID is generated when empty
	ID string

	// Greeting, when set, is committed as the first turn of an empty transcript
	Greeting string

	// GreetingRole is the role of the greeting turn (assistant by default)
	GreetingRole Role

	// Fallback replaces an empty assistant reply
	Fallback string

	// AbortFormat is a fmt format with a single %s for the abort reason
	AbortFormat string

	// History seeds the transcript with previously committed turns.
	// Seeded turns are not reported to the Observer.
	History []Turn

	Observer Observer
	Logger   *slog.Logger
}

// Session is a single conversation. It is safe for concurrent use; all
// operations are serialized so fragments are applied in arrival order.
type Session struct {
	id          string
	fallback    string
	abortFormat string
	observer    Observer
	logger      *slog.Logger

	mu      sync.Mutex
	turns   []Turn
	seq     uint64
	open    uint64
	partial strings.Builder
}

// New creates a session from opts.
func New(opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Fallback == "" {
		opts.Fallback = DefaultFallback
	}
	if !ValidAbortFormat(opts.AbortFormat) {
		opts.AbortFormat = DefaultAbortFormat
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Session{
		id:          opts.ID,
		fallback:    opts.Fallback,
		abortFormat: opts.AbortFormat,
		observer:    opts.Observer,
		logger:      opts.Logger.With("component", "session", "session_id", opts.ID),
	}

	if len(opts.History) > 0 {
		s.turns = append(make([]Turn, 0, len(opts.History)), opts.History...)
		return s
	}

	if opts.Greeting != "" {
		role := opts.GreetingRole
		if !role.Valid() || role == RoleUser {
			role = RoleAssistant
		}
		s.commit(Turn{Role: role, Content: opts.Greeting})
	}

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Fallback returns the text committed for empty replies.
func (s *Session) Fallback() string {
	return s.fallback
}

// AppendUserTurn commits a user turn. The text is stored verbatim.
func (s *Session) AppendUserTurn(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: user turn is empty", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open != 0 {
		return ErrConcurrentTurn
	}

	s.commit(Turn{Role: RoleUser, Content: text})
	return nil
}

// BeginAssistantTurn opens the accumulator for a new assistant reply.
func (s *Session) BeginAssistantTurn() (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open != 0 {
		return Handle{}, ErrConcurrentTurn
	}

	s.seq++
	s.open = s.seq
	s.partial.Reset()

	s.logger.Debug("assistant turn opened", "handle", s.open)
	return Handle{owner: s, seq: s.open}, nil
}

// AppendFragment adds a fragment to the open accumulator.
func (s *Session) AppendFragment(h Handle, fragment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkHandle(h); err != nil {
		return err
	}

	s.partial.WriteString(fragment)
	return nil
}

// FinalizeAssistantTurn commits the accumulated reply and closes the
// accumulator. An empty reply is replaced by the fallback text.
func (s *Session) FinalizeAssistantTurn(h Handle) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkHandle(h); err != nil {
		return Turn{}, err
	}

	content := s.partial.String()
	if content == "" {
		s.logger.Warn("assistant reply was empty, using fallback")
		content = s.fallback
	}

	return s.close(Turn{Role: RoleAssistant, Content: content}), nil
}

// AbortAssistantTurn commits an error turn describing reason and closes the
// accumulator, discarding any partial content.
func (s *Session) AbortAssistantTurn(h Handle, reason string) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkHandle(h); err != nil {
		return Turn{}, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown error"
	}

	s.logger.Info("assistant turn aborted", "reason", reason, "partial_bytes", s.partial.Len())
	return s.close(Turn{
		Role:    RoleAssistant,
		Content: fmt.Sprintf(s.abortFormat, reason),
		Aborted: true,
	}), nil
}

// Snapshot returns a copy of the committed turns. The in-flight reply is
// never included.
func (s *Session) Snapshot() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of committed turns.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// InFlight reports whether an assistant turn is currently open.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open != 0
}

func (s *Session) checkHandle(h Handle) error {
	if s.open == 0 || h.owner != s || h.seq != s.open {
		return ErrStaleHandle
	}
	return nil
}

// close commits t and discards the accumulator. Caller holds mu.
func (s *Session) close(t Turn) Turn {
	s.open = 0
	s.partial.Reset()
	return s.commit(t)
}

// commit appends t to the transcript. Caller holds mu, except in New.
func (s *Session) commit(t Turn) Turn {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.turns = append(s.turns, t)

	if s.observer != nil {
		if err := s.observer.OnCommit(s.id, len(s.turns)-1, t); err != nil {
			s.logger.Error("observer failed", "role", t.Role, "error", err)
		}
	}
	return t
}
