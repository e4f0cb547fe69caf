package executor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/elee1766/convo/src/aisdk"
)

// EventType represents the type of conversation event
type EventType string

const (
	// User events
	EventUserMessage EventType = "user_message"

	// Assistant events
	EventAssistantStreamStart EventType = "assistant_stream_start"
	EventAssistantStreamChunk EventType = "assistant_stream_chunk"
	EventAssistantStreamEnd   EventType = "assistant_stream_end"
	EventAssistantMessage     EventType = "assistant_message"

	// System events
	EventSystemMessage EventType = "system_message"
	EventError         EventType = "error"
	EventTurnComplete  EventType = "turn_complete"
)

// Outcome is how an assistant turn ended
type Outcome string

const (
	OutcomeFinalized Outcome = "finalized"
	OutcomeFallback  Outcome = "fallback"
	OutcomeAborted   Outcome = "aborted"
)

// ConversationEvent is the base interface for all conversation events
type ConversationEvent interface {
	GetType() EventType
	GetTimestamp() time.Time
	GetConversationID() string
	GetTurnNumber() int
}

// BaseEvent contains common fields for all events
type BaseEvent struct {
	Type           EventType `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversation_id"`
	TurnNumber     int       `json:"turn_number"`
}

func (e BaseEvent) GetType() EventType        { return e.Type }
func (e BaseEvent) GetTimestamp() time.Time   { return e.Timestamp }
func (e BaseEvent) GetConversationID() string { return e.ConversationID }
func (e BaseEvent) GetTurnNumber() int        { return e.TurnNumber }

// UserMessageEvent represents a committed user turn
type UserMessageEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// AssistantStreamStartEvent represents the start of assistant streaming
type AssistantStreamStartEvent struct {
	BaseEvent
	Model string `json:"model"`
}

// AssistantStreamChunkEvent represents a fragment appended to the reply
type AssistantStreamChunkEvent struct {
	BaseEvent
	Content string `json:"content"`
}

// AssistantStreamEndEvent represents the end of assistant streaming
type AssistantStreamEndEvent struct {
	BaseEvent
}

// AssistantMessageEvent represents a committed assistant turn
type AssistantMessageEvent struct {
	BaseEvent
	Content  string `json:"content"`
	Model    string `json:"model"`
	Aborted  bool   `json:"aborted"`
	Streamed bool   `json:"streamed"`
}

// SystemMessageEvent represents informational messages
type SystemMessageEvent struct {
	BaseEvent
	Message string `json:"message"`
	Purpose string `json:"purpose"` // e.g., "warning", "info"
}

// ErrorEvent represents an error in the conversation
type ErrorEvent struct {
	BaseEvent
	Error   error  `json:"error"`
	Context string `json:"context"` // Where the error occurred
}

// TurnCompleteEvent represents the completion of a conversation turn
type TurnCompleteEvent struct {
	BaseEvent
	Outcome  Outcome       `json:"outcome"`
	Usage    *aisdk.Usage  `json:"usage,omitempty"`
	Duration time.Duration `json:"duration"`
}

// EventSink is the interface for handling conversation events
type EventSink interface {
	// Send sends an event to the sink
	Send(event ConversationEvent) error

	// Close closes the event sink
	Close() error
}

// EventProcessor processes conversation events
type EventProcessor interface {
	// Process handles a single event
	Process(event ConversationEvent) error

	// Close cleans up any resources
	Close() error
}

// flushEvent is a barrier used by Flush.
type flushEvent struct {
	BaseEvent
	done chan struct{}
}

// ChannelEventSink implements EventSink using Go channels. Events are
// processed in the order they were sent.
type ChannelEventSink struct {
	events     chan ConversationEvent
	processors []EventProcessor
	done       chan struct{}
	logger     *slog.Logger
}

// NewChannelEventSink creates a new channel-based event sink
func NewChannelEventSink(bufferSize int, processors ...EventProcessor) *ChannelEventSink {
	sink := &ChannelEventSink{
		events:     make(chan ConversationEvent, bufferSize),
		processors: processors,
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "event_sink"),
	}

	go sink.processEvents()

	return sink
}

// Send sends an event to the sink
func (s *ChannelEventSink) Send(event ConversationEvent) error {
	select {
	case s.events <- event:
		return nil
	case <-s.done:
		return fmt.Errorf("event sink is closed")
	}
}

// Flush blocks until every event sent before it has been processed.
func (s *ChannelEventSink) Flush() {
	done := make(chan struct{})
	if err := s.Send(&flushEvent{done: done}); err != nil {
		return
	}
	select {
	case <-done:
	case <-s.done:
	}
}

// Close closes the event sink
func (s *ChannelEventSink) Close() error {
	close(s.events)
	<-s.done

	for _, p := range s.processors {
		if err := p.Close(); err != nil {
			s.logger.Error("error closing processor", "error", err)
		}
	}

	return nil
}

// processEvents processes events from the channel
func (s *ChannelEventSink) processEvents() {
	defer close(s.done)

	for event := range s.events {
		if f, ok := event.(*flushEvent); ok {
			close(f.done)
			continue
		}
		for _, processor := range s.processors {
			if err := processor.Process(event); err != nil {
				s.logger.Error("error processing event", "type", event.GetType(), "error", err)
			}
		}
	}
}
