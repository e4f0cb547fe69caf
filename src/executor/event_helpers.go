package executor

import (
	"time"

	"github.com/elee1766/convo/src/aisdk"
)

// EventEmitter helps emit events with common fields
type EventEmitter struct {
	sink           EventSink
	conversationID string
	turnNumber     int
}

// NewEventEmitter creates a new event emitter. A nil sink discards events.
func NewEventEmitter(sink EventSink, conversationID string, turnNumber int) *EventEmitter {
	return &EventEmitter{
		sink:           sink,
		conversationID: conversationID,
		turnNumber:     turnNumber,
	}
}

// createBaseEvent creates a base event with common fields
func (e *EventEmitter) createBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		Type:           eventType,
		Timestamp:      time.Now(),
		ConversationID: e.conversationID,
		TurnNumber:     e.turnNumber,
	}
}

func (e *EventEmitter) send(event ConversationEvent) error {
	if e == nil || e.sink == nil {
		return nil
	}
	return e.sink.Send(event)
}

// EmitUserMessage emits a user message event
func (e *EventEmitter) EmitUserMessage(message string) error {
	return e.send(&UserMessageEvent{
		BaseEvent: e.createBaseEvent(EventUserMessage),
		Message:   message,
	})
}

// EmitAssistantStreamStart emits the start of assistant streaming
func (e *EventEmitter) EmitAssistantStreamStart(model string) error {
	return e.send(&AssistantStreamStartEvent{
		BaseEvent: e.createBaseEvent(EventAssistantStreamStart),
		Model:     model,
	})
}

// EmitAssistantStreamChunk emits a fragment of streamed content
func (e *EventEmitter) EmitAssistantStreamChunk(content string) error {
	return e.send(&AssistantStreamChunkEvent{
		BaseEvent: e.createBaseEvent(EventAssistantStreamChunk),
		Content:   content,
	})
}

// EmitAssistantStreamEnd emits the end of assistant streaming
func (e *EventEmitter) EmitAssistantStreamEnd() error {
	return e.send(&AssistantStreamEndEvent{
		BaseEvent: e.createBaseEvent(EventAssistantStreamEnd),
	})
}

// EmitAssistantMessage emits a committed assistant turn
func (e *EventEmitter) EmitAssistantMessage(content, model string, aborted, streamed bool) error {
	return e.send(&AssistantMessageEvent{
		BaseEvent: e.createBaseEvent(EventAssistantMessage),
		Content:   content,
		Model:     model,
		Aborted:   aborted,
		Streamed:  streamed,
	})
}

// EmitSystemMessage emits a system message
func (e *EventEmitter) EmitSystemMessage(message, purpose string) error {
	return e.send(&SystemMessageEvent{
		BaseEvent: e.createBaseEvent(EventSystemMessage),
		Message:   message,
		Purpose:   purpose,
	})
}

// EmitError emits an error event
func (e *EventEmitter) EmitError(err error, context string) error {
	return e.send(&ErrorEvent{
		BaseEvent: e.createBaseEvent(EventError),
		Error:     err,
		Context:   context,
	})
}

// EmitTurnComplete emits a turn completion event
func (e *EventEmitter) EmitTurnComplete(outcome Outcome, usage *aisdk.Usage, duration time.Duration) error {
	return e.send(&TurnCompleteEvent{
		BaseEvent: e.createBaseEvent(EventTurnComplete),
		Outcome:   outcome,
		Usage:     usage,
		Duration:  duration,
	})
}
