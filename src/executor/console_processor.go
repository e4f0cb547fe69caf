package executor

import (
	"fmt"
	"io"
	"os"

	"github.com/elee1766/convo/src/render"
	"github.com/elee1766/convo/src/session"
	"github.com/elee1766/convo/src/theme"
)

// ConsoleProcessorConfig configures the console event processor
type ConsoleProcessorConfig struct {
	Out      io.Writer
	Renderer *render.Renderer

	// Width wraps finished turns; 0 disables wrapping
	Width int

	EchoUser   bool
	ShowUsage  bool
	RawMode    bool
	StreamMode bool
}

// ConsoleEventProcessor processes events and outputs to console
type ConsoleEventProcessor struct {
	config    ConsoleProcessorConfig
	streaming bool
}

// NewConsoleEventProcessor creates a new console event processor
func NewConsoleEventProcessor(config ConsoleProcessorConfig) *ConsoleEventProcessor {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	if config.Renderer == nil {
		r := render.New(theme.Dark)
		r.Plain = true
		config.Renderer = r
	}

	return &ConsoleEventProcessor{
		config: config,
	}
}

// Process handles a single event
func (p *ConsoleEventProcessor) Process(event ConversationEvent) error {
	// In raw mode only the committed reply is printed
	if p.config.RawMode {
		if msg, ok := event.(*AssistantMessageEvent); ok {
			_, err := fmt.Fprintln(p.config.Out, msg.Content)
			return err
		}
		return nil
	}

	out := p.config.Out
	r := p.config.Renderer

	switch e := event.(type) {
	case *UserMessageEvent:
		if p.config.EchoUser {
			fmt.Fprintln(out, r.Turn(session.Turn{Role: session.RoleUser, Content: e.Message}, p.config.Width))
		}

	case *AssistantStreamStartEvent:
		if p.config.StreamMode {
			p.streaming = false
		}

	case *AssistantStreamChunkEvent:
		if !p.config.StreamMode {
			return nil
		}
		if !p.streaming {
			p.streaming = true
			fmt.Fprintln(out, r.Label(session.Turn{Role: session.RoleAssistant}))
		}
		fmt.Fprint(out, r.Fragment(e.Content))

	case *AssistantStreamEndEvent:
		if p.streaming {
			fmt.Fprintln(out)
		}

	case *AssistantMessageEvent:
		p.processAssistantMessage(e)

	case *SystemMessageEvent:
		p.processSystemMessage(e)

	case *ErrorEvent:
		// the aborted turn is printed with the assistant message

	case *TurnCompleteEvent:
		if p.config.ShowUsage && e.Usage != nil {
			fmt.Fprintln(out, r.Usage(e.Usage.PromptTokens, e.Usage.CompletionTokens))
		}
		fmt.Fprintln(out)
	}

	return nil
}

// Close cleans up resources
func (p *ConsoleEventProcessor) Close() error {
	return nil
}

// processAssistantMessage prints the committed reply unless its fragments
// were already streamed to the terminal.
func (p *ConsoleEventProcessor) processAssistantMessage(e *AssistantMessageEvent) {
	streamed := p.streaming
	p.streaming = false
	if streamed && !e.Aborted {
		return
	}
	turn := session.Turn{Role: session.RoleAssistant, Content: e.Content, Aborted: e.Aborted}
	fmt.Fprint(p.config.Out, p.config.Renderer.Turn(turn, p.config.Width))
}

// processSystemMessage handles system message events
func (p *ConsoleEventProcessor) processSystemMessage(e *SystemMessageEvent) {
	switch e.Purpose {
	case "warning":
		fmt.Fprintf(p.config.Out, "warning: %s\n", e.Message)
	case "info":
		fmt.Fprintln(p.config.Out, p.config.Renderer.Turn(session.Turn{Role: session.RoleSystem, Content: e.Message}, p.config.Width))
	}
}
