package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/elee1766/convo/src/aisdk"
	"github.com/elee1766/convo/src/session"
	"github.com/elee1766/convo/src/tokens"
)

// Service runs assistant turns against a model on behalf of a session.
type Service struct {
	logger        *slog.Logger
	counter       *tokens.Counter
	systemPrompt  string
	contextTokens int
}

// ServiceConfig holds configuration for creating a new Service
type ServiceConfig struct {
	// SystemPrompt is sent ahead of the transcript on every request
	SystemPrompt string

	// Counter trims the transcript to ContextTokens. Trimming is disabled
	// when either is unset.
	Counter       *tokens.Counter
	ContextTokens int

	Logger *slog.Logger
}

// NewService creates a new turn service
func NewService(config ServiceConfig) *Service {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Service{
		logger:        config.Logger.With("component", "executor"),
		counter:       config.Counter,
		systemPrompt:  config.SystemPrompt,
		contextTokens: config.ContextTokens,
	}
}

// AskRequest describes a single user turn and the reply to it.
type AskRequest struct {
	Session     *session.Session
	ModelClient aisdk.ModelClient
	Text        string

	// Stream requests the reply as a sequence of fragments
	Stream bool

	Temperature *float64
	MaxTokens   *int

	// Timeout bounds the provider call. Zero means no limit beyond ctx.
	Timeout time.Duration

	// EventSink receives progress events; nil discards them
	EventSink EventSink
}

// AskResult is the outcome of Ask.
type AskResult struct {
	// Turn is the committed assistant turn
	Turn session.Turn

	Outcome      Outcome
	FinishReason string
	Usage        *aisdk.Usage
	Fragments    int
	Duration     time.Duration

	// Err is the provider failure that aborted the turn, if any
	Err error
}

// Aborted reports whether the reply was replaced by an error turn.
func (r *AskResult) Aborted() bool {
	return r.Outcome == OutcomeAborted
}

// Ask commits req.Text as a user turn, requests a reply, and commits it as
// an assistant turn. Provider failures abort the reply and are reported in
// AskResult.Err; the returned error is only set when no assistant turn was
// committed.
func (s *Service) Ask(ctx context.Context, req *AskRequest) (*AskResult, error) {
	if req.Session == nil {
		return nil, ErrSessionRequired
	}
	if req.ModelClient == nil {
		return nil, ErrModelClientRequired
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: %w", session.ErrInvalidInput, ErrPromptTextRequired)
	}

	sess := req.Session
	emitter := NewEventEmitter(req.EventSink, sess.ID(), sess.Len())
	start := time.Now()

	if err := sess.AppendUserTurn(req.Text); err != nil {
		return nil, err
	}
	emitter.EmitUserMessage(req.Text)

	messages := s.buildMessages(sess.Snapshot())

	h, err := sess.BeginAssistantTurn()
	if err != nil {
		return nil, err
	}

	model := ""
	if info := req.ModelClient.GetModelInfo(); info != nil {
		model = info.ID
	}

	runCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	chatReq := &aisdk.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      req.Stream,
	}

	result := &AskResult{}
	logger := s.logger.With("session_id", sess.ID(), "model", model, "stream", req.Stream)
	logger.Debug("requesting reply", "messages", len(messages))

	var runErr error
	if req.Stream {
		runErr = s.stream(runCtx, req.ModelClient, chatReq, sess, h, emitter, result)
	} else {
		runErr = s.complete(runCtx, req.ModelClient, chatReq, sess, h, result)
	}

	// the accumulator belongs to someone else now; nothing to commit
	if errors.Is(runErr, session.ErrStaleHandle) {
		return nil, runErr
	}

	if runErr != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && !errors.Is(runErr, context.DeadlineExceeded) {
			runErr = fmt.Errorf("%w: %w", runErr, context.DeadlineExceeded)
		}
		reason := aisdk.AbortReason(runErr)
		turn, err := sess.AbortAssistantTurn(h, reason)
		if err != nil {
			return nil, err
		}
		logger.Warn("reply aborted", "reason", reason, "error", runErr)

		result.Turn = turn
		result.Outcome = OutcomeAborted
		result.Err = runErr
		emitter.EmitError(runErr, "chat_completion")
	} else {
		turn, err := sess.FinalizeAssistantTurn(h)
		if err != nil {
			return nil, err
		}
		result.Turn = turn
		result.Outcome = OutcomeFinalized
		if result.Fragments == 0 {
			result.Outcome = OutcomeFallback
		}
	}

	result.Duration = time.Since(start)
	emitter.EmitAssistantMessage(result.Turn.Content, model, result.Aborted(), req.Stream)
	emitter.EmitTurnComplete(result.Outcome, result.Usage, result.Duration)

	logger.Info("turn complete",
		"outcome", result.Outcome,
		"fragments", result.Fragments,
		"finish_reason", result.FinishReason,
		"duration", result.Duration)

	return result, nil
}

// buildMessages converts the committed transcript into provider messages,
// dropping the oldest turns when a context budget is configured.
func (s *Service) buildMessages(turns []session.Turn) []*aisdk.Message {
	if s.counter != nil && s.contextTokens > 0 {
		// at least one token so Trim still keeps system turns and the newest user turn
		budget := max(s.contextTokens-s.counter.Count(s.systemPrompt), 1)
		trimmed := s.counter.Trim(turns, budget)
		if dropped := len(turns) - len(trimmed); dropped > 0 {
			s.logger.Debug("trimmed transcript", "dropped", dropped, "budget", budget)
		}
		turns = trimmed
	}
	return aisdk.TurnsToMessages(s.systemPrompt, turns)
}

// complete requests the whole reply at once and appends it as one fragment.
func (s *Service) complete(ctx context.Context, client aisdk.ModelClient, req *aisdk.ChatCompletionRequest, sess *session.Session, h session.Handle, result *AskResult) error {
	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return err
	}

	usage := resp.Usage
	result.Usage = &usage
	if len(resp.Choices) > 0 {
		result.FinishReason = resp.Choices[0].FinishReason
	}

	content := resp.Content()
	if content == "" {
		return nil
	}
	if err := sess.AppendFragment(h, content); err != nil {
		return err
	}
	result.Fragments++
	return nil
}

// stream appends each content delta to the open turn as it arrives.
func (s *Service) stream(ctx context.Context, client aisdk.ModelClient, req *aisdk.ChatCompletionRequest, sess *session.Session, h session.Handle, emitter *EventEmitter, result *AskResult) error {
	stream, err := client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return err
	}
	emitter.EmitAssistantStreamStart(req.Model)
	defer emitter.EmitAssistantStreamEnd()

	agg := aisdk.NewStreamAggregator()
	defer func() {
		result.FinishReason = agg.FinishReason
		result.Usage = agg.Usage
	}()

	return aisdk.ReadStream(ctx, stream, func(chunk *aisdk.StreamChunk) error {
		agg.AddChunk(chunk)
		fragment := chunk.Fragment()
		if fragment == "" {
			return nil
		}
		if err := sess.AppendFragment(h, fragment); err != nil {
			return err
		}
		result.Fragments++
		emitter.EmitAssistantStreamChunk(fragment)
		return nil
	})
}
