package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// ErrEmptyInput is returned without contacting the completion service.
	ErrEmptyInput = errors.New("empty input")

	// ErrCompletion wraps transport/connectivity failures from the
	// completion service so the interactive caller can tell them apart from
	// tool failures and keep the session alive.
	ErrCompletion = errors.New("completion service failure")

	// ErrMaxRounds bounds pathological tool-call chains.
	ErrMaxRounds = errors.New("maximum tool rounds exceeded")
)

// DefaultMaxRounds caps the number of completion rounds per operator turn.
const DefaultMaxRounds = 10

// Config configures an Orchestrator.
type Config struct {
	Provider     Provider
	Dispatcher   *Dispatcher
	Model        string
	SystemPrompt string
	MaxTokens    int
	MaxRounds    int
	Logger       zerolog.Logger
}

// Orchestrator holds the ordered dialogue state and drives the completion
// service through rounds of tool dispatch until a plain-text reply arrives.
// It is strictly sequential; one instance serves one conversation.
type Orchestrator struct {
	provider   Provider
	dispatcher *Dispatcher
	model      string
	system     string
	maxTokens  int
	maxRounds  int
	history    []Message
	log        zerolog.Logger
}

// New creates an orchestrator with an empty history.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	system := cfg.SystemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}

	return &Orchestrator{
		provider:   cfg.Provider,
		dispatcher: cfg.Dispatcher,
		model:      cfg.Model,
		system:     system,
		maxTokens:  cfg.MaxTokens,
		maxRounds:  maxRounds,
		history:    []Message{{Role: "system", Content: system}},
		log:        cfg.Logger,
	}, nil
}

// History returns a copy of the conversation so far.
func (o *Orchestrator) History() []Message {
	out := make([]Message, len(o.history))
	copy(out, o.history)
	return out
}

// Respond appends the operator's turn, then loops: request a completion over
// the full history plus the tool catalogue; if the response carries tool
// calls, record them all in one assistant turn, dispatch each in the order
// received, append one tool-result turn per call with its correlation id,
// and only then issue the next completion request. A response with no tool
// calls is the final assistant turn and its text is returned.
func (o *Orchestrator) Respond(ctx context.Context, userText string) (string, error) {
	if strings.TrimSpace(userText) == "" {
		return "", ErrEmptyInput
	}

	o.history = append(o.history, Message{Role: "user", Content: userText})

	for round := 0; round < o.maxRounds; round++ {
		resp, err := o.provider.Complete(ctx, Request{
			Model:        o.model,
			SystemPrompt: o.system,
			Messages:     o.history,
			Tools:        o.dispatcher.Catalogue(),
			MaxTokens:    o.maxTokens,
		})
		if err != nil {
			// Keep the inner error in the chain so callers can still match
			// context.Canceled through the wrap.
			return "", fmt.Errorf("%w: %w", ErrCompletion, err)
		}

		if len(resp.ToolCalls) == 0 {
			o.history = append(o.history, Message{Role: "assistant", Content: resp.Content})
			return resp.Content, nil
		}

		o.log.Debug().Int("calls", len(resp.ToolCalls)).Int("round", round+1).Msg("tool calls requested")

		// One assistant turn records the whole round's calls; each call then
		// gets exactly one tool-result turn, in issue order, before the next
		// completion request.
		o.history = append(o.history, Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			result := o.dispatcher.Dispatch(call)
			o.history = append(o.history, Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	return "", ErrMaxRounds
}
