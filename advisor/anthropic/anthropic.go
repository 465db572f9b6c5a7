// Package anthropic provides a core.Advisor backed by the Anthropic
// Messages API. Query and Chat are plain non-streaming completions with
// different system prompts; Store writes to a local learning journal when
// one is configured and is otherwise a no-op.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/learning"
)

const (
	querySystem = "You are the knowledge backend of a federated repository pair. Answer with concise, practical guidance."
	chatSystem  = "You advise an agent router. Follow the reply format the message asks for exactly."
)

// Options configures the Anthropic advisor (model id, max tokens,
// temperature, API key). Extend via functional options to preserve
// stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
	// Journal receives Store calls; nil makes Store a no-op.
	Journal *learning.Journal
}

// Advisor wraps the Anthropic Messages API behind the core.Advisor interface.
type Advisor struct {
	client *anthropic.Client
	opts   Options
}

var _ core.Advisor = (*Advisor)(nil)

// NewAdvisor creates a new Anthropic advisor using the official client.
func NewAdvisor(optFns ...func(o *Options)) *Advisor {
	opts := defaultOptions(optFns...)

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Advisor{client: &client, opts: opts}
}

// NewAdvisorFromClient creates a new Anthropic advisor from an existing client.
func NewAdvisorFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Advisor {
	return &Advisor{client: client, opts: defaultOptions(optFns...)}
}

func defaultOptions(optFns ...func(o *Options)) Options {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// Query implements core.Advisor.
func (a *Advisor) Query(ctx context.Context, text string) (string, error) {
	return a.complete(ctx, querySystem, text)
}

// Chat implements core.Advisor.
func (a *Advisor) Chat(ctx context.Context, message string) (string, error) {
	return a.complete(ctx, chatSystem, message)
}

// Store implements core.Advisor by appending to the configured journal.
func (a *Advisor) Store(_ context.Context, l core.Learning) error {
	if a.opts.Journal == nil {
		return nil
	}
	return a.opts.Journal.Append(l)
}

func (a *Advisor) complete(ctx context.Context, system, text string) (string, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.opts.Model,
		MaxTokens:   a.opts.MaxTokens,
		Temperature: anthropic.Float(a.opts.Temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}
