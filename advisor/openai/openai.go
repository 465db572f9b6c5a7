// Package openai provides a core.Advisor backed by the OpenAI Chat
// Completions API. Query and Chat are plain non-streaming completions with
// different system prompts; Store writes to a local learning journal when
// one is configured and is otherwise a no-op.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/learning"
)

const (
	querySystem = "You are the knowledge backend of a federated repository pair. Answer with concise, practical guidance."
	chatSystem  = "You advise an agent router. Follow the reply format the message asks for exactly."
)

// Options configure the OpenAI advisor. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	// Journal receives Store calls; nil makes Store a no-op.
	Journal *learning.Journal
}

// Advisor wraps the OpenAI Chat Completions API behind the core.Advisor
// interface.
type Advisor struct {
	client *openai.Client
	opts   Options
}

var _ core.Advisor = (*Advisor)(nil)

// NewAdvisor creates a new OpenAI advisor using the official client.
func NewAdvisor(optFns ...func(o *Options)) *Advisor {
	client := openai.NewClient()
	return NewAdvisorFromClient(&client, optFns...)
}

// NewAdvisorFromClient creates a new OpenAI advisor from an existing client.
func NewAdvisorFromClient(client *openai.Client, optFns ...func(o *Options)) *Advisor {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Advisor{client: client, opts: opts}
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
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               a.opts.Model,
		Temperature:         openai.Float(a.opts.Temperature),
		MaxCompletionTokens: openai.Int(a.opts.MaxCompletionTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
