// Package anthropic provides an implementation of core.Gateway that talks to
// the Anthropic Messages API directly instead of going through OpenRouter.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/roundtable/core"
	"github.com/hupe1980/roundtable/gateway"
)

// Options configure the Anthropic gateway.
type Options struct {
	// APIKey authenticates against the Anthropic API. When empty the SDK
	// falls back to the ANTHROPIC_API_KEY environment variable.
	APIKey string
	// MaxOutputTokens caps a single reply. Defaults to
	// gateway.DefaultMaxOutputTokens.
	MaxOutputTokens int64
}

// Gateway wraps the Anthropic Messages API behind core.Gateway.
type Gateway struct {
	client *anthropic.Client
	opts   Options
}

// New creates a new Anthropic gateway using the official client.
func New(optFns ...func(o *Options)) *Gateway {
	opts := Options{
		MaxOutputTokens: gateway.DefaultMaxOutputTokens,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Gateway{
		client: &client,
		opts:   opts,
	}
}

// NewFromClient creates a new Anthropic gateway from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Gateway {
	opts := Options{
		MaxOutputTokens: gateway.DefaultMaxOutputTokens,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Gateway{
		client: client,
		opts:   opts,
	}
}

// buildParams converts a normalized call into Messages API parameters. The
// collaboration prompt goes into the dedicated system field; history roles
// other than assistant map to user.
func (g *Gateway) buildParams(call core.ModelCall) anthropic.MessageNewParams {
	messages := make([]anthropic.MessageParam, 0, len(call.Messages))
	for _, m := range call.Messages {
		if m.Content == "" {
			continue
		}
		if strings.ToLower(m.Role) == "assistant" {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}

	return anthropic.MessageNewParams{
		Model:       anthropic.Model(call.Model.BackendID),
		Messages:    messages,
		MaxTokens:   g.opts.MaxOutputTokens,
		Temperature: anthropic.Float(call.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: gateway.SystemPrompt(call.Model.Name, call.Persona)},
		},
	}
}

// Complete implements the blocking path.
func (g *Gateway) Complete(ctx context.Context, call core.ModelCall) (*core.CallResult, error) {
	resp, err := g.client.Messages.New(ctx, g.buildParams(call))
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var builder strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			builder.WriteString(block.AsText().Text)
		}
	}

	result := &core.CallResult{
		MessageID: core.NewID(),
		Content:   builder.String(),
	}
	if total := resp.Usage.InputTokens + resp.Usage.OutputTokens; total > 0 {
		result.Usage = &core.Usage{TotalTokens: int(total)}
	}

	return result, nil
}

// CompleteStreaming implements the streaming path using the SDK's event
// stream. Each text delta triggers an emit with the full content so far.
func (g *Gateway) CompleteStreaming(ctx context.Context, call core.ModelCall, emit core.StreamFunc) (*core.CallResult, error) {
	stream := g.client.Messages.NewStreaming(ctx, g.buildParams(call))

	messageID := core.NewID()

	var builder strings.Builder
	for stream.Next() {
		event := stream.Current()
		if delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok {
			if text, ok := delta.Delta.AsAny().(anthropic.TextDelta); ok && text.Text != "" {
				builder.WriteString(text.Text)
				if emit != nil {
					emit(messageID, builder.String())
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("anthropic streaming error: %w", err)
	}

	return &core.CallResult{
		MessageID: messageID,
		Content:   builder.String(),
	}, nil
}

var _ core.Gateway = (*Gateway)(nil)
