// Package openrouter provides an implementation of core.Gateway using the
// OpenRouter API. OpenRouter speaks the OpenAI Chat Completions wire format,
// so the adapter reuses the official OpenAI client pointed at the OpenRouter
// base URL and routes to any catalog model via its backend id.
package openrouter

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/roundtable/core"
	"github.com/hupe1980/roundtable/gateway"
)

// DefaultBaseURL is the OpenRouter chat completions endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Options configure the OpenRouter gateway.
type Options struct {
	// APIKey authenticates against OpenRouter. Required.
	APIKey string
	// BaseURL overrides the API endpoint. Defaults to DefaultBaseURL.
	BaseURL string
	// MaxOutputTokens caps a single reply. Defaults to
	// gateway.DefaultMaxOutputTokens.
	MaxOutputTokens int64
	// Referer and Title populate the optional OpenRouter attribution
	// headers (HTTP-Referer, X-Title).
	Referer string
	Title   string
}

// Gateway wraps the OpenRouter Chat Completions API behind core.Gateway.
type Gateway struct {
	client openai.Client
	opts   Options
}

// New creates a new OpenRouter gateway.
func New(apiKey string, optFns ...func(o *Options)) *Gateway {
	opts := Options{
		APIKey:          apiKey,
		BaseURL:         DefaultBaseURL,
		MaxOutputTokens: gateway.DefaultMaxOutputTokens,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithBaseURL(opts.BaseURL),
	}
	if opts.Referer != "" {
		clientOpts = append(clientOpts, option.WithHeader("HTTP-Referer", opts.Referer))
	}
	if opts.Title != "" {
		clientOpts = append(clientOpts, option.WithHeader("X-Title", opts.Title))
	}

	return &Gateway{
		client: openai.NewClient(clientOpts...),
		opts:   opts,
	}
}

// buildParams converts a normalized call into OpenAI request parameters. The
// system prompt always leads the message list.
func (g *Gateway) buildParams(call core.ModelCall) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(call.Messages)+1)
	messages = append(messages, openai.SystemMessage(gateway.SystemPrompt(call.Model.Name, call.Persona)))

	for _, m := range call.Messages {
		switch strings.ToLower(m.Role) {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		case "system":
			messages = append(messages, openai.SystemMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	return openai.ChatCompletionNewParams{
		Model:       call.Model.BackendID,
		Messages:    messages,
		Temperature: openai.Float(call.Temperature),
		MaxTokens:   openai.Int(g.opts.MaxOutputTokens),
	}
}

// Complete implements the blocking path. Backend-reported usage is passed
// through when present.
func (g *Gateway) Complete(ctx context.Context, call core.ModelCall) (*core.CallResult, error) {
	resp, err := g.client.Chat.Completions.New(ctx, g.buildParams(call))
	if err != nil {
		return nil, fmt.Errorf("openrouter api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openrouter: no choices returned for model %s", call.Model.BackendID)
	}

	result := &core.CallResult{
		MessageID: core.NewID(),
		Content:   resp.Choices[0].Message.Content,
	}
	if resp.Usage.TotalTokens > 0 {
		result.Usage = &core.Usage{TotalTokens: int(resp.Usage.TotalTokens)}
	}

	return result, nil
}

// CompleteStreaming implements the streaming path. The message id is minted
// before the first chunk so every emitted update shares it, and each emit
// carries the full content accumulated so far.
func (g *Gateway) CompleteStreaming(ctx context.Context, call core.ModelCall, emit core.StreamFunc) (*core.CallResult, error) {
	stream := g.client.Chat.Completions.NewStreaming(ctx, g.buildParams(call))

	messageID := core.NewID()

	var builder strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			builder.WriteString(choice.Delta.Content)
			if emit != nil {
				emit(messageID, builder.String())
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("openrouter streaming error: %w", err)
	}

	return &core.CallResult{
		MessageID: messageID,
		Content:   builder.String(),
	}, nil
}

var _ core.Gateway = (*Gateway)(nil)
