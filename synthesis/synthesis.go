// Package synthesis distills a finished conversation into key ideas,
// consensus points and action items by asking one model to review the whole
// transcript. It consumes the core only through the store and the blocking
// gateway path.
package synthesis

import (
	"context"
	"fmt"

	"github.com/hupe1980/roundtable/core"
)

// Prompt is the review instruction appended as the final user message.
const Prompt = `Review this entire brainstorming conversation and provide:

1. **Key Ideas** - The 3-5 most important concepts discussed
2. **Consensus Points** - Where all models agreed
3. **Divergent Views** - Interesting disagreements or alternative perspectives
4. **Action Items** - Concrete next steps or recommendations
5. **Summary** - A 2-3 sentence overview

Keep it concise and actionable.`

// DefaultModelKey selects the model performing the review.
const DefaultModelKey = "claude"

// DefaultTemperature keeps the review factual rather than creative.
const DefaultTemperature = 0.3

// Options configure a synthesis run.
type Options struct {
	ModelKey    string
	Temperature float64
}

// Synthesize reviews the conversation's full transcript with a single
// blocking model call and returns the resulting summary text.
func Synthesize(ctx context.Context, store core.ConversationStore, gateway core.Gateway, catalog core.Catalog, conversationID string, optFns ...func(o *Options)) (string, error) {
	opts := Options{
		ModelKey:    DefaultModelKey,
		Temperature: DefaultTemperature,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	md, ok := catalog.Lookup(opts.ModelKey)
	if !ok {
		return "", fmt.Errorf("synthesis: model %q not in catalog", opts.ModelKey)
	}

	conv, err := store.Get(conversationID)
	if err != nil {
		return "", err
	}

	messages := append(core.ChatHistory(conv.Messages), core.ChatMessage{
		Role:    string(core.RoleUser),
		Content: Prompt,
	})

	result, err := gateway.Complete(ctx, core.ModelCall{
		Model:       md,
		Messages:    messages,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("synthesis failed: %w", err)
	}

	return result.Content, nil
}
