// Package usage derives token and cost counters from gateway results and
// accumulates them per conversation.
package usage

import (
	"unicode/utf8"

	"github.com/hupe1980/roundtable/core"
)

// DefaultRate is the fixed per-token cost applied to every accounted token.
const DefaultRate = 0.000015

// Options configure an Accountant.
type Options struct {
	// Rate is the per-token cost. Defaults to DefaultRate.
	Rate float64
}

// Accountant turns gateway results into conversation counter updates. Both
// paths keep the counters monotonically non-decreasing.
type Accountant struct {
	store core.ConversationStore
	rate  float64
}

// New constructs an Accountant writing through the given store.
func New(store core.ConversationStore, optFns ...func(o *Options)) *Accountant {
	opts := Options{Rate: DefaultRate}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Accountant{store: store, rate: opts.Rate}
}

// RecordReported accounts a blocking call's backend-reported usage. A nil
// usage (backend did not report) is a no-op.
func (a *Accountant) RecordReported(conversationID string, u *core.Usage) error {
	if u == nil || u.TotalTokens <= 0 {
		return nil
	}
	return a.store.AddUsage(conversationID, u.TotalTokens, float64(u.TotalTokens)*a.rate)
}

// RecordEstimated accounts a streaming call by estimating tokens from the
// final content length. Returns the estimate used.
func (a *Accountant) RecordEstimated(conversationID, content string) (int, error) {
	tokens := EstimateTokens(content)
	if tokens == 0 {
		return 0, nil
	}
	return tokens, a.store.AddUsage(conversationID, tokens, float64(tokens)*a.rate)
}

// EstimateTokens approximates a token count as ceil(characters/4): the rough
// four-characters-per-token heuristic used when backends omit usage.
// Characters are runes, so multibyte content is not inflated.
func EstimateTokens(content string) int {
	return (utf8.RuneCountInString(content) + 3) / 4
}
