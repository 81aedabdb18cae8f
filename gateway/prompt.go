package gateway

import "fmt"

// DefaultMaxOutputTokens caps a single model reply. Responses are meant to be
// conversational turns, not essays.
const DefaultMaxOutputTokens = 600

// promptTemplate is the collaboration etiquette every participant receives.
// The interface already labels each message with the speaker, so models are
// told not to announce themselves.
const promptTemplate = `You are %s participating in a collaborative brainstorming session with other AI models and a human user.

IMPORTANT: Just respond naturally - do NOT prefix your response with your name or say things like "%s:" or "I'm %s...". Your name is already shown in the interface.

Messages show speaker names. When responding:
- Build on others' ideas naturally
- Offer alternative perspectives constructively
- Reference specific points by name (e.g., "I like Claude's point about..." or "Building on what Qwen said...")
- Ask clarifying questions to any participant
- Be conversational and concise (2-4 paragraphs typically)
- Be collaborative, not competitive
- Respond as yourself, but don't announce your name in the response`

// SystemPrompt renders the collaboration prompt for a participant. A
// non-empty persona is appended after a blank line and takes effect on top of
// the base etiquette.
func SystemPrompt(displayName, persona string) string {
	prompt := fmt.Sprintf(promptTemplate, displayName, displayName, displayName)
	if persona != "" {
		prompt += "\n\n" + persona
	}
	return prompt
}
