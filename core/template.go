package core

// Template is a conversation preset: suggested models, a mode and the
// persona text that gives each model its role within that mode.
type Template struct {
	Key             string            `json:"key"`
	Name            string            `json:"name"`
	Icon            string            `json:"icon"`
	Description     string            `json:"description"`
	InitialPrompt   string            `json:"initialPrompt"`
	SuggestedModels []string          `json:"suggestedModels"`
	Mode            Mode              `json:"mode"`
	Personas        map[string]string `json:"personas"`
}

// DefaultTemplates returns the built-in conversation presets.
func DefaultTemplates() map[string]Template {
	templates := []Template{
		{
			Key: "product_brainstorm", Name: "Product Brainstorm", Icon: "💡",
			Description:     "Explore new product ideas and features",
			InitialPrompt:   "Let's brainstorm ideas for: [YOUR PRODUCT/FEATURE]",
			SuggestedModels: []string{"claude", "gpt5", "gemini"},
			Mode:            ModeParallel,
			Personas: map[string]string{
				"claude": "Focus on user experience and practical implementation",
				"gpt5":   "Think creatively about innovative features",
				"gemini": "Consider technical feasibility and scalability",
			},
		},
		{
			Key: "code_review", Name: "Code Review", Icon: "🔍",
			Description:     "Get multiple perspectives on code quality",
			InitialPrompt:   "Please review this code for: [PASTE CODE OR DESCRIBE]",
			SuggestedModels: []string{"claude", "gpt5"},
			Mode:            ModeParallel,
			Personas: map[string]string{
				"claude": "Focus on code quality, maintainability, and best practices",
				"gpt5":   "Look for bugs, edge cases, and security issues",
			},
		},
		{
			Key: "debate", Name: "Structured Debate", Icon: "⚔️",
			Description:     "Explore multiple sides of an argument",
			InitialPrompt:   "Let's debate: [YOUR TOPIC]",
			SuggestedModels: []string{"claude", "gpt5"},
			Mode:            ModeParallel,
			Personas: map[string]string{
				"claude": "Argue FOR the proposition",
				"gpt5":   "Argue AGAINST the proposition",
			},
		},
		{
			Key: "research", Name: "Research Deep Dive", Icon: "🔬",
			Description:     "Comprehensive analysis of a topic",
			InitialPrompt:   "Help me research: [YOUR TOPIC]",
			SuggestedModels: []string{"claude", "gpt5", "gemini"},
			Mode:            ModeParallel,
			Personas: map[string]string{
				"claude": "Provide detailed analysis and context",
				"gpt5":   "Find connections and synthesize insights",
				"gemini": "Challenge assumptions and provide alternative views",
			},
		},
		{
			Key: "decision_making", Name: "Decision Making", Icon: "🎯",
			Description:     "Evaluate options and make informed choices",
			InitialPrompt:   "Help me decide: [YOUR DECISION]",
			SuggestedModels: []string{"claude", "gpt5", "gemini"},
			Mode:            ModeParallel,
			Personas: map[string]string{
				"claude": "Analyze pros and cons systematically",
				"gpt5":   "Consider long-term implications",
				"gemini": "Identify risks and opportunities",
			},
		},
		{
			Key: "creative_writing", Name: "Creative Writing", Icon: "✍️",
			Description:     "Collaborative story and content creation",
			InitialPrompt:   "Let's write: [YOUR CREATIVE PROJECT]",
			SuggestedModels: []string{"claude", "gpt5"},
			Mode:            ModeParallel,
			Personas: map[string]string{
				"claude": "Focus on narrative structure and character development",
				"gpt5":   "Add creative flourishes and unexpected twists",
			},
		},
		{
			Key: "historical_figures", Name: "Historical Figures", Icon: "🎭",
			Description:     "Chat with historical personalities (AI roleplay)",
			InitialPrompt:   "Let's discuss: [YOUR TOPIC] - each of you share your perspective!",
			SuggestedModels: []string{"claude", "gpt5", "gemini"},
			Mode:            ModeParallel,
			Personas: map[string]string{
				"claude": "You are Albert Einstein. Respond as Einstein would - curious, witty, focused on physics and philosophy. Use \"I\" and speak in first person.",
				"gpt5":   "You are Marie Curie. Respond as Curie would - determined, scientific, pioneering. Use \"I\" and speak in first person.",
				"gemini": "You are Leonardo da Vinci. Respond as da Vinci would - artistic, inventive, renaissance mindset. Use \"I\" and speak in first person.",
			},
		},
		{
			Key: "roundtable_sequential", Name: "Sequential Roundtable", Icon: "🔁",
			Description:     "Models respond one after another, each building on the last",
			InitialPrompt:   "Let's discuss this one at a time - what do you think?",
			SuggestedModels: []string{"qwen", "phi"},
			Mode:            ModeSequential,
			Personas: map[string]string{
				"qwen": "Respond first, then wait for others to build on your ideas",
				"phi":  "Build on what Qwen said, adding your own perspective",
			},
		},
		{
			Key: "turn_based", Name: "Turn-Based", Icon: "🎲",
			Description:     "Only one model responds per message, rotating turns",
			InitialPrompt:   "Let's take turns responding - what are your thoughts?",
			SuggestedModels: []string{"qwen", "phi", "deepseek"},
			Mode:            ModeTurnBased,
			Personas: map[string]string{
				"qwen":     "When it's your turn, provide your perspective clearly and concisely",
				"phi":      "When it's your turn, build on the conversation and add new insights",
				"deepseek": "When it's your turn, analyze what's been said and offer deeper thoughts",
			},
		},
		{
			Key: "facilitated", Name: "Facilitated Discussion", Icon: "🎤",
			Description:     "One model leads the discussion, others respond when called on",
			InitialPrompt:   "Let's have a facilitated discussion",
			SuggestedModels: []string{"claude", "qwen", "phi"},
			Mode:            ModeFacilitator,
			Personas: map[string]string{
				"claude": "You are the FACILITATOR. Ask thoughtful questions and guide the discussion by calling on participants by name. Do not answer your own questions.",
				"qwen":   "You are a PARTICIPANT. Only respond when the facilitator asks you a direct question or calls on you by name.",
				"phi":    "You are a PARTICIPANT. Only respond when the facilitator asks you a direct question or calls on you by name.",
			},
		},
		{
			Key: "socratic", Name: "Socratic Method", Icon: "🤔",
			Description:     "One model asks probing questions, the other explores answers",
			InitialPrompt:   "Let's explore this topic deeply through questions",
			SuggestedModels: []string{"phi", "qwen"},
			Mode:            ModeSocratic,
			Personas: map[string]string{
				"phi":  "You are the QUESTIONER. Ask one deep, probing question at a time. Guide through questions, not answers.",
				"qwen": "You are the THINKER. Answer the questions thoughtfully and honestly. Explore your reasoning and admit what you don't know.",
			},
		},
		{
			Key: "debate_rounds", Name: "Debate Rounds", Icon: "⚔️",
			Description:     "Structured debate with opening, rebuttal, and closing",
			InitialPrompt:   "Debate topic: [YOUR TOPIC] - Opening statements first!",
			SuggestedModels: []string{"qwen", "phi"},
			Mode:            ModeDebateRounds,
			Personas: map[string]string{
				"qwen": "You are arguing FOR the topic. First give opening statement, then rebuttals, then closing.",
				"phi":  "You are arguing AGAINST the topic. First give opening statement, then rebuttals, then closing.",
			},
		},
	}

	out := make(map[string]Template, len(templates))
	for _, t := range templates {
		out[t.Key] = t
	}
	return out
}
