package core

import "strings"

// ModelDescriptor describes one entry in the static model catalog. The
// catalog is configuration, never mutated at runtime.
type ModelDescriptor struct {
	Key         string `json:"key"`
	BackendID   string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
	Free        bool   `json:"free,omitempty"`
}

// Catalog maps model keys to their descriptors. Keys are matched
// case-insensitively via Lookup.
type Catalog map[string]ModelDescriptor

// Lookup resolves a key against the catalog, ignoring case.
func (c Catalog) Lookup(key string) (ModelDescriptor, bool) {
	md, ok := c[strings.ToLower(key)]
	return md, ok
}

// Keys returns all catalog keys in unspecified order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// DefaultCatalog returns the built-in set of model backends addressable
// through an OpenRouter-compatible gateway.
func DefaultCatalog() Catalog {
	return Catalog{
		"claude": {
			Key: "claude", BackendID: "anthropic/claude-3.5-sonnet:beta",
			Name: "Claude", Color: "#9b59b6", Avatar: "🤖",
			Description: "Thoughtful and detailed", Cost: "$$$",
		},
		"gpt5": {
			Key: "gpt5", BackendID: "openai/gpt-4o",
			Name: "GPT4o", Color: "#10a37f", Avatar: "🧠",
			Description: "Creative and versatile", Cost: "$$$",
		},
		"gemini": {
			Key: "gemini", BackendID: "google/gemini-pro-1.5-exp",
			Name: "Gemini", Color: "#4285f4", Avatar: "✨",
			Description: "Fast and analytical", Cost: "$$",
		},
		"gpt4o": {
			Key: "gpt4o", BackendID: "openai/gpt-4o",
			Name: "GPT-4o", Color: "#74aa9c", Avatar: "🔮",
			Description: "Multimodal powerhouse", Cost: "$$",
		},
		"llama": {
			Key: "llama", BackendID: "meta-llama/llama-3.3-70b-instruct",
			Name: "Llama 3.3", Color: "#ff6b35", Avatar: "🦙",
			Description: "Open source, capable", Cost: "$",
		},
		"mixtral": {
			Key: "mixtral", BackendID: "mistralai/mixtral-8x7b-instruct",
			Name: "Mixtral", Color: "#ff6b9d", Avatar: "🌀",
			Description: "Fast and efficient", Cost: "$",
		},
		"deepseek": {
			Key: "deepseek", BackendID: "deepseek/deepseek-chat",
			Name: "DeepSeek", Color: "#00d4ff", Avatar: "🌊",
			Description: "Reasoning specialist", Cost: "$",
		},
		"qwen": {
			Key: "qwen", BackendID: "qwen/qwen-2.5-72b-instruct",
			Name: "Qwen", Color: "#ff4757", Avatar: "🎯",
			Description: "Free & capable", Cost: "FREE", Free: true,
		},
		"phi": {
			Key: "phi", BackendID: "microsoft/phi-3-medium-128k-instruct",
			Name: "Phi-3", Color: "#5f27cd", Avatar: "🔬",
			Description: "Free small model", Cost: "FREE", Free: true,
		},
	}
}
