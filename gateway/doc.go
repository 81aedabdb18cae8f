// Package gateway contains the shared pieces of the model backend adapters:
// the collaboration system prompt shared by every backend and a mock
// implementation of core.Gateway for tests and offline use. The real backend
// adapters live in the openrouter and anthropic subpackages.
package gateway
