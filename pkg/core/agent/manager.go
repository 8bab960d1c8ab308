// Package agent routes prompt execution to a configured LLM provider, with
// optional per-agent overrides.
package agent

import (
	"context"
	"fmt"

	"finsight/pkg/core/llm"
)

// Config is the yaml-backed provider configuration.
type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

// AgentConfig overrides the provider for one agent type.
type AgentConfig struct {
	Provider    string `yaml:"provider"`
	Description string `yaml:"description"`
}

// Manager maps agent types to providers. Construct once per process.
type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini":   &llm.GeminiProvider{},
			"deepseek": &llm.DeepSeekProvider{},
		},
	}
}

// GetProvider resolves an agent type to a provider: per-agent override first,
// then the global active provider, then gemini.
func (m *Manager) GetProvider(agentType string) llm.Provider {
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
	}
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}
	return m.providers["gemini"]
}

// ExecutePrompt adapts the instructions for the resolved provider and runs
// the generation.
func (m *Manager) ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(agentType)
	adaptedSystemPrompt := provider.AdaptInstructions(rawSystemPrompt)
	return provider.GenerateResponse(ctx, rawPrompt, adaptedSystemPrompt, options)
}

// SetGlobalProvider switches the active provider at runtime.
func (m *Manager) SetGlobalProvider(newProvider string) error {
	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	return nil
}

// GetActiveProvider returns the name of the global provider.
func (m *Manager) GetActiveProvider() string {
	return m.config.ActiveProvider
}
