package prompt

import (
	"fmt"
	"sync"
)

// Registry holds loaded prompt templates. There is deliberately no package
// singleton: construct one with NewRegistry and pass it by reference.
type Registry struct {
	mu      sync.RWMutex
	prompts map[string]*PromptTemplate
}

// NewRegistry creates an empty registry with the built-in defaults installed.
func NewRegistry() *Registry {
	r := &Registry{prompts: make(map[string]*PromptTemplate)}
	registerDefaults(r)
	return r
}

// Register adds or replaces a prompt template.
func (r *Registry) Register(pt *PromptTemplate) error {
	if pt.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts[pt.ID] = pt
	return nil
}

// GetPrompt retrieves a prompt by ID.
func (r *Registry) GetPrompt(id string) (*PromptTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.prompts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("prompt not found: %s", id)
}

// GetSystemPrompt is a convenience method for the system prompt string only.
func (r *Registry) GetSystemPrompt(id string) (string, error) {
	pt, err := r.GetPrompt(id)
	if err != nil {
		return "", err
	}
	return pt.SystemPrompt, nil
}

// ListByCategory returns all prompts in a specific category.
func (r *Registry) ListByCategory(category string) []*PromptTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*PromptTemplate
	for _, pt := range r.prompts {
		if pt.Category == category {
			result = append(result, pt)
		}
	}
	return result
}

// Count returns the number of registered prompts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prompts)
}
