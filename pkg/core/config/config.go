// Package config loads the yaml application configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"finsight/pkg/core/agent"
)

// DefaultPath is where the CLI looks for configuration when no path is given.
const DefaultPath = "config/app.yaml"

// Retrieval holds optional overrides for the retrieval defaults.
type Retrieval struct {
	MaxDocuments int     `yaml:"max_documents"`
	MinRelevance float64 `yaml:"min_relevance"`
}

// App is the top-level yaml configuration.
type App struct {
	Models       agent.Config `yaml:"models"`
	GraphURL     string       `yaml:"graph_url"`
	ResourcesDir string       `yaml:"resources_dir"`
	Retrieval    Retrieval    `yaml:"retrieval"`
}

// Load reads the yaml file at path. A missing file is not an error: the
// zero-value App with env-derived defaults is returned so the CLI works
// without a config directory.
func Load(path string) (*App, error) {
	if path == "" {
		path = DefaultPath
	}

	app := &App{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		app.applyDefaults()
		return app, nil
	}
	if err != nil {
		return nil, fmt.Errorf("CONFIG_READ_ERROR: %w", err)
	}
	if err := yaml.Unmarshal(data, app); err != nil {
		return nil, fmt.Errorf("CONFIG_PARSE_ERROR: %w", err)
	}

	app.applyDefaults()
	return app, nil
}

func (a *App) applyDefaults() {
	if a.GraphURL == "" {
		a.GraphURL = os.Getenv("GRAPH_SERVICE_URL")
	}
	if a.ResourcesDir == "" {
		a.ResourcesDir = "resources"
	}
	if a.Models.ActiveProvider == "" {
		a.Models.ActiveProvider = "gemini"
	}
}
