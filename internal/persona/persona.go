package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Persona defines the reviewer's identity and the system prompt sent with
// every generation request.
type Persona struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	SystemPrompt string `yaml:"system_prompt"`
}

// Default is the built-in reviewer persona used when no file is configured.
func Default() *Persona {
	return &Persona{
		Name:        "reviewer",
		Description: "Pragmatic senior engineer reviewing pull requests.",
		SystemPrompt: "You are an experienced software engineer performing code review. " +
			"Review the pull request diff for correctness, style, and risk. " +
			"Be specific: reference the changed lines you discuss, and keep the " +
			"review concise enough to post as a single comment.",
	}
}

// Load reads a persona definition from a YAML file.
func Load(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file %s: %w", path, err)
	}

	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse persona file %s: %w", path, err)
	}
	if p.SystemPrompt == "" {
		return nil, fmt.Errorf("persona file %s has no system_prompt", path)
	}

	return &p, nil
}
