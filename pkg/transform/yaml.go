package transform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
)

type yamlTransformer struct{}

func (yamlTransformer) Format() string { return FormatYAML }

func (yamlTransformer) Extensions() []string { return []string{".yaml", ".yml"} }

func (yamlTransformer) Load(path string) (*agent.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var def agent.Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	expandDefinition(&def)
	return &def, nil
}

func (yamlTransformer) Save(def *agent.Definition, path string) error {
	data, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode agent %q: %w", def.Name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
