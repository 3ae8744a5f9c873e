package transform

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
)

type jsonTransformer struct{}

func (jsonTransformer) Format() string { return FormatJSON }

func (jsonTransformer) Extensions() []string { return []string{".json"} }

func (jsonTransformer) Load(path string) (*agent.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var def agent.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	expandDefinition(&def)
	return &def, nil
}

func (jsonTransformer) Save(def *agent.Definition, path string) error {
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode agent %q: %w", def.Name, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
