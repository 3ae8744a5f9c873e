package transform

import (
	"fmt"
	"os"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
)

// yamlFrontmatter parses the metadata block with yaml.v3 so tool entries go
// through the same custom decoding as plain YAML files.
var yamlFrontmatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

type markdownTransformer struct{}

func (markdownTransformer) Format() string { return FormatMarkdown }

func (markdownTransformer) Extensions() []string { return []string{".md"} }

// Load reads a markdown file whose YAML frontmatter holds the agent fields
// and whose body holds the instructions.
func (markdownTransformer) Load(path string) (*agent.Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	var def agent.Definition
	body, err := frontmatter.MustParse(f, &def, yamlFrontmatter)
	if err != nil {
		return nil, fmt.Errorf("invalid frontmatter in %s: %w", path, err)
	}

	instructions := strings.TrimLeft(string(body), "\n")
	if instructions != "" && !strings.HasSuffix(instructions, "\n") {
		instructions += "\n"
	}
	def.Instructions = instructions

	expandDefinition(&def)
	return &def, nil
}

// Save writes the definition as YAML frontmatter followed by the
// instructions body.
func (markdownTransformer) Save(def *agent.Definition, path string) error {
	meta := def.Clone()
	meta.Instructions = ""

	fm, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode agent %q: %w", def.Name, err)
	}

	body := def.Instructions
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(fm)
	sb.WriteString("---\n\n")
	sb.WriteString(body)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
