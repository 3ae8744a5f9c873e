package transform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
)

func sampleDefinition() *agent.Definition {
	return &agent.Definition{
		Name:         "triage-agent",
		Description:  "Routes incoming requests",
		Model:        "gpt-4o",
		Instructions: "Route each request to the right specialist.\n",
		Tools: []agent.Tool{
			{
				Type: agent.ToolTypeConnectedAgent,
				ConnectedAgent: &agent.ConnectedAgentDetails{
					NameFromID:  "billing-agent",
					Name:        "billing",
					Description: "Handles billing questions",
				},
			},
		},
		Metadata: map[string]string{"team": "support"},
	}
}

func TestRegistryLookups(t *testing.T) {
	r := Default()

	for format, ext := range map[string]string{
		FormatJSON:     ".json",
		FormatYAML:     ".yaml",
		FormatMarkdown: ".md",
	} {
		byFormat, ok := r.ByFormat(format)
		require.True(t, ok, "format %s", format)
		byExt, ok := r.ByExtension(ext)
		require.True(t, ok, "extension %s", ext)
		assert.Equal(t, byFormat.Format(), byExt.Format())
	}

	yamlTr, ok := r.ByExtension(".yml")
	require.True(t, ok)
	assert.Equal(t, FormatYAML, yamlTr.Format())

	_, ok = r.ByFormat("toml")
	assert.False(t, ok)

	assert.Equal(t, []string{FormatJSON, FormatMarkdown, FormatYAML}, r.Formats())
}

func TestRegistryRejectsDuplicateFormat(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(jsonTransformer{}))
	assert.Error(t, r.Register(jsonTransformer{}))
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatYAML, FormatMarkdown} {
		t.Run(format, func(t *testing.T) {
			ext, err := FileExtension(format)
			require.NoError(t, err)
			path := filepath.Join(t.TempDir(), "triage-agent"+ext)

			def := sampleDefinition()
			require.NoError(t, SaveAgentToFile(def, path, format))

			loaded, err := LoadAgentFile(path, format)
			require.NoError(t, err)
			assert.Equal(t, def, loaded)
		})
	}
}

func TestLoadAgentFileInfersFormat(t *testing.T) {
	dir := t.TempDir()
	def := sampleDefinition()

	path := filepath.Join(dir, "agent.yml")
	require.NoError(t, SaveAgentToFile(def, path, ""))

	loaded, err := LoadAgentFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, def.Name, loaded.Name)

	_, err = LoadAgentFile(filepath.Join(dir, "agent.toml"), "")
	assert.ErrorContains(t, err, "unsupported file extension")
}

func TestMarkdownLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.md")
	def := sampleDefinition()
	def.Instructions = "Always answer politely."

	require.NoError(t, SaveAgentToFile(def, path, FormatMarkdown))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)

	assert.True(t, strings.HasPrefix(content, "---\n"), "should start with frontmatter")
	assert.Contains(t, content, "name: triage-agent")
	assert.NotContains(t, content, "instructions:")
	assert.True(t, strings.HasSuffix(content, "---\n\nAlways answer politely.\n"))

	loaded, err := LoadAgentFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Always answer politely.\n", loaded.Instructions)
	assert.Equal(t, def.Name, loaded.Name)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_AGENT_MODEL", "gpt-4o-mini")

	path := filepath.Join(t.TempDir(), "agent.json")
	data := `{
  "name": "env-agent",
  "model": "${TEST_AGENT_MODEL}",
  "description": "${TEST_AGENT_TIER:-standard} tier",
  "instructions": "Serve the ${TEST_AGENT_TIER:-standard} tier."
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	def, err := LoadAgentFile(path, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", def.Model)
	assert.Equal(t, "standard tier", def.Description)
	assert.Equal(t, "Serve the standard tier.", def.Instructions)
}

func TestLoadAgentsFromDirectory(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"alpha", "beta"} {
		def := sampleDefinition()
		def.Name = name
		def.Tools = nil
		require.NoError(t, SaveAgentToFile(def, filepath.Join(dir, name+".json"), FormatJSON))
	}
	// Broken and unnamed files are skipped, other formats ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unnamed.json"), []byte(`{"model":"gpt-4o"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("name: other\n"), 0o644))

	defs, err := LoadAgentsFromDirectory(dir, FormatJSON)
	require.NoError(t, err)
	assert.Len(t, defs, 2)
	assert.Contains(t, defs, "alpha")
	assert.Contains(t, defs, "beta")
}

func TestLoadAgentsFromDirectoryMissingDir(t *testing.T) {
	_, err := LoadAgentsFromDirectory(filepath.Join(t.TempDir(), "absent"), FormatJSON)
	assert.Error(t, err)
}
