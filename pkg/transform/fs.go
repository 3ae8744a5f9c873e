package transform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
	"github.com/peteroden/aif-workflow-helper/pkg/config"
)

// expandDefinition substitutes ${VAR} and ${VAR:-default} references in
// every string field of a loaded definition.
func expandDefinition(def *agent.Definition) {
	def.Name = config.ExpandEnvVars(def.Name)
	def.Description = config.ExpandEnvVars(def.Description)
	def.Model = config.ExpandEnvVars(def.Model)
	def.Instructions = config.ExpandEnvVars(def.Instructions)
	for k, v := range def.Metadata {
		def.Metadata[k] = config.ExpandEnvVars(v)
	}
	for i := range def.Tools {
		if ca := def.Tools[i].ConnectedAgent; ca != nil {
			ca.ID = config.ExpandEnvVars(ca.ID)
			ca.Name = config.ExpandEnvVars(ca.Name)
			ca.NameFromID = config.ExpandEnvVars(ca.NameFromID)
			ca.Description = config.ExpandEnvVars(ca.Description)
		}
		if len(def.Tools[i].Extra) > 0 {
			def.Tools[i].Extra = config.ExpandEnvVarsInData(def.Tools[i].Extra).(map[string]any)
		}
	}
}

// LoadAgentFile loads a single definition. An empty format infers the
// transformer from the file extension.
func LoadAgentFile(path, format string) (*agent.Definition, error) {
	var (
		t  Transformer
		ok bool
	)
	if format == "" {
		ext := filepath.Ext(path)
		if t, ok = Default().ByExtension(ext); !ok {
			return nil, fmt.Errorf("unsupported file extension %q (supported formats: %s)", ext, strings.Join(Default().Formats(), ", "))
		}
	} else if t, ok = Default().ByFormat(format); !ok {
		return nil, fmt.Errorf("unsupported format %q (supported formats: %s)", format, strings.Join(Default().Formats(), ", "))
	}
	return t.Load(path)
}

// LoadAgentsFromDirectory loads every definition file for the given format
// in dir, keyed by agent name. Files that fail to parse or lack a name are
// logged and skipped so one bad file does not block the rest.
func LoadAgentsFromDirectory(dir, format string) (map[string]*agent.Definition, error) {
	if format == "" {
		format = DefaultFormat
	}
	t, ok := Default().ByFormat(format)
	if !ok {
		return nil, fmt.Errorf("unsupported format %q (supported formats: %s)", format, strings.Join(Default().Formats(), ", "))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	exts := make(map[string]bool)
	for _, ext := range t.Extensions() {
		exts[ext] = true
	}

	defs := make(map[string]*agent.Definition)
	for _, entry := range entries {
		if entry.IsDir() || !exts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		def, err := t.Load(path)
		if err != nil {
			slog.Error("Failed to load agent file", "path", path, "error", err)
			continue
		}
		if def.Name == "" {
			slog.Warn("Skipping agent file without a name", "path", path)
			continue
		}
		if _, exists := defs[def.Name]; exists {
			slog.Warn("Duplicate agent name, keeping the later file", "name", def.Name, "path", path)
		}
		defs[def.Name] = def
		slog.Debug("Loaded agent definition", "name", def.Name, "path", path)
	}
	return defs, nil
}

// SaveAgentToFile writes a definition. An empty format infers the
// transformer from the file extension, falling back to the default format.
func SaveAgentToFile(def *agent.Definition, path, format string) error {
	var (
		t  Transformer
		ok bool
	)
	if format == "" {
		if t, ok = Default().ByExtension(filepath.Ext(path)); !ok {
			t, _ = Default().ByFormat(DefaultFormat)
		}
	} else if t, ok = Default().ByFormat(format); !ok {
		return fmt.Errorf("unsupported format %q (supported formats: %s)", format, strings.Join(Default().Formats(), ", "))
	}
	return t.Save(def, path)
}

// FileExtension returns the primary file extension for a format.
func FileExtension(format string) (string, error) {
	if format == "" {
		format = DefaultFormat
	}
	t, ok := Default().ByFormat(format)
	if !ok {
		return "", fmt.Errorf("unsupported format %q (supported formats: %s)", format, strings.Join(Default().Formats(), ", "))
	}
	return t.Extensions()[0], nil
}
