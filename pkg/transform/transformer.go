// Package transform converts agent definitions to and from files. A small
// registry maps format names and file extensions to transformers so the
// sync flows stay agnostic to individual serialization details.
package transform

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
)

const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "md"

	DefaultFormat = FormatJSON
)

// Transformer converts between a definition file and the in-memory model.
type Transformer interface {
	// Format returns the format selector used on the CLI (json, yaml, md).
	Format() string
	// Extensions returns the file extensions handled, primary first,
	// including the leading dot.
	Extensions() []string
	Load(path string) (*agent.Definition, error)
	Save(def *agent.Definition, path string) error
}

// Registry maps format names and extensions to transformers.
type Registry struct {
	mu       sync.RWMutex
	byFormat map[string]Transformer
	byExt    map[string]Transformer
}

func NewRegistry() *Registry {
	return &Registry{
		byFormat: make(map[string]Transformer),
		byExt:    make(map[string]Transformer),
	}
}

// Register adds a transformer. Registering a duplicate format is an error;
// a duplicate extension keeps the first binding and logs a warning.
func (r *Registry) Register(t Transformer) error {
	format := t.Format()
	if format == "" {
		return fmt.Errorf("transformer must define a format name")
	}
	exts := t.Extensions()
	if len(exts) == 0 {
		return fmt.Errorf("transformer for format %q must define at least one extension", format)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byFormat[format]; exists {
		return fmt.Errorf("transformer for format %q already registered", format)
	}
	r.byFormat[format] = t

	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if _, exists := r.byExt[ext]; exists {
			slog.Warn("Extension already bound to another transformer", "extension", ext)
			continue
		}
		r.byExt[ext] = t
	}
	return nil
}

// ByFormat looks up a transformer by format name.
func (r *Registry) ByFormat(format string) (Transformer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byFormat[format]
	return t, ok
}

// ByExtension looks up a transformer by file extension (with leading dot,
// case-insensitive).
func (r *Registry) ByExtension(ext string) (Transformer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byExt[strings.ToLower(ext)]
	return t, ok
}

// Formats returns the registered format names in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]string, 0, len(r.byFormat))
	for name := range r.byFormat {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}

var defaultRegistry = func() *Registry {
	r := NewRegistry()
	for _, t := range []Transformer{jsonTransformer{}, yamlTransformer{}, markdownTransformer{}} {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}()

// Default returns the registry with the built-in transformers.
func Default() *Registry {
	return defaultRegistry
}
