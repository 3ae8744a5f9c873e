// Package agent defines the typed model for agent definitions: the
// record persisted to definition files and the tool entries it carries,
// including the connected_agent variant used for inter-agent references.
package agent

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	// ToolTypeConnectedAgent tags a tool entry that references another agent.
	ToolTypeConnectedAgent = "connected_agent"

	// UnknownAgentName is the sentinel written when a connected agent id
	// cannot be resolved to a name anymore.
	UnknownAgentName = "Unknown Agent"
)

// Definition is a single agent definition as stored in a file. Remote
// assigned fields (id, created_at) are deliberately not part of this type;
// they only exist on foundry.Agent and never reach version control.
type Definition struct {
	Name         string            `json:"name" yaml:"name"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Model        string            `json:"model,omitempty" yaml:"model,omitempty"`
	Instructions string            `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Tools        []Tool            `json:"tools,omitempty" yaml:"tools,omitempty"`
	Temperature  *float64          `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TopP         *float64          `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Clone returns a deep copy. The sync flow mutates tool entries while
// resolving references and must not leak those mutations back into the
// caller's definition set.
func (d *Definition) Clone() *Definition {
	if d == nil {
		return nil
	}
	out := *d
	if d.Tools != nil {
		out.Tools = make([]Tool, len(d.Tools))
		for i, t := range d.Tools {
			out.Tools[i] = t.clone()
		}
	}
	if d.Temperature != nil {
		v := *d.Temperature
		out.Temperature = &v
	}
	if d.TopP != nil {
		v := *d.TopP
		out.TopP = &v
	}
	if d.Metadata != nil {
		out.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

// ConnectedAgentDetails is the payload of a connected_agent tool entry.
// At rest (in files) only NameFromID is set; the ID form exists transiently
// in memory while talking to the service. ID and NameFromID are never both
// set on a well-formed entry.
type ConnectedAgentDetails struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	NameFromID  string `json:"name_from_id,omitempty" yaml:"name_from_id,omitempty" mapstructure:"name_from_id"`
}

// Tool is a tagged tool entry. Only the connected_agent variant is modeled
// structurally; any other tool configuration keys round-trip untouched
// through Extra so definitions for unmodeled tool types survive a
// download/upload cycle.
type Tool struct {
	Type           string
	ConnectedAgent *ConnectedAgentDetails
	Extra          map[string]any
}

func (t Tool) clone() Tool {
	out := t
	if t.ConnectedAgent != nil {
		ca := *t.ConnectedAgent
		out.ConnectedAgent = &ca
	}
	if t.Extra != nil {
		out.Extra = make(map[string]any, len(t.Extra))
		for k, v := range t.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// IsConnectedAgent reports whether this entry is a well-formed
// connected_agent reference.
func (t Tool) IsConnectedAgent() bool {
	return t.Type == ToolTypeConnectedAgent && t.ConnectedAgent != nil
}

func (t Tool) toMap() map[string]any {
	m := make(map[string]any, len(t.Extra)+2)
	for k, v := range t.Extra {
		m[k] = v
	}
	if t.Type != "" {
		m["type"] = t.Type
	}
	if t.ConnectedAgent != nil {
		m["connected_agent"] = t.ConnectedAgent
	}
	return m
}

// fromMap rebuilds the tagged variant from a decoded map. A connected_agent
// payload that is not itself a mapping stays in Extra untyped, so it is
// invisible to dependency extraction and reference resolution.
func (t *Tool) fromMap(raw map[string]any) error {
	*t = Tool{}
	for k, v := range raw {
		switch k {
		case "type":
			if s, ok := v.(string); ok {
				t.Type = s
				continue
			}
		case "connected_agent":
			if _, ok := v.(map[string]any); ok && rawType(raw) == ToolTypeConnectedAgent {
				details := &ConnectedAgentDetails{}
				if err := mapstructure.Decode(v, details); err != nil {
					return fmt.Errorf("invalid connected_agent payload: %w", err)
				}
				t.ConnectedAgent = details
				continue
			}
		}
		if t.Extra == nil {
			t.Extra = make(map[string]any)
		}
		t.Extra[k] = v
	}
	return nil
}

func rawType(raw map[string]any) string {
	s, _ := raw["type"].(string)
	return s
}

// MarshalJSON flattens Extra alongside the typed fields.
func (t Tool) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.toMap())
}

// UnmarshalJSON preserves unknown keys in Extra.
func (t *Tool) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return t.fromMap(raw)
}

// MarshalYAML flattens Extra alongside the typed fields.
func (t Tool) MarshalYAML() (any, error) {
	return t.toMap(), nil
}

// UnmarshalYAML preserves unknown keys in Extra.
func (t *Tool) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return t.fromMap(raw)
}
