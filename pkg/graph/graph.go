// Package graph builds the inter-agent dependency graph and computes a
// creation order that the sync flow can follow. The graph is rebuilt from
// scratch on every invocation; nothing here is persisted.
package graph

import (
	"fmt"
	"sort"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
)

// CycleError is returned when no progress can be made while ordering:
// either a genuine dependency cycle, or a reference to an agent that is
// not part of the definition set. Remaining lists the blocked agents in
// lexical order.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependencies detected for %v", e.Remaining)
}

// Dependencies scans each definition's tools for connected_agent references
// and returns a map of agent name to the set of agent names it depends on.
// Agents without references are absent from the map. References that are
// empty or carry the unknown-agent sentinel are ignored.
func Dependencies(defs map[string]*agent.Definition) map[string]map[string]bool {
	deps := make(map[string]map[string]bool)
	for name, def := range defs {
		if def == nil {
			continue
		}
		for _, tool := range def.Tools {
			if !tool.IsConnectedAgent() {
				continue
			}
			ref := tool.ConnectedAgent.NameFromID
			if ref == "" || ref == agent.UnknownAgentName {
				continue
			}
			if deps[name] == nil {
				deps[name] = make(map[string]bool)
			}
			deps[name][ref] = true
		}
	}
	return deps
}

// CreationOrder orders the definition set so that every dependency precedes
// its dependents. The order is deterministic: agents that become ready in
// the same pass are appended in lexical order.
//
// Cycle policy is fail-fast: a cycle (including a self-reference) aborts
// with a CycleError naming every agent that could not be placed, rather
// than uploading a batch whose cross-references cannot all resolve.
func CreationOrder(defs map[string]*agent.Definition) ([]string, error) {
	deps := Dependencies(defs)

	remaining := make(map[string]bool, len(defs))
	for name := range defs {
		remaining[name] = true
	}

	placed := make(map[string]bool, len(defs))
	order := make([]string, 0, len(defs))

	for len(remaining) > 0 {
		var ready []string
		for name := range remaining {
			blocked := false
			for dep := range deps[name] {
				if !placed[dep] {
					blocked = true
					break
				}
			}
			if !blocked {
				ready = append(ready, name)
			}
		}

		if len(ready) == 0 {
			stuck := make([]string, 0, len(remaining))
			for name := range remaining {
				stuck = append(stuck, name)
			}
			sort.Strings(stuck)
			return nil, &CycleError{Remaining: stuck}
		}

		sort.Strings(ready)
		for _, name := range ready {
			order = append(order, name)
			placed[name] = true
			delete(remaining, name)
		}
	}

	return order, nil
}
