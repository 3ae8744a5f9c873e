package workflow

import (
	"context"
	"fmt"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
)

// remoteIDs fetches the current remote agent list once and indexes it by
// full (prefixed/suffixed) name. Batch operations build this table up
// front so every reference in the run resolves against the same snapshot.
func (w *Workflow) remoteIDs(ctx context.Context) (map[string]string, error) {
	agents, err := w.svc.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote agents: %w", err)
	}
	ids := make(map[string]string, len(agents))
	for _, a := range agents {
		ids[a.Name] = a.ID
	}
	return ids, nil
}

// resolveReferences prepares connected-agent tools for upload: every
// name_from_id is swapped for the concrete remote id found in ids (keyed
// by full name). Unresolvable references are logged and sent without an
// id; the symbolic name never reaches the service either way.
func (w *Workflow) resolveReferences(def *agent.Definition, ids map[string]string) {
	for i := range def.Tools {
		ca := def.Tools[i].ConnectedAgent
		if ca == nil || ca.NameFromID == "" {
			continue
		}
		if ca.NameFromID == agent.UnknownAgentName {
			// A previous download could not resolve this reference. The
			// sentinel must not reach the service.
			w.log.Warn("Dropping unresolved connected agent reference", "agent", def.Name)
			ca.NameFromID = ""
			continue
		}
		full := agent.FullName(ca.NameFromID, w.prefix, w.suffix)
		if id, ok := ids[full]; ok {
			ca.ID = id
		} else {
			w.log.Warn("Connected agent not found, leaving reference unresolved",
				"agent", def.Name, "reference", full)
		}
		ca.NameFromID = ""
	}
}

// localizeReferences prepares connected-agent tools for export: each
// remote id is resolved to the referenced agent's current name with the
// prefix and suffix stripped. Ids that no longer resolve get the
// "Unknown Agent" sentinel. The id itself is always dropped so stale
// identifiers never end up in version control.
func (w *Workflow) localizeReferences(ctx context.Context, def *agent.Definition) {
	for i := range def.Tools {
		ca := def.Tools[i].ConnectedAgent
		if ca == nil || ca.ID == "" {
			continue
		}
		remote, err := w.svc.GetAgent(ctx, ca.ID)
		if err != nil {
			w.log.Warn("Could not resolve connected agent id",
				"agent", def.Name, "id", ca.ID, "error", err)
			ca.NameFromID = agent.UnknownAgentName
		} else {
			ca.NameFromID = agent.TrimName(remote.Name, w.prefix, w.suffix)
		}
		ca.ID = ""
		if ca.Name != "" {
			ca.Name = agent.TrimName(ca.Name, w.prefix, w.suffix)
		}
	}
}
