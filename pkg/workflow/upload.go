package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
	"github.com/peteroden/aif-workflow-helper/pkg/graph"
	"github.com/peteroden/aif-workflow-helper/pkg/transform"
)

// UploadAll loads every definition file in dir and creates or updates the
// corresponding remote agents in dependency order. A cycle among the
// definitions aborts the whole batch before any remote write; individual
// agent failures are tallied and do not stop the rest of the batch.
func (w *Workflow) UploadAll(ctx context.Context, dir, format string) (*Summary, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("agent directory %s does not exist: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	defs, err := transform.LoadAgentsFromDirectory(dir, format)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		w.log.Warn("No agent definitions found", "directory", dir, "format", format)
		return newSummary(), nil
	}

	order, err := graph.CreationOrder(defs)
	if err != nil {
		return nil, err
	}
	w.log.Debug("Computed agent creation order", "order", order)

	ids, err := w.remoteIDs(ctx)
	if err != nil {
		return nil, err
	}

	summary := newSummary()
	for _, name := range order {
		if _, err := w.createOrUpdate(ctx, defs[name], ids); err != nil {
			w.log.Error("Failed to sync agent", "agent", name, "error", err)
			summary.Failed[name] = err
			continue
		}
		summary.Succeeded = append(summary.Succeeded, name)
	}
	w.log.Info("Upload complete",
		"succeeded", len(summary.Succeeded), "failed", len(summary.Failed))
	return summary, nil
}

// UploadAgent creates or updates the single agent whose definition file
// is named after its base name under dir. References to other agents
// resolve against the current remote state only.
func (w *Workflow) UploadAgent(ctx context.Context, name, dir, format string) error {
	ext, err := transform.FileExtension(format)
	if err != nil {
		return err
	}
	def, err := transform.LoadAgentFile(filepath.Join(dir, name+ext), format)
	if err != nil {
		return err
	}
	ids, err := w.remoteIDs(ctx)
	if err != nil {
		return err
	}
	_, err = w.createOrUpdate(ctx, def, ids)
	return err
}

// createOrUpdate validates one definition, resolves its references
// against ids, and writes it to the service. The new or updated agent's
// id is recorded in ids under its full name so later agents in the same
// batch can resolve references to it.
func (w *Workflow) createOrUpdate(ctx context.Context, def *agent.Definition, ids map[string]string) (string, error) {
	fullName := agent.FullName(def.Name, w.prefix, w.suffix)
	if err := agent.ValidateName(fullName); err != nil {
		return "", err
	}

	out := def.Clone()
	out.Name = fullName
	if out.Model == "" {
		if w.defaultModel == "" {
			return "", fmt.Errorf("agent %q has no model and no default model deployment is configured", def.Name)
		}
		w.log.Warn("Agent has no model, using default deployment",
			"agent", def.Name, "model", w.defaultModel)
		out.Model = w.defaultModel
	}
	if out.Instructions == "" {
		return "", fmt.Errorf("agent %q has no instructions", def.Name)
	}

	w.resolveReferences(out, ids)

	if id, exists := ids[fullName]; exists {
		updated, err := w.svc.UpdateAgent(ctx, id, out)
		if err != nil {
			return "", fmt.Errorf("failed to update agent %q: %w", fullName, err)
		}
		w.log.Info("Updated agent", "name", fullName, "id", updated.ID)
		return updated.ID, nil
	}

	created, err := w.svc.CreateAgent(ctx, out)
	if err != nil {
		return "", fmt.Errorf("failed to create agent %q: %w", fullName, err)
	}
	ids[fullName] = created.ID
	w.log.Info("Created agent", "name", fullName, "id", created.ID)
	return created.ID, nil
}
