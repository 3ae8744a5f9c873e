package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
	"github.com/peteroden/aif-workflow-helper/pkg/foundry"
)

// DeleteAgent removes the remote agent with the given base name.
func (w *Workflow) DeleteAgent(ctx context.Context, name string) error {
	remote, err := w.findByName(ctx, name)
	if err != nil {
		return err
	}
	if err := w.svc.DeleteAgent(ctx, remote.ID); err != nil {
		return fmt.Errorf("failed to delete agent %q: %w", remote.Name, err)
	}
	w.log.Info("Deleted agent", "name", remote.Name, "id", remote.ID)
	return nil
}

// DeleteAll removes every remote agent matching the configured prefix and
// suffix. Per-agent failures are tallied and do not stop the rest.
func (w *Workflow) DeleteAll(ctx context.Context) (*Summary, error) {
	agents, err := w.svc.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote agents: %w", err)
	}

	summary := newSummary()
	for _, remote := range agents {
		if !strings.HasPrefix(remote.Name, w.prefix) || !strings.HasSuffix(remote.Name, w.suffix) {
			continue
		}
		baseName := agent.TrimName(remote.Name, w.prefix, w.suffix)
		if err := w.svc.DeleteAgent(ctx, remote.ID); err != nil {
			w.log.Error("Failed to delete agent", "name", remote.Name, "error", err)
			summary.Failed[baseName] = err
			continue
		}
		w.log.Info("Deleted agent", "name", remote.Name, "id", remote.ID)
		summary.Succeeded = append(summary.Succeeded, baseName)
	}
	return summary, nil
}

// ListAgents returns the remote agents matching the configured prefix and
// suffix.
func (w *Workflow) ListAgents(ctx context.Context) ([]*foundry.Agent, error) {
	agents, err := w.svc.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote agents: %w", err)
	}
	matched := make([]*foundry.Agent, 0, len(agents))
	for _, a := range agents {
		if strings.HasPrefix(a.Name, w.prefix) && strings.HasSuffix(a.Name, w.suffix) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}
