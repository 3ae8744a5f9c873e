package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
	"github.com/peteroden/aif-workflow-helper/pkg/foundry"
	"github.com/peteroden/aif-workflow-helper/pkg/transform"
)

// DownloadAll exports every remote agent matching the configured prefix
// and suffix to one file per agent under dir. Per-agent export failures
// are tallied; filesystem setup failures abort the whole operation.
func (w *Workflow) DownloadAll(ctx context.Context, dir, format string) (*Summary, error) {
	agents, err := w.svc.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote agents: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	summary := newSummary()
	for _, remote := range agents {
		if !strings.HasPrefix(remote.Name, w.prefix) || !strings.HasSuffix(remote.Name, w.suffix) {
			w.log.Debug("Skipping agent outside prefix/suffix scope", "name", remote.Name)
			continue
		}
		baseName := agent.TrimName(remote.Name, w.prefix, w.suffix)
		if err := w.export(ctx, remote, dir, format); err != nil {
			w.log.Error("Failed to download agent", "name", remote.Name, "error", err)
			summary.Failed[baseName] = err
			continue
		}
		summary.Succeeded = append(summary.Succeeded, baseName)
	}
	w.log.Info("Download complete",
		"succeeded", len(summary.Succeeded), "failed", len(summary.Failed))
	return summary, nil
}

// DownloadAgent exports the single agent with the given base name to dir.
func (w *Workflow) DownloadAgent(ctx context.Context, name, dir, format string) error {
	remote, err := w.findByName(ctx, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return w.export(ctx, remote, dir, format)
}

// export converts one remote agent to a local definition and writes it.
func (w *Workflow) export(ctx context.Context, remote *foundry.Agent, dir, format string) error {
	def := remote.Definition()
	def.Name = agent.TrimName(remote.Name, w.prefix, w.suffix)
	w.localizeReferences(ctx, def)

	ext, err := transform.FileExtension(format)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, def.Name+ext)
	if err := transform.SaveAgentToFile(def, path, format); err != nil {
		return err
	}
	w.log.Info("Downloaded agent", "name", remote.Name, "path", path)
	return nil
}

// findByName scans the remote agent list for the full (prefixed/suffixed)
// form of the given base name.
func (w *Workflow) findByName(ctx context.Context, name string) (*foundry.Agent, error) {
	fullName := agent.FullName(name, w.prefix, w.suffix)
	agents, err := w.svc.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote agents: %w", err)
	}
	for _, a := range agents {
		if a.Name == fullName {
			return a, nil
		}
	}
	return nil, fmt.Errorf("agent %q not found", fullName)
}
