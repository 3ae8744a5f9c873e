// Package workflow orchestrates syncing agent definitions between local
// files and the remote agent service. Uploads honor dependency order so a
// connected agent always exists before the agents that reference it.
package workflow

import (
	"fmt"
	"log/slog"

	"github.com/peteroden/aif-workflow-helper/pkg/foundry"
	"github.com/peteroden/aif-workflow-helper/pkg/logger"
)

// Workflow drives uploads, downloads, and deletions against an agent
// service. Prefix and suffix are applied to agent names at the service
// boundary so several environments can share one project.
type Workflow struct {
	svc          foundry.AgentService
	log          *slog.Logger
	prefix       string
	suffix       string
	defaultModel string
}

type Option func(*Workflow)

// WithPrefix prepends the given string to agent names on the service side.
func WithPrefix(prefix string) Option {
	return func(w *Workflow) { w.prefix = prefix }
}

// WithSuffix appends the given string to agent names on the service side.
func WithSuffix(suffix string) Option {
	return func(w *Workflow) { w.suffix = suffix }
}

// WithDefaultModel sets the model deployment used when a definition omits
// its own.
func WithDefaultModel(model string) Option {
	return func(w *Workflow) { w.defaultModel = model }
}

// WithLogger sets the logger used for progress and warnings.
func WithLogger(log *slog.Logger) Option {
	return func(w *Workflow) { w.log = log }
}

func New(svc foundry.AgentService, opts ...Option) *Workflow {
	w := &Workflow{
		svc: svc,
		log: logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Summary tallies the outcome of a batch operation.
type Summary struct {
	Succeeded []string
	Failed    map[string]error
}

func newSummary() *Summary {
	return &Summary{Failed: make(map[string]error)}
}

// Err returns nil when every agent in the batch succeeded.
func (s *Summary) Err() error {
	if len(s.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d agents failed", len(s.Failed), len(s.Failed)+len(s.Succeeded))
}
