package foundry

import (
	"context"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
)

// AgentService is the remote capability consumed by the workflow layer.
// Every call blocks until the service answers or a terminal error occurs;
// transient-failure retries are the implementation's concern, not the
// caller's. GetAgent returns a NotFoundError for unknown ids.
type AgentService interface {
	ListAgents(ctx context.Context) ([]*Agent, error)
	GetAgent(ctx context.Context, id string) (*Agent, error)
	CreateAgent(ctx context.Context, def *agent.Definition) (*Agent, error)
	UpdateAgent(ctx context.Context, id string, def *agent.Definition) (*Agent, error)
	DeleteAgent(ctx context.Context, id string) error
}
