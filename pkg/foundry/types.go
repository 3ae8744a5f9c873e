// Package foundry talks to the Azure AI Foundry agents endpoint. It exposes
// the narrow capability surface the sync flows need (list, get, create,
// update, delete) behind the AgentService interface so tests and future
// backends can substitute the transport.
package foundry

import (
	"fmt"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
)

// Agent is a service-side agent as returned by the API. ID and CreatedAt
// are assigned by the service and exist only on this type; they must never
// be written into definition files.
type Agent struct {
	ID           string            `json:"id"`
	Object       string            `json:"object,omitempty"`
	CreatedAt    int64             `json:"created_at,omitempty"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Model        string            `json:"model,omitempty"`
	Instructions string            `json:"instructions,omitempty"`
	Tools        []agent.Tool      `json:"tools,omitempty"`
	Temperature  *float64          `json:"temperature,omitempty"`
	TopP         *float64          `json:"top_p,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Definition converts the remote agent into a local definition, dropping
// the service-assigned fields. The result is a deep copy; mutating it does
// not touch the remote snapshot.
func (a *Agent) Definition() *agent.Definition {
	def := &agent.Definition{
		Name:         a.Name,
		Description:  a.Description,
		Model:        a.Model,
		Instructions: a.Instructions,
		Tools:        a.Tools,
		Temperature:  a.Temperature,
		TopP:         a.TopP,
		Metadata:     a.Metadata,
	}
	return def.Clone()
}

// NotFoundError reports that no agent exists for the requested id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("agent %q not found", e.ID)
}

type listResponse struct {
	Object  string   `json:"object"`
	Data    []*Agent `json:"data"`
	FirstID string   `json:"first_id,omitempty"`
	LastID  string   `json:"last_id,omitempty"`
	HasMore bool     `json:"has_more"`
}

type deleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
