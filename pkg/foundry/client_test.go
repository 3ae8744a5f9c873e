package foundry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
	"github.com/peteroden/aif-workflow-helper/pkg/httpclient"
)

type staticCredential struct{}

func (staticCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: "test-token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL,
		WithCredential(staticCredential{}),
		WithHTTPClient(httpclient.New(httpclient.WithMaxRetries(0))),
	)
	require.NoError(t, err)
	return client, server
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}

func TestListAgentsPaginates(t *testing.T) {
	var requests []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)

		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("x-ms-client-request-id"))
		assert.Equal(t, apiVersion, r.URL.Query().Get("api-version"))

		page := listResponse{Object: "list"}
		if r.URL.Query().Get("after") == "" {
			page.Data = []*Agent{{ID: "asst_1", Name: "agent-a"}, {ID: "asst_2", Name: "agent-b"}}
			page.LastID = "asst_2"
			page.HasMore = true
		} else {
			assert.Equal(t, "asst_2", r.URL.Query().Get("after"))
			page.Data = []*Agent{{ID: "asst_3", Name: "agent-c"}}
			page.LastID = "asst_3"
		}
		_ = json.NewEncoder(w).Encode(page)
	})

	client, _ := newTestClient(t, handler)

	agents, err := client.ListAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 3)
	assert.Equal(t, "agent-c", agents[2].Name)
	assert.Len(t, requests, 2)
}

func TestGetAgentNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"not_found","message":"No assistant found"}}`))
	})

	client, _ := newTestClient(t, handler)

	_, err := client.GetAgent(context.Background(), "asst_missing")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "asst_missing", notFound.ID)
}

func TestGetAgentNotFoundKeepsRawID(t *testing.T) {
	// Ids needing path escaping must come back unescaped in the error.
	const rawID = "asst missing/odd"

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assistants/"+url.PathEscape(rawID), r.URL.EscapedPath())
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"not_found","message":"No assistant found"}}`))
	})

	client, _ := newTestClient(t, handler)

	_, err := client.GetAgent(context.Background(), rawID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, rawID, notFound.ID)
}

func TestGetAgentEmptyID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty id")
	}))

	_, err := client.GetAgent(context.Background(), "")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCreateAgentSendsDefinition(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/assistants", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "agent-a", payload["name"])
		assert.Equal(t, "gpt-4", payload["model"])
		assert.NotContains(t, payload, "id")
		assert.NotContains(t, payload, "created_at")

		_ = json.NewEncoder(w).Encode(Agent{ID: "asst_new", Name: "agent-a", CreatedAt: time.Now().Unix()})
	})

	client, _ := newTestClient(t, handler)

	created, err := client.CreateAgent(context.Background(), &agent.Definition{
		Name:         "agent-a",
		Model:        "gpt-4",
		Instructions: "Do things.",
	})
	require.NoError(t, err)
	assert.Equal(t, "asst_new", created.ID)
}

func TestUpdateAgentPostsToIDPath(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/assistants/asst_7", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Agent{ID: "asst_7", Name: "agent-a"})
	})

	client, _ := newTestClient(t, handler)

	updated, err := client.UpdateAgent(context.Background(), "asst_7", &agent.Definition{
		Name:         "agent-a",
		Model:        "gpt-4",
		Instructions: "Updated.",
	})
	require.NoError(t, err)
	assert.Equal(t, "asst_7", updated.ID)
}

func TestDeleteAgent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/assistants/asst_9", r.URL.Path)
		_ = json.NewEncoder(w).Encode(deleteResponse{ID: "asst_9", Deleted: true})
	})

	client, _ := newTestClient(t, handler)
	assert.NoError(t, client.DeleteAgent(context.Background(), "asst_9"))
}

func TestDeleteAgentUnconfirmed(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(deleteResponse{ID: "asst_9", Deleted: false})
	})

	client, _ := newTestClient(t, handler)
	assert.Error(t, client.DeleteAgent(context.Background(), "asst_9"))
}

func TestServiceErrorSurfacesMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"permission_denied","message":"Caller lacks access"}}`))
	})

	client, _ := newTestClient(t, handler)

	_, err := client.ListAgents(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission_denied")
	assert.Contains(t, err.Error(), "Caller lacks access")
}

func TestAgentDefinitionStripsTransientFields(t *testing.T) {
	temp := 0.3
	remote := &Agent{
		ID:           "asst_1",
		CreatedAt:    1700000000,
		Name:         "pre-child-v1",
		Model:        "gpt-4",
		Instructions: "Assist.",
		Temperature:  &temp,
		Tools: []agent.Tool{{
			Type:           agent.ToolTypeConnectedAgent,
			ConnectedAgent: &agent.ConnectedAgentDetails{ID: "asst_2"},
		}},
	}

	def := remote.Definition()

	out, err := json.Marshal(def)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "created_at")

	// Deep copy: mutating the definition leaves the remote snapshot alone.
	def.Tools[0].ConnectedAgent.ID = ""
	assert.Equal(t, "asst_2", remote.Tools[0].ConnectedAgent.ID)
}

func TestTokenIsCached(t *testing.T) {
	var tokenCalls int
	cred := countingCredential{calls: &tokenCalls}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(listResponse{Object: "list"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithCredential(cred),
		WithHTTPClient(httpclient.New(httpclient.WithMaxRetries(0))))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := client.ListAgents(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, tokenCalls)
}

type countingCredential struct {
	calls *int
}

func (c countingCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	*c.calls++
	if len(opts.Scopes) != 1 || opts.Scopes[0] != tokenScope {
		return azcore.AccessToken{}, fmt.Errorf("unexpected scopes: %v", opts.Scopes)
	}
	return azcore.AccessToken{Token: "cached-token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}
