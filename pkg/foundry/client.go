package foundry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/google/uuid"

	"github.com/peteroden/aif-workflow-helper/pkg/agent"
	"github.com/peteroden/aif-workflow-helper/pkg/httpclient"
)

const (
	apiVersion = "2025-05-01"
	tokenScope = "https://ai.azure.com/.default"

	listPageSize = 100

	// Tokens are refreshed when they have less than this left to live.
	tokenRefreshWindow = 2 * time.Minute
)

// Client implements AgentService against the assistants REST surface of an
// Azure AI Foundry project endpoint.
type Client struct {
	endpoint string
	cred     azcore.TokenCredential
	http     *httpclient.Client
	log      *slog.Logger

	mu    sync.Mutex
	token azcore.AccessToken
}

var _ AgentService = (*Client)(nil)

type ClientOption func(*Client)

// WithCredential overrides the default Azure credential chain.
func WithCredential(cred azcore.TokenCredential) ClientOption {
	return func(c *Client) {
		c.cred = cred
	}
}

// WithHTTPClient overrides the retrying HTTP client.
func WithHTTPClient(hc *httpclient.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

func WithClientLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient builds a client for the given project endpoint. Without an
// explicit credential it falls back to DefaultAzureCredential, which walks
// the usual chain (environment, managed identity, CLI login).
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("project endpoint is required")
	}

	c := &Client{endpoint: strings.TrimRight(endpoint, "/")}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.New()
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.cred == nil {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure credential: %w", err)
		}
		c.cred = cred
	}

	return c, nil
}

// ListAgents returns every agent in the project, following pagination.
func (c *Client) ListAgents(ctx context.Context) ([]*Agent, error) {
	var agents []*Agent
	after := ""

	for {
		query := url.Values{}
		query.Set("limit", fmt.Sprintf("%d", listPageSize))
		if after != "" {
			query.Set("after", after)
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, "", query, nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list agents: %w", err)
		}

		agents = append(agents, page.Data...)
		if !page.HasMore || page.LastID == "" {
			break
		}
		after = page.LastID
	}

	return agents, nil
}

// GetAgent fetches a single agent by id. Unknown ids yield a NotFoundError.
func (c *Client) GetAgent(ctx context.Context, id string) (*Agent, error) {
	if id == "" {
		return nil, &NotFoundError{ID: id}
	}

	var out Agent
	if err := c.do(ctx, http.MethodGet, id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAgent creates a new agent from the (already resolved) definition.
func (c *Client) CreateAgent(ctx context.Context, def *agent.Definition) (*Agent, error) {
	var out Agent
	if err := c.do(ctx, http.MethodPost, "", nil, def, &out); err != nil {
		return nil, fmt.Errorf("failed to create agent %q: %w", def.Name, err)
	}
	return &out, nil
}

// UpdateAgent updates an existing agent in place, keeping its id.
func (c *Client) UpdateAgent(ctx context.Context, id string, def *agent.Definition) (*Agent, error) {
	var out Agent
	if err := c.do(ctx, http.MethodPost, id, nil, def, &out); err != nil {
		return nil, fmt.Errorf("failed to update agent %q: %w", def.Name, err)
	}
	return &out, nil
}

// DeleteAgent removes an agent by id.
func (c *Client) DeleteAgent(ctx context.Context, id string) error {
	var out deleteResponse
	if err := c.do(ctx, http.MethodDelete, id, nil, nil, &out); err != nil {
		return err
	}
	if !out.Deleted {
		return fmt.Errorf("service did not confirm deletion of agent %q", id)
	}
	return nil
}

func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.Token != "" && time.Until(c.token.ExpiresOn) > tokenRefreshWindow {
		return c.token.Token, nil
	}

	token, err := c.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{tokenScope}})
	if err != nil {
		return "", fmt.Errorf("failed to acquire access token: %w", err)
	}
	c.token = token
	return token.Token, nil
}

// do issues one request against the assistants collection, or against the
// single agent identified by id when it is non-empty. The raw id is kept
// for error reporting so a 404 carries the caller's id, not its escaped
// path form.
func (c *Client) do(ctx context.Context, method, id string, query url.Values, body, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", apiVersion)
	path := "/assistants"
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	endpoint := c.endpoint + path + "?" + query.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-ms-client-request-id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, doErr := c.http.Do(req)
	if resp == nil {
		return doErr
	}
	defer func() { _ = resp.Body.Close() }()

	data, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("failed to read response body: %w", readErr)
	}

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{ID: id}
	}
	if doErr != nil || resp.StatusCode >= 300 {
		var svcErr apiError
		if json.Unmarshal(data, &svcErr) == nil && svcErr.Error.Message != "" {
			return fmt.Errorf("service error (HTTP %d, %s): %s", resp.StatusCode, svcErr.Error.Code, svcErr.Error.Message)
		}
		if doErr != nil {
			return doErr
		}
		return fmt.Errorf("unexpected HTTP %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
