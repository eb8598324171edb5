package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/pkg/logger"
)

// HTTPClient talks JSON-over-HTTP to the actor. Each RPC method maps to
// POST <base>/rpc/<method> with a JSON params object and a JSON result.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	ready      atomic.Bool
}

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewHTTPClient(opts Options) *HTTPClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: timeout,
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		apiKey:     opts.APIKey,
		httpClient: httpClient,
	}
}

// Connect establishes the session. Until it succeeds every RPC returns
// ErrNotReady.
func (c *HTTPClient) Connect(ctx context.Context) error {
	if c.baseURL == "" {
		return fmt.Errorf("backend base url not configured")
	}
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, "session.open", map[string]any{}, &out); err != nil {
		return err
	}
	c.ready.Store(true)
	return nil
}

// ConnectWithRetry keeps dialing in the background until the session opens
// or the context ends. The gateway stays up meanwhile, reporting loading.
func (c *HTTPClient) ConnectWithRetry(ctx context.Context, interval time.Duration) {
	go func() {
		for {
			if err := c.Connect(ctx); err == nil {
				logger.Info("backend session established", "base_url", c.baseURL)
				return
			} else {
				logger.Warn("backend session attempt failed", "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(interval):
			}
		}
	}()
}

func (c *HTTPClient) Ready() bool {
	return c.ready.Load()
}

func (c *HTTPClient) GetAllClients(ctx context.Context) ([]model.ClientRecord, error) {
	var out []model.ClientRecord
	if err := c.call(ctx, "getAllClients", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetClient(ctx context.Context, id int64) (model.ClientRecord, error) {
	var out model.ClientRecord
	err := c.call(ctx, "getClient", map[string]any{"id": id}, &out)
	return out, err
}

func (c *HTTPClient) CreateClient(ctx context.Context, record model.ClientRecord) (int64, error) {
	var out struct {
		ID int64 `json:"id,string"`
	}
	if err := c.call(ctx, "createClient", map[string]any{"profile": record}, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *HTTPClient) UpdateClient(ctx context.Context, id int64, record model.ClientRecord) error {
	return c.call(ctx, "updateClient", map[string]any{"id": id, "profile": record}, nil)
}

func (c *HTTPClient) UpdateClientOverviewFields(ctx context.Context, id int64, patch model.OverviewPatch) error {
	return c.call(ctx, "updateClientOverviewFields", map[string]any{"id": id, "patch": patch}, nil)
}

func (c *HTTPClient) DeleteClient(ctx context.Context, id int64) error {
	return c.call(ctx, "deleteClient", map[string]any{"id": id}, nil)
}

func (c *HTTPClient) GetDashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var out model.DashboardStats
	err := c.call(ctx, "getDashboardStats", map[string]any{}, &out)
	return out, err
}

func (c *HTTPClient) GetOnboardingPipeline(ctx context.Context) ([]model.OnboardingStage, error) {
	var out []model.OnboardingStage
	if err := c.call(ctx, "getOnboardingPipeline", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) MoveClientToStage(ctx context.Context, req model.MoveStageRequest) error {
	return c.call(ctx, "moveClientToStage", req, nil)
}

func (c *HTTPClient) GetClientActivityLog(ctx context.Context, clientID int64) ([]string, error) {
	var out []string
	if err := c.call(ctx, "getClientActivityLog", map[string]any{"clientId": clientID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AppendActivityLogEntries(ctx context.Context, clientID int64, entries []string) error {
	return c.call(ctx, "appendActivityLogEntries", map[string]any{"clientId": clientID, "entries": entries}, nil)
}

func (c *HTTPClient) GetCallerUserProfile(ctx context.Context) (*model.UserProfile, error) {
	var out *model.UserProfile
	if err := c.call(ctx, "getCallerUserProfile", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) SaveCallerUserProfile(ctx context.Context, profile model.UserProfile) error {
	return c.call(ctx, "saveCallerUserProfile", map[string]any{"profile": profile}, nil)
}

func (c *HTTPClient) IsAuthorized(ctx context.Context) (model.AuthResult, error) {
	var out model.AuthResult
	err := c.call(ctx, "isAuthorized", map[string]any{}, &out)
	return out, err
}

func (c *HTTPClient) GetCallerAdminEntry(ctx context.Context) (*model.AdminEntry, error) {
	var out *model.AdminEntry
	if err := c.call(ctx, "getCallerAdminEntry", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetAdminEntries(ctx context.Context) ([]model.AdminEntry, error) {
	var out []model.AdminEntry
	if err := c.call(ctx, "getAdminEntries", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AddAdmin(ctx context.Context, principal, name string, role model.AdminRole) (bool, error) {
	var out struct {
		OK bool `json:"ok"`
	}
	err := c.call(ctx, "addAdmin", map[string]any{"principal": principal, "name": name, "role": role}, &out)
	return out.OK, err
}

func (c *HTTPClient) RemoveAdmin(ctx context.Context, principal string) (bool, error) {
	var out struct {
		OK bool `json:"ok"`
	}
	err := c.call(ctx, "removeAdmin", map[string]any{"principal": principal}, &out)
	return out.OK, err
}

func (c *HTTPClient) call(ctx context.Context, method string, params, result any) error {
	if !c.Ready() {
		return ErrNotReady
	}
	return c.do(ctx, method, params, result)
}

func (c *HTTPClient) do(ctx context.Context, method string, params, result any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return err
	}

	url := c.baseURL + "/rpc/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: upstream status %d: %s", method, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	return nil
}
