// Package gateway is the typed request/response layer over the backend
// actor. Every query is cached under a stable key and every mutation
// invalidates exactly the cached queries it could have changed. Queries run
// only once the backend session is established; until then they return
// backend.ErrNotReady, which callers present as loading rather than absent.
package gateway

import (
	"context"
	"fmt"

	"github.com/fes-crm/clientgate/internal/backend"
	"github.com/fes-crm/clientgate/internal/model"
)

// Notifier receives the keys each mutation invalidated, so connected UIs
// can refetch. A nil Notifier is fine.
type Notifier interface {
	Invalidated(keys []string)
}

type Gateway struct {
	backend backend.Client
	cache   *queryCache
	notify  Notifier
}

func New(client backend.Client, notify Notifier) *Gateway {
	return &Gateway{
		backend: client,
		cache:   newQueryCache(),
		notify:  notify,
	}
}

func (g *Gateway) Ready() bool {
	return g.backend.Ready()
}

// --- queries ---

func (g *Gateway) Clients(ctx context.Context) ([]model.ClientRecord, error) {
	return query(g, ctx, "clients", g.backend.GetAllClients)
}

func (g *Gateway) Client(ctx context.Context, id int64) (model.ClientRecord, error) {
	return query(g, ctx, clientKey(id), func(ctx context.Context) (model.ClientRecord, error) {
		return g.backend.GetClient(ctx, id)
	})
}

func (g *Gateway) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	return query(g, ctx, "dashboardStats", g.backend.GetDashboardStats)
}

func (g *Gateway) OnboardingPipeline(ctx context.Context) ([]model.OnboardingStage, error) {
	return query(g, ctx, "onboardingPipeline", g.backend.GetOnboardingPipeline)
}

func (g *Gateway) ActivityLog(ctx context.Context, clientID int64) ([]string, error) {
	return query(g, ctx, activityKey(clientID), func(ctx context.Context) ([]string, error) {
		return g.backend.GetClientActivityLog(ctx, clientID)
	})
}

func (g *Gateway) AdminEntries(ctx context.Context) ([]model.AdminEntry, error) {
	return query(g, ctx, "adminEntries", g.backend.GetAdminEntries)
}

func (g *Gateway) CallerAdminEntry(ctx context.Context) (*model.AdminEntry, error) {
	return query(g, ctx, "callerAdminEntry", g.backend.GetCallerAdminEntry)
}

func (g *Gateway) CallerUserProfile(ctx context.Context) (*model.UserProfile, error) {
	return query(g, ctx, "currentUserProfile", g.backend.GetCallerUserProfile)
}

// IsAuthorized is deliberately uncached: the gate is cheap and its answer
// must track backend state immediately.
func (g *Gateway) IsAuthorized(ctx context.Context) (model.AuthResult, error) {
	if !g.backend.Ready() {
		return model.AuthResult{}, backend.ErrNotReady
	}
	return g.backend.IsAuthorized(ctx)
}

// --- mutations ---

func (g *Gateway) CreateClient(ctx context.Context, record model.ClientRecord) (int64, error) {
	id, err := g.backend.CreateClient(ctx, record)
	if err != nil {
		return 0, err
	}
	g.invalidate("clients", "dashboardStats", "onboardingPipeline")
	return id, nil
}

func (g *Gateway) UpdateClient(ctx context.Context, id int64, record model.ClientRecord) error {
	if err := g.backend.UpdateClient(ctx, id, record); err != nil {
		return err
	}
	g.invalidate(clientKey(id), "clients", "dashboardStats")
	return nil
}

func (g *Gateway) UpdateClientOverviewFields(ctx context.Context, id int64, patch model.OverviewPatch) error {
	if err := g.backend.UpdateClientOverviewFields(ctx, id, patch); err != nil {
		return err
	}
	g.invalidate(clientKey(id), "clients")
	return nil
}

// DeleteClient removes only the remote copy; seed and local-fallback
// records are left alone.
func (g *Gateway) DeleteClient(ctx context.Context, id int64) error {
	if err := g.backend.DeleteClient(ctx, id); err != nil {
		return err
	}
	g.invalidate(clientKey(id), "clients", "dashboardStats", "onboardingPipeline")
	return nil
}

// MoveClientToStage is fire-and-forget for the board: on success the
// pipeline view is stale and must be refetched; on failure the board is
// left unchanged and the error surfaces to the caller.
func (g *Gateway) MoveClientToStage(ctx context.Context, req model.MoveStageRequest) error {
	if err := g.backend.MoveClientToStage(ctx, req); err != nil {
		return err
	}
	g.invalidate("onboardingPipeline", "clients", "client:")
	return nil
}

func (g *Gateway) AppendActivityLogEntries(ctx context.Context, clientID int64, entries []string) error {
	if err := g.backend.AppendActivityLogEntries(ctx, clientID, entries); err != nil {
		return err
	}
	g.invalidate(activityKey(clientID), clientKey(clientID))
	return nil
}

func (g *Gateway) SaveCallerUserProfile(ctx context.Context, profile model.UserProfile) error {
	if err := g.backend.SaveCallerUserProfile(ctx, profile); err != nil {
		return err
	}
	g.invalidate("currentUserProfile")
	return nil
}

func (g *Gateway) AddAdmin(ctx context.Context, principal, name string, role model.AdminRole) (bool, error) {
	ok, err := g.backend.AddAdmin(ctx, principal, name, role)
	if err != nil {
		return false, err
	}
	if ok {
		g.invalidate("adminEntries")
	}
	return ok, nil
}

func (g *Gateway) RemoveAdmin(ctx context.Context, principal string) (bool, error) {
	ok, err := g.backend.RemoveAdmin(ctx, principal)
	if err != nil {
		return false, err
	}
	if ok {
		g.invalidate("adminEntries", "callerAdminEntry")
	}
	return ok, nil
}

func (g *Gateway) invalidate(keys ...string) {
	g.cache.invalidate(keys...)
	if g.notify != nil {
		g.notify.Invalidated(keys)
	}
}

func query[T any](g *Gateway, ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if !g.backend.Ready() {
		return zero, backend.ErrNotReady
	}

	if cached, ok := g.cache.get(key); ok {
		if v, ok := cached.(T); ok {
			return v, nil
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	g.cache.set(key, v)
	return v, nil
}

func clientKey(id int64) string {
	return fmt.Sprintf("client:%d", id)
}

func activityKey(id int64) string {
	return fmt.Sprintf("activityLog:%d", id)
}
