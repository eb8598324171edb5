package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fes-crm/clientgate/internal/backend"
	"github.com/fes-crm/clientgate/internal/gateway"
	"github.com/fes-crm/clientgate/internal/kv"
	"github.com/fes-crm/clientgate/internal/localstore"
	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/pkg/apperrors"
	"github.com/fes-crm/clientgate/internal/reconcile"
	"github.com/fes-crm/clientgate/internal/seed"
)

// stubBackend embeds the interface so each test overrides only the calls it
// exercises; anything unexpected panics loudly.
type stubBackend struct {
	backend.Client

	ready     bool
	clients   []model.ClientRecord
	createErr error
	patchErr  error
	appendErr error
}

func (s *stubBackend) Ready() bool { return s.ready }

func (s *stubBackend) GetAllClients(ctx context.Context) ([]model.ClientRecord, error) {
	return s.clients, nil
}

func (s *stubBackend) GetClient(ctx context.Context, id int64) (model.ClientRecord, error) {
	for _, c := range s.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return model.ClientRecord{}, backend.ErrNotFound
}

func (s *stubBackend) CreateClient(ctx context.Context, record model.ClientRecord) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	return 100, nil
}

func (s *stubBackend) UpdateClientOverviewFields(ctx context.Context, id int64, patch model.OverviewPatch) error {
	return s.patchErr
}

func (s *stubBackend) AppendActivityLogEntries(ctx context.Context, clientID int64, entries []string) error {
	return s.appendErr
}

func (s *stubBackend) GetClientActivityLog(ctx context.Context, clientID int64) ([]string, error) {
	return nil, nil
}

func newTestService(sb *stubBackend) (*ClientService, *localstore.OverrideStore, *localstore.ActivityLogStore, *localstore.ClientStore) {
	mem := kv.NewMemStore()
	overrides := localstore.NewOverrideStore(mem)
	activity := localstore.NewActivityLogStore(mem)
	locals := localstore.NewClientStore(mem)
	gw := gateway.New(sb, nil)
	return NewClientService(gw, overrides, activity, locals), overrides, activity, locals
}

func TestListClientsNotReadyIsLoading(t *testing.T) {
	svc, _, _, _ := newTestService(&stubBackend{ready: false})

	_, err := svc.ListClients(context.Background(), "", reconcile.SortByName, false)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrNotReady {
		t.Fatalf("expected not-ready error, got %v", err)
	}
}

func TestListClientsUnionsSeedRemoteLocal(t *testing.T) {
	sb := &stubBackend{
		ready:   true,
		clients: []model.ClientRecord{{ID: 42, FirstName: "Remote", LastName: "Only"}},
	}
	svc, _, _, locals := newTestService(sb)

	localID := locals.NextID()
	_ = locals.Save(model.ClientRecord{ID: localID, FirstName: "Local", LastName: "Fallback"})

	list, err := svc.ListClients(context.Background(), "", reconcile.SortByName, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	want := len(seed.Clients()) + 2
	if len(list) != want {
		t.Fatalf("expected %d clients, got %d", want, len(list))
	}
}

func TestCreateClientFallsBackLocally(t *testing.T) {
	sb := &stubBackend{ready: true, createErr: errors.New("actor unavailable")}
	svc, _, _, locals := newTestService(sb)

	result, err := svc.CreateClient(context.Background(), model.CreateClientRequest{
		FirstName: "Nora",
		LastName:  "Keller",
	}, "tester")
	if err != nil {
		t.Fatalf("create must not fail when the local store works: %v", err)
	}
	if !result.Fallback {
		t.Fatalf("expected fallback flag")
	}
	if result.ID < 5_000_000 {
		t.Fatalf("fallback id %d not in the reserved local range", result.ID)
	}

	stored, ok := locals.GetByID(result.ID)
	if !ok {
		t.Fatalf("fallback client not persisted")
	}
	if stored.CreatedBy != "tester" {
		t.Fatalf("principal not recorded, got %q", stored.CreatedBy)
	}
	if !strings.HasPrefix(stored.AccountID, "FES-") {
		t.Fatalf("expected generated account id, got %q", stored.AccountID)
	}
	if stored.Status != model.StatusProspect {
		t.Fatalf("expected prospect default, got %q", stored.Status)
	}
}

func TestCreateClientRemoteWinsNoFallback(t *testing.T) {
	sb := &stubBackend{ready: true}
	svc, _, _, locals := newTestService(sb)

	result, err := svc.CreateClient(context.Background(), model.CreateClientRequest{
		FirstName: "Nora",
		LastName:  "Keller",
	}, "tester")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Fallback || result.ID != 100 {
		t.Fatalf("expected remote id 100, got %+v", result)
	}
	if len(locals.GetAll()) != 0 {
		t.Fatalf("remote create must not touch the local store")
	}
}

func TestGetClientOverrideWinsOverRemote(t *testing.T) {
	sb := &stubBackend{
		ready: true,
		clients: []model.ClientRecord{{
			ID: 42, FirstName: "Anna", LastName: "Müller", Phone: "+41 44 000 00 00",
		}},
	}
	svc, overrides, _, _ := newTestService(sb)
	_ = overrides.Save(42, map[string]string{"phone": "+41 44 999 99 99"})

	view, err := svc.GetClient(context.Background(), 42)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if view.Source != reconcile.SourceRemote {
		t.Fatalf("expected remote base, got %s", view.Source)
	}
	if view.Client.Phone != "+41 44 999 99 99" {
		t.Fatalf("override must win over the remote value, got %q", view.Client.Phone)
	}
	if view.Client.FirstName != "Anna" {
		t.Fatalf("non-overridden fields come from the base")
	}
}

func TestGetClientSeedBaseWithDefaults(t *testing.T) {
	sb := &stubBackend{ready: true} // no remote clients
	svc, _, _, _ := newTestService(sb)

	seedID := seed.Clients()[0].ID
	view, err := svc.GetClient(context.Background(), seedID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if view.Source != reconcile.SourceSeed {
		t.Fatalf("expected seed base, got %s", view.Source)
	}
	if view.Client.PassportNumber == "" {
		t.Fatalf("expected seed-derived passport default")
	}
}

func TestGetClientUnknownIDNotFound(t *testing.T) {
	sb := &stubBackend{ready: true}
	svc, _, _, _ := newTestService(sb)

	_, err := svc.GetClient(context.Background(), 987654)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestSaveOverviewRemoteFailureKeptLocally(t *testing.T) {
	sb := &stubBackend{
		ready:     true,
		clients:   []model.ClientRecord{{ID: 42, FirstName: "Anna", LastName: "Müller"}},
		patchErr:  errors.New("actor write failed"),
		appendErr: errors.New("actor write failed"),
	}
	svc, overrides, activity, _ := newTestService(sb)

	fallback, err := svc.SaveOverview(context.Background(), 42, model.OverviewPatch{"phone": "+41 44 1"}, "anna", "10.0.0.1")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !fallback {
		t.Fatalf("expected fallback flag on remote failure")
	}

	if overrides.Load(42)["phone"] != "+41 44 1" {
		t.Fatalf("override patch not persisted")
	}
	log := activity.Load(42)
	if len(log) != 1 {
		t.Fatalf("expected one local activity line, got %d", len(log))
	}
	parsed := reconcile.ParseLogEntry(log[0])
	if parsed.Kind != reconcile.KindLegacyPipe {
		t.Fatalf("local lines use the legacy format, got %s", parsed.Kind)
	}
}

func TestSaveOverviewMergesIntoExistingOverrides(t *testing.T) {
	sb := &stubBackend{
		ready:   true,
		clients: []model.ClientRecord{{ID: 42, FirstName: "Anna", LastName: "Müller"}},
	}
	svc, overrides, _, _ := newTestService(sb)
	_ = overrides.Save(42, map[string]string{"email": "old@example.ch"})

	if _, err := svc.SaveOverview(context.Background(), 42, model.OverviewPatch{"phone": "+41 44 1"}, "anna", "10.0.0.1"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := overrides.Load(42)
	if loaded["email"] != "old@example.ch" || loaded["phone"] != "+41 44 1" {
		t.Fatalf("patch must merge into the stored overrides, got %v", loaded)
	}
}

func TestActivityLogMergesRemoteAndLocal(t *testing.T) {
	sb := &stubBackend{
		ready:   true,
		clients: []model.ClientRecord{{ID: 42}},
	}
	svc, _, activity, _ := newTestService(sb)
	_ = activity.Append(42, []string{"1700000000000000000 | phone | Old: a | New: b | User: anna"})

	entries, err := svc.ActivityLog(context.Background(), 42)
	if err != nil {
		t.Fatalf("activity failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the local entry, got %d", len(entries))
	}
	if entries[0].Kind != reconcile.KindLegacyPipe {
		t.Fatalf("unexpected kind %s", entries[0].Kind)
	}
}
