package service

import (
	"context"
	"errors"
	"time"

	"github.com/fes-crm/clientgate/internal/backend"
	"github.com/fes-crm/clientgate/internal/gateway"
	"github.com/fes-crm/clientgate/internal/localstore"
	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/pkg/apperrors"
	"github.com/fes-crm/clientgate/internal/pkg/logger"
	"github.com/fes-crm/clientgate/internal/pkg/metrics"
	"github.com/fes-crm/clientgate/internal/reconcile"
	"github.com/fes-crm/clientgate/internal/seed"
)

// ClientService reconciles the remote backend, the seed data and the local
// fallback stores into the effective client views, and routes writes remote
// first with a local safety net.
type ClientService struct {
	gw        *gateway.Gateway
	overrides *localstore.OverrideStore
	activity  *localstore.ActivityLogStore
	locals    *localstore.ClientStore
}

func NewClientService(gw *gateway.Gateway, overrides *localstore.OverrideStore, activity *localstore.ActivityLogStore, locals *localstore.ClientStore) *ClientService {
	return &ClientService{
		gw:        gw,
		overrides: overrides,
		activity:  activity,
		locals:    locals,
	}
}

// ListClients returns the unioned, filtered and sorted list view. A
// session-not-ready condition surfaces as loading; any other remote read
// failure degrades to an empty remote set so the seed and local records
// still render.
func (s *ClientService) ListClients(ctx context.Context, query string, sortField reconcile.SortField, descending bool) ([]model.ClientRecord, error) {
	remote, err := s.gw.Clients(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			return nil, apperrors.NewNotReady()
		}
		logger.Warn("remote client list unavailable, showing seed and local records only", "error", err)
		remote = nil
	}

	union := reconcile.UnionClients(seed.Clients(), remote, s.locals.GetAll())
	return reconcile.FilterAndSort(union, query, sortField, descending), nil
}

// ClientView is the reconciled single-client view.
type ClientView struct {
	Client    model.ClientRecord `json:"client"`
	Source    reconcile.Source   `json:"source"`
	Overrides map[string]string  `json:"overrides,omitempty"`
}

// GetClient resolves the base record by provenance (remote > seed > local)
// and layers the persisted overrides and seed-derived defaults on top.
func (s *ClientService) GetClient(ctx context.Context, id int64) (ClientView, error) {
	var remote []model.ClientRecord
	record, err := s.gw.Client(ctx, id)
	switch {
	case err == nil:
		remote = []model.ClientRecord{record}
	case errors.Is(err, backend.ErrNotReady):
		return ClientView{}, apperrors.NewNotReady()
	case errors.Is(err, backend.ErrNotFound):
		// fall through to seed and local sources
	default:
		logger.Warn("remote client fetch failed, trying seed and local sources", "client_id", id, "error", err)
	}

	base, source, ok := reconcile.BaseRecord(id, remote, seed.Clients(), s.locals.GetAll())
	if !ok {
		return ClientView{}, apperrors.NewNotFound("client not found")
	}

	overrides := s.overrides.Load(id)
	merged := reconcile.MergeFields(base, reconcile.MergeOptions{
		Overrides: overrides,
		Defaults:  fieldDefaults(id),
	})

	return ClientView{Client: merged, Source: source, Overrides: overrides}, nil
}

// fieldDefaults is the documented per-field fallback layer: values derived
// from the deterministic seed detail where one exists, a literal placeholder
// otherwise.
func fieldDefaults(id int64) map[string]string {
	detail := seed.GenerateDetail(id, time.Now())

	defaults := map[string]string{
		"dob":            "N/A",
		"nationality":    "N/A",
		"tin":            "N/A",
		"placeOfBirth":   "N/A",
		"address":        "N/A",
		"primaryCountry": "Switzerland",
		"email":          "N/A",
		"phone":          "N/A",
	}
	for _, doc := range detail.IdentityDocuments {
		if doc.Type == "Passport" {
			defaults["passportNumber"] = doc.Number
			defaults["passportExpiry"] = doc.ExpiryDate
		}
	}
	if len(detail.TaxInformation.TaxIDNumbers) > 0 {
		defaults["tin"] = detail.TaxInformation.TaxIDNumbers[0]
	}
	return defaults
}

// CreateResult reports where the created record landed.
type CreateResult struct {
	ID       int64 `json:"id,string"`
	Fallback bool  `json:"fallback"`
}

// CreateClient prefers the remote create. When it fails for any reason the
// record is persisted locally under an id from the reserved local range so
// the user's input is never lost; the caller gets a non-blocking warning via
// the Fallback flag.
func (s *ClientService) CreateClient(ctx context.Context, req model.CreateClientRequest, principal string) (CreateResult, error) {
	record := recordFromRequest(req)
	record.CreatedBy = principal
	record.CreatedDate = time.Now().UnixNano()
	if record.AccountID == "" {
		record.AccountID = localstore.GenerateAccountID()
	}

	id, err := s.gw.CreateClient(ctx, record)
	if err == nil {
		return CreateResult{ID: id}, nil
	}

	logger.Warn("remote create failed, persisting client locally", "error", err)
	metrics.RemoteFallbacks.WithLabelValues("createClient").Inc()

	record.ID = s.locals.NextID()
	if saveErr := s.locals.Save(record); saveErr != nil {
		return CreateResult{}, apperrors.Wrap(saveErr)
	}
	return CreateResult{ID: record.ID, Fallback: true}, nil
}

// UpdateClient replaces the full record remotely; on failure the change is
// kept locally (the local record for fallback clients, the override patch
// for everything else).
func (s *ClientService) UpdateClient(ctx context.Context, id int64, record model.ClientRecord) (fallback bool, err error) {
	record.ID = id
	if err := s.gw.UpdateClient(ctx, id, record); err == nil {
		return false, nil
	} else if errors.Is(err, backend.ErrNotFound) {
		if _, ok := s.locals.GetByID(id); !ok {
			return false, apperrors.NewNotFound("client not found")
		}
	} else {
		logger.Warn("remote update failed, keeping change locally", "client_id", id, "error", err)
	}

	metrics.RemoteFallbacks.WithLabelValues("updateClient").Inc()
	if _, ok := s.locals.GetByID(id); ok {
		if saveErr := s.locals.Save(record); saveErr != nil {
			return true, apperrors.Wrap(saveErr)
		}
		return true, nil
	}

	patch := overridePatchFromRecord(record)
	if saveErr := s.overrides.Save(id, patch); saveErr != nil {
		return true, apperrors.Wrap(saveErr)
	}
	return true, nil
}

// SaveOverview writes only the changed overview fields. The remote patch is
// attempted first; the local override patch and the local activity log are
// written regardless of the remote outcome, so a partial remote failure can
// leave the stores diverged until the next successful sync. That trade was
// chosen over losing the user's edit.
func (s *ClientService) SaveOverview(ctx context.Context, id int64, patch model.OverviewPatch, user, ip string) (fallback bool, err error) {
	remoteErr := s.gw.UpdateClientOverviewFields(ctx, id, patch)
	if remoteErr != nil {
		logger.Warn("remote overview save failed, override patch kept locally", "client_id", id, "error", remoteErr)
		metrics.RemoteFallbacks.WithLabelValues("updateOverview").Inc()
	}

	merged := s.overrides.Load(id)
	for field, value := range patch {
		merged[field] = value
	}
	if saveErr := s.overrides.Save(id, merged); saveErr != nil {
		return remoteErr != nil, apperrors.Wrap(saveErr)
	}

	if _, ok := s.locals.GetByID(id); ok {
		if updErr := s.locals.Update(id, patch); updErr != nil {
			logger.Warn("failed to update local fallback record", "client_id", id, "error", updErr)
		}
	}

	s.recordChanges(ctx, id, patch, user, ip)
	return remoteErr != nil, nil
}

// recordChanges appends one activity entry per changed field: structured
// JSON entries to the remote log when possible, legacy pipe lines to the
// local log unconditionally as the safety net.
func (s *ClientService) recordChanges(ctx context.Context, id int64, patch model.OverviewPatch, user, ip string) {
	if len(patch) == 0 {
		return
	}
	now := time.Now()

	structured := make([]string, 0, len(patch))
	local := make([]string, 0, len(patch))
	for field, value := range patch {
		structured = append(structured, model.ActivityEntry{
			Timestamp: now.UnixMilli(),
			User:      user,
			Action:    "Updated",
			Details:   field + " changed to " + value,
			IP:        ip,
		}.Encode())
		local = append(local, model.LegacyActivityLine(now.UnixNano(), field, "", value, user))
	}

	if err := s.gw.AppendActivityLogEntries(ctx, id, structured); err != nil {
		logger.Warn("remote activity append failed", "client_id", id, "error", err)
		metrics.RemoteFallbacks.WithLabelValues("appendActivity").Inc()
	}
	if err := s.activity.Append(id, local); err != nil {
		logger.Warn("local activity append failed", "client_id", id, "error", err)
	}
}

// AppendActivity records explicit field changes supplied by the caller.
func (s *ClientService) AppendActivity(ctx context.Context, id int64, changes []model.ActivityChange, user, ip string) error {
	now := time.Now()

	structured := make([]string, 0, len(changes))
	local := make([]string, 0, len(changes))
	for _, ch := range changes {
		who := ch.User
		if who == "" {
			who = user
		}
		structured = append(structured, model.ActivityEntry{
			Timestamp: now.UnixMilli(),
			User:      who,
			Action:    "Updated",
			Details:   ch.Field + `: "` + ch.OldValue + `" → "` + ch.NewValue + `"`,
			IP:        ip,
		}.Encode())
		local = append(local, model.LegacyActivityLine(now.UnixNano(), ch.Field, ch.OldValue, ch.NewValue, who))
	}

	if err := s.gw.AppendActivityLogEntries(ctx, id, structured); err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			// loading is not a write failure; keep the local copy only
			logger.Debug("backend not ready, activity kept locally", "client_id", id)
		} else {
			logger.Warn("remote activity append failed", "client_id", id, "error", err)
		}
		metrics.RemoteFallbacks.WithLabelValues("appendActivity").Inc()
	}
	return s.activity.Append(id, local)
}

// ActivityLog returns the merged, parsed, newest-first log for a client.
// Remote entries come first in the concatenation; nothing is de-duplicated.
func (s *ClientService) ActivityLog(ctx context.Context, id int64) ([]reconcile.ParsedEntry, error) {
	remote, err := s.gw.ActivityLog(ctx, id)
	if err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			return nil, apperrors.NewNotReady()
		}
		logger.Warn("remote activity log unavailable", "client_id", id, "error", err)
		remote = nil
	}
	return reconcile.MergedActivityLog(remote, s.activity.Load(id)), nil
}

// DeleteClient removes the remote copy only. Seed and local records stay;
// lifecycle is otherwise modeled by status transitions, not deletion.
func (s *ClientService) DeleteClient(ctx context.Context, id int64) error {
	if err := s.gw.DeleteClient(ctx, id); err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			return apperrors.NewNotReady()
		}
		if errors.Is(err, backend.ErrNotFound) {
			return apperrors.NewNotFound("client not found")
		}
		return apperrors.New(apperrors.ErrUpstream, "delete failed", err)
	}
	return nil
}

// DashboardStats passes the remote aggregates through.
func (s *ClientService) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	stats, err := s.gw.DashboardStats(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			return model.DashboardStats{}, apperrors.NewNotReady()
		}
		return model.DashboardStats{}, apperrors.New(apperrors.ErrUpstream, "dashboard stats unavailable", err)
	}
	return stats, nil
}

// Detail returns the deterministic seed detail for a client.
func (s *ClientService) Detail(id int64) seed.Detail {
	return seed.GenerateDetail(id, time.Now())
}

func recordFromRequest(req model.CreateClientRequest) model.ClientRecord {
	status := req.Status
	if status == "" {
		status = model.StatusProspect
	}
	clientType := req.ClientType
	if clientType == "" {
		clientType = model.TypeIndividual
	}
	riskLevel := req.RiskLevel
	if riskLevel == "" {
		riskLevel = model.RiskLow
	}

	return model.ClientRecord{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		DOB:                 req.DOB,
		Nationality:         req.Nationality,
		PassportNumber:      req.PassportNumber,
		PassportExpiry:      req.PassportExpiry,
		TIN:                 req.TIN,
		PlaceOfBirth:        req.PlaceOfBirth,
		Address:             req.Address,
		PrimaryCountry:      req.PrimaryCountry,
		Email:               req.Email,
		Phone:               req.Phone,
		ClientType:          clientType,
		Status:              status,
		RiskLevel:           riskLevel,
		RiskJustification:   req.RiskJustification,
		RelationshipManager: req.RelationshipManager,
	}
}

func overridePatchFromRecord(record model.ClientRecord) map[string]string {
	patch := map[string]string{}
	put := func(field, value string) {
		if value != "" {
			patch[field] = value
		}
	}
	put("accountId", record.AccountID)
	put("firstName", record.FirstName)
	put("lastName", record.LastName)
	put("dob", record.DOB)
	put("nationality", record.Nationality)
	put("passportNumber", record.PassportNumber)
	put("passportExpiry", record.PassportExpiry)
	put("tin", record.TIN)
	put("placeOfBirth", record.PlaceOfBirth)
	put("address", record.Address)
	put("primaryCountry", record.PrimaryCountry)
	put("email", record.Email)
	put("phone", record.Phone)
	put("riskJustification", record.RiskJustification)
	return patch
}
