package service

import (
	"context"
	"errors"

	"github.com/fes-crm/clientgate/internal/backend"
	"github.com/fes-crm/clientgate/internal/gateway"
	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/pkg/apperrors"
)

// AdminService manages the allowlist. The backend enforces the operator
// rules authoritatively; the checks here fail fast with a clearer message
// before a doomed round-trip.
type AdminService struct {
	gw *gateway.Gateway
}

func NewAdminService(gw *gateway.Gateway) *AdminService {
	return &AdminService{gw: gw}
}

func (s *AdminService) Entries(ctx context.Context) ([]model.AdminEntry, error) {
	entries, err := s.gw.AdminEntries(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			return nil, apperrors.NewNotReady()
		}
		return nil, apperrors.New(apperrors.ErrUpstream, "admin entries unavailable", err)
	}
	return entries, nil
}

func (s *AdminService) CallerEntry(ctx context.Context) (*model.AdminEntry, error) {
	entry, err := s.gw.CallerAdminEntry(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			return nil, apperrors.NewNotReady()
		}
		return nil, apperrors.New(apperrors.ErrUpstream, "caller admin entry unavailable", err)
	}
	return entry, nil
}

// AddStaff registers a staff principal. Only the operator may add entries,
// and only the staff role can be granted this way; the single operator is
// fixed at bootstrap.
func (s *AdminService) AddStaff(ctx context.Context, req model.AddAdminRequest) error {
	if req.Role != "" && req.Role != model.RoleStaff {
		return apperrors.NewInvalidRequest("only the staff role can be granted")
	}
	if err := s.requireOperator(ctx); err != nil {
		return err
	}

	ok, err := s.gw.AddAdmin(ctx, req.Principal, req.Name, model.RoleStaff)
	if err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			return apperrors.NewNotReady()
		}
		return apperrors.New(apperrors.ErrUpstream, "add admin failed", err)
	}
	if !ok {
		return apperrors.NewInvalidRequest("principal is already registered")
	}
	return nil
}

// RemoveStaff removes a staff principal. The operator entry is never
// removable through this path.
func (s *AdminService) RemoveStaff(ctx context.Context, principal string) error {
	if err := s.requireOperator(ctx); err != nil {
		return err
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Principal == principal && entry.Role == model.RoleOperator {
			return apperrors.New(apperrors.ErrForbidden, "the operator entry cannot be removed", nil)
		}
	}

	ok, err := s.gw.RemoveAdmin(ctx, principal)
	if err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			return apperrors.NewNotReady()
		}
		return apperrors.New(apperrors.ErrUpstream, "remove admin failed", err)
	}
	if !ok {
		return apperrors.NewNotFound("principal is not registered")
	}
	return nil
}

func (s *AdminService) requireOperator(ctx context.Context) error {
	caller, err := s.CallerEntry(ctx)
	if err != nil {
		return err
	}
	if caller == nil || caller.Role != model.RoleOperator {
		return apperrors.New(apperrors.ErrForbidden, "only the operator may manage admins", nil)
	}
	return nil
}
