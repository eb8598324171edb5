package service

import (
	"context"
	"errors"

	"github.com/fes-crm/clientgate/internal/backend"
	"github.com/fes-crm/clientgate/internal/gateway"
	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/pkg/apperrors"
)

// ProfileService wraps the caller-profile queries.
type ProfileService struct {
	gw *gateway.Gateway
}

func NewProfileService(gw *gateway.Gateway) *ProfileService {
	return &ProfileService{gw: gw}
}

// Get returns nil without error when the caller has no profile yet.
func (s *ProfileService) Get(ctx context.Context) (*model.UserProfile, error) {
	profile, err := s.gw.CallerUserProfile(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			return nil, apperrors.NewNotReady()
		}
		return nil, apperrors.New(apperrors.ErrUpstream, "profile unavailable", err)
	}
	return profile, nil
}

func (s *ProfileService) Save(ctx context.Context, profile model.UserProfile) error {
	if err := s.gw.SaveCallerUserProfile(ctx, profile); err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			return apperrors.NewNotReady()
		}
		return apperrors.New(apperrors.ErrUpstream, "profile save failed", err)
	}
	return nil
}
