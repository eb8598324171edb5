package service

import (
	"context"
	"errors"

	"github.com/fes-crm/clientgate/internal/backend"
	"github.com/fes-crm/clientgate/internal/gateway"
	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/pipeline"
	"github.com/fes-crm/clientgate/internal/pkg/apperrors"
)

// PipelineService serves the normalized onboarding board and the
// move-to-stage mutation.
type PipelineService struct {
	gw *gateway.Gateway
}

func NewPipelineService(gw *gateway.Gateway) *PipelineService {
	return &PipelineService{gw: gw}
}

// Board fetches the remote groupings and rebuckets them into the fixed
// six-stage layout.
func (s *PipelineService) Board(ctx context.Context) ([]pipeline.Column, error) {
	stages, err := s.gw.OnboardingPipeline(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			return nil, apperrors.NewNotReady()
		}
		return nil, apperrors.New(apperrors.ErrUpstream, "pipeline unavailable", err)
	}
	return pipeline.Normalize(stages), nil
}

// Move requests the stage transition. There is no optimistic update: on
// failure the board is untouched and the error goes back to the caller; on
// success the stale pipeline cache has already been invalidated and the
// next Board call refetches.
func (s *PipelineService) Move(ctx context.Context, req model.MoveStageRequest) error {
	if req.StepNumber < 1 || req.StepNumber > pipeline.StageCount {
		return apperrors.NewInvalidRequest("step number must be between 1 and 6")
	}
	if err := s.gw.MoveClientToStage(ctx, req); err != nil {
		if errors.Is(err, backend.ErrNotReady) {
			return apperrors.NewNotReady()
		}
		return apperrors.New(apperrors.ErrUpstream, "stage move failed", err)
	}
	return nil
}
