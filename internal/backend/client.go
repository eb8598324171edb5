// Package backend wraps the remote CRM actor. The gateway consumes its RPC
// surface as given; nothing here interprets the data beyond decoding it.
package backend

import (
	"context"
	"errors"

	"github.com/fes-crm/clientgate/internal/model"
)

var (
	// ErrNotReady means the session to the actor has not been established
	// yet. Callers treat this as "loading", not as an empty result.
	ErrNotReady = errors.New("backend session not established")

	// ErrNotFound is the single-entity miss from getClient.
	ErrNotFound = errors.New("client not found")
)

// Client is the typed RPC surface of the remote actor. All calls suspend on
// the context; nothing blocks beyond it.
type Client interface {
	Ready() bool

	GetAllClients(ctx context.Context) ([]model.ClientRecord, error)
	GetClient(ctx context.Context, id int64) (model.ClientRecord, error)
	CreateClient(ctx context.Context, record model.ClientRecord) (int64, error)
	UpdateClient(ctx context.Context, id int64, record model.ClientRecord) error
	UpdateClientOverviewFields(ctx context.Context, id int64, patch model.OverviewPatch) error
	DeleteClient(ctx context.Context, id int64) error

	GetDashboardStats(ctx context.Context) (model.DashboardStats, error)

	GetOnboardingPipeline(ctx context.Context) ([]model.OnboardingStage, error)
	MoveClientToStage(ctx context.Context, req model.MoveStageRequest) error

	GetClientActivityLog(ctx context.Context, clientID int64) ([]string, error)
	AppendActivityLogEntries(ctx context.Context, clientID int64, entries []string) error

	GetCallerUserProfile(ctx context.Context) (*model.UserProfile, error)
	SaveCallerUserProfile(ctx context.Context, profile model.UserProfile) error

	IsAuthorized(ctx context.Context) (model.AuthResult, error)
	GetCallerAdminEntry(ctx context.Context) (*model.AdminEntry, error)
	GetAdminEntries(ctx context.Context) ([]model.AdminEntry, error)
	AddAdmin(ctx context.Context, principal, name string, role model.AdminRole) (bool, error)
	RemoveAdmin(ctx context.Context, principal string) (bool, error)
}
