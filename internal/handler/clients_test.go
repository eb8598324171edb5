package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fes-crm/clientgate/internal/backend"
	"github.com/fes-crm/clientgate/internal/gateway"
	"github.com/fes-crm/clientgate/internal/kv"
	"github.com/fes-crm/clientgate/internal/localstore"
	"github.com/fes-crm/clientgate/internal/middleware"
	"github.com/fes-crm/clientgate/internal/model"
	"github.com/gin-gonic/gin"

	"github.com/fes-crm/clientgate/internal/service"
)

type stubBackend struct {
	backend.Client

	ready     bool
	auth      model.AuthStatus
	clients   []model.ClientRecord
	createErr error
}

func (s *stubBackend) Ready() bool { return s.ready }

func (s *stubBackend) IsAuthorized(ctx context.Context) (model.AuthResult, error) {
	return model.AuthResult{Status: s.auth}, nil
}

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

func newTestRouter(sb *stubBackend) *gin.Engine {
	gin.SetMode(gin.TestMode)

	mem := kv.NewMemStore()
	gw := gateway.New(sb, nil)
	svc := service.NewClientService(gw,
		localstore.NewOverrideStore(mem),
		localstore.NewActivityLogStore(mem),
		localstore.NewClientStore(mem))
	h := NewClientHandler(svc)

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.PrincipalMiddleware())

	v1 := router.Group("/v1")
	v1.Use(middleware.AuthGateMiddleware(gw))
	{
		v1.GET("/clients", h.List)
		v1.POST("/clients", h.Create)
		v1.GET("/clients/:id", h.Get)
	}
	return router
}

func TestListClientsLoadingWhileNotReady(t *testing.T) {
	router := newTestRouter(&stubBackend{ready: false})

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while connecting, got %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "loading" {
		t.Fatalf("expected loading marker, got %v", resp)
	}
}

func TestUnauthorizedCallerGets403(t *testing.T) {
	router := newTestRouter(&stubBackend{ready: true, auth: model.AuthUnauthorized})

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestOperatorMissingStillPasses(t *testing.T) {
	router := newTestRouter(&stubBackend{ready: true, auth: model.AuthOperatorMissing})

	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 during bootstrap, got %d", rec.Code)
	}
}

func TestCreateClientFallbackResponse(t *testing.T) {
	router := newTestRouter(&stubBackend{
		ready:     true,
		auth:      model.AuthAuthorized,
		createErr: errors.New("actor down"),
	})

	body, _ := json.Marshal(map[string]string{"firstName": "Nora", "lastName": "Keller"})
	req := httptest.NewRequest(http.MethodPost, "/v1/clients", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderPrincipal, "nora")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID       int64 `json:"id,string"`
		Fallback bool  `json:"fallback"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Fallback {
		t.Fatalf("expected fallback flag")
	}
	if resp.ID < 5_000_000 {
		t.Fatalf("fallback id %d outside the reserved range", resp.ID)
	}
}

func TestCreateClientValidation(t *testing.T) {
	router := newTestRouter(&stubBackend{ready: true, auth: model.AuthAuthorized})

	body := []byte(`{"firstName":"Nora"}`) // lastName missing
	req := httptest.NewRequest(http.MethodPost, "/v1/clients", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetClientInvalidID(t *testing.T) {
	router := newTestRouter(&stubBackend{ready: true, auth: model.AuthAuthorized})

	req := httptest.NewRequest(http.MethodGet, "/v1/clients/not-a-number", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetClientOK(t *testing.T) {
	router := newTestRouter(&stubBackend{
		ready: true,
		auth:  model.AuthAuthorized,
		clients: []model.ClientRecord{
			{ID: 42, FirstName: "Anna", LastName: "Müller"},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/clients/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Client model.ClientRecord `json:"client"`
		Source string             `json:"source"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Source != "remote" {
		t.Fatalf("expected remote source, got %q", resp.Source)
	}
	if resp.Client.FirstName != "Anna" {
		t.Fatalf("unexpected client %+v", resp.Client)
	}
}
