package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/fes-crm/clientgate/internal/kv"
	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/pkg/logger"
)

const (
	localClientsKey = "local_clients"
	nextLocalIDKey  = "next_local_client_id"

	// Local client ids start at 5,000,000 so they never collide with
	// backend-assigned or seed ids.
	localIDStart = 5_000_000
)

// ClientStore persists clients that only exist locally because the remote
// create failed. Ids come from a persisted monotonic allocator so they stay
// strictly increasing across restarts sharing the same kv medium.
type ClientStore struct {
	store kv.Store
	mu    sync.Mutex
}

func NewClientStore(store kv.Store) *ClientStore {
	return &ClientStore{store: store}
}

// NextID allocates the next local client id.
func (s *ClientStore) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := int64(localIDStart)
	if raw, err := s.store.Get(nextLocalIDKey); err == nil {
		if parsed, perr := strconv.ParseInt(raw, 10, 64); perr == nil && parsed > next {
			next = parsed
		}
	}
	if err := s.store.Set(nextLocalIDKey, strconv.FormatInt(next+1, 10)); err != nil {
		logger.Warn("failed to persist local id counter", "error", err)
	}
	return next
}

// Save upserts the client by id into the persisted list.
func (s *ClientStore) Save(client model.ClientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.loadAll()
	replaced := false
	for i := range clients {
		if clients[i].ID == client.ID {
			clients[i] = client
			replaced = true
			break
		}
	}
	if !replaced {
		clients = append(clients, client)
	}
	return s.writeAll(clients)
}

// GetAll returns every locally stored client, oldest saved first.
func (s *ClientStore) GetAll() []model.ClientRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAll()
}

// GetByID returns the stored client, or false when absent.
func (s *ClientStore) GetByID(id int64) (model.ClientRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.loadAll() {
		if c.ID == id {
			return c, true
		}
	}
	return model.ClientRecord{}, false
}

// Update merges the patch into the stored client. A missing id is a no-op.
func (s *ClientStore) Update(id int64, patch map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := s.loadAll()
	for i := range clients {
		if clients[i].ID != id {
			continue
		}
		applyPatch(&clients[i], patch)
		return s.writeAll(clients)
	}
	return nil
}

func (s *ClientStore) loadAll() []model.ClientRecord {
	raw, err := s.store.Get(localClientsKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.Warn("failed to load local clients", "error", err)
		}
		return []model.ClientRecord{}
	}

	var clients []model.ClientRecord
	if err := json.Unmarshal([]byte(raw), &clients); err != nil {
		logger.Warn("discarding undecodable local clients", "error", err)
		return []model.ClientRecord{}
	}
	return clients
}

func (s *ClientStore) writeAll(clients []model.ClientRecord) error {
	b, err := json.Marshal(clients)
	if err != nil {
		return err
	}
	return s.store.Set(localClientsKey, string(b))
}

func applyPatch(c *model.ClientRecord, patch map[string]string) {
	for field, value := range patch {
		switch field {
		case "accountId":
			c.AccountID = value
		case "firstName":
			c.FirstName = value
		case "lastName":
			c.LastName = value
		case "dob":
			c.DOB = value
		case "nationality":
			c.Nationality = value
		case "passportNumber":
			c.PassportNumber = value
		case "passportExpiry":
			c.PassportExpiry = value
		case "tin":
			c.TIN = value
		case "placeOfBirth":
			c.PlaceOfBirth = value
		case "address":
			c.Address = value
		case "primaryCountry":
			c.PrimaryCountry = value
		case "email":
			c.Email = value
		case "phone":
			c.Phone = value
		case "riskJustification":
			c.RiskJustification = value
		}
	}
}

// GenerateAccountID produces an account id of the form FES-<year>-<nnnn>.
func GenerateAccountID() string {
	sequence := rand.Intn(10000)
	return fmt.Sprintf("FES-%d-%04d", time.Now().Year(), sequence)
}
