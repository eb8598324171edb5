// Package localstore holds the per-client state the gateway keeps outside
// the remote backend: field overrides, fallback activity logs, and clients
// created locally after a failed remote write. Everything is JSON under
// namespaced keys in an injected kv.Store, and every load fails soft: a
// missing or undecodable value is an empty result, never an error to the
// caller.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fes-crm/clientgate/internal/kv"
	"github.com/fes-crm/clientgate/internal/pkg/logger"
)

const overridesKeyPrefix = "client_overrides_"

// EditableFields is the known editable overview field set. Override keys
// outside this set are discarded on save.
var EditableFields = map[string]bool{
	"accountId":         true,
	"firstName":         true,
	"lastName":          true,
	"dob":               true,
	"nationality":       true,
	"passportNumber":    true,
	"passportExpiry":    true,
	"tin":               true,
	"placeOfBirth":      true,
	"address":           true,
	"primaryCountry":    true,
	"email":             true,
	"phone":             true,
	"riskJustification": true,
}

// OverrideStore persists sparse field patches layered on top of a base
// record. A patch holds the latest known value for fields not reliably
// persisted remotely, or persisted remotely but pending sync.
type OverrideStore struct {
	store kv.Store
}

func NewOverrideStore(store kv.Store) *OverrideStore {
	return &OverrideStore{store: store}
}

// Load returns the stored patch for the client, or an empty map when absent
// or undecodable.
func (s *OverrideStore) Load(clientID int64) map[string]string {
	raw, err := s.store.Get(overridesKey(clientID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.Warn("failed to load client overrides", "client_id", clientID, "error", err)
		}
		return map[string]string{}
	}

	var overrides map[string]string
	if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
		logger.Warn("discarding undecodable client overrides", "client_id", clientID, "error", err)
		return map[string]string{}
	}
	if overrides == nil {
		return map[string]string{}
	}
	return overrides
}

// Save replaces the entire stored patch for the client. Last full save wins;
// this is not a merge.
func (s *OverrideStore) Save(clientID int64, overrides map[string]string) error {
	clean := make(map[string]string, len(overrides))
	for field, value := range overrides {
		if !EditableFields[field] {
			logger.Warn("dropping override for unknown field", "client_id", clientID, "field", field)
			continue
		}
		clean[field] = value
	}

	b, err := json.Marshal(clean)
	if err != nil {
		return err
	}
	return s.store.Set(overridesKey(clientID), string(b))
}

// Clear removes the stored patch for the client.
func (s *OverrideStore) Clear(clientID int64) error {
	return s.store.Delete(overridesKey(clientID))
}

func overridesKey(clientID int64) string {
	return fmt.Sprintf("%s%d", overridesKeyPrefix, clientID)
}
