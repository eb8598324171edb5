package localstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fes-crm/clientgate/internal/kv"
	"github.com/fes-crm/clientgate/internal/pkg/logger"
)

const activityLogKeyPrefix = "client_activity_log_"

// ActivityLogStore is the per-client append-only fallback log. Entries are
// stored oldest-appended-last; consumers re-sort for display. Stored entries
// may be legacy pipe-delimited lines or structured JSON objects, and are
// never mutated or removed after append.
type ActivityLogStore struct {
	store kv.Store
}

func NewActivityLogStore(store kv.Store) *ActivityLogStore {
	return &ActivityLogStore{store: store}
}

// Load returns the stored entries for the client, oldest first. Absent or
// undecodable state yields an empty log.
func (s *ActivityLogStore) Load(clientID int64) []string {
	raw, err := s.store.Get(activityLogKey(clientID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.Warn("failed to load client activity log", "client_id", clientID, "error", err)
		}
		return []string{}
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logger.Warn("discarding undecodable client activity log", "client_id", clientID, "error", err)
		return []string{}
	}
	return entries
}

// Append reads the existing log, concatenates the new entries at the end,
// and writes back the full array.
func (s *ActivityLogStore) Append(clientID int64, entries []string) error {
	if len(entries) == 0 {
		return nil
	}

	updated := append(s.Load(clientID), entries...)
	b, err := json.Marshal(updated)
	if err != nil {
		return err
	}
	return s.store.Set(activityLogKey(clientID), string(b))
}

// Clear removes the stored log for the client.
func (s *ActivityLogStore) Clear(clientID int64) error {
	return s.store.Delete(activityLogKey(clientID))
}

func activityLogKey(clientID int64) string {
	return fmt.Sprintf("%s%d", activityLogKeyPrefix, clientID)
}
