package model

import (
	"encoding/json"
	"fmt"
)

// ActivityEntry is the structured activity-log wire format: a JSON object
// with a millisecond timestamp. The legacy wire format is a pipe-delimited
// string with a nanosecond timestamp; both coexist in stored logs and are
// handled by the reconcile package's parser.
type ActivityEntry struct {
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	User      string `json:"user"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	IP        string `json:"ip"`
}

// Encode renders the entry to its JSON wire form.
func (e ActivityEntry) Encode() string {
	b, err := json.Marshal(e)
	if err != nil {
		return ""
	}
	return string(b)
}

// LegacyActivityLine renders a field change in the legacy pipe-delimited
// wire format used by the local fallback log.
func LegacyActivityLine(tsNs int64, field, oldValue, newValue, user string) string {
	return fmt.Sprintf("%d | %s | Old: %s | New: %s | User: %s", tsNs, field, oldValue, newValue, user)
}
