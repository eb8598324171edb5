package reconcile

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EntryKind tags which wire format a log entry parsed as.
type EntryKind string

const (
	KindStructured  EntryKind = "structured"
	KindLegacyPipe  EntryKind = "legacy_pipe"
	KindUnparseable EntryKind = "unparseable"
)

// ParsedEntry is a displayable activity-log row. Parsing never fails: a
// malformed entry degrades to an Unknown placeholder carrying the raw text.
type ParsedEntry struct {
	Kind      EntryKind `json:"kind"`
	Timestamp int64     `json:"timestamp"` // unix milliseconds
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	IP        string    `json:"ip"`
}

type structuredEntry struct {
	Timestamp int64  `json:"timestamp"`
	User      string `json:"user"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	IP        string `json:"ip"`
}

// ParseLogEntry accepts either the structured JSON format or the legacy
// pipe-delimited format:
//
//	<timestampNs> | <field> | Old: <old> | New: <new> | User: <user>
//
// Anything else becomes an Unknown placeholder rather than being dropped.
func ParseLogEntry(entry string) ParsedEntry {
	trimmed := strings.TrimSpace(entry)

	if strings.HasPrefix(trimmed, "{") {
		var parsed structuredEntry
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			out := ParsedEntry{
				Kind:      KindStructured,
				Timestamp: parsed.Timestamp,
				User:      parsed.User,
				Action:    parsed.Action,
				Details:   parsed.Details,
				IP:        parsed.IP,
			}
			if out.User == "" {
				out.User = "Unknown user"
			}
			if out.Action == "" {
				out.Action = "Updated"
			}
			if out.IP == "" {
				out.IP = "—"
			}
			return out
		}
	}

	parts := strings.Split(entry, " | ")
	if len(parts) == 5 {
		timestampMs := time.Now().UnixMilli()
		if ns, err := strconv.ParseInt(parts[0], 10, 64); err == nil {
			timestampMs = ns / int64(time.Millisecond)
		}

		field := parts[1]
		oldValue := strings.TrimPrefix(parts[2], "Old: ")
		newValue := strings.TrimPrefix(parts[3], "New: ")
		user := strings.TrimPrefix(parts[4], "User: ")
		if user == "" {
			user = "Unknown user"
		}

		return ParsedEntry{
			Kind:      KindLegacyPipe,
			Timestamp: timestampMs,
			User:      user,
			Action:    "Updated",
			Details:   fmt.Sprintf("%s: %q → %q", field, oldValue, newValue),
			IP:        "—",
		}
	}

	return ParsedEntry{
		Kind:      KindUnparseable,
		Timestamp: time.Now().UnixMilli(),
		User:      "Unknown user",
		Action:    "Unknown",
		Details:   entry,
		IP:        "—",
	}
}
