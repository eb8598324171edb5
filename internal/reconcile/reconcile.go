// Package reconcile combines client records from all provenance layers into
// one effective view: base-record selection across remote, seed and
// local-fallback sources, field-level precedence on top of the chosen base,
// the unioned list view, and the merged activity log.
package reconcile

import (
	"sort"
	"strings"

	"github.com/fes-crm/clientgate/internal/model"
)

// Source records where the chosen base record came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceSeed   Source = "seed"
	SourceLocal  Source = "local"
)

// BaseRecord picks the base record for an id: the remote record if present,
// else the seed record, else the local-fallback record. First match wins;
// bases from different sources are never merged together.
func BaseRecord(id int64, remote, seed, local []model.ClientRecord) (model.ClientRecord, Source, bool) {
	if c, ok := findByID(remote, id); ok {
		return c, SourceRemote, true
	}
	if c, ok := findByID(seed, id); ok {
		return c, SourceSeed, true
	}
	if c, ok := findByID(local, id); ok {
		return c, SourceLocal, true
	}
	return model.ClientRecord{}, "", false
}

func findByID(clients []model.ClientRecord, id int64) (model.ClientRecord, bool) {
	for _, c := range clients {
		if c.ID == id {
			return c, true
		}
	}
	return model.ClientRecord{}, false
}

// MergeOptions layers sparse patches over a base record. Precedence, highest
// first: Draft (an in-flight edit), Overrides (the persisted local patch),
// the base record's own value, Defaults (the documented per-field fallback,
// e.g. a seed-derived value or a literal placeholder).
type MergeOptions struct {
	Draft     map[string]string
	Overrides map[string]string
	Defaults  map[string]string
}

// MergeFields returns a new record with every editable field resolved by
// precedence. The base record is not modified.
func MergeFields(base model.ClientRecord, opts MergeOptions) model.ClientRecord {
	out := base
	for _, field := range editableFieldOrder {
		resolved := resolveField(fieldOf(&base, field), field, opts)
		setField(&out, field, resolved)
	}
	return out
}

func resolveField(baseValue, field string, opts MergeOptions) string {
	if v, ok := opts.Draft[field]; ok && v != "" {
		return v
	}
	if v, ok := opts.Overrides[field]; ok && v != "" {
		return v
	}
	if baseValue != "" {
		return baseValue
	}
	if v, ok := opts.Defaults[field]; ok {
		return v
	}
	return baseValue
}

var editableFieldOrder = []string{
	"accountId", "firstName", "lastName", "dob", "nationality",
	"passportNumber", "passportExpiry", "tin", "placeOfBirth",
	"address", "primaryCountry", "email", "phone", "riskJustification",
}

func fieldOf(c *model.ClientRecord, field string) string {
	switch field {
	case "accountId":
		return c.AccountID
	case "firstName":
		return c.FirstName
	case "lastName":
		return c.LastName
	case "dob":
		return c.DOB
	case "nationality":
		return c.Nationality
	case "passportNumber":
		return c.PassportNumber
	case "passportExpiry":
		return c.PassportExpiry
	case "tin":
		return c.TIN
	case "placeOfBirth":
		return c.PlaceOfBirth
	case "address":
		return c.Address
	case "primaryCountry":
		return c.PrimaryCountry
	case "email":
		return c.Email
	case "phone":
		return c.Phone
	case "riskJustification":
		return c.RiskJustification
	}
	return ""
}

func setField(c *model.ClientRecord, field, value string) {
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

// UnionClients builds the list view: seed, remote and local records
// concatenated with no de-duplication by id across sources. The id ranges
// are disjoint by construction, so a duplicate across sources would indicate
// a bug upstream rather than something to silently collapse here.
//
// An empty remote list stays empty within the union: no separate demo
// dataset is swapped in.
func UnionClients(seed, remote, local []model.ClientRecord) []model.ClientRecord {
	out := make([]model.ClientRecord, 0, len(seed)+len(remote)+len(local))
	out = append(out, seed...)
	out = append(out, remote...)
	out = append(out, local...)
	return out
}

// SortField names the sortable list-view columns.
type SortField string

const (
	SortByName           SortField = "name"
	SortByOnboardingDate SortField = "onboardingDate"
	SortByStatus         SortField = "status"
	SortByRiskLevel      SortField = "riskLevel"
)

// FilterAndSort applies a case-insensitive name-substring filter and sorts
// by one column, keeping the original order as the stable tie-break. The
// input slice is not modified.
func FilterAndSort(clients []model.ClientRecord, query string, field SortField, descending bool) []model.ClientRecord {
	query = strings.ToLower(strings.TrimSpace(query))

	filtered := make([]model.ClientRecord, 0, len(clients))
	for _, c := range clients {
		if query == "" || strings.Contains(strings.ToLower(c.Name()), query) {
			filtered = append(filtered, c)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		cmp := compareClients(&filtered[i], &filtered[j], field)
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})

	return filtered
}

func compareClients(a, b *model.ClientRecord, field SortField) int {
	switch field {
	case SortByOnboardingDate:
		switch {
		case a.OnboardingDate < b.OnboardingDate:
			return -1
		case a.OnboardingDate > b.OnboardingDate:
			return 1
		}
		return 0
	case SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case SortByRiskLevel:
		return strings.Compare(string(a.RiskLevel), string(b.RiskLevel))
	default:
		return strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name()))
	}
}

// MergedActivityLog concatenates remote entries then local entries, parses
// each one independently, and sorts the result newest-first. Entries are not
// de-duplicated across the two logs; an entry synced remotely after a local
// append can appear twice. That is a known limitation of the wire format,
// not an invariant to enforce here.
func MergedActivityLog(remote, local []string) []ParsedEntry {
	parsed := make([]ParsedEntry, 0, len(remote)+len(local))
	for _, entry := range remote {
		parsed = append(parsed, ParseLogEntry(entry))
	}
	for _, entry := range local {
		parsed = append(parsed, ParseLogEntry(entry))
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].Timestamp > parsed[j].Timestamp
	})
	return parsed
}
