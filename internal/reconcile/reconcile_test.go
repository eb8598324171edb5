package reconcile

import (
	"testing"

	"github.com/fes-crm/clientgate/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBaseRecordPrecedence(t *testing.T) {
	remote := []model.ClientRecord{{ID: 1, FirstName: "Remote"}}
	seed := []model.ClientRecord{{ID: 1, FirstName: "Seed"}, {ID: 2, FirstName: "SeedOnly"}}
	local := []model.ClientRecord{{ID: 1, FirstName: "Local"}, {ID: 3, FirstName: "LocalOnly"}}

	rec, source, ok := BaseRecord(1, remote, seed, local)
	assert.True(t, ok)
	assert.Equal(t, SourceRemote, source)
	assert.Equal(t, "Remote", rec.FirstName)

	rec, source, ok = BaseRecord(2, remote, seed, local)
	assert.True(t, ok)
	assert.Equal(t, SourceSeed, source)
	assert.Equal(t, "SeedOnly", rec.FirstName)

	rec, source, ok = BaseRecord(3, remote, seed, local)
	assert.True(t, ok)
	assert.Equal(t, SourceLocal, source)
	assert.Equal(t, "LocalOnly", rec.FirstName)

	_, _, ok = BaseRecord(99, remote, seed, local)
	assert.False(t, ok)
}

func TestBaseRecordNeverMergesSources(t *testing.T) {
	remote := []model.ClientRecord{{ID: 1, FirstName: "Remote"}}
	seed := []model.ClientRecord{{ID: 1, FirstName: "Seed", Phone: "+41 44 111 11 11"}}

	rec, _, ok := BaseRecord(1, remote, seed, nil)
	assert.True(t, ok)
	// the seed phone must not leak into the remote base
	assert.Equal(t, "", rec.Phone)
}

func TestMergeFieldsPrecedence(t *testing.T) {
	base := model.ClientRecord{
		ID:        1,
		FirstName: "Anna",
		Phone:     "+41 44 000 00 00",
	}

	merged := MergeFields(base, MergeOptions{
		Draft:     map[string]string{"phone": "+41 44 333 33 33"},
		Overrides: map[string]string{"phone": "+41 44 222 22 22", "email": "anna@example.ch"},
		Defaults:  map[string]string{"phone": "N/A", "nationality": "N/A"},
	})

	assert.Equal(t, "+41 44 333 33 33", merged.Phone, "draft beats override and base")
	assert.Equal(t, "anna@example.ch", merged.Email, "override fills empty base field")
	assert.Equal(t, "N/A", merged.Nationality, "default fills when everything else is empty")
	assert.Equal(t, "Anna", merged.FirstName, "untouched fields keep the base value")

	// base untouched
	assert.Equal(t, "+41 44 000 00 00", base.Phone)
}

func TestMergeFieldsEmptyPatchValueIgnored(t *testing.T) {
	base := model.ClientRecord{ID: 1, Phone: "+41 44 000 00 00"}

	merged := MergeFields(base, MergeOptions{
		Overrides: map[string]string{"phone": ""},
	})
	assert.Equal(t, "+41 44 000 00 00", merged.Phone)
}

func TestUnionClientsOrderAndNoDedup(t *testing.T) {
	seed := []model.ClientRecord{{ID: 1_000_000}}
	remote := []model.ClientRecord{{ID: 7}}
	local := []model.ClientRecord{{ID: 5_000_000}}

	union := UnionClients(seed, remote, local)
	assert.Len(t, union, 3)
	assert.Equal(t, int64(1_000_000), union[0].ID)
	assert.Equal(t, int64(7), union[1].ID)
	assert.Equal(t, int64(5_000_000), union[2].ID)

	// a duplicated id across sources stays duplicated
	union = UnionClients(seed, []model.ClientRecord{{ID: 1_000_000}}, nil)
	assert.Len(t, union, 2)
}

func TestUnionClientsEmptyRemoteStaysEmpty(t *testing.T) {
	union := UnionClients(nil, nil, nil)
	assert.Empty(t, union)
}

func TestFilterAndSort(t *testing.T) {
	clients := []model.ClientRecord{
		{ID: 1, FirstName: "Maria", LastName: "Schneider", Status: model.StatusActive},
		{ID: 2, FirstName: "Anna", LastName: "Müller", Status: model.StatusOnboarding},
		{ID: 3, FirstName: "Lukas", LastName: "Fischer", Status: model.StatusActive},
	}

	byName := FilterAndSort(clients, "", SortByName, false)
	assert.Equal(t, []int64{2, 3, 1}, ids(byName))

	desc := FilterAndSort(clients, "", SortByName, true)
	assert.Equal(t, []int64{1, 3, 2}, ids(desc))

	filtered := FilterAndSort(clients, "mÜll", SortByName, false)
	assert.Equal(t, []int64{2}, ids(filtered))

	// input untouched
	assert.Equal(t, int64(1), clients[0].ID)
}

func TestFilterAndSortStableTieBreak(t *testing.T) {
	clients := []model.ClientRecord{
		{ID: 10, FirstName: "B", Status: model.StatusActive},
		{ID: 11, FirstName: "A", Status: model.StatusActive},
		{ID: 12, FirstName: "C", Status: model.StatusOnboarding},
	}

	sorted := FilterAndSort(clients, "", SortByStatus, false)
	// equal statuses keep their original relative order
	assert.Equal(t, []int64{10, 11, 12}, ids(sorted))
}

func TestMergedActivityLogNewestFirstNoDedup(t *testing.T) {
	remote := []string{
		`{"timestamp":3000,"user":"anna","action":"Updated","details":"phone","ip":"10.0.0.1"}`,
		`{"timestamp":1000,"user":"anna","action":"Updated","details":"email","ip":"10.0.0.1"}`,
	}
	local := []string{
		"2000000000 | phone | Old: a | New: b | User: anna",
		`{"timestamp":3000,"user":"anna","action":"Updated","details":"phone","ip":"10.0.0.1"}`,
	}

	merged := MergedActivityLog(remote, local)
	assert.Len(t, merged, 4, "the synced duplicate is kept")
	assert.Equal(t, int64(3000), merged[0].Timestamp)
	assert.Equal(t, int64(3000), merged[1].Timestamp)
	assert.Equal(t, int64(2000), merged[2].Timestamp)
	assert.Equal(t, int64(1000), merged[3].Timestamp)
}

func ids(clients []model.ClientRecord) []int64 {
	out := make([]int64, len(clients))
	for i, c := range clients {
		out[i] = c.ID
	}
	return out
}
