package localstore

import (
	"regexp"
	"testing"

	"github.com/fes-crm/clientgate/internal/kv"
	"github.com/fes-crm/clientgate/internal/model"
)

func TestOverrideStoreRoundTrip(t *testing.T) {
	store := NewOverrideStore(kv.NewMemStore())

	patch := map[string]string{"phone": "+41 44 123 45 67", "email": "test@example.ch"}
	if err := store.Save(42, patch); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := store.Load(42)
	if loaded["phone"] != patch["phone"] || loaded["email"] != patch["email"] {
		t.Fatalf("round trip mismatch: %v", loaded)
	}
}

func TestOverrideStoreDropsUnknownFields(t *testing.T) {
	store := NewOverrideStore(kv.NewMemStore())

	if err := store.Save(1, map[string]string{"phone": "x", "evilField": "y"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := store.Load(1)
	if _, ok := loaded["evilField"]; ok {
		t.Fatalf("unknown field survived the save")
	}
	if loaded["phone"] != "x" {
		t.Fatalf("known field lost")
	}
}

func TestOverrideStoreSaveReplacesWhole(t *testing.T) {
	store := NewOverrideStore(kv.NewMemStore())

	_ = store.Save(1, map[string]string{"phone": "a", "email": "b"})
	_ = store.Save(1, map[string]string{"phone": "c"})

	loaded := store.Load(1)
	if _, ok := loaded["email"]; ok {
		t.Fatalf("save must replace, not merge")
	}
	if loaded["phone"] != "c" {
		t.Fatalf("unexpected phone %q", loaded["phone"])
	}
}

func TestOverrideStoreLoadMissingIsEmpty(t *testing.T) {
	store := NewOverrideStore(kv.NewMemStore())
	loaded := store.Load(999)
	if loaded == nil || len(loaded) != 0 {
		t.Fatalf("expected empty map, got %v", loaded)
	}
}

func TestOverrideStoreLoadCorruptIsEmpty(t *testing.T) {
	mem := kv.NewMemStore()
	_ = mem.Set("client_overrides_7", "{{{not json")

	store := NewOverrideStore(mem)
	loaded := store.Load(7)
	if len(loaded) != 0 {
		t.Fatalf("expected empty map for corrupt state, got %v", loaded)
	}
}

func TestActivityLogAppendPreservesOrder(t *testing.T) {
	store := NewActivityLogStore(kv.NewMemStore())

	_ = store.Append(5, []string{"first"})
	_ = store.Append(5, []string{"second", "third"})

	entries := store.Load(5)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0] != "first" || entries[2] != "third" {
		t.Fatalf("order not preserved: %v", entries)
	}
}

func TestClientStoreNextIDMonotonicAcrossSessions(t *testing.T) {
	mem := kv.NewMemStore()

	first := NewClientStore(mem)
	a := first.NextID()
	b := first.NextID()

	// a new store over the same medium continues the sequence
	second := NewClientStore(mem)
	c := second.NextID()

	if a != 5_000_000 {
		t.Fatalf("first id must start the reserved range, got %d", a)
	}
	if b != a+1 || c != b+1 {
		t.Fatalf("ids not strictly increasing: %d %d %d", a, b, c)
	}
}

func TestClientStoreSaveGetUpdate(t *testing.T) {
	store := NewClientStore(kv.NewMemStore())

	id := store.NextID()
	rec := model.ClientRecord{ID: id, FirstName: "Nora", LastName: "Keller", Phone: "+41 1"}
	if err := store.Save(rec); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, ok := store.GetByID(id)
	if !ok || got.FirstName != "Nora" {
		t.Fatalf("stored client not found: %v %v", got, ok)
	}

	if err := store.Update(id, map[string]string{"phone": "+41 2"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, _ = store.GetByID(id)
	if got.Phone != "+41 2" {
		t.Fatalf("patch not applied: %q", got.Phone)
	}
	if got.FirstName != "Nora" {
		t.Fatalf("unrelated field clobbered")
	}

	// updating an absent id is a no-op, not an error
	if err := store.Update(123456, map[string]string{"phone": "x"}); err != nil {
		t.Fatalf("unexpected error for absent id: %v", err)
	}
}

func TestClientStoreSaveUpserts(t *testing.T) {
	store := NewClientStore(kv.NewMemStore())

	rec := model.ClientRecord{ID: 5_000_000, FirstName: "One"}
	_ = store.Save(rec)
	rec.FirstName = "Two"
	_ = store.Save(rec)

	all := store.GetAll()
	if len(all) != 1 {
		t.Fatalf("expected upsert, got %d records", len(all))
	}
	if all[0].FirstName != "Two" {
		t.Fatalf("upsert did not replace")
	}
}

func TestGenerateAccountIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^FES-\d{4}-\d{4}$`)
	for i := 0; i < 20; i++ {
		id := GenerateAccountID()
		if !pattern.MatchString(id) {
			t.Fatalf("account id %q does not match FES-<year>-<nnnn>", id)
		}
	}
}
