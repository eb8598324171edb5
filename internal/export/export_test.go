package export

import (
	"strings"
	"testing"
	"time"

	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/seed"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Anna Müller":       "Anna_Müller",
		`a<b>c:d"e/f\g|h?i`: "abcdefghi",
		"a   b":             "a_b",
		"a_  _b":            "a_b",
		" trimmed ":         "trimmed",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilename(t *testing.T) {
	c := &model.ClientRecord{
		ID:        42,
		AccountID: "FES-2024-0042",
		FirstName: "Anna",
		LastName:  "Müller",
	}
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	got := Filename(c, now)
	want := "Anna_Müller_FES-2024-0042_2026-03-15.pdf"
	if got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
}

func TestFilenameFallsBackToNumericID(t *testing.T) {
	c := &model.ClientRecord{ID: 42, FirstName: "Anna", LastName: "Müller"}
	got := Filename(c, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	if !strings.Contains(got, "_42_") {
		t.Fatalf("expected numeric id in %q", got)
	}
}

func TestRenderContainsAllSections(t *testing.T) {
	c := &model.ClientRecord{
		ID:          1_000_001,
		AccountID:   "FES-2023-0001",
		FirstName:   "Anna",
		LastName:    "Müller",
		Status:      model.StatusActive,
		RiskLevel:   model.RiskLow,
		ClientType:  model.TypeIndividual,
		Email:       "anna@example.ch",
		CreatedDate: time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC).UnixNano(),
	}
	detail := seed.GenerateDetail(c.ID, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

	doc, err := Render(c, detail, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	html := string(doc)

	for _, section := range []string{"Contact Details", "Personal Data", "Mandate", "Wallets", "Compliance", "VQF"} {
		if !strings.Contains(html, section) {
			t.Fatalf("document missing section %q", section)
		}
	}
	if !strings.Contains(html, "Anna Müller") {
		t.Fatalf("document missing client name")
	}
	if !strings.Contains(html, "FES-2023-0001") {
		t.Fatalf("document missing account id")
	}
	if !strings.Contains(html, "@page") {
		t.Fatalf("document missing print styling")
	}
	if !strings.Contains(html, "02 May 2023") {
		t.Fatalf("document missing created date")
	}
}

func TestRenderEscapesValues(t *testing.T) {
	c := &model.ClientRecord{
		ID:        5_000_001,
		FirstName: "<script>alert(1)</script>",
		LastName:  "X",
	}
	detail := seed.GenerateDetail(c.ID, time.Now())

	doc, err := Render(c, detail, time.Now())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(string(doc), "<script>alert(1)</script>") {
		t.Fatalf("unescaped value in document")
	}
}
