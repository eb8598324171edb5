// Package seed holds the built-in demonstration records that are always
// available regardless of backend state, plus the deterministic client
// detail generator backing the overview and export views.
package seed

import (
	"time"

	"github.com/fes-crm/clientgate/internal/model"
)

// Seed ids live at 1,000,000+ so they collide with neither backend-assigned
// ids nor the local-fallback range at 5,000,000+.
const seedIDStart = 1_000_000

var seedBase = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

// Clients returns a fresh copy of the demo client set. Callers may append
// and re-sort freely.
func Clients() []model.ClientRecord {
	out := make([]model.ClientRecord, len(demoClients))
	copy(out, demoClients)
	return out
}

var demoClients = []model.ClientRecord{
	{
		ID:                  seedIDStart + 1,
		AccountID:           "FES-2024-0101",
		FirstName:           "Anna",
		LastName:            "Müller",
		DOB:                 "1978-04-12",
		Nationality:         "Swiss",
		Address:             "Bahnhofstrasse 21, 8001 Zürich",
		PrimaryCountry:      "Switzerland",
		Email:               "anna.mueller@example.ch",
		Phone:               "+41 44 211 45 01",
		ClientType:          model.TypeIndividual,
		Status:              model.StatusActive,
		RiskLevel:           model.RiskLow,
		CreatedBy:           "system-seed",
		RelationshipManager: "Thomas Weber",
		CreatedDate:         seedBase.UnixNano(),
		OnboardingDate:      seedBase.AddDate(0, 0, 14).UnixNano(),
		KYCReviewDue:        seedBase.AddDate(1, 0, 0).UnixNano(),
	},
	{
		ID:                  seedIDStart + 2,
		AccountID:           "FES-2024-0102",
		FirstName:           "Lukas",
		LastName:            "Fischer",
		DOB:                 "1985-09-30",
		Nationality:         "German",
		Address:             "Freie Strasse 12, 4001 Basel",
		PrimaryCountry:      "Switzerland",
		Email:               "lukas.fischer@example.ch",
		Phone:               "+41 61 261 78 02",
		ClientType:          model.TypeIndividual,
		Status:              model.StatusOnboarding,
		RiskLevel:           model.RiskMedium,
		RiskJustification:   "Cross-border income sources pending verification",
		CreatedBy:           "system-seed",
		RelationshipManager: "Sophie Meier",
		CreatedDate:         seedBase.AddDate(0, 1, 3).UnixNano(),
	},
	{
		ID:                  seedIDStart + 3,
		AccountID:           "FES-2024-0103",
		FirstName:           "Maria",
		LastName:            "Schneider",
		DOB:                 "1969-01-22",
		Nationality:         "Austrian",
		Address:             "Kirchgasse 5, 6003 Luzern",
		PrimaryCountry:      "Switzerland",
		Email:               "maria.schneider@example.ch",
		Phone:               "+41 41 410 22 03",
		ClientType:          model.TypeIndividual,
		Status:              model.StatusProspect,
		RiskLevel:           model.RiskLow,
		CreatedBy:           "system-seed",
		RelationshipManager: "Thomas Weber",
		CreatedDate:         seedBase.AddDate(0, 2, 0).UnixNano(),
	},
	{
		ID:                  seedIDStart + 4,
		AccountID:           "FES-2024-0104",
		FirstName:           "Helvetia",
		LastName:            "Trading AG",
		Nationality:         "Swiss",
		Address:             "Paradeplatz 4, 8001 Zürich",
		PrimaryCountry:      "Switzerland",
		Email:               "ops@helvetia-trading.example.ch",
		Phone:               "+41 44 215 90 04",
		ClientType:          model.TypeEntity,
		Status:              model.StatusActive,
		RiskLevel:           model.RiskHigh,
		RiskJustification:   "High transaction volumes in digital assets",
		CreatedBy:           "system-seed",
		RelationshipManager: "David Keller",
		CreatedDate:         seedBase.AddDate(0, 2, 20).UnixNano(),
		OnboardingDate:      seedBase.AddDate(0, 3, 10).UnixNano(),
		KYCReviewDue:        seedBase.AddDate(0, 9, 0).UnixNano(),
	},
	{
		ID:                  seedIDStart + 5,
		AccountID:           "FES-2024-0105",
		FirstName:           "Pierre",
		LastName:            "Dubois",
		DOB:                 "1990-07-08",
		Nationality:         "French",
		Address:             "Rue du Rhône 30, 1204 Genève",
		PrimaryCountry:      "Switzerland",
		Email:               "pierre.dubois@example.ch",
		Phone:               "+41 22 310 56 05",
		ClientType:          model.TypeIndividual,
		Status:              model.StatusOnboarding,
		RiskLevel:           model.RiskMedium,
		CreatedBy:           "system-seed",
		RelationshipManager: "Sophie Meier",
		CreatedDate:         seedBase.AddDate(0, 4, 2).UnixNano(),
	},
	{
		ID:                  seedIDStart + 6,
		AccountID:           "FES-2023-0099",
		FirstName:           "Ingrid",
		LastName:            "Baumann",
		DOB:                 "1955-11-02",
		Nationality:         "Swiss",
		Address:             "Marktgasse 17, 3011 Bern",
		PrimaryCountry:      "Switzerland",
		Email:               "ingrid.baumann@example.ch",
		Phone:               "+41 31 312 40 06",
		ClientType:          model.TypeIndividual,
		Status:              model.StatusOffboarded,
		RiskLevel:           model.RiskLow,
		CreatedBy:           "system-seed",
		RelationshipManager: "David Keller",
		CreatedDate:         seedBase.AddDate(-1, 0, 0).UnixNano(),
		OnboardingDate:      seedBase.AddDate(-1, 1, 0).UnixNano(),
	},
}
