package seed

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Detail is the deterministic per-client profile detail the backend does
// not store: identity documents, KYC screening state, tax and financial
// profile, and the derived alerts. Generation is keyed on the client id so
// the same client always shows the same detail.
type Detail struct {
	PersonalInfo      PersonalInfo
	ContactDetails    ContactDetails
	IdentityDocuments []IdentityDocument
	KYCStatus         KYCStatus
	TaxInformation    TaxInformation
	FinancialProfile  FinancialProfile
	ScreeningHistory  []ScreeningEntry
	Alerts            []Alert
}

type PersonalInfo struct {
	CivilStatus string
	Occupation  string
	Employer    string
}

type ContactDetails struct {
	SecondaryAddress string
}

type IdentityDocument struct {
	Type           string
	Number         string
	IssuingCountry string
	IssueDate      string
	ExpiryDate     string
	VerifiedDate   string
}

type KYCStatus struct {
	PEP                 bool
	SanctionsScreening  string
	LastReviewDate      string
	NextReviewDate      string
}

type TaxInformation struct {
	TaxResidencyCountries []string
	TaxIDNumbers          []string
	CRSStatus             string
	USPerson              bool
}

// FinancialProfile carries the CHF figures shown in the export. Amounts are
// exact decimals, never floats.
type FinancialProfile struct {
	SourceOfWealth  string
	SourceOfFunds   string
	AnnualIncomeCHF decimal.Decimal
	AssetsCHF       decimal.Decimal
	LiabilitiesCHF  decimal.Decimal
	TradeLimitCHF   decimal.Decimal
	TradedCHF       decimal.Decimal
}

type ScreeningEntry struct {
	Date            string
	ScreeningType   string // Initial, Periodic, Event-triggered
	RiskLevelResult string
	PEPCheck        string // Clear, Match
	SanctionsCheck  string // Clear, Hit
	ScreenedBy      string
	Notes           string
}

type AlertLevel string

const (
	AlertInfo    AlertLevel = "info"
	AlertWarning AlertLevel = "warning"
	AlertError   AlertLevel = "error"
)

type Alert struct {
	Level   AlertLevel
	Message string
}

var screeners = []string{
	"Anna Müller",
	"Thomas Weber",
	"Sophie Meier",
	"Lukas Fischer",
	"Maria Schneider",
	"David Keller",
}

// GenerateDetail derives the detail view for a client id. The modular
// buckets deliberately spread expiries over expired, expiring-soon and
// comfortable ranges so every alert path is exercised by some client.
func GenerateDetail(clientID int64, now time.Time) Detail {
	seed := clientID

	passportDays := 180
	switch seed % 3 {
	case 0:
		passportDays = -10
	case 1:
		passportDays = 45
	}
	passportExpiry := now.AddDate(0, 0, passportDays)

	permitDays := 200
	switch seed % 4 {
	case 0:
		permitDays = 25
	case 1:
		permitDays = 60
	case 2:
		permitDays = 120
	}
	permitExpiry := now.AddDate(0, 0, permitDays)

	kycDays := 90
	if seed%2 == 0 {
		kycDays = 15
	}
	kycReview := now.AddDate(0, 0, kycDays)

	isPEP := seed%5 == 0

	var alerts []Alert
	if passportDays < 0 {
		alerts = append(alerts, Alert{AlertError, "Passport expired"})
	} else if passportDays < 60 {
		alerts = append(alerts, Alert{AlertWarning, "Passport expiring soon"})
	}
	if kycDays < 30 {
		alerts = append(alerts, Alert{AlertWarning, "KYC review due"})
	}
	if isPEP {
		alerts = append(alerts, Alert{AlertInfo, "PEP flagged"})
	}

	pepCheck := "Clear"
	if isPEP {
		pepCheck = "Match"
	}

	baseIncome := decimal.NewFromInt(650_000 + (seed%7)*50_000)

	return Detail{
		PersonalInfo: PersonalInfo{
			CivilStatus: pick(seed, "Married", "Single", "Divorced"),
			Occupation:  pick(seed+1, "Portfolio Manager", "Entrepreneur", "Physician", "Engineer"),
			Employer:    pick(seed+2, "Self-employed", "Helvetia Trading AG", "Universitätsspital Zürich"),
		},
		ContactDetails: ContactDetails{
			SecondaryAddress: "Postfach 1200, 8021 Zürich",
		},
		IdentityDocuments: []IdentityDocument{
			{
				Type:           "Passport",
				Number:         passportNumber(seed),
				IssuingCountry: "Switzerland",
				IssueDate:      passportExpiry.AddDate(-10, 0, 0).Format("2006-01-02"),
				ExpiryDate:     passportExpiry.Format("2006-01-02"),
				VerifiedDate:   now.AddDate(0, -3, 0).Format("2006-01-02"),
			},
			{
				Type:           "Residence Permit",
				Number:         permitNumber(seed),
				IssuingCountry: "Switzerland",
				IssueDate:      permitExpiry.AddDate(-5, 0, 0).Format("2006-01-02"),
				ExpiryDate:     permitExpiry.Format("2006-01-02"),
				VerifiedDate:   now.AddDate(0, -3, 0).Format("2006-01-02"),
			},
		},
		KYCStatus: KYCStatus{
			PEP:                isPEP,
			SanctionsScreening: "Clear",
			LastReviewDate:     now.AddDate(0, -6, 0).Format("2006-01-02"),
			NextReviewDate:     kycReview.Format("2006-01-02"),
		},
		TaxInformation: TaxInformation{
			TaxResidencyCountries: []string{"Switzerland"},
			TaxIDNumbers:          []string{tinNumber(seed)},
			CRSStatus:             "Reportable",
			USPerson:              false,
		},
		FinancialProfile: FinancialProfile{
			SourceOfWealth:  pick(seed+3, "Employment income", "Business ownership", "Inheritance"),
			SourceOfFunds:   pick(seed+4, "Salary", "Dividends", "Sale of business"),
			AnnualIncomeCHF: baseIncome,
			AssetsCHF:       baseIncome.Mul(decimal.NewFromInt(9)),
			LiabilitiesCHF:  baseIncome.Div(decimal.NewFromInt(2)).Round(0),
			TradeLimitCHF:   decimal.NewFromInt(500_000),
			TradedCHF:       decimal.NewFromInt(2_350_000),
		},
		ScreeningHistory: []ScreeningEntry{
			{
				Date:            now.AddDate(0, -6, 0).Format("2006-01-02"),
				ScreeningType:   "Periodic",
				RiskLevelResult: "Low",
				PEPCheck:        pepCheck,
				SanctionsCheck:  "Clear",
				ScreenedBy:      screeners[seed%int64(len(screeners))],
				Notes:           "Routine periodic review, no findings.",
			},
			{
				Date:            now.AddDate(-1, -2, 0).Format("2006-01-02"),
				ScreeningType:   "Initial",
				RiskLevelResult: "Low",
				PEPCheck:        pepCheck,
				SanctionsCheck:  "Clear",
				ScreenedBy:      screeners[(seed+1)%int64(len(screeners))],
				Notes:           "Onboarding screening completed.",
			},
		},
		Alerts: alerts,
	}
}

func pick(seed int64, options ...string) string {
	if len(options) == 0 {
		return ""
	}
	return options[seed%int64(len(options))]
}

func passportNumber(seed int64) string {
	return "X" + padded(seed, 7)
}

func permitNumber(seed int64) string {
	return "B" + padded(seed*3+11, 7)
}

func tinNumber(seed int64) string {
	return "756." + padded(seed%10000, 4) + "." + padded((seed*7)%10000, 4) + "." + padded(seed%100, 2)
}

func padded(n int64, width int) string {
	if n < 0 {
		n = -n
	}
	s := fmt.Sprintf("%0*d", width, n)
	if len(s) > width {
		s = s[len(s)-width:]
	}
	return s
}
