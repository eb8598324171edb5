// Package export renders a client profile as a self-contained, print-ready
// HTML document. The document mirrors the Overview tab: six titled sections,
// each a labeled two-column field table, A4 page styling baked in so the
// browser print dialog produces a clean PDF.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/fes-crm/clientgate/internal/format"
	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/seed"
)

type field struct {
	Label string
	Value string
}

type section struct {
	Title  string
	Fields []field
}

type document struct {
	ClientName string
	AccountID  string
	Date       string
	Sections   []section
}

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
var whitespace = regexp.MustCompile(`\s+`)
var repeatedUnderscores = regexp.MustCompile(`_{2,}`)

// SanitizeFilename strips characters filesystems reject, collapses
// whitespace to underscores and folds runs of underscores.
func SanitizeFilename(text string) string {
	s := invalidFilenameChars.ReplaceAllString(text, "")
	s = whitespace.ReplaceAllString(s, "_")
	s = repeatedUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Filename builds the suggested download name: First_Last_ACCOUNTID_YYYY-MM-DD.
func Filename(c *model.ClientRecord, now time.Time) string {
	accountID := c.AccountID
	if accountID == "" {
		accountID = fmt.Sprintf("%d", c.ID)
	}
	base := fmt.Sprintf("%s %s %s %s", c.FirstName, c.LastName, accountID, now.Format("2006-01-02"))
	return SanitizeFilename(base) + ".pdf"
}

// Render produces the printable HTML for a merged client record and its
// generated detail.
func Render(c *model.ClientRecord, detail seed.Detail, now time.Time) ([]byte, error) {
	accountID := c.AccountID
	if accountID == "" {
		accountID = fmt.Sprintf("%d", c.ID)
	}

	var passport seed.IdentityDocument
	for _, doc := range detail.IdentityDocuments {
		if doc.Type == "Passport" {
			passport = doc
			break
		}
	}

	passportNumber := c.PassportNumber
	if passportNumber == "" {
		passportNumber = passport.Number
	}
	passportExpiry := c.PassportExpiry
	if passportExpiry == "" {
		passportExpiry = passport.ExpiryDate
	}
	tin := c.TIN
	if tin == "" && len(detail.TaxInformation.TaxIDNumbers) > 0 {
		tin = detail.TaxInformation.TaxIDNumbers[0]
	}
	placeOfBirth := c.PlaceOfBirth
	if placeOfBirth == "" {
		placeOfBirth = "Zürich, Switzerland"
	}
	primaryCountry := c.PrimaryCountry
	if primaryCountry == "" {
		primaryCountry = "Switzerland"
	}

	riskProfile := format.RiskLabel(c.RiskLevel) + " Risk"
	highRisk := "No"
	if c.RiskLevel == model.RiskHigh {
		highRisk = "Yes"
	}

	fp := detail.FinancialProfile

	doc := document{
		ClientName: c.Name(),
		AccountID:  accountID,
		Date:       now.Format("02/01/2006"),
		Sections: []section{
			{
				Title: "Contact Details",
				Fields: []field{
					{"Account ID", accountID},
					{"First Name", c.FirstName},
					{"Last Name", c.LastName},
					{"Address", c.Address},
					{"Primary Country", primaryCountry},
					{"Email", c.Email},
					{"Phone", c.Phone},
					{"Secondary Address", detail.ContactDetails.SecondaryAddress},
					{"Date Created", format.Date(c.CreatedDate)},
				},
			},
			{
				Title: "Personal Data",
				Fields: []field{
					{"Date of Birth", c.DOB},
					{"Passport Number", passportNumber},
					{"Passport Expiry", passportExpiry},
					{"Nationality", c.Nationality},
					{"TIN", tin},
					{"Place of Birth", placeOfBirth},
					{"Issuing Authority", passport.IssuingCountry},
					{"Date of Issue", passport.IssueDate},
					{"Date of Expiry", passport.ExpiryDate},
				},
			},
			{
				Title: "Mandate",
				Fields: []field{
					{"Relationship Manager", c.RelationshipManager},
					{"Active From", format.Date(c.OnboardingDate)},
					{"Client Type", format.TypeLabel(c.ClientType)},
					{"Status", format.StatusLabel(c.Status)},
					{"Trade Limit (CHF)", format.CHF(fp.TradeLimitCHF)},
					{"Traded Amount (CHF)", format.CHF(fp.TradedCHF)},
				},
			},
			{
				Title: "Wallets",
				Fields: []field{
					{"Bitcoin Wallet", "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"},
					{"Ethereum Wallet", "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb"},
					{"TRON Wallet", "TN3W4H6rK2ce4vX9YnFxx6HhdqKUqvETcd"},
				},
			},
			{
				Title: "Compliance",
				Fields: []field{
					{"PEP", yesNo(detail.KYCStatus.PEP)},
					{"Sanctions Screening", detail.KYCStatus.SanctionsScreening},
					{"Last KYC Review", detail.KYCStatus.LastReviewDate},
					{"Next KYC Review", detail.KYCStatus.NextReviewDate},
					{"KYC Review Due", format.Date(c.KYCReviewDue)},
					{"Identity Verified", passport.VerifiedDate},
				},
			},
			{
				Title: "VQF",
				Fields: []field{
					{"Risk Profile AML", riskProfile},
					{"Risk Justification", c.RiskJustification},
					{"Source of Wealth", fp.SourceOfWealth},
					{"Source of Funds", fp.SourceOfFunds},
					{"CRS Status", detail.TaxInformation.CRSStatus},
					{"US Person", yesNo(detail.TaxInformation.USPerson)},
					{"Income/Annual Sales (CHF)", format.CHF(fp.AnnualIncomeCHF)},
					{"Fortune/Assets (CHF)", format.CHF(fp.AssetsCHF)},
					{"Liabilities (CHF)", format.CHF(fp.LiabilitiesCHF)},
					{"High Risk Confirmed", highRisk},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("render export document: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

var documentTmpl = template.Must(template.New("profile").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.ClientName}} - {{.AccountID}}</title>
<style>
@page { size: A4; margin: 20mm; }
body {
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
  font-size: 10pt; line-height: 1.4; color: #000; margin: 0; padding: 0;
}
.header { margin-bottom: 24px; padding-bottom: 16px; border-bottom: 2px solid #000; }
.logo { font-size: 20pt; font-weight: 300; letter-spacing: 0.05em; margin-bottom: 8px; }
.header-info { font-size: 11pt; color: #333; }
.header-info strong { font-weight: 600; }
.section { margin-bottom: 20px; page-break-inside: avoid; }
.section-title { font-size: 12pt; font-weight: 600; margin-bottom: 8px; padding-bottom: 4px; border-bottom: 1px solid #ccc; }
.field-table { width: 100%; border-collapse: collapse; }
.field-table tr { border-bottom: 1px solid #eee; }
.field-table td { padding: 6px 8px; vertical-align: top; }
.field-table td:first-child { width: 40%; color: #666; font-size: 9pt; }
.field-table td:last-child { width: 60%; font-weight: 500; text-align: right; word-break: break-word; }
@media print { body { print-color-adjust: exact; -webkit-print-color-adjust: exact; } }
</style>
</head>
<body>
<div class="header">
  <div class="logo">FES</div>
  <div class="header-info">
    <strong>{{.ClientName}}</strong> &bull; Account ID: {{.AccountID}} &bull; {{.Date}}
  </div>
</div>
{{range .Sections}}<div class="section">
  <div class="section-title">{{.Title}}</div>
  <table class="field-table">
{{range .Fields}}    <tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
{{end}}  </table>
</div>
{{end}}</body>
</html>
`))
