// Package format holds the display conventions shared by the export
// document and the JSON handlers: date rendering, client numbers, and
// human labels for the enumerations.
package format

import (
	"fmt"
	"time"

	"github.com/fes-crm/clientgate/internal/model"
	"github.com/shopspring/decimal"
)

// Date renders a nanosecond timestamp the way the UI shows dates.
// Zero stays empty rather than becoming the epoch.
func Date(ns int64) string {
	if ns == 0 {
		return ""
	}
	return time.Unix(0, ns).UTC().Format("02 Jan 2006")
}

// DateValue renders a time directly, for values not carried as ns.
func DateValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("02 Jan 2006")
}

// ClientNumber is the short reference shown next to a client name.
func ClientNumber(id int64) string {
	return fmt.Sprintf("#%06d", id)
}

// CHF renders a franc amount with thousands separators, e.g. "CHF 1'250'000.00".
func CHF(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := len(s) - 3; i >= 0 && s[i] == '.' {
		intPart, fracPart = s[:i], s[i:]
	}
	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, '\'')
		}
		out = append(out, c)
	}
	res := "CHF " + string(out) + fracPart
	if neg {
		res = "CHF -" + string(out) + fracPart
	}
	return res
}

// StatusLabel maps a client status to its display form.
func StatusLabel(s model.ClientStatus) string {
	switch s {
	case model.StatusProspect:
		return "Prospect"
	case model.StatusOnboarding:
		return "Onboarding"
	case model.StatusActive:
		return "Active"
	case model.StatusOffboarded:
		return "Offboarded"
	default:
		return string(s)
	}
}

// RiskLabel maps a risk level to its display form.
func RiskLabel(r model.RiskLevel) string {
	switch r {
	case model.RiskLow:
		return "Low"
	case model.RiskMedium:
		return "Medium"
	case model.RiskHigh:
		return "High"
	default:
		return string(r)
	}
}

// TypeLabel maps a client type to its display form.
func TypeLabel(t model.ClientType) string {
	switch t {
	case model.TypeIndividual:
		return "Individual"
	case model.TypeEntity:
		return "Entity"
	default:
		return string(t)
	}
}
