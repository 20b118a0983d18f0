package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"backend/internal/models"
)

// Compensation plausibility band, in the reference currency (EUR).
const (
	MinCompensation = 10000.0
	MaxCompensation = 300000.0
)

// Experience answers that are not numbers.
const (
	lessThanOneYear  = "Less than 1 year"
	moreThanFifty    = "More than 50 years"
	maxExperienceAge = 50.0
)

// exchangeRates converts one unit of the keyed currency into EUR. Read-only.
var exchangeRates = map[string]float64{
	"USD": 0.85,
	"EUR": 1,
	"GBP": 1.15,
	"CAD": 0.65,
}

// leadingNumber matches the numeric prefix of a free-form answer such as
// "12", "3.5 years" or "1e3".
var leadingNumber = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// parseLeading parses the longest numeric prefix of s, after leading whitespace.
func parseLeading(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	if strings.HasSuffix(m, "Infinity") {
		if m[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NormalizeExperience turns a years-of-experience answer into a number.
// Missing and unparsable answers both yield 0, the same as "0 years".
func NormalizeExperience(raw models.Field) float64 {
	if !raw.Usable() {
		return 0
	}
	switch raw.Raw {
	case lessThanOneYear:
		return 0.5
	case moreThanFifty:
		return maxExperienceAge
	}
	v, ok := parseLeading(raw.Raw)
	if !ok || math.IsNaN(v) {
		return 0
	}
	return v
}

// NormalizeCompensation parses a total compensation, dropping thousands
// separators. ok is false for unparsable or non-positive amounts.
func NormalizeCompensation(raw models.Field) (amount float64, ok bool) {
	if !raw.Usable() {
		return 0, false
	}
	v, ok := parseLeading(strings.ReplaceAll(raw.Raw, ",", ""))
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// CurrencyCode extracts the ISO code from values like "USD\tUnited States dollar".
func CurrencyCode(raw models.Field) string {
	code, _, _ := strings.Cut(raw.Raw, "\t")
	return code
}

// ResolveCurrencyRate returns the EUR rate for a currency field. Unknown
// codes are taken as already in EUR.
func ResolveCurrencyRate(raw models.Field) float64 {
	if rate, ok := exchangeRates[CurrencyCode(raw)]; ok && rate != 0 {
		return rate
	}
	return 1
}

func ConvertToReferenceCurrency(amount, rate float64) float64 {
	return amount * rate
}

// IsPlausibleCompensation reports whether a converted amount is inside the band.
func IsPlausibleCompensation(amount float64) bool {
	return amount >= MinCompensation && amount <= MaxCompensation
}

// ReferenceCompensation runs the whole compensation pipeline for a record:
// parse, convert, and apply the plausibility band.
func ReferenceCompensation(rec models.SurveyRecord) (float64, bool) {
	amount, ok := NormalizeCompensation(rec.CompTotal)
	if !ok {
		return 0, false
	}
	converted := ConvertToReferenceCurrency(amount, ResolveCurrencyRate(rec.Currency))
	if !IsPlausibleCompensation(converted) {
		return 0, false
	}
	return converted, true
}

// SplitMultiValue splits a semicolon-delimited answer into trimmed entries.
func SplitMultiValue(raw models.Field) []string {
	if !raw.Usable() {
		return nil
	}
	parts := strings.Split(raw.Raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
