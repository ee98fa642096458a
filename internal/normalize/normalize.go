// Package normalize converts raw listing text (prices, mileage, years, fuel)
// into canonical values. Every function is total: malformed input yields nil
// or a placeholder, never a panic.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// TenThousand is the scale of the 만 unit token
	TenThousand = 10_000
	// HundredMillion is the scale of the 억 unit token
	HundredMillion = 100_000_000

	// Unclassified is stored when a listing has no fuel type
	Unclassified = "unclassified"
)

const (
	manToken  = "만"
	eokToken  = "억"
	kmToken   = "km"
	yearPivot = 30
)

var (
	nonDigit      = regexp.MustCompile(`[^\d]`)
	leadingNumber = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	leadingYear   = regexp.MustCompile(`^\s*((?:19|20)\d{2})`)
)

// ExtractDigits strips every non-digit character and parses the rest.
// Returns nil when nothing is left or the number does not fit an int.
func ExtractDigits(text string) *int {
	digits := nonDigit.ReplaceAllString(text, "")
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}

// NormalizePrice returns the price in won. "2,350만원" is 23,500,000 and
// "1억 500만원" is 105,000,000; plain digits are taken as won.
func NormalizePrice(text string) *int {
	if i := strings.Index(text, eokToken); i >= 0 {
		return eokPrice(text[:i], text[i+len(eokToken):])
	}
	if strings.Contains(text, manToken) {
		return scale(ExtractDigits(text), TenThousand)
	}
	return ExtractDigits(text)
}

// eokPrice combines the 억 count (decimals allowed) with the remainder,
// which is read in 만 units with or without the token.
func eokPrice(head, tail string) *int {
	eok := scaleDecimal(head, HundredMillion)
	if eok == nil {
		return nil
	}
	rest := scale(ExtractDigits(tail), TenThousand)
	if rest == nil {
		return eok
	}
	if *rest > math.MaxInt64-*eok {
		return nil
	}
	total := *eok + *rest
	return &total
}

// NormalizeMileage returns the distance in km. "3만km" is 30,000 and
// "1.5만km" is 15,000; "12,345km" is 12,345.
func NormalizeMileage(text string) *int {
	if !strings.Contains(text, manToken) {
		return ExtractDigits(strings.ReplaceAll(text, kmToken, ""))
	}
	return scaleDecimal(text, TenThousand)
}

// scaleDecimal multiplies the first number in text, which may carry a
// decimal part, by factor.
func scaleDecimal(text string, factor int) *int {
	match := leadingNumber.FindString(text)
	if match == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return nil
	}
	v := math.Round(f * float64(factor))
	if v >= math.MaxInt64 {
		return nil
	}
	n := int(v)
	return &n
}

// NormalizeYear expands the site's two-digit year ("24/10" -> 2024,
// "85/03" -> 1985). A leading four-digit year is returned unchanged.
func NormalizeYear(text string) *int {
	if m := leadingYear.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return &n
	}

	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) < 2 {
		return nil
	}
	yy, err := strconv.Atoi(string(runes[:2]))
	if err != nil || yy < 0 {
		return nil
	}

	year := 1900 + yy
	if yy < yearPivot {
		year = 2000 + yy
	}
	return &year
}

// NormalizeFuel trims the fuel label and substitutes Unclassified for blanks.
func NormalizeFuel(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return Unclassified
	}
	return text
}

func scale(n *int, factor int) *int {
	if n == nil {
		return nil
	}
	if *n > math.MaxInt64/factor {
		return nil
	}
	v := *n * factor
	return &v
}
