package construction

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	fractionRe    = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)`)
	decimalUnitRe = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(mm|cm)?`)

	mmPerInch = decimal.RequireFromString("25.4")
	mmPerCM   = decimal.NewFromInt(10)
	cmFloor   = decimal.NewFromInt(10)
)

// InchToMM converts a fractional or decimal measurement expression to
// millimetres. Bare numbers and fractions are read as inches; explicit
// mm/cm suffixes are honored.
func InchToMM(raw string) (decimal.Decimal, bool) {
	raw = strings.NewReplacer(`"`, "", "'", "", "″", "", "”", "").Replace(strings.TrimSpace(raw))
	if m := fractionRe.FindStringSubmatch(raw); m != nil {
		num, err := decimal.NewFromString(m[1])
		if err != nil {
			return decimal.Decimal{}, false
		}
		den, err := decimal.NewFromString(m[2])
		if err != nil || den.IsZero() {
			return decimal.Decimal{}, false
		}
		return num.Div(den).Mul(mmPerInch).Round(2), true
	}
	if m := decimalUnitRe.FindStringSubmatch(raw); m != nil {
		n, err := decimal.NewFromString(m[1])
		if err != nil {
			return decimal.Decimal{}, false
		}
		switch strings.ToLower(m[2]) {
		case "cm":
			return n.Mul(mmPerCM).Round(2), true
		case "mm":
			return n.Round(2), true
		default:
			return n.Mul(mmPerInch).Round(2), true
		}
	}
	return decimal.Decimal{}, false
}

// NormalizeMeasure renders a raw value and unit in SI: 10mm and above as
// cm, smaller values as mm, both rounded to 2 decimals.
func NormalizeMeasure(value, unit string) (string, string, bool) {
	if strings.TrimSpace(value) == "" {
		return "", "", false
	}
	u := strings.ToLower(strings.TrimSpace(unit))
	if u != "mm" && u != "cm" {
		u = ""
	}
	mm, ok := InchToMM(value + u)
	if !ok {
		return "", "", false
	}
	if mm.GreaterThanOrEqual(cmFloor) {
		return mm.Div(mmPerCM).Round(2).String(), "cm", true
	}
	return mm.String(), "mm", true
}
