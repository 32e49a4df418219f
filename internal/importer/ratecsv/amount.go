package ratecsv

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount")

// parseAmount parses a price in either "1.234,56" or "1,234.56" notation. The right-most
// separator is the decimal one, except that a lone separator followed by exactly three digits
// groups thousands ("1,200" and "1.200" are both 1200). Currency symbols and a trailing % are
// ignored.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			return r
		default:
			return -1
		}
	}, s)

	if clean == "" {
		return decimal.Decimal{}, errEmptyAmount
	}

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	decimalSep := ""

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			decimalSep = "."
		} else {
			decimalSep = ","
		}
	case lastDot >= 0:
		decimalSep = loneSeparator(clean, ".")
	case lastComma >= 0:
		decimalSep = loneSeparator(clean, ",")
	}

	switch decimalSep {
	case ".":
		clean = strings.ReplaceAll(clean, ",", "")
	case ",":
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	default:
		clean = strings.NewReplacer(".", "", ",", "").Replace(clean)
	}

	return decimal.NewFromString(clean)
}

// loneSeparator decides whether a separator that is the only kind present marks decimals. It
// returns "" when it groups thousands.
func loneSeparator(s, sep string) string {
	if strings.Count(s, sep) > 1 {
		return ""
	}

	if len(s)-strings.LastIndex(s, sep)-1 == 3 {
		return ""
	}

	return sep
}
