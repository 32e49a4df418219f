// Package ratecsv imports rate sheets and price lists exported from spreadsheets.
package ratecsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
	enc "github.com/MrJamesThe3rd/tradepack/internal/encoding"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
)

// delimiters are tried in order until one yields a recognised header.
var delimiters = []rune{';', ',', '\t'}

// Parser reads CSV price sheets. It skips any preamble rows above the header and picks the layout
// by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (rates.Rates, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return rates.Rates{}, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return rates.Rates{}, fmt.Errorf("read csv: %w", err)
	}

	for _, delim := range delimiters {
		rows, err := readRows(content, delim)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		slog.Debug("rate sheet detected", "profile", profile.Name, "charset", charset, "delimiter", string(delim))

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return rates.Rates{}, apperr.Validation("no matching price sheet format found: expected Rate/Amount or Item/Unit/Unit Price columns")
}

func readRows(content []byte, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows builds rates from the data rows. headerRowNum is the 0-based index of the header in
// the file; errors cite 1-based file row numbers.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) (rates.Rates, error) {
	var out rates.Rates

	seen := make(map[string]int)

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		name := cellValue(row, cols[p.NameCol])
		raw := cellValue(row, cols[p.ValueCol])

		if name == "" && raw == "" {
			continue
		}

		if name == "" {
			return rates.Rates{}, apperr.Validationf("row %d: missing %s name", rowNum, p.NameCol)
		}

		amount, err := parseAmount(raw)
		if err != nil {
			return rates.Rates{}, apperr.Validationf("row %d: invalid amount %q for %q", rowNum, raw, name)
		}

		if amount.IsNegative() {
			return rates.Rates{}, apperr.Validationf("row %d: negative amount for %q", rowNum, name)
		}

		key, err := rowKey(p, cols, row, name)
		if err != nil {
			return rates.Rates{}, apperr.Validationf("row %d: %v", rowNum, err)
		}

		if prev, ok := seen[key]; ok {
			return rates.Rates{}, apperr.Validationf("row %d: %q already set on row %d", rowNum, name, prev)
		}

		seen[key] = rowNum

		if err := assign(&out, p, key, amount); err != nil {
			return rates.Rates{}, apperr.Validationf("row %d: %v", rowNum, err)
		}
	}

	if out.IsZero() {
		return rates.Rates{}, apperr.Validation("price sheet has no rates")
	}

	return out, nil
}

func rowKey(p *Profile, cols colIndex, row []string, name string) (string, error) {
	if p.Kind == kindScalar {
		key := slug(name)
		if alias, ok := aliases[key]; ok {
			key = alias
		}

		return key, nil
	}

	unit := slug(cellValue(row, cols[p.UnitCol]))
	if unit == "" {
		return "", fmt.Errorf("missing unit for %q", name)
	}

	return slug(name) + "_per_" + unit, nil
}

func assign(out *rates.Rates, p *Profile, key string, amount decimal.Decimal) error {
	if p.Kind == kindUnit {
		if out.UnitRates == nil {
			out.UnitRates = make(map[string]decimal.Decimal)
		}

		out.UnitRates[key] = amount

		return nil
	}

	if !out.Set(key, amount) {
		return fmt.Errorf("unknown rate %q (expected one of %s)", key, strings.Join(rates.FieldNames(), ", "))
	}

	return nil
}

// slug lower-cases s and joins its words with underscores, dropping anything but letters and digits.
func slug(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	return strings.Join(words, "_")
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
