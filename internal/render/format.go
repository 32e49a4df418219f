package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradepack/internal/templates"
)

const dateLayout = "02/01/2006"

func formatValue(format templates.Format, v any) string {
	if v == nil {
		return ""
	}

	switch format {
	case templates.FormatMoney:
		if d, ok := toDecimal(v); ok {
			return "$" + d.StringFixed(2)
		}
	case templates.FormatPercent:
		if d, ok := toDecimal(v); ok {
			return d.String() + "%"
		}
	case templates.FormatNumber:
		if d, ok := toDecimal(v); ok {
			return d.String()
		}
	case templates.FormatDate:
		if t, ok := toTime(v); ok {
			return t.Format(dateLayout)
		}
	}

	return toText(v)
}

func formatList(v any) []string {
	switch items := v.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, 0, len(items))
		for _, s := range items {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}

		return out
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s := strings.TrimSpace(toText(item)); s != "" {
				out = append(out, s)
			}
		}

		return out
	}

	if s := strings.TrimSpace(toText(v)); s != "" {
		return []string{s}
	}

	return nil
}

func joinItems(items []string) string {
	return strings.Join(items, "\n")
}

func toText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	case *decimal.Decimal:
		if x == nil {
			return ""
		}

		return x.String()
	case time.Time:
		return x.Format(dateLayout)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case map[string]any:
		// Line items such as {"description": ..., "amount": ...}.
		if d, ok := x["description"]; ok {
			if a, ok := x["amount"]; ok {
				return fmt.Sprintf("%s (%s)", toText(d), formatValue(templates.FormatMoney, a))
			}

			return toText(d)
		}
	}

	return fmt.Sprint(v)
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case *decimal.Decimal:
		if x == nil {
			return decimal.Decimal{}, false
		}

		return *x, true
	case float64:
		return decimal.NewFromFloat(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	}

	return decimal.Decimal{}, false
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}

		return *x, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
			if t, err := time.Parse(layout, strings.TrimSpace(x)); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}
