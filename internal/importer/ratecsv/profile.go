package ratecsv

// sheetKind determines what a row contributes to the imported rates.
type sheetKind int

const (
	// kindScalar rows name one of the scalar rates (e.g. "Hourly rate;95,00").
	kindScalar sheetKind = iota
	// kindUnit rows price an item per unit (e.g. "Tiling;m2;45.00").
	kindUnit
)

// Profile describes the column layout of a supported price sheet.
type Profile struct {
	Name     string
	Kind     sheetKind
	NameCol  string
	UnitCol  string // used when Kind == kindUnit
	ValueCol string
}

func (p Profile) requiredCols() []string {
	cols := []string{p.NameCol, p.ValueCol}
	if p.Kind == kindUnit {
		cols = append(cols, p.UnitCol)
	}

	return cols
}

// profiles is the ordered list of layouts tried during header detection. Column names are matched
// case-insensitively.
var profiles = []Profile{
	{
		Name:     "price list",
		Kind:     kindUnit,
		NameCol:  "item",
		UnitCol:  "unit",
		ValueCol: "unit price",
	},
	{
		Name:     "rate sheet",
		Kind:     kindScalar,
		NameCol:  "rate",
		ValueCol: "amount",
	},
}

// aliases maps the names tradies commonly write to scalar rate fields.
var aliases = map[string]string{
	"hourly":          "hourly_rate",
	"labour":          "hourly_rate",
	"labour_rate":     "hourly_rate",
	"labor_rate":      "hourly_rate",
	"helper":          "helper_rate",
	"apprentice_rate": "helper_rate",
	"day":             "day_rate",
	"call_out_fee":    "callout_fee",
	"callout":         "callout_fee",
	"minimum":         "minimum_charge",
	"min_charge":      "minimum_charge",
	"markup":          "markup_percent",
	"mark_up":         "markup_percent",
}
