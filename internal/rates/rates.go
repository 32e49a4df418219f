package rates

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rates is a set of optional pricing values. A nil field means "not set at this level",
// which is different from an explicit zero.
type Rates struct {
	HourlyRate    *decimal.Decimal           `json:"hourly_rate,omitempty"`
	HelperRate    *decimal.Decimal           `json:"helper_rate,omitempty"`
	DayRate       *decimal.Decimal           `json:"day_rate,omitempty"`
	CalloutFee    *decimal.Decimal           `json:"callout_fee,omitempty"`
	MinimumCharge *decimal.Decimal           `json:"minimum_charge,omitempty"`
	MarkupPercent *decimal.Decimal           `json:"markup_percent,omitempty"`
	UnitRates     map[string]decimal.Decimal `json:"unit_rates,omitempty"`
}

// Template is a reusable, owner-scoped set of rates that a job can link to.
type Template struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Rates     Rates
	CreatedAt time.Time
}

// Field names as they appear in price sheets and prefill data.
const (
	FieldHourlyRate    = "hourly_rate"
	FieldHelperRate    = "helper_rate"
	FieldDayRate       = "day_rate"
	FieldCalloutFee    = "callout_fee"
	FieldMinimumCharge = "minimum_charge"
	FieldMarkupPercent = "markup_percent"
)

type scalarField struct {
	name string
	ptr  func(*Rates) **decimal.Decimal
}

// scalarFields is the single list every per-field operation walks. Adding a rate means adding a
// struct field and one entry here.
var scalarFields = []scalarField{
	{FieldHourlyRate, func(r *Rates) **decimal.Decimal { return &r.HourlyRate }},
	{FieldHelperRate, func(r *Rates) **decimal.Decimal { return &r.HelperRate }},
	{FieldDayRate, func(r *Rates) **decimal.Decimal { return &r.DayRate }},
	{FieldCalloutFee, func(r *Rates) **decimal.Decimal { return &r.CalloutFee }},
	{FieldMinimumCharge, func(r *Rates) **decimal.Decimal { return &r.MinimumCharge }},
	{FieldMarkupPercent, func(r *Rates) **decimal.Decimal { return &r.MarkupPercent }},
}

// Resolve merges layers from highest to lowest precedence. Each field, and each unit rate key, takes
// the value of the first layer that sets it; fields no layer sets stay nil. The result never shares
// memory with the inputs.
func Resolve(layers ...Rates) Rates {
	var out Rates

	for _, f := range scalarFields {
		for i := range layers {
			if v := *f.ptr(&layers[i]); v != nil {
				d := *v
				*f.ptr(&out) = &d

				break
			}
		}
	}

	for _, layer := range layers {
		for unit, v := range layer.UnitRates {
			if out.UnitRates == nil {
				out.UnitRates = make(map[string]decimal.Decimal)
			}

			if _, ok := out.UnitRates[unit]; !ok {
				out.UnitRates[unit] = v
			}
		}
	}

	return out
}

// Set assigns a named scalar field. It reports false for unknown names.
func (r *Rates) Set(name string, v decimal.Decimal) bool {
	for _, f := range scalarFields {
		if f.name == name {
			*f.ptr(r) = &v
			return true
		}
	}

	return false
}

// Get returns a named scalar field, or nil when unset or unknown.
func (r Rates) Get(name string) *decimal.Decimal {
	for _, f := range scalarFields {
		if f.name == name {
			return *f.ptr(&r)
		}
	}

	return nil
}

// IsZero reports whether no field is set.
func (r Rates) IsZero() bool {
	for _, f := range scalarFields {
		if *f.ptr(&r) != nil {
			return false
		}
	}

	return len(r.UnitRates) == 0
}

// Values flattens the set fields into a map keyed by field name; unit rates are keyed "unit_rate_<unit>".
func (r Rates) Values() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)

	for _, f := range scalarFields {
		if v := *f.ptr(&r); v != nil {
			out[f.name] = *v
		}
	}

	for _, unit := range slices.Sorted(maps.Keys(r.UnitRates)) {
		out["unit_rate_"+unit] = r.UnitRates[unit]
	}

	return out
}

// FieldNames lists the scalar field names in declaration order.
func FieldNames() []string {
	names := make([]string, len(scalarFields))
	for i, f := range scalarFields {
		names[i] = f.name
	}

	return names
}
