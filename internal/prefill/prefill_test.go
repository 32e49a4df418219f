package prefill_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tradepack/internal/business"
	"github.com/MrJamesThe3rd/tradepack/internal/job"
	"github.com/MrJamesThe3rd/tradepack/internal/ovis"
	"github.com/MrJamesThe3rd/tradepack/internal/prefill"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
)

func testInput() prefill.Input {
	hourly := decimal.NewFromInt(95)

	j := &job.Job{
		ID:          uuid.New(),
		Title:       "Switchboard upgrade",
		SiteAddress: "12 Smith St, Newtown NSW",
		Trade:       "Electrical",
		ScopeOfWork: "Replace ceramic fuse board",
		Hazards:     []string{"Live conductors"},
		PPE:         []string{"Arc-rated gloves"},
		Subtotal:    decimal.NewFromInt(2000),
		Tax:         decimal.NewFromInt(200),
		Total:       decimal.NewFromInt(2200),
		Client:      job.Client{Name: "Jo Citizen", Email: "jo@example.com"},
		Facts: map[string]any{
			"controls":         []any{"Isolate and tag out"},
			"variation_items":  []any{"Add RCD"},
			"variation_reason": nil,
		},
	}

	return prefill.Input{
		Job:       j,
		Rates:     rates.Rates{HourlyRate: &hourly},
		Company:   business.Identity{LegalName: "Sparks Pty Ltd", ABN: "12 345 678 901"},
		Client:    j.Client,
		IssueDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Narrative: "1. Isolate supply.",
	}
}

func TestMap_EveryDocTypeHasMapper(t *testing.T) {
	for _, d := range templates.DocTypes() {
		data, err := prefill.Map(d, testInput())
		require.NoError(t, err, d)
		assert.Equal(t, "Switchboard upgrade", data["job_title"])
		assert.Equal(t, "1. Isolate supply.", data["narrative"])
	}
}

func TestMap_SWMS(t *testing.T) {
	data, err := prefill.Map(templates.DocSWMS, testInput())
	require.NoError(t, err)

	assert.Equal(t, []string{"Live conductors"}, data["hazards"])
	assert.Equal(t, []any{"Isolate and tag out"}, data["controls"])

	v, ok := ovis.Lookup(data, "company.abn")
	require.True(t, ok)
	assert.Equal(t, "12 345 678 901", v)

	v, ok = ovis.Lookup(data, "client.name")
	require.True(t, ok)
	assert.Equal(t, "Jo Citizen", v)

	_, ok = data["emergency_contact"]
	assert.False(t, ok, "facts the job does not carry stay absent")
}

func TestMap_VariationUsesResolvedRates(t *testing.T) {
	data, err := prefill.Map(templates.DocVariation, testInput())
	require.NoError(t, err)

	hourly, ok := data[rates.FieldHourlyRate].(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, hourly.Equal(decimal.NewFromInt(95)))

	_, ok = data[rates.FieldCalloutFee]
	assert.False(t, ok, "unset rate is omitted, not zero")

	_, ok = data["variation_reason"]
	assert.False(t, ok, "nil fact is omitted")
}

func TestMap_ClonesSlices(t *testing.T) {
	in := testInput()
	data, err := prefill.Map(templates.DocSWMS, in)
	require.NoError(t, err)

	data["hazards"].([]string)[0] = "changed"
	assert.Equal(t, "Live conductors", in.Job.Hazards[0])
}

func TestMap_Errors(t *testing.T) {
	_, err := prefill.Map("QUOTE", testInput())
	assert.ErrorIs(t, err, prefill.ErrUnsupportedDocType)

	_, err = prefill.Map(templates.DocSWMS, prefill.Input{})
	assert.Error(t, err)
}

func TestMap_AgainstTemplateChecks(t *testing.T) {
	reg, err := templates.Load()
	require.NoError(t, err)

	tmpl, err := reg.Get(templates.DocSWMS)
	require.NoError(t, err)

	data, err := prefill.Map(templates.DocSWMS, testInput())
	require.NoError(t, err)

	ids := make([]string, 0)
	for _, w := range tmpl.Evaluate(data) {
		ids = append(ids, w.ID)
	}

	assert.Equal(t, []string{"swms-emergency-contact"}, ids)
}

func TestFacts_OmitsNarrativeAndCompany(t *testing.T) {
	facts := prefill.Facts(templates.DocSWMS, testInput())

	assert.NotContains(t, facts, "narrative")
	assert.NotContains(t, facts, "company")
	assert.Contains(t, facts, "scope_of_work")
}
