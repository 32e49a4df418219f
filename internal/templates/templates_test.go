package templates_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
	"github.com/MrJamesThe3rd/tradepack/internal/ovis"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
)

func TestLoad_EveryDocType(t *testing.T) {
	reg, err := templates.Load()
	require.NoError(t, err)

	for _, d := range templates.DocTypes() {
		tmpl, err := reg.Get(d)
		require.NoError(t, err, d)
		assert.Equal(t, d, tmpl.DocType)
		assert.NotEmpty(t, tmpl.Title)
		assert.NotEmpty(t, tmpl.Disclaimer)
		assert.NotEmpty(t, tmpl.Sections)
	}
}

func TestRegistry_GetReturnsCopy(t *testing.T) {
	reg, err := templates.Load()
	require.NoError(t, err)

	first, err := reg.Get(templates.DocSWMS)
	require.NoError(t, err)

	first.Title = "changed"
	first.Sections[0].Fields[0].Label = "changed"
	first.Checks = nil

	second, err := reg.Get(templates.DocSWMS)
	require.NoError(t, err)

	assert.NotEqual(t, "changed", second.Title)
	assert.NotEqual(t, "changed", second.Sections[0].Fields[0].Label)
	assert.NotEmpty(t, second.Checks)
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg, err := templates.Load()
	require.NoError(t, err)

	_, err = reg.Get("QUOTE")
	assert.True(t, errors.Is(err, templates.ErrTemplateNotFound))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestParseDocType(t *testing.T) {
	type testCase struct {
		in      string
		want    templates.DocType
		wantErr bool
	}

	tests := []testCase{
		{in: "SWMS", want: templates.DocSWMS},
		{in: "payment-claim", want: templates.DocPaymentClaim},
		{in: " extension_of_time ", want: templates.DocExtensionOfTime},
		{in: "quote", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := templates.ParseDocType(tt.in)
			if tt.wantErr {
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplate_EvaluateSingleEmptyRule(t *testing.T) {
	tmpl := templates.Template{
		DocType: templates.DocSWMS,
		Checks: []ovis.Check{
			{ID: "field1-required", Rule: ovis.Empty("field1"), Severity: ovis.SeverityHigh, Message: "field1 is required"},
		},
	}

	warnings := tmpl.Evaluate(map[string]any{"field1": ""})

	require.Len(t, warnings, 1)
	assert.Equal(t, "field1-required", warnings[0].ID)
	assert.Equal(t, ovis.SeverityHigh, warnings[0].Severity)
}

func TestLoadFS_Rejects(t *testing.T) {
	const valid = `
doc_type: SWMS
title: Safe Work Method Statement
sections:
  - id: job
    fields:
      - {key: job_title, label: Job}
`

	type testCase struct {
		name  string
		files map[string]string
	}

	tests := []testCase{
		{
			name:  "MissingDocTypes",
			files: map[string]string{"swms.yaml": valid},
		},
		{
			name:  "Duplicate",
			files: map[string]string{"a.yaml": valid, "b.yaml": valid},
		},
		{
			name: "UnknownDocType",
			files: map[string]string{"x.yaml": `
doc_type: QUOTE
title: Quote
sections: [{id: a}]
`},
		},
		{
			name: "BadRule",
			files: map[string]string{"x.yaml": valid + `
checks:
  - id: hazards
    rule: {kind: len_less_than, field: hazards}
    severity: high
    message: No hazards.
`},
		},
		{
			name: "BadSeverity",
			files: map[string]string{"x.yaml": valid + `
checks:
  - id: hazards
    rule: {kind: empty, field: hazards}
    severity: critical
    message: No hazards.
`},
		},
		{
			name: "DuplicateCheckID",
			files: map[string]string{"x.yaml": valid + `
checks:
  - {id: a, rule: {kind: empty, field: x}, severity: low, message: x}
  - {id: a, rule: {kind: empty, field: y}, severity: low, message: y}
`},
		},
		{
			name: "BadFormat",
			files: map[string]string{"x.yaml": `
doc_type: SWMS
title: Safe Work Method Statement
sections:
  - id: job
    fields:
      - {key: job_title, label: Job, format: colour}
`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{}
			for name, body := range tt.files {
				fsys["defs/"+name] = &fstest.MapFile{Data: []byte(body)}
			}

			_, err := templates.LoadFS(fsys, "defs")
			assert.Error(t, err)
		})
	}
}
