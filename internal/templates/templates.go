// Package templates holds the read-only document template registry. Templates are defined in
// embedded YAML, validated once at load and never mutated afterwards.
package templates

import (
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
	"github.com/MrJamesThe3rd/tradepack/internal/ovis"
)

type DocType string

const (
	DocSWMS                 DocType = "SWMS"
	DocPaymentClaim         DocType = "PAYMENT_CLAIM"
	DocToolboxTalk          DocType = "TOOLBOX_TALK"
	DocVariation            DocType = "VARIATION"
	DocExtensionOfTime      DocType = "EXTENSION_OF_TIME"
	DocProgressClaimInvoice DocType = "PROGRESS_CLAIM_INVOICE"
	DocHandover             DocType = "HANDOVER"
	DocMaintenanceGuide     DocType = "MAINTENANCE_GUIDE"
)

var docTypes = []DocType{
	DocSWMS,
	DocPaymentClaim,
	DocToolboxTalk,
	DocVariation,
	DocExtensionOfTime,
	DocProgressClaimInvoice,
	DocHandover,
	DocMaintenanceGuide,
}

// DocTypes returns every supported document type.
func DocTypes() []DocType {
	return slices.Clone(docTypes)
}

func (d DocType) Valid() bool {
	return slices.Contains(docTypes, d)
}

// ParseDocType accepts the canonical name in any case, with dashes or underscores.
func ParseDocType(s string) (DocType, error) {
	d := DocType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !d.Valid() {
		return "", apperr.Validationf("unknown document type %q", s)
	}

	return d, nil
}

// Format controls how a bound value is displayed.
type Format string

const (
	FormatText      Format = "text"
	FormatMultiline Format = "multiline"
	FormatMoney     Format = "money"
	FormatPercent   Format = "percent"
	FormatNumber    Format = "number"
	FormatDate      Format = "date"
	FormatList      Format = "list"
)

func (f Format) valid() bool {
	switch f {
	case FormatText, FormatMultiline, FormatMoney, FormatPercent, FormatNumber, FormatDate, FormatList:
		return true
	}

	return false
}

// Binding binds a prefill data key to a labelled field.
type Binding struct {
	Key    string `yaml:"key"`
	Label  string `yaml:"label"`
	Format Format `yaml:"format"`
}

type Section struct {
	ID      string    `yaml:"id"`
	Heading string    `yaml:"heading"`
	Fields  []Binding `yaml:"fields"`
}

type Template struct {
	DocType      DocType      `yaml:"doc_type"`
	Jurisdiction string       `yaml:"jurisdiction"`
	Title        string       `yaml:"title"`
	Disclaimer   string       `yaml:"disclaimer"`
	Prompt       string       `yaml:"prompt"`
	Sections     []Section    `yaml:"sections"`
	Checks       []ovis.Check `yaml:"checks"`
}

// Evaluate runs the template's compliance checks against data.
func (t *Template) Evaluate(data map[string]any) []ovis.Warning {
	return ovis.Evaluate(t.Checks, data)
}

func (t *Template) clone() *Template {
	c := *t
	c.Checks = slices.Clone(t.Checks)
	c.Sections = make([]Section, len(t.Sections))

	for i, s := range t.Sections {
		s.Fields = slices.Clone(s.Fields)
		c.Sections[i] = s
	}

	return &c
}
