// Package render turns a template and prefill data into a format-independent render model.
package render

import (
	"github.com/MrJamesThe3rd/tradepack/internal/ovis"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
)

type Field struct {
	Key    string           `json:"key"`
	Label  string           `json:"label"`
	Format templates.Format `json:"format"`
	Value  string           `json:"value"`
	Items  []string         `json:"items,omitempty"`
}

type Section struct {
	ID      string  `json:"id"`
	Heading string  `json:"heading"`
	Fields  []Field `json:"fields"`
}

// Model is a document ready for export. Warnings are attached by the caller after evaluation.
type Model struct {
	RecordID     string            `json:"record_id"`
	DocType      templates.DocType `json:"doc_type"`
	Title        string            `json:"title"`
	Jurisdiction string            `json:"jurisdiction"`
	Disclaimer   string            `json:"disclaimer"`
	Sections     []Section         `json:"sections"`
	Warnings     []ovis.Warning    `json:"warnings"`
	Approved     bool              `json:"approved"`
}

// Generate binds data to the template's sections in declared order. Unresolved bindings render
// empty. The output depends only on its arguments.
func Generate(t *templates.Template, data map[string]any, recordID string) *Model {
	m := &Model{
		RecordID:     recordID,
		DocType:      t.DocType,
		Title:        t.Title,
		Jurisdiction: t.Jurisdiction,
		Disclaimer:   t.Disclaimer,
		Sections:     make([]Section, 0, len(t.Sections)),
		Warnings:     make([]ovis.Warning, 0),
	}

	for _, s := range t.Sections {
		section := Section{
			ID:      s.ID,
			Heading: s.Heading,
			Fields:  make([]Field, 0, len(s.Fields)),
		}

		for _, b := range s.Fields {
			v, _ := ovis.Lookup(data, b.Key)

			f := Field{
				Key:    b.Key,
				Label:  b.Label,
				Format: b.Format,
			}

			if b.Format == templates.FormatList {
				f.Items = formatList(v)
				f.Value = joinItems(f.Items)
			} else {
				f.Value = formatValue(b.Format, v)
			}

			section.Fields = append(section.Fields, f)
		}

		m.Sections = append(m.Sections, section)
	}

	return m
}

// ClientView returns the model as shown to a client: warnings are dropped once approved.
func (m *Model) ClientView(approved bool) *Model {
	c := *m
	c.Approved = approved

	if approved {
		c.Warnings = make([]ovis.Warning, 0)
	}

	return &c
}
