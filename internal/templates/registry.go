package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
	"github.com/MrJamesThe3rd/tradepack/internal/ovis"
)

//go:embed defs/*.yaml
var defs embed.FS

var ErrTemplateNotFound = apperr.NotFound(apperr.CodeTemplateNotFound, "document template not found")

// Registry is the immutable set of templates, one per document type.
type Registry struct {
	byType map[DocType]*Template
}

// Load builds the registry from the embedded definitions.
func Load() (*Registry, error) {
	return LoadFS(defs, "defs")
}

// LoadFS reads every *.yaml file in dir. Every document type must be defined exactly once.
func LoadFS(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading template dir: %w", err)
	}

	r := &Registry{byType: make(map[DocType]*Template, len(docTypes))}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}

		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", e.Name(), err)
		}

		var t Template
		if err := yaml.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", e.Name(), err)
		}

		if err := validate(&t); err != nil {
			return nil, fmt.Errorf("invalid template %s: %w", e.Name(), err)
		}

		if _, dup := r.byType[t.DocType]; dup {
			return nil, fmt.Errorf("duplicate template for %s in %s", t.DocType, e.Name())
		}

		r.byType[t.DocType] = &t
	}

	for _, d := range docTypes {
		if _, ok := r.byType[d]; !ok {
			return nil, fmt.Errorf("missing template for %s", d)
		}
	}

	return r, nil
}

// Get returns a copy of the template for docType.
func (r *Registry) Get(docType DocType) (*Template, error) {
	t, ok := r.byType[docType]
	if !ok {
		return nil, ErrTemplateNotFound
	}

	return t.clone(), nil
}

func validate(t *Template) error {
	if !t.DocType.Valid() {
		return fmt.Errorf("unknown doc_type %q", t.DocType)
	}

	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%s: title is required", t.DocType)
	}

	if len(t.Sections) == 0 {
		return fmt.Errorf("%s: at least one section is required", t.DocType)
	}

	sectionIDs := make(map[string]struct{}, len(t.Sections))

	for i := range t.Sections {
		s := &t.Sections[i]
		if s.ID == "" {
			return fmt.Errorf("%s: section %d has no id", t.DocType, i)
		}

		if _, dup := sectionIDs[s.ID]; dup {
			return fmt.Errorf("%s: duplicate section id %q", t.DocType, s.ID)
		}

		sectionIDs[s.ID] = struct{}{}

		for j := range s.Fields {
			f := &s.Fields[j]
			if f.Key == "" {
				return fmt.Errorf("%s/%s: field %d has no key", t.DocType, s.ID, j)
			}

			if f.Format == "" {
				f.Format = FormatText
			}

			if !f.Format.valid() {
				return fmt.Errorf("%s/%s: field %s has unknown format %q", t.DocType, s.ID, f.Key, f.Format)
			}
		}
	}

	checkIDs := make(map[string]struct{}, len(t.Checks))

	for _, c := range t.Checks {
		if c.ID == "" {
			return fmt.Errorf("%s: check without id", t.DocType)
		}

		if _, dup := checkIDs[c.ID]; dup {
			return fmt.Errorf("%s: duplicate check id %q", t.DocType, c.ID)
		}

		checkIDs[c.ID] = struct{}{}

		if err := c.Rule.Validate(); err != nil {
			return fmt.Errorf("%s: check %s: %w", t.DocType, c.ID, err)
		}

		if !ovis.ValidSeverity(c.Severity) {
			return fmt.Errorf("%s: check %s: unknown severity %q", t.DocType, c.ID, c.Severity)
		}

		if strings.TrimSpace(c.Message) == "" {
			return fmt.Errorf("%s: check %s: message is required", t.DocType, c.ID)
		}
	}

	return nil
}
