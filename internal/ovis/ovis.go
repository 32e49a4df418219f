package ovis

// Severity of a triggered check.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Check is a rule declared by a template.
type Check struct {
	ID       string   `yaml:"id" json:"id"`
	Rule     Rule     `yaml:"rule" json:"rule"`
	Severity Severity `yaml:"severity" json:"severity"`
	Message  string   `yaml:"message" json:"message"`
}

// Warning is one triggered check.
type Warning struct {
	ID       string   `json:"id"`
	Field    string   `json:"field"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Evaluate returns one warning per check whose rule holds, in check order.
// The result is never nil; an empty slice means the data is clean.
func Evaluate(checks []Check, data map[string]any) []Warning {
	warnings := make([]Warning, 0)

	for _, c := range checks {
		if !c.Rule.Holds(data) {
			continue
		}

		warnings = append(warnings, Warning{
			ID:       c.ID,
			Field:    c.Rule.Field,
			Rule:     c.Rule.String(),
			Severity: c.Severity,
			Message:  c.Message,
		})
	}

	return warnings
}

// HasSeverity reports whether any warning carries severity s.
func HasSeverity(warnings []Warning, s Severity) bool {
	for _, w := range warnings {
		if w.Severity == s {
			return true
		}
	}

	return false
}

// ValidSeverity reports whether s is a known severity.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}

	return false
}
