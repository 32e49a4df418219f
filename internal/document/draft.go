package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/business"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
	StatusIssued    Status = "ISSUED"
)

// Draft is the single record per (job, document type).
type Draft struct {
	ID             uuid.UUID
	JobID          uuid.UUID
	DocType        templates.DocType
	Data           map[string]any
	Status         Status
	Approved       bool
	ApprovedAt     *time.Time
	ApprovedBy     *uuid.UUID
	ConfirmedAt    *time.Time
	IssuedAt       *time.Time
	IssuedRecordID string
	Issuer         *business.Identity
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Locked reports whether the draft is frozen for audit: approved and past DRAFT.
func (d *Draft) Locked() bool {
	return d.Approved && d.Status != StatusDraft
}

// RecordID is the identifier printed on exports.
func (d *Draft) RecordID() string {
	if d.IssuedRecordID != "" {
		return d.IssuedRecordID
	}

	return newRecordID(d)
}

func newRecordID(d *Draft) string {
	short := strings.ToUpper(strings.ReplaceAll(d.ID.String(), "-", "")[:10])
	return fmt.Sprintf("%s-%s", d.DocType, short)
}
