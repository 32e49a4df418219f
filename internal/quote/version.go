package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradepack/internal/job"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
)

// Version is the immutable snapshot taken each time a quote is sent. Rates hold resolved values so
// later changes to templates or defaults never alter a sent quote.
type Version struct {
	ID            uuid.UUID
	JobID         uuid.UUID
	Version       int
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	ScopeOfWork   string
	Inclusions    []string
	Exclusions    []string
	MaterialsText string
	ClientNotes   string
	Rates         rates.Rates
	SentTo        string
	SentBy        uuid.UUID
	SentAt        time.Time
	QuoteExpiryAt time.Time
}

func snapshot(j *job.Job, number int, resolved rates.Rates) *Version {
	return &Version{
		JobID:         j.ID,
		Version:       number,
		Subtotal:      j.Subtotal,
		Tax:           j.Tax,
		Total:         j.Total,
		ScopeOfWork:   j.ScopeOfWork,
		Inclusions:    append([]string(nil), j.Inclusions...),
		Exclusions:    append([]string(nil), j.Exclusions...),
		MaterialsText: j.MaterialsText,
		ClientNotes:   j.ClientNotes,
		Rates:         resolved,
	}
}

// ClientIdentity is who the public accept/decline request claims to be.
type ClientIdentity struct {
	Name  string
	Email string
}

type SendParams struct {
	RecipientEmail string
	// Reissue allows sending again after a decline or cancellation.
	Reissue bool
}

type SendResult struct {
	Version       int
	SentAt        time.Time
	QuoteExpiryAt time.Time
	ClientStatus  job.ClientStatus
}

type AcceptParams struct {
	Client       ClientIdentity
	SignerName   string
	Note         string
	SignatureRef string
}

type AcceptResult struct {
	ClientStatus job.ClientStatus
	AcceptedAt   time.Time
	QuoteVersion int
}

type DeclineParams struct {
	Client ClientIdentity
	Reason string
}

type DeclineResult struct {
	ClientStatus   job.ClientStatus
	WorkflowStatus job.WorkflowStatus
	DeclinedAt     time.Time
}
