package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradepack/internal/job"
	"github.com/MrJamesThe3rd/tradepack/internal/quote"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
)

type versionResponse struct {
	ID            uuid.UUID       `json:"id"`
	Version       int             `json:"version"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	ScopeOfWork   string          `json:"scope_of_work"`
	Inclusions    []string        `json:"inclusions"`
	Exclusions    []string        `json:"exclusions"`
	MaterialsText string          `json:"materials_text,omitempty"`
	ClientNotes   string          `json:"client_notes,omitempty"`
	Rates         rates.Rates     `json:"rates"`
	SentTo        string          `json:"sent_to"`
	SentAt        time.Time       `json:"sent_at"`
	QuoteExpiryAt time.Time       `json:"quote_expiry_at"`
}

func toVersionResponse(v *quote.Version) versionResponse {
	return versionResponse{
		ID:            v.ID,
		Version:       v.Version,
		Subtotal:      v.Subtotal,
		Tax:           v.Tax,
		Total:         v.Total,
		ScopeOfWork:   v.ScopeOfWork,
		Inclusions:    nonNil(v.Inclusions),
		Exclusions:    nonNil(v.Exclusions),
		MaterialsText: v.MaterialsText,
		ClientNotes:   v.ClientNotes,
		Rates:         v.Rates,
		SentTo:        v.SentTo,
		SentAt:        v.SentAt,
		QuoteExpiryAt: v.QuoteExpiryAt,
	}
}

func toVersionList(versions []*quote.Version) []versionResponse {
	resp := make([]versionResponse, len(versions))
	for i, v := range versions {
		resp[i] = toVersionResponse(v)
	}

	return resp
}

type sendResponse struct {
	Version       int              `json:"version"`
	SentAt        time.Time        `json:"sent_at"`
	QuoteExpiryAt time.Time        `json:"quote_expiry_at"`
	ClientStatus  job.ClientStatus `json:"client_status"`
}

type acceptResponse struct {
	ClientStatus job.ClientStatus `json:"client_status"`
	AcceptedAt   time.Time        `json:"accepted_at"`
	QuoteVersion int              `json:"quote_version"`
}

type declineResponse struct {
	ClientStatus   job.ClientStatus   `json:"client_status"`
	WorkflowStatus job.WorkflowStatus `json:"workflow_status"`
	DeclinedAt     time.Time          `json:"declined_at"`
}

// jobStatusResponse exposes the accepted version as a raw number next to the live one.
type jobStatusResponse struct {
	JobID                  uuid.UUID          `json:"job_id"`
	ClientStatus           job.ClientStatus   `json:"client_status"`
	WorkflowStatus         job.WorkflowStatus `json:"workflow_status"`
	QuoteVersion           int                `json:"quote_version"`
	ClientAcceptedQuoteVer *int               `json:"client_accepted_quote_ver"`
	QuoteExpiryAt          *time.Time         `json:"quote_expiry_at,omitempty"`
	CancelledAt            *time.Time         `json:"cancelled_at,omitempty"`
}

func toJobStatus(j *job.Job) jobStatusResponse {
	return jobStatusResponse{
		JobID:                  j.ID,
		ClientStatus:           j.ClientStatus,
		WorkflowStatus:         j.WorkflowStatus,
		QuoteVersion:           j.QuoteVersion,
		ClientAcceptedQuoteVer: j.ClientAcceptedQuoteVer,
		QuoteExpiryAt:          j.QuoteExpiryAt,
		CancelledAt:            j.CancelledAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
