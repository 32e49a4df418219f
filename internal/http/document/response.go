package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/business"
	"github.com/MrJamesThe3rd/tradepack/internal/document"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
)

type draftResponse struct {
	ID          uuid.UUID          `json:"id"`
	JobID       uuid.UUID          `json:"job_id"`
	DocType     templates.DocType  `json:"doc_type"`
	Status      document.Status    `json:"status"`
	Data        map[string]any     `json:"data"`
	Approved    bool               `json:"approved"`
	ApprovedAt  *time.Time         `json:"approved_at,omitempty"`
	ApprovedBy  *uuid.UUID         `json:"approved_by,omitempty"`
	ConfirmedAt *time.Time         `json:"confirmed_at,omitempty"`
	IssuedAt    *time.Time         `json:"issued_at,omitempty"`
	RecordID    string             `json:"record_id"`
	Issuer      *business.Identity `json:"issuer,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func toResponse(d *document.Draft) draftResponse {
	return draftResponse{
		ID:          d.ID,
		JobID:       d.JobID,
		DocType:     d.DocType,
		Status:      d.Status,
		Data:        d.Data,
		Approved:    d.Approved,
		ApprovedAt:  d.ApprovedAt,
		ApprovedBy:  d.ApprovedBy,
		ConfirmedAt: d.ConfirmedAt,
		IssuedAt:    d.IssuedAt,
		RecordID:    d.RecordID(),
		Issuer:      d.Issuer,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toResponseList(drafts []*document.Draft) []draftResponse {
	resp := make([]draftResponse, len(drafts))
	for i, d := range drafts {
		resp[i] = toResponse(d)
	}

	return resp
}
