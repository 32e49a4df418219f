package job

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradepack/internal/rates"
)

// ClientStatus is the client-facing quote state.
type ClientStatus string

const (
	ClientStatusDraft     ClientStatus = "draft"
	ClientStatusSent      ClientStatus = "sent"
	ClientStatusAccepted  ClientStatus = "accepted"
	ClientStatusDeclined  ClientStatus = "declined"
	ClientStatusCancelled ClientStatus = "cancelled"
)

// WorkflowStatus is the tradie's internal job state.
type WorkflowStatus string

const (
	WorkflowPending             WorkflowStatus = "pending"
	WorkflowBooked              WorkflowStatus = "booked"
	WorkflowInProgress          WorkflowStatus = "in_progress"
	WorkflowCompleted           WorkflowStatus = "completed"
	WorkflowPendingConfirmation WorkflowStatus = "pending_confirmation"
	WorkflowCancelled           WorkflowStatus = "cancelled"
)

// GenerationStatus tracks the last text-generation run for the job.
type GenerationStatus string

const (
	GenerationIdle      GenerationStatus = "idle"
	GenerationPending   GenerationStatus = "pending"
	GenerationCompleted GenerationStatus = "completed"
	GenerationFailed    GenerationStatus = "failed"
)

// Client is the job's client identity.
type Client struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	BillingAddress string `json:"billing_address"`
}

// Acceptance records who accepted a quote and against which version.
type Acceptance struct {
	QuoteVersion int
	AcceptedAt   time.Time
	SignerName   string
	Note         string
	SignatureRef string
}

// Job is the read model the lifecycle engine works from.
type Job struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	SiteAddress string
	Trade       string
	Description string

	ScopeOfWork    string
	Inclusions     []string
	Exclusions     []string
	MaterialsText  string
	ClientNotes    string
	Hazards        []string
	PPE            []string
	EstimatedHours decimal.Decimal

	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal

	Client         Client
	RateTemplateID *uuid.UUID
	RateOverrides  rates.Rates
	Facts          map[string]any // document-type specific job facts

	WorkflowStatus WorkflowStatus
	ClientStatus   ClientStatus

	QuoteVersion           int
	ClientAcceptedQuoteVer *int
	QuoteExpiryAt          *time.Time
	SentAt                 *time.Time
	SentTo                 string
	AcceptedAt             *time.Time
	AcceptedSignerName     string
	AcceptanceNote         string
	SignatureRef           string
	DeclinedAt             *time.Time
	DeclineReason          string
	CancelledAt            *time.Time

	GenerationStatus GenerationStatus
	GenerationError  string

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsOwnedBy reports whether userID created the job.
func (j *Job) IsOwnedBy(userID uuid.UUID) bool {
	return j.OwnerID == userID
}
