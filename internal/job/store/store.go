package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/job"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Columns is the column list ScanJob expects, for use by other stores that read jobs inside their own transactions.
const Columns = `
	j.id, j.owner_id, j.title, j.site_address, j.trade, j.description,
	j.scope_of_work, j.inclusions, j.exclusions, j.materials_text, j.client_notes, j.hazards, j.ppe, j.estimated_hours,
	j.subtotal, j.tax, j.total,
	j.client_name, j.client_email, j.client_phone, j.client_billing_address,
	j.rate_template_id, j.rate_overrides, j.facts,
	j.workflow_status, j.client_status,
	j.quote_version, j.client_accepted_quote_ver, j.quote_expiry_at, j.sent_at, COALESCE(j.sent_to, ''),
	j.accepted_at, COALESCE(j.accepted_signer_name, ''), COALESCE(j.acceptance_note, ''), COALESCE(j.signature_ref, ''),
	j.declined_at, COALESCE(j.decline_reason, ''), j.cancelled_at,
	j.generation_status, COALESCE(j.generation_error, ''),
	j.created_at, j.updated_at
`

// ScanJob reads a row selected with Columns.
func ScanJob(s Scanner) (*job.Job, error) {
	var (
		j                                    job.Job
		workflow, clientStatus, generation   string
		inclusions, exclusions, hazards, ppe []byte
		rawOverrides, rawFacts               []byte
	)

	if err := s.Scan(
		&j.ID, &j.OwnerID, &j.Title, &j.SiteAddress, &j.Trade, &j.Description,
		&j.ScopeOfWork, &inclusions, &exclusions, &j.MaterialsText, &j.ClientNotes, &hazards, &ppe, &j.EstimatedHours,
		&j.Subtotal, &j.Tax, &j.Total,
		&j.Client.Name, &j.Client.Email, &j.Client.Phone, &j.Client.BillingAddress,
		&j.RateTemplateID, &rawOverrides, &rawFacts,
		&workflow, &clientStatus,
		&j.QuoteVersion, &j.ClientAcceptedQuoteVer, &j.QuoteExpiryAt, &j.SentAt, &j.SentTo,
		&j.AcceptedAt, &j.AcceptedSignerName, &j.AcceptanceNote, &j.SignatureRef,
		&j.DeclinedAt, &j.DeclineReason, &j.CancelledAt,
		&generation, &j.GenerationError,
		&j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return nil, err
	}

	j.WorkflowStatus = job.WorkflowStatus(workflow)
	j.ClientStatus = job.ClientStatus(clientStatus)
	j.GenerationStatus = job.GenerationStatus(generation)

	lists := []struct {
		raw []byte
		dst *[]string
	}{
		{inclusions, &j.Inclusions},
		{exclusions, &j.Exclusions},
		{hazards, &j.Hazards},
		{ppe, &j.PPE},
	}
	for _, l := range lists {
		if err := decodeJSON(l.raw, l.dst); err != nil {
			return nil, err
		}
	}

	if err := decodeJSON(rawOverrides, &j.RateOverrides); err != nil {
		return nil, err
	}

	if err := decodeJSON(rawFacts, &j.Facts); err != nil {
		return nil, err
	}

	return &j, nil
}

func decodeJSON(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding job column: %w", err)
	}

	return nil
}

func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	query := `SELECT ` + Columns + `
		FROM jobs j
		WHERE j.id = $1 AND j.deleted_at IS NULL`

	j, err := ScanJob(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrNotFound
		}

		return nil, fmt.Errorf("getting job: %w", err)
	}

	return j, nil
}

func (s *Store) SetGenerationStatus(ctx context.Context, id uuid.UUID, status job.GenerationStatus, errMsg string) error {
	query := `
		UPDATE jobs
		SET generation_status = $1, generation_error = NULLIF($2, ''), updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, status, errMsg, id)
	if err != nil {
		return fmt.Errorf("updating generation status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return job.ErrNotFound
	}

	return nil
}
