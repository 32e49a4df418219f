package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/business"
	"github.com/MrJamesThe3rd/tradepack/internal/document"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const columns = `
	id, job_id, doc_type, data, status, approved, approved_at, approved_by, confirmed_at,
	issued_at, COALESCE(issued_record_id, ''), issuer, created_at, updated_at
`

// locked mirrors Draft.Locked for use in WHERE clauses.
const locked = `(document_drafts.approved AND document_drafts.status <> 'DRAFT')`

func scanDraft(s scanner) (*document.Draft, error) {
	var (
		d                 document.Draft
		docType, status   string
		rawData, rawIssue []byte
	)

	if err := s.Scan(
		&d.ID, &d.JobID, &docType, &rawData, &status, &d.Approved, &d.ApprovedAt, &d.ApprovedBy, &d.ConfirmedAt,
		&d.IssuedAt, &d.IssuedRecordID, &rawIssue, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d.DocType = templates.DocType(docType)
	d.Status = document.Status(status)

	if err := json.Unmarshal(rawData, &d.Data); err != nil {
		return nil, fmt.Errorf("decoding draft data: %w", err)
	}

	if len(rawIssue) > 0 {
		d.Issuer = &business.Identity{}
		if err := json.Unmarshal(rawIssue, d.Issuer); err != nil {
			return nil, fmt.Errorf("decoding issuer: %w", err)
		}
	}

	return &d, nil
}

func (s *Store) GetDraft(ctx context.Context, jobID uuid.UUID, docType templates.DocType) (*document.Draft, error) {
	query := `SELECT ` + columns + ` FROM document_drafts WHERE job_id = $1 AND doc_type = $2`

	d, err := scanDraft(s.db.QueryRowContext(ctx, query, jobID, docType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, document.ErrDraftNotFound
		}

		return nil, fmt.Errorf("getting draft: %w", err)
	}

	return d, nil
}

func (s *Store) ListDrafts(ctx context.Context, jobID uuid.UUID) ([]*document.Draft, error) {
	query := `SELECT ` + columns + ` FROM document_drafts WHERE job_id = $1 ORDER BY doc_type ASC`

	rows, err := s.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*document.Draft

	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning draft: %w", err)
		}

		drafts = append(drafts, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating drafts: %w", err)
	}

	return drafts, nil
}

func (s *Store) UpsertDraft(ctx context.Context, jobID uuid.UUID, docType templates.DocType, data map[string]any, at time.Time) (*document.Draft, bool, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("encoding draft data: %w", err)
	}

	query := `
		INSERT INTO document_drafts (job_id, doc_type, data, status, approved, created_at, updated_at)
		VALUES ($1, $2, $3, 'DRAFT', FALSE, $4, $4)
		ON CONFLICT (job_id, doc_type) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		WHERE NOT ` + locked + `
		RETURNING ` + columns

	d, err := scanDraft(s.db.QueryRowContext(ctx, query, jobID, docType, raw, at))
	if err == nil {
		return d, true, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("upserting draft: %w", err)
	}

	d, err = s.GetDraft(ctx, jobID, docType)
	if err != nil {
		return nil, false, err
	}

	return d, false, nil
}

func (s *Store) ConfirmDraft(ctx context.Context, jobID uuid.UUID, docType templates.DocType, actorID uuid.UUID, at time.Time) (*document.Draft, bool, error) {
	// A concurrent confirm that commits first makes this WHERE false on re-check, so the loser
	// falls through to the read below and never restamps.
	query := `
		UPDATE document_drafts
		SET status = CASE WHEN status = 'DRAFT' THEN 'CONFIRMED' ELSE status END,
		    approved = TRUE,
		    approved_at = COALESCE(approved_at, $4),
		    approved_by = COALESCE(approved_by, $3),
		    confirmed_at = COALESCE(confirmed_at, $4),
		    updated_at = $4
		WHERE job_id = $1 AND doc_type = $2 AND NOT ` + locked + `
		RETURNING ` + columns

	d, err := scanDraft(s.db.QueryRowContext(ctx, query, jobID, docType, actorID, at))
	if err == nil {
		return d, true, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("confirming draft: %w", err)
	}

	d, err = s.GetDraft(ctx, jobID, docType)
	if err != nil {
		return nil, false, err
	}

	return d, false, nil
}

func (s *Store) IssueDraft(ctx context.Context, jobID uuid.UUID, docType templates.DocType, recordID string, issuer business.Identity, at time.Time) (*document.Draft, bool, error) {
	raw, err := json.Marshal(issuer)
	if err != nil {
		return nil, false, fmt.Errorf("encoding issuer: %w", err)
	}

	query := `
		UPDATE document_drafts
		SET status = 'ISSUED', issued_at = $3, issued_record_id = $4, issuer = $5, updated_at = $3
		WHERE job_id = $1 AND doc_type = $2 AND status = 'CONFIRMED' AND approved
		RETURNING ` + columns

	d, err := scanDraft(s.db.QueryRowContext(ctx, query, jobID, docType, at, recordID, raw))
	if err == nil {
		return d, true, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("issuing draft: %w", err)
	}

	d, err = s.GetDraft(ctx, jobID, docType)
	if err != nil {
		return nil, false, err
	}

	return d, false, nil
}
