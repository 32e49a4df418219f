package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/tradepack/internal/job"
	jobStore "github.com/MrJamesThe3rd/tradepack/internal/job/store"
	"github.com/MrJamesThe3rd/tradepack/internal/quote"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVersion(s scanner) (*quote.Version, error) {
	var (
		v                      quote.Version
		inclusions, exclusions []byte
		rawRates               []byte
	)

	if err := s.Scan(
		&v.ID, &v.JobID, &v.Version, &v.Subtotal, &v.Tax, &v.Total,
		&v.ScopeOfWork, &inclusions, &exclusions, &v.MaterialsText, &v.ClientNotes, &rawRates,
		&v.SentTo, &v.SentBy, &v.SentAt, &v.QuoteExpiryAt,
	); err != nil {
		return nil, err
	}

	for _, col := range []struct {
		raw []byte
		dst any
	}{
		{inclusions, &v.Inclusions},
		{exclusions, &v.Exclusions},
		{rawRates, &v.Rates},
	} {
		if len(col.raw) == 0 {
			continue
		}

		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("decoding quote version column: %w", err)
		}
	}

	return &v, nil
}

func (s *Store) ListVersions(ctx context.Context, jobID uuid.UUID) ([]*quote.Version, error) {
	query := `
		SELECT id, job_id, version, subtotal, tax, total,
		       scope_of_work, inclusions, exclusions, materials_text, client_notes, rates,
		       sent_to, sent_by, sent_at, quote_expiry_at
		FROM quote_versions
		WHERE job_id = $1
		ORDER BY version ASC
	`

	rows, err := s.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("listing quote versions: %w", err)
	}
	defer rows.Close()

	var versions []*quote.Version

	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning quote version: %w", err)
		}

		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quote versions: %w", err)
	}

	return versions, nil
}

func (s *Store) Accept(ctx context.Context, jobID uuid.UUID, a job.Acceptance) (int, bool, error) {
	query := `
		UPDATE jobs
		SET client_status = 'accepted',
		    client_accepted_quote_ver = quote_version,
		    accepted_at = $2,
		    accepted_signer_name = $3,
		    acceptance_note = NULLIF($4, ''),
		    signature_ref = NULLIF($5, ''),
		    workflow_status = CASE WHEN workflow_status = 'pending' THEN 'booked' ELSE workflow_status END,
		    updated_at = $2
		WHERE id = $1
		  AND deleted_at IS NULL
		  AND client_status = 'sent'
		  AND (quote_expiry_at IS NULL OR quote_expiry_at >= $2)
		RETURNING quote_version
	`

	var version int

	err := s.db.QueryRowContext(ctx, query, jobID, a.AcceptedAt, a.SignerName, a.Note, a.SignatureRef).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}

		return 0, false, fmt.Errorf("accepting quote: %w", err)
	}

	return version, true, nil
}

func (s *Store) Decline(ctx context.Context, jobID uuid.UUID, reason string, at time.Time) (bool, error) {
	query := `
		UPDATE jobs
		SET client_status = 'declined',
		    declined_at = $2,
		    decline_reason = NULLIF($3, ''),
		    workflow_status = 'pending_confirmation',
		    updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL AND client_status = 'sent'
	`

	return s.transition(ctx, "declining quote", query, jobID, at, reason)
}

func (s *Store) Cancel(ctx context.Context, jobID uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE jobs
		SET client_status = 'cancelled',
		    client_accepted_quote_ver = NULL,
		    cancelled_at = $2,
		    workflow_status = 'cancelled',
		    updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL AND client_status IN ('sent', 'accepted', 'declined')
	`

	return s.transition(ctx, "cancelling quote", query, jobID, at)
}

func (s *Store) transition(ctx context.Context, op, query string, args ...any) (bool, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n == 1, nil
}

func sendLockKey(jobID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("quote-send"))
	h.Write([]byte{0})
	h.Write(jobID[:])

	return int64(h.Sum64())
}

type sendTx struct {
	tx    *sql.Tx
	jobID uuid.UUID
}

func (s *Store) BeginSend(ctx context.Context, jobID uuid.UUID) (quote.SendTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning send tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", sendLockKey(jobID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring send lock: %w", err)
	}

	return &sendTx{tx: dbTx, jobID: jobID}, nil
}

func (stx *sendTx) Commit() error   { return stx.tx.Commit() }
func (stx *sendTx) Rollback() error { return stx.tx.Rollback() }

func (stx *sendTx) Job(ctx context.Context) (*job.Job, error) {
	query := `SELECT ` + jobStore.Columns + `
		FROM jobs j
		WHERE j.id = $1 AND j.deleted_at IS NULL
		FOR UPDATE`

	j, err := jobStore.ScanJob(stx.tx.QueryRowContext(ctx, query, stx.jobID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrNotFound
		}

		return nil, fmt.Errorf("locking job: %w", err)
	}

	return j, nil
}

func (stx *sendTx) InsertVersion(ctx context.Context, v *quote.Version) error {
	inclusions, err := json.Marshal(v.Inclusions)
	if err != nil {
		return fmt.Errorf("encoding inclusions: %w", err)
	}

	exclusions, err := json.Marshal(v.Exclusions)
	if err != nil {
		return fmt.Errorf("encoding exclusions: %w", err)
	}

	rawRates, err := json.Marshal(v.Rates)
	if err != nil {
		return fmt.Errorf("encoding rates: %w", err)
	}

	query := `
		INSERT INTO quote_versions (
			job_id, version, subtotal, tax, total,
			scope_of_work, inclusions, exclusions, materials_text, client_notes, rates,
			sent_to, sent_by, sent_at, quote_expiry_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	err = stx.tx.QueryRowContext(ctx, query,
		v.JobID, v.Version, v.Subtotal, v.Tax, v.Total,
		v.ScopeOfWork, inclusions, exclusions, v.MaterialsText, v.ClientNotes, rawRates,
		v.SentTo, v.SentBy, v.SentAt, v.QuoteExpiryAt,
	).Scan(&v.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return quote.ErrVersionConflict
		}

		return fmt.Errorf("inserting quote version: %w", err)
	}

	return nil
}

// MarkSent moves the job's current version pointer to v. A reissue clears the previous decision.
func (stx *sendTx) MarkSent(ctx context.Context, v *quote.Version) error {
	query := `
		UPDATE jobs
		SET client_status = 'sent',
		    quote_version = $2,
		    sent_at = $3,
		    sent_to = $4,
		    quote_expiry_at = $5,
		    declined_at = NULL,
		    decline_reason = NULL,
		    cancelled_at = NULL,
		    workflow_status = CASE
		        WHEN workflow_status IN ('pending_confirmation', 'cancelled') THEN 'pending'
		        ELSE workflow_status
		    END,
		    updated_at = $3
		WHERE id = $1
	`

	if _, err := stx.tx.ExecContext(ctx, query, v.JobID, v.Version, v.SentAt, v.SentTo, v.QuoteExpiryAt); err != nil {
		return fmt.Errorf("marking quote sent: %w", err)
	}

	return nil
}
