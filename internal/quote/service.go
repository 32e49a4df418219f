package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
	"github.com/MrJamesThe3rd/tradepack/internal/business"
	"github.com/MrJamesThe3rd/tradepack/internal/events"
	"github.com/MrJamesThe3rd/tradepack/internal/job"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
)

var (
	ErrAlreadyAccepted = apperr.InvalidState(apperr.CodeAlreadyAccepted, "quote has already been accepted")
	ErrAlreadyDeclined = apperr.InvalidState(apperr.CodeAlreadyDeclined, "quote has already been declined")
	ErrQuoteDeclined   = apperr.InvalidState(apperr.CodeQuoteDeclined, "quote was declined or cancelled; ask for a fresh quote")
	ErrQuoteExpired    = apperr.InvalidState(apperr.CodeQuoteExpired, "quote has expired; ask for a fresh quote")
	ErrQuoteNotSent    = apperr.InvalidState(apperr.CodeQuoteNotSent, "quote has not been sent")
	ErrVersionConflict = apperr.New(apperr.KindConflict, apperr.CodeVersionConflict, "quote was sent concurrently; reload and try again")
	ErrClientMismatch  = apperr.Forbidden("client identity does not match this quote")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=quote
type Repository interface {
	// BeginSend opens a transaction holding the job's send lock.
	BeginSend(ctx context.Context, jobID uuid.UUID) (SendTx, error)
	// Accept transitions a sent, unexpired quote to accepted. ok is false when the job was not in
	// that state at write time.
	Accept(ctx context.Context, jobID uuid.UUID, a job.Acceptance) (version int, ok bool, err error)
	// Decline transitions a sent quote to declined and parks the workflow for confirmation.
	Decline(ctx context.Context, jobID uuid.UUID, reason string, at time.Time) (ok bool, err error)
	// Cancel transitions a sent, accepted or declined quote to cancelled.
	Cancel(ctx context.Context, jobID uuid.UUID, at time.Time) (ok bool, err error)
	ListVersions(ctx context.Context, jobID uuid.UUID) ([]*Version, error)
}

type SendTx interface {
	// Job reads the job row locked for the rest of the transaction.
	Job(ctx context.Context) (*job.Job, error)
	// InsertVersion fails with ErrVersionConflict if (job, version) exists.
	InsertVersion(ctx context.Context, v *Version) error
	MarkSent(ctx context.Context, v *Version) error
	Commit() error
	Rollback() error
}

// Exporter writes a job's quote history as a spreadsheet.
type Exporter interface {
	QuoteHistory(j *job.Job, versions []*Version) ([]byte, error)
}

type Service struct {
	repo         Repository
	jobs         *job.Service
	profiles     *business.Service
	rates        *rates.Service
	exporter     Exporter
	events       events.Publisher
	validityDays int
	now          func() time.Time
}

type Deps struct {
	Jobs     *job.Service
	Profiles *business.Service
	Rates    *rates.Service
	Exporter Exporter
	Events   events.Publisher
	// ValidityDays applies when the business profile sets none.
	ValidityDays int
}

func NewService(repo Repository, deps Deps) *Service {
	pub := deps.Events
	if pub == nil {
		pub = events.Nop{}
	}

	return &Service{
		repo:         repo,
		jobs:         deps.Jobs,
		profiles:     deps.Profiles,
		rates:        deps.Rates,
		exporter:     deps.Exporter,
		events:       pub,
		validityDays: deps.ValidityDays,
		now:          time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Send snapshots the job's current quote into the next version and marks it sent. Version numbers
// are assigned under the job's send lock and guarded by the (job, version) unique key.
func (s *Service) Send(ctx context.Context, actorID, jobID uuid.UUID, params SendParams) (*SendResult, error) {
	to, err := mail.ParseAddress(strings.TrimSpace(params.RecipientEmail))
	if err != nil {
		return nil, apperr.Validationf("invalid recipient email %q", params.RecipientEmail)
	}

	j, err := s.jobs.GetOwned(ctx, actorID, jobID)
	if err != nil {
		return nil, err
	}

	// Fail fast outside the lock; the decision is re-checked on the locked row.
	if err := sendable(j.ClientStatus, params.Reissue); err != nil {
		return nil, err
	}

	profile, err := s.profile(ctx, j.OwnerID)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginSend(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("beginning send: %w", err)
	}
	defer tx.Rollback()

	current, err := tx.Job(ctx)
	if err != nil {
		return nil, err
	}

	if err := sendable(current.ClientStatus, params.Reissue); err != nil {
		return nil, err
	}

	resolved, err := s.rates.Effective(ctx, current.RateOverrides, current.RateTemplateID, profile.DefaultRates)
	if err != nil {
		return nil, fmt.Errorf("resolving rates: %w", err)
	}

	now := s.now()

	v := snapshot(current, current.QuoteVersion+1, resolved)
	v.SentTo = to.Address
	v.SentBy = actorID
	v.SentAt = now
	v.QuoteExpiryAt = now.Add(profile.QuoteValidity(s.validityDays))

	if err := tx.InsertVersion(ctx, v); err != nil {
		return nil, err
	}

	if err := tx.MarkSent(ctx, v); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing send: %w", err)
	}

	slog.Info("quote sent", "job_id", jobID, "version", v.Version, "reissue", params.Reissue)
	s.events.Publish(ctx, events.Event{
		Type:    events.QuoteSent,
		JobID:   jobID,
		Version: v.Version,
		ActorID: actorID.String(),
		At:      now,
	})

	return &SendResult{
		Version:       v.Version,
		SentAt:        v.SentAt,
		QuoteExpiryAt: v.QuoteExpiryAt,
		ClientStatus:  job.ClientStatusSent,
	}, nil
}

// Accept records the client's acceptance against the version live right now.
func (s *Service) Accept(ctx context.Context, jobID uuid.UUID, params AcceptParams) (*AcceptResult, error) {
	signer := strings.TrimSpace(params.SignerName)
	if signer == "" {
		return nil, apperr.Validation("signer name is required")
	}

	j, err := s.clientJob(ctx, jobID, params.Client)
	if err != nil {
		return nil, err
	}

	now := s.now()

	if err := acceptable(j, now); err != nil {
		return nil, err
	}

	version, ok, err := s.repo.Accept(ctx, jobID, job.Acceptance{
		AcceptedAt:   now,
		SignerName:   signer,
		Note:         strings.TrimSpace(params.Note),
		SignatureRef: strings.TrimSpace(params.SignatureRef),
	})
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, s.lostRace(ctx, jobID, func(j *job.Job) error { return acceptable(j, now) })
	}

	slog.Info("quote accepted", "job_id", jobID, "version", version)
	s.events.Publish(ctx, events.Event{Type: events.QuoteAccepted, JobID: jobID, Version: version, At: now})

	return &AcceptResult{
		ClientStatus: job.ClientStatusAccepted,
		AcceptedAt:   now,
		QuoteVersion: version,
	}, nil
}

// Decline records the client's decline. The job is parked in pending_confirmation for the tradie
// to confirm the cancellation.
func (s *Service) Decline(ctx context.Context, jobID uuid.UUID, params DeclineParams) (*DeclineResult, error) {
	j, err := s.clientJob(ctx, jobID, params.Client)
	if err != nil {
		return nil, err
	}

	if err := declinable(j); err != nil {
		return nil, err
	}

	now := s.now()

	ok, err := s.repo.Decline(ctx, jobID, strings.TrimSpace(params.Reason), now)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, s.lostRace(ctx, jobID, declinable)
	}

	slog.Info("quote declined", "job_id", jobID, "version", j.QuoteVersion)
	s.events.Publish(ctx, events.Event{Type: events.QuoteDeclined, JobID: jobID, Version: j.QuoteVersion, At: now})

	return &DeclineResult{
		ClientStatus:   job.ClientStatusDeclined,
		WorkflowStatus: job.WorkflowPendingConfirmation,
		DeclinedAt:     now,
	}, nil
}

// Cancel is the tradie withdrawing a sent, accepted or declined quote. Cancelling twice is a no-op.
func (s *Service) Cancel(ctx context.Context, actorID, jobID uuid.UUID) (*job.Job, error) {
	j, err := s.jobs.GetOwned(ctx, actorID, jobID)
	if err != nil {
		return nil, err
	}

	switch j.ClientStatus {
	case job.ClientStatusCancelled:
		return j, nil
	case job.ClientStatusDraft:
		return nil, ErrQuoteNotSent
	}

	now := s.now()

	ok, err := s.repo.Cancel(ctx, jobID, now)
	if err != nil {
		return nil, err
	}

	updated, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !ok {
		if updated.ClientStatus == job.ClientStatusCancelled {
			return updated, nil
		}

		return nil, ErrQuoteNotSent
	}

	slog.Info("quote cancelled", "job_id", jobID, "actor_id", actorID)
	s.events.Publish(ctx, events.Event{
		Type:    events.QuoteCancelled,
		JobID:   jobID,
		Version: updated.QuoteVersion,
		ActorID: actorID.String(),
		At:      now,
	})

	return updated, nil
}

// ListVersions returns the job's sent versions in ascending order.
func (s *Service) ListVersions(ctx context.Context, actorID, jobID uuid.UUID) ([]*Version, error) {
	if _, err := s.jobs.GetOwned(ctx, actorID, jobID); err != nil {
		return nil, err
	}

	return s.repo.ListVersions(ctx, jobID)
}

func (s *Service) ExportHistory(ctx context.Context, actorID, jobID uuid.UUID) ([]byte, error) {
	j, err := s.jobs.GetOwned(ctx, actorID, jobID)
	if err != nil {
		return nil, err
	}

	versions, err := s.repo.ListVersions(ctx, jobID)
	if err != nil {
		return nil, err
	}

	out, err := s.exporter.QuoteHistory(j, versions)
	if err != nil {
		return nil, apperr.Downstream(apperr.CodeExportFailed, "quote history export failed", err)
	}

	return out, nil
}

// clientJob loads the job for a public request and checks the caller is the job's client.
func (s *Service) clientJob(ctx context.Context, jobID uuid.UUID, client ClientIdentity) (*job.Job, error) {
	email := strings.TrimSpace(client.Email)
	if email == "" {
		return nil, apperr.Validation("client email is required")
	}

	j, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if j.Client.Email == "" || !strings.EqualFold(email, strings.TrimSpace(j.Client.Email)) {
		return nil, ErrClientMismatch
	}

	return j, nil
}

// lostRace explains a conditional update that matched no row: another request moved the job first.
func (s *Service) lostRace(ctx context.Context, jobID uuid.UUID, check func(*job.Job) error) error {
	j, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}

	if err := check(j); err != nil {
		return err
	}

	return ErrVersionConflict
}

func (s *Service) profile(ctx context.Context, ownerID uuid.UUID) (*business.Profile, error) {
	p, err := s.profiles.GetByOwner(ctx, ownerID)
	if errors.Is(err, business.ErrNotFound) {
		return &business.Profile{OwnerID: ownerID}, nil
	}

	return p, err
}

// EffectiveRates resolves the rates a quote sent now would snapshot.
func (s *Service) EffectiveRates(ctx context.Context, actorID, jobID uuid.UUID) (rates.Rates, error) {
	j, err := s.jobs.GetOwned(ctx, actorID, jobID)
	if err != nil {
		return rates.Rates{}, err
	}

	profile, err := s.profile(ctx, j.OwnerID)
	if err != nil {
		return rates.Rates{}, err
	}

	return s.rates.Effective(ctx, j.RateOverrides, j.RateTemplateID, profile.DefaultRates)
}
