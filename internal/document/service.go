package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
	"github.com/MrJamesThe3rd/tradepack/internal/business"
	"github.com/MrJamesThe3rd/tradepack/internal/events"
	"github.com/MrJamesThe3rd/tradepack/internal/job"
	"github.com/MrJamesThe3rd/tradepack/internal/prefill"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
	"github.com/MrJamesThe3rd/tradepack/internal/render"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
	"github.com/MrJamesThe3rd/tradepack/internal/textgen"
)

var (
	ErrDraftNotFound             = apperr.NotFound(apperr.CodeDraftNotFound, "draft not found")
	ErrCannotRegenerateConfirmed = apperr.InvalidState(apperr.CodeCannotRegenerateConfirmed, "document is confirmed and cannot be regenerated")
	ErrCannotRegenerateAccepted  = apperr.InvalidState(apperr.CodeCannotRegenerateAccepted, "quote is accepted; raise a variation instead")
	ErrNotConfirmed              = apperr.InvalidState(apperr.CodeNotConfirmed, "document must be confirmed before it is issued")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=document
type Repository interface {
	GetDraft(ctx context.Context, jobID uuid.UUID, docType templates.DocType) (*Draft, error)
	ListDrafts(ctx context.Context, jobID uuid.UUID) ([]*Draft, error)
	// UpsertDraft writes content for an unlocked draft, creating it if needed. For a locked draft it
	// returns the stored row with written=false.
	UpsertDraft(ctx context.Context, jobID uuid.UUID, docType templates.DocType, data map[string]any, at time.Time) (d *Draft, written bool, err error)
	// ConfirmDraft approves the draft unless it is already locked, in which case the stored row is
	// returned untouched with confirmed=false.
	ConfirmDraft(ctx context.Context, jobID uuid.UUID, docType templates.DocType, actorID uuid.UUID, at time.Time) (d *Draft, confirmed bool, err error)
	// IssueDraft stamps issue fields on a CONFIRMED draft. Any other state returns the stored row with issued=false.
	IssueDraft(ctx context.Context, jobID uuid.UUID, docType templates.DocType, recordID string, issuer business.Identity, at time.Time) (d *Draft, issued bool, err error)
}

// Exporter turns a render model into a client-facing file.
type Exporter interface {
	PDF(model *render.Model) ([]byte, error)
}

type Service struct {
	repo      Repository
	jobs      *job.Service
	profiles  *business.Service
	rates     *rates.Service
	templates *templates.Registry
	generator textgen.Generator
	exporter  Exporter
	events    events.Publisher
	now       func() time.Time
}

type Deps struct {
	Jobs      *job.Service
	Profiles  *business.Service
	Rates     *rates.Service
	Templates *templates.Registry
	Generator textgen.Generator
	Exporter  Exporter
	Events    events.Publisher
}

func NewService(repo Repository, deps Deps) *Service {
	pub := deps.Events
	if pub == nil {
		pub = events.Nop{}
	}

	return &Service{
		repo:      repo,
		jobs:      deps.Jobs,
		profiles:  deps.Profiles,
		rates:     deps.Rates,
		templates: deps.Templates,
		generator: deps.Generator,
		exporter:  deps.Exporter,
		events:    pub,
		now:       time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) GetDraft(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType) (*Draft, error) {
	if _, err := s.jobs.GetOwned(ctx, actorID, jobID); err != nil {
		return nil, err
	}

	return s.repo.GetDraft(ctx, jobID, docType)
}

func (s *Service) ListDrafts(ctx context.Context, actorID, jobID uuid.UUID) ([]*Draft, error) {
	if _, err := s.jobs.GetOwned(ctx, actorID, jobID); err != nil {
		return nil, err
	}

	return s.repo.ListDrafts(ctx, jobID)
}

// UpsertDraft replaces the content of an unlocked draft. A locked draft is returned unchanged.
// With approve set, the draft is confirmed by actorID in the same call.
func (s *Service) UpsertDraft(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType, data map[string]any, approve bool) (*Draft, error) {
	if _, err := s.jobs.GetOwned(ctx, actorID, jobID); err != nil {
		return nil, err
	}

	if !docType.Valid() {
		return nil, apperr.Validationf("unknown document type %q", docType)
	}

	if data == nil {
		data = map[string]any{}
	}

	d, written, err := s.repo.UpsertDraft(ctx, jobID, docType, data, s.now())
	if err != nil {
		return nil, err
	}

	if !written {
		slog.Info("draft is locked, content left unchanged", "job_id", jobID, "doc_type", docType, "status", d.Status)
	}

	if !approve {
		return d, nil
	}

	return s.confirm(ctx, actorID, jobID, docType)
}

// Confirm approves the draft on behalf of actorID. Confirming a locked draft returns it as stored.
func (s *Service) Confirm(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType) (*Draft, error) {
	if _, err := s.jobs.GetOwned(ctx, actorID, jobID); err != nil {
		return nil, err
	}

	return s.confirm(ctx, actorID, jobID, docType)
}

func (s *Service) confirm(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType) (*Draft, error) {
	d, confirmed, err := s.repo.ConfirmDraft(ctx, jobID, docType, actorID, s.now())
	if err != nil {
		return nil, err
	}

	if confirmed {
		slog.Info("draft confirmed", "job_id", jobID, "doc_type", docType, "actor_id", actorID)
		s.events.Publish(ctx, events.Event{
			Type:    events.DraftConfirmed,
			JobID:   jobID,
			DocType: string(docType),
			ActorID: actorID.String(),
			At:      *d.ConfirmedAt,
		})
	}

	return d, nil
}

// Issue stamps the issue record on a confirmed draft and snapshots the issuing business identity.
// Issuing an issued draft returns it unchanged.
func (s *Service) Issue(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType) (*Draft, error) {
	j, err := s.jobs.GetOwned(ctx, actorID, jobID)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetDraft(ctx, jobID, docType)
	if err != nil {
		return nil, err
	}

	switch current.Status {
	case StatusIssued:
		return current, nil
	case StatusDraft:
		return nil, ErrNotConfirmed
	}

	profile, err := s.profile(ctx, j.OwnerID)
	if err != nil {
		return nil, err
	}

	d, issued, err := s.repo.IssueDraft(ctx, jobID, docType, newRecordID(current), profile.Identity, s.now())
	if err != nil {
		return nil, err
	}

	if !issued {
		if d.Status == StatusIssued {
			return d, nil
		}

		return nil, ErrNotConfirmed
	}

	slog.Info("draft issued", "job_id", jobID, "doc_type", docType, "record_id", d.IssuedRecordID)
	s.events.Publish(ctx, events.Event{
		Type:    events.DraftIssued,
		JobID:   jobID,
		DocType: string(docType),
		ActorID: actorID.String(),
		At:      *d.IssuedAt,
	})

	return d, nil
}

type RenderOptions struct {
	// Generate calls the text generator for the narrative instead of reusing the stored one.
	Generate bool
	// Persist upserts the prefilled data as the draft's content.
	Persist bool
}

// PrefillAndRender builds the document from current job data and returns its render model with
// compliance warnings attached. A locked draft renders from its stored content.
func (s *Service) PrefillAndRender(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType, opts RenderOptions) (*render.Model, error) {
	j, err := s.jobs.GetOwned(ctx, actorID, jobID)
	if err != nil {
		return nil, err
	}

	return s.prefillAndRender(ctx, j, docType, opts)
}

func (s *Service) prefillAndRender(ctx context.Context, j *job.Job, docType templates.DocType, opts RenderOptions) (*render.Model, error) {
	tmpl, err := s.templates.Get(docType)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetDraft(ctx, j.ID, docType)
	if err != nil && !errors.Is(err, ErrDraftNotFound) {
		return nil, err
	}

	if existing != nil && existing.Locked() {
		return s.model(tmpl, existing), nil
	}

	data, err := s.prefill(ctx, j, tmpl, existing, opts.Generate)
	if err != nil {
		return nil, err
	}

	recordID := ""

	if opts.Persist {
		d, _, err := s.repo.UpsertDraft(ctx, j.ID, docType, data, s.now())
		if err != nil {
			return nil, err
		}

		if d.Locked() {
			return s.model(tmpl, d), nil
		}

		recordID = d.RecordID()
	} else if existing != nil {
		recordID = existing.RecordID()
	}

	m := render.Generate(tmpl, data, recordID)
	m.Warnings = tmpl.Evaluate(data)

	return m, nil
}

func (s *Service) prefill(ctx context.Context, j *job.Job, tmpl *templates.Template, existing *Draft, generate bool) (map[string]any, error) {
	profile, err := s.profile(ctx, j.OwnerID)
	if err != nil {
		return nil, err
	}

	effective, err := s.rates.Effective(ctx, j.RateOverrides, j.RateTemplateID, profile.DefaultRates)
	if err != nil {
		return nil, fmt.Errorf("resolving rates: %w", err)
	}

	in := prefill.Input{
		Job:       j,
		Rates:     effective,
		Company:   profile.Identity,
		Client:    j.Client,
		IssueDate: s.now(),
	}

	if existing != nil {
		if narrative, ok := existing.Data["narrative"].(string); ok {
			in.Narrative = narrative
		}
	}

	if generate {
		narrative, err := s.generate(ctx, j, tmpl, in)
		if err != nil {
			return nil, err
		}

		in.Narrative = narrative
	}

	return prefill.Map(tmpl.DocType, in)
}

// generate runs the text generator and records the outcome on the job. A failure is stamped on
// the job before it is returned.
func (s *Service) generate(ctx context.Context, j *job.Job, tmpl *templates.Template, in prefill.Input) (string, error) {
	if err := s.jobs.SetGenerationStatus(ctx, j.ID, job.GenerationPending, ""); err != nil {
		return "", fmt.Errorf("marking generation pending: %w", err)
	}

	text, err := s.generator.Generate(ctx, textgen.Request{
		DocType: string(tmpl.DocType),
		Prompt:  tmpl.Prompt,
		Facts:   prefill.Facts(tmpl.DocType, in),
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindDownstream {
			err = apperr.Downstream(apperr.CodeGenerationFailed, "text generation failed", err)
		}

		if markErr := s.jobs.SetGenerationStatus(ctx, j.ID, job.GenerationFailed, err.Error()); markErr != nil {
			slog.Error("failed to mark generation failed", "job_id", j.ID, "error", markErr)
		}

		return "", err
	}

	if err := s.jobs.SetGenerationStatus(ctx, j.ID, job.GenerationCompleted, ""); err != nil {
		return "", fmt.Errorf("marking generation completed: %w", err)
	}

	return text, nil
}

// Regenerate re-prefills and stores the draft. It is refused once the draft is confirmed or the
// job's quote has been accepted.
func (s *Service) Regenerate(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType, generate bool) (*render.Model, error) {
	j, err := s.jobs.GetOwned(ctx, actorID, jobID)
	if err != nil {
		return nil, err
	}

	if j.ClientStatus == job.ClientStatusAccepted {
		return nil, ErrCannotRegenerateAccepted
	}

	d, err := s.repo.GetDraft(ctx, jobID, docType)
	if err != nil && !errors.Is(err, ErrDraftNotFound) {
		return nil, err
	}

	if d != nil && d.Status != StatusDraft {
		return nil, ErrCannotRegenerateConfirmed
	}

	return s.prefillAndRender(ctx, j, docType, RenderOptions{Generate: generate, Persist: true})
}

// RenderToExport produces the client-facing file. Approved output carries no compliance warnings.
func (s *Service) RenderToExport(m *render.Model, approved bool) ([]byte, error) {
	out, err := s.exporter.PDF(m.ClientView(approved))
	if err != nil {
		return nil, apperr.Downstream(apperr.CodeExportFailed, "export failed", err)
	}

	return out, nil
}

// Export renders the stored draft. It counts as approved once the draft is locked.
func (s *Service) Export(ctx context.Context, actorID, jobID uuid.UUID, docType templates.DocType) ([]byte, *Draft, error) {
	d, err := s.GetDraft(ctx, actorID, jobID, docType)
	if err != nil {
		return nil, nil, err
	}

	tmpl, err := s.templates.Get(docType)
	if err != nil {
		return nil, nil, err
	}

	out, err := s.RenderToExport(s.model(tmpl, d), d.Locked())
	if err != nil {
		return nil, nil, err
	}

	return out, d, nil
}

func (s *Service) model(tmpl *templates.Template, d *Draft) *render.Model {
	data := maps.Clone(d.Data)

	m := render.Generate(tmpl, data, d.RecordID())
	m.Warnings = tmpl.Evaluate(data)
	m.Approved = d.Locked()

	return m
}

func (s *Service) profile(ctx context.Context, ownerID uuid.UUID) (*business.Profile, error) {
	p, err := s.profiles.GetByOwner(ctx, ownerID)
	if errors.Is(err, business.ErrNotFound) {
		slog.Warn("no business profile, prefilling without company identity", "owner_id", ownerID)
		return &business.Profile{OwnerID: ownerID}, nil
	}

	return p, err
}
