package document_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
	"github.com/MrJamesThe3rd/tradepack/internal/business"
	"github.com/MrJamesThe3rd/tradepack/internal/document"
	"github.com/MrJamesThe3rd/tradepack/internal/events"
	"github.com/MrJamesThe3rd/tradepack/internal/job"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
	"github.com/MrJamesThe3rd/tradepack/internal/render"
	"github.com/MrJamesThe3rd/tradepack/internal/templates"
	"github.com/MrJamesThe3rd/tradepack/internal/textgen"
)

var now = time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]events.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}

	return out
}

type fixture struct {
	owner    uuid.UUID
	job      *job.Job
	repo     *document.MockRepository
	jobs     *job.MockRepository
	profiles *business.MockRepository
	rateRepo *rates.MockRepository
	gen      *textgen.MockGenerator
	exporter *document.MockExporter
	events   *recorder
	svc      *document.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	reg, err := templates.Load()
	require.NoError(t, err)

	owner := uuid.New()
	f := &fixture{
		owner: owner,
		job: &job.Job{
			ID:           uuid.New(),
			OwnerID:      owner,
			Title:        "Switchboard upgrade",
			SiteAddress:  "12 Smith St, Newtown NSW",
			ScopeOfWork:  "Replace ceramic fuse board",
			Hazards:      []string{"Live conductors"},
			PPE:          []string{"Arc-rated gloves"},
			Facts:        map[string]any{"controls": []any{"Isolate and tag out"}},
			ClientStatus: job.ClientStatusDraft,
		},
		repo:     document.NewMockRepository(ctrl),
		jobs:     job.NewMockRepository(ctrl),
		profiles: business.NewMockRepository(ctrl),
		rateRepo: rates.NewMockRepository(ctrl),
		gen:      textgen.NewMockGenerator(ctrl),
		exporter: document.NewMockExporter(ctrl),
		events:   &recorder{},
	}

	f.svc = document.NewService(f.repo, document.Deps{
		Jobs:      job.NewService(f.jobs),
		Profiles:  business.NewService(f.profiles),
		Rates:     rates.NewService(f.rateRepo),
		Templates: reg,
		Generator: f.gen,
		Exporter:  f.exporter,
		Events:    f.events,
	}).WithClock(func() time.Time { return now })

	return f
}

func (f *fixture) expectJob() {
	f.jobs.EXPECT().GetJob(gomock.Any(), f.job.ID).Return(f.job, nil).AnyTimes()
}

func (f *fixture) expectProfile() {
	f.profiles.EXPECT().GetByOwner(gomock.Any(), f.owner).Return(&business.Profile{
		OwnerID:  f.owner,
		Identity: business.Identity{LegalName: "Sparks Pty Ltd", ABN: "12 345 678 901"},
	}, nil).AnyTimes()
}

func (f *fixture) draft(status document.Status, approved bool) *document.Draft {
	d := &document.Draft{
		ID:       uuid.New(),
		JobID:    f.job.ID,
		DocType:  templates.DocSWMS,
		Data:     map[string]any{"site_address": "12 Smith St"},
		Status:   status,
		Approved: approved,
	}

	if approved {
		at := now.Add(-time.Hour)
		d.ApprovedAt = &at
		d.ConfirmedAt = &at
		d.ApprovedBy = &f.owner
	}

	return d
}

func TestService_ConfirmIdempotent(t *testing.T) {
	f := newFixture(t)
	f.expectJob()

	confirmed := f.draft(document.StatusConfirmed, true)

	gomock.InOrder(
		f.repo.EXPECT().ConfirmDraft(gomock.Any(), f.job.ID, templates.DocSWMS, f.owner, now).Return(confirmed, true, nil),
		f.repo.EXPECT().ConfirmDraft(gomock.Any(), f.job.ID, templates.DocSWMS, f.owner, now).Return(confirmed, false, nil),
	)

	first, err := f.svc.Confirm(context.Background(), f.owner, f.job.ID, templates.DocSWMS)
	require.NoError(t, err)

	second, err := f.svc.Confirm(context.Background(), f.owner, f.job.ID, templates.DocSWMS)
	require.NoError(t, err)

	assert.Equal(t, first.ApprovedAt, second.ApprovedAt)
	assert.Equal(t, first.ConfirmedAt, second.ConfirmedAt)
	assert.Equal(t, []events.Type{events.DraftConfirmed}, f.events.types(), "only the real transition publishes")
}

func TestService_ConfirmErrors(t *testing.T) {
	type testCase struct {
		name     string
		setup    func(f *fixture) uuid.UUID
		wantCode apperr.Code
		wantKind apperr.Kind
	}

	tests := []testCase{
		{
			name: "DraftNotFound",
			setup: func(f *fixture) uuid.UUID {
				f.expectJob()
				f.repo.EXPECT().ConfirmDraft(gomock.Any(), f.job.ID, templates.DocSWMS, f.owner, now).
					Return(nil, false, document.ErrDraftNotFound)

				return f.owner
			},
			wantCode: apperr.CodeDraftNotFound,
			wantKind: apperr.KindNotFound,
		},
		{
			name: "JobNotFound",
			setup: func(f *fixture) uuid.UUID {
				f.jobs.EXPECT().GetJob(gomock.Any(), f.job.ID).Return(nil, job.ErrNotFound)
				return f.owner
			},
			wantCode: apperr.CodeJobNotFound,
			wantKind: apperr.KindNotFound,
		},
		{
			name: "NotOwner",
			setup: func(f *fixture) uuid.UUID {
				f.expectJob()
				return uuid.New()
			},
			wantCode: apperr.CodeForbidden,
			wantKind: apperr.KindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			actor := tt.setup(f)

			_, err := f.svc.Confirm(context.Background(), actor, f.job.ID, templates.DocSWMS)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperr.CodeOf(err))
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			assert.Empty(t, f.events.types())
		})
	}
}

func TestService_UpsertDraft(t *testing.T) {
	t.Run("LockedDraftUnchanged", func(t *testing.T) {
		f := newFixture(t)
		f.expectJob()

		locked := f.draft(document.StatusConfirmed, true)
		f.repo.EXPECT().UpsertDraft(gomock.Any(), f.job.ID, templates.DocSWMS, gomock.Any(), now).Return(locked, false, nil)

		got, err := f.svc.UpsertDraft(context.Background(), f.owner, f.job.ID, templates.DocSWMS,
			map[string]any{"site_address": "changed"}, false)
		require.NoError(t, err)
		assert.Equal(t, "12 Smith St", got.Data["site_address"])
	})

	t.Run("ApproveConfirms", func(t *testing.T) {
		f := newFixture(t)
		f.expectJob()

		f.repo.EXPECT().UpsertDraft(gomock.Any(), f.job.ID, templates.DocSWMS, gomock.Any(), now).
			Return(f.draft(document.StatusDraft, false), true, nil)
		f.repo.EXPECT().ConfirmDraft(gomock.Any(), f.job.ID, templates.DocSWMS, f.owner, now).
			Return(f.draft(document.StatusConfirmed, true), true, nil)

		got, err := f.svc.UpsertDraft(context.Background(), f.owner, f.job.ID, templates.DocSWMS, nil, true)
		require.NoError(t, err)
		assert.True(t, got.Locked())
		assert.Equal(t, f.owner, *got.ApprovedBy)
	})

	t.Run("UnknownDocType", func(t *testing.T) {
		f := newFixture(t)
		f.expectJob()

		_, err := f.svc.UpsertDraft(context.Background(), f.owner, f.job.ID, "QUOTE", nil, false)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestService_Issue(t *testing.T) {
	t.Run("FromConfirmed", func(t *testing.T) {
		f := newFixture(t)
		f.expectJob()
		f.expectProfile()

		confirmed := f.draft(document.StatusConfirmed, true)
		f.repo.EXPECT().GetDraft(gomock.Any(), f.job.ID, templates.DocSWMS).Return(confirmed, nil)
		f.repo.EXPECT().
			IssueDraft(gomock.Any(), f.job.ID, templates.DocSWMS, gomock.Any(), gomock.Any(), now).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, _ templates.DocType, recordID string, issuer business.Identity, at time.Time) (*document.Draft, bool, error) {
				issued := *confirmed
				issued.Status = document.StatusIssued
				issued.IssuedAt = &at
				issued.IssuedRecordID = recordID
				issued.Issuer = &issuer

				return &issued, true, nil
			})

		got, err := f.svc.Issue(context.Background(), f.owner, f.job.ID, templates.DocSWMS)
		require.NoError(t, err)
		assert.Equal(t, document.StatusIssued, got.Status)
		assert.Contains(t, got.IssuedRecordID, "SWMS-")
		assert.Equal(t, "Sparks Pty Ltd", got.Issuer.LegalName)
		assert.Equal(t, confirmed.ApprovedAt, got.ApprovedAt)
		assert.Equal(t, []events.Type{events.DraftIssued}, f.events.types())
	})

	t.Run("AlreadyIssued", func(t *testing.T) {
		f := newFixture(t)
		f.expectJob()

		issued := f.draft(document.StatusIssued, true)
		issued.IssuedRecordID = "SWMS-ABC"
		f.repo.EXPECT().GetDraft(gomock.Any(), f.job.ID, templates.DocSWMS).Return(issued, nil)

		got, err := f.svc.Issue(context.Background(), f.owner, f.job.ID, templates.DocSWMS)
		require.NoError(t, err)
		assert.Equal(t, "SWMS-ABC", got.IssuedRecordID)
		assert.Empty(t, f.events.types())
	})

	t.Run("NotConfirmed", func(t *testing.T) {
		f := newFixture(t)
		f.expectJob()

		f.repo.EXPECT().GetDraft(gomock.Any(), f.job.ID, templates.DocSWMS).Return(f.draft(document.StatusDraft, false), nil)

		_, err := f.svc.Issue(context.Background(), f.owner, f.job.ID, templates.DocSWMS)
		assert.True(t, errors.Is(err, document.ErrNotConfirmed))
	})
}

func TestService_RegenerateGuards(t *testing.T) {
	t.Run("AcceptedQuote", func(t *testing.T) {
		f := newFixture(t)
		f.job.ClientStatus = job.ClientStatusAccepted
		f.expectJob()

		_, err := f.svc.Regenerate(context.Background(), f.owner, f.job.ID, templates.DocSWMS, false)
		assert.Equal(t, apperr.CodeCannotRegenerateAccepted, apperr.CodeOf(err))
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})

	t.Run("ConfirmedDraft", func(t *testing.T) {
		f := newFixture(t)
		f.expectJob()
		f.repo.EXPECT().GetDraft(gomock.Any(), f.job.ID, templates.DocSWMS).Return(f.draft(document.StatusConfirmed, true), nil)

		_, err := f.svc.Regenerate(context.Background(), f.owner, f.job.ID, templates.DocSWMS, false)
		assert.Equal(t, apperr.CodeCannotRegenerateConfirmed, apperr.CodeOf(err))
	})

	t.Run("DraftIsRewritten", func(t *testing.T) {
		f := newFixture(t)
		f.expectJob()
		f.expectProfile()

		existing := f.draft(document.StatusDraft, false)
		f.repo.EXPECT().GetDraft(gomock.Any(), f.job.ID, templates.DocSWMS).Return(existing, nil).Times(2)
		f.repo.EXPECT().
			UpsertDraft(gomock.Any(), f.job.ID, templates.DocSWMS, gomock.Any(), now).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, _ templates.DocType, data map[string]any, _ time.Time) (*document.Draft, bool, error) {
				assert.Equal(t, "12 Smith St, Newtown NSW", data["site_address"])

				d := *existing
				d.Data = data

				return &d, true, nil
			})

		m, err := f.svc.Regenerate(context.Background(), f.owner, f.job.ID, templates.DocSWMS, false)
		require.NoError(t, err)
		assert.Equal(t, existing.RecordID(), m.RecordID)
		assert.False(t, m.Approved)

		ids := make([]string, 0, len(m.Warnings))
		for _, w := range m.Warnings {
			ids = append(ids, w.ID)
		}

		assert.Equal(t, []string{"swms-emergency-contact"}, ids)
	})
}

func TestService_PrefillAndRenderGeneration(t *testing.T) {
	t.Run("Completed", func(t *testing.T) {
		f := newFixture(t)
		f.expectJob()
		f.expectProfile()

		f.repo.EXPECT().GetDraft(gomock.Any(), f.job.ID, templates.DocSWMS).Return(nil, document.ErrDraftNotFound)

		gomock.InOrder(
			f.jobs.EXPECT().SetGenerationStatus(gomock.Any(), f.job.ID, job.GenerationPending, "").Return(nil),
			f.gen.EXPECT().Generate(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req textgen.Request) (string, error) {
					assert.Equal(t, "SWMS", req.DocType)
					assert.NotEmpty(t, req.Prompt)
					assert.Contains(t, req.Facts, "hazards")

					return "1. Isolate supply.", nil
				}),
			f.jobs.EXPECT().SetGenerationStatus(gomock.Any(), f.job.ID, job.GenerationCompleted, "").Return(nil),
		)

		m, err := f.svc.PrefillAndRender(context.Background(), f.owner, f.job.ID, templates.DocSWMS,
			document.RenderOptions{Generate: true})
		require.NoError(t, err)
		assert.Equal(t, "1. Isolate supply.", field(m, "narrative"))
		assert.Equal(t, "", m.RecordID, "nothing persisted, no record id")
	})

	t.Run("FailedIsStamped", func(t *testing.T) {
		f := newFixture(t)
		f.expectJob()
		f.expectProfile()

		f.repo.EXPECT().GetDraft(gomock.Any(), f.job.ID, templates.DocSWMS).Return(nil, document.ErrDraftNotFound)

		gomock.InOrder(
			f.jobs.EXPECT().SetGenerationStatus(gomock.Any(), f.job.ID, job.GenerationPending, "").Return(nil),
			f.gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", errors.New("connection reset")),
			f.jobs.EXPECT().SetGenerationStatus(gomock.Any(), f.job.ID, job.GenerationFailed, gomock.Any()).Return(nil),
		)

		_, err := f.svc.PrefillAndRender(context.Background(), f.owner, f.job.ID, templates.DocSWMS,
			document.RenderOptions{Generate: true, Persist: true})
		require.Error(t, err)
		assert.Equal(t, apperr.KindDownstream, apperr.KindOf(err))
		assert.Equal(t, apperr.CodeGenerationFailed, apperr.CodeOf(err))
	})

	t.Run("LockedRendersStoredContent", func(t *testing.T) {
		f := newFixture(t)
		f.expectJob()

		locked := f.draft(document.StatusIssued, true)
		locked.IssuedRecordID = "SWMS-ABC"
		f.repo.EXPECT().GetDraft(gomock.Any(), f.job.ID, templates.DocSWMS).Return(locked, nil)

		m, err := f.svc.PrefillAndRender(context.Background(), f.owner, f.job.ID, templates.DocSWMS,
			document.RenderOptions{Generate: true, Persist: true})
		require.NoError(t, err)
		assert.Equal(t, "SWMS-ABC", m.RecordID)
		assert.Equal(t, "12 Smith St", field(m, "site_address"))
		assert.True(t, m.Approved)
	})
}

func TestService_Export(t *testing.T) {
	type testCase struct {
		name         string
		draft        func(f *fixture) *document.Draft
		wantApproved bool
	}

	tests := []testCase{
		{
			name:         "DraftCarriesWarnings",
			draft:        func(f *fixture) *document.Draft { return f.draft(document.StatusDraft, false) },
			wantApproved: false,
		},
		{
			name:         "ConfirmedSuppressesWarnings",
			draft:        func(f *fixture) *document.Draft { return f.draft(document.StatusConfirmed, true) },
			wantApproved: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.expectJob()

			f.repo.EXPECT().GetDraft(gomock.Any(), f.job.ID, templates.DocSWMS).Return(tt.draft(f), nil)
			f.exporter.EXPECT().PDF(gomock.Any()).DoAndReturn(func(m *render.Model) ([]byte, error) {
				assert.Equal(t, tt.wantApproved, m.Approved)
				assert.Equal(t, tt.wantApproved, len(m.Warnings) == 0)

				return []byte("%PDF-1.3"), nil
			})

			out, _, err := f.svc.Export(context.Background(), f.owner, f.job.ID, templates.DocSWMS)
			require.NoError(t, err)
			assert.Equal(t, []byte("%PDF-1.3"), out)
		})
	}
}

func TestService_ExportFailure(t *testing.T) {
	f := newFixture(t)
	f.expectJob()

	f.repo.EXPECT().GetDraft(gomock.Any(), f.job.ID, templates.DocSWMS).Return(f.draft(document.StatusDraft, false), nil)
	f.exporter.EXPECT().PDF(gomock.Any()).Return(nil, errors.New("font missing"))

	_, _, err := f.svc.Export(context.Background(), f.owner, f.job.ID, templates.DocSWMS)
	assert.Equal(t, apperr.CodeExportFailed, apperr.CodeOf(err))
	assert.Equal(t, apperr.KindDownstream, apperr.KindOf(err))
}

func field(m *render.Model, key string) string {
	for _, s := range m.Sections {
		for _, f := range s.Fields {
			if f.Key == key {
				return f.Value
			}
		}
	}

	return ""
}
