package quote_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/business"
	"github.com/MrJamesThe3rd/tradepack/internal/job"
	"github.com/MrJamesThe3rd/tradepack/internal/quote"
)

// memStore is an in-memory quote, job and profile store. BeginSend holds a per-job lock until
// the transaction ends, like the advisory lock in the Postgres store.
type memStore struct {
	mu        sync.Mutex
	sendLocks map[uuid.UUID]*sync.Mutex
	jobs      map[uuid.UUID]*job.Job
	versions  map[uuid.UUID][]*quote.Version
}

func newMemStore(jobs ...*job.Job) *memStore {
	m := &memStore{
		sendLocks: make(map[uuid.UUID]*sync.Mutex),
		jobs:      make(map[uuid.UUID]*job.Job),
		versions:  make(map[uuid.UUID][]*quote.Version),
	}

	for _, j := range jobs {
		c := *j
		m.jobs[j.ID] = &c
	}

	return m
}

func (m *memStore) GetJob(_ context.Context, id uuid.UUID) (*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return nil, job.ErrNotFound
	}

	c := *j

	return &c, nil
}

func (m *memStore) SetGenerationStatus(context.Context, uuid.UUID, job.GenerationStatus, string) error {
	return nil
}

func (m *memStore) GetByOwner(context.Context, uuid.UUID) (*business.Profile, error) {
	return nil, business.ErrNotFound
}

func (m *memStore) BeginSend(_ context.Context, jobID uuid.UUID) (quote.SendTx, error) {
	m.mu.Lock()
	l, ok := m.sendLocks[jobID]
	if !ok {
		l = &sync.Mutex{}
		m.sendLocks[jobID] = l
	}
	m.mu.Unlock()

	l.Lock()

	return &memTx{store: m, jobID: jobID, lock: l}, nil
}

func (m *memStore) Accept(_ context.Context, jobID uuid.UUID, a job.Acceptance) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j := m.jobs[jobID]
	if j.ClientStatus != job.ClientStatusSent || (j.QuoteExpiryAt != nil && a.AcceptedAt.After(*j.QuoteExpiryAt)) {
		return 0, false, nil
	}

	j.ClientStatus = job.ClientStatusAccepted
	j.ClientAcceptedQuoteVer = new(j.QuoteVersion)
	j.AcceptedAt = new(a.AcceptedAt)
	j.AcceptedSignerName = a.SignerName
	j.AcceptanceNote = a.Note
	j.SignatureRef = a.SignatureRef

	if j.WorkflowStatus == job.WorkflowPending {
		j.WorkflowStatus = job.WorkflowBooked
	}

	return j.QuoteVersion, true, nil
}

func (m *memStore) Decline(_ context.Context, jobID uuid.UUID, reason string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j := m.jobs[jobID]
	if j.ClientStatus != job.ClientStatusSent {
		return false, nil
	}

	j.ClientStatus = job.ClientStatusDeclined
	j.DeclinedAt = new(at)
	j.DeclineReason = reason
	j.WorkflowStatus = job.WorkflowPendingConfirmation

	return true, nil
}

func (m *memStore) Cancel(_ context.Context, jobID uuid.UUID, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j := m.jobs[jobID]

	switch j.ClientStatus {
	case job.ClientStatusSent, job.ClientStatusAccepted, job.ClientStatusDeclined:
	default:
		return false, nil
	}

	j.ClientStatus = job.ClientStatusCancelled
	j.ClientAcceptedQuoteVer = nil
	j.CancelledAt = new(at)
	j.WorkflowStatus = job.WorkflowCancelled

	return true, nil
}

func (m *memStore) ListVersions(_ context.Context, jobID uuid.UUID) ([]*quote.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := slices.Clone(m.versions[jobID])
	slices.SortFunc(out, func(a, b *quote.Version) int { return a.Version - b.Version })

	return out, nil
}

type memTx struct {
	store   *memStore
	jobID   uuid.UUID
	lock    *sync.Mutex
	version *quote.Version
	sent    bool
	done    bool
}

func (tx *memTx) Job(ctx context.Context) (*job.Job, error) {
	return tx.store.GetJob(ctx, tx.jobID)
}

func (tx *memTx) InsertVersion(_ context.Context, v *quote.Version) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	for _, existing := range tx.store.versions[v.JobID] {
		if existing.Version == v.Version {
			return quote.ErrVersionConflict
		}
	}

	v.ID = uuid.New()
	tx.version = v

	return nil
}

func (tx *memTx) MarkSent(context.Context, *quote.Version) error {
	tx.sent = true
	return nil
}

func (tx *memTx) Commit() error {
	tx.store.mu.Lock()

	if tx.version != nil {
		v := tx.version
		tx.store.versions[v.JobID] = append(tx.store.versions[v.JobID], v)

		if tx.sent {
			j := tx.store.jobs[v.JobID]
			j.ClientStatus = job.ClientStatusSent
			j.QuoteVersion = v.Version
			j.SentAt = new(v.SentAt)
			j.SentTo = v.SentTo
			j.QuoteExpiryAt = new(v.QuoteExpiryAt)
			j.DeclinedAt = nil
			j.DeclineReason = ""
			j.CancelledAt = nil

			if j.WorkflowStatus == job.WorkflowPendingConfirmation || j.WorkflowStatus == job.WorkflowCancelled {
				j.WorkflowStatus = job.WorkflowPending
			}
		}
	}

	tx.store.mu.Unlock()

	return tx.end()
}

func (tx *memTx) Rollback() error {
	return tx.end()
}

func (tx *memTx) end() error {
	if tx.done {
		return nil
	}

	tx.done = true
	tx.lock.Unlock()

	return nil
}
