// Package events fans out document and quote lifecycle transitions. Publishing is best effort:
// a failed publish is logged and never fails the transition that produced it.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Channel is the Redis channel lifecycle events are published on.
const Channel = "tradepack.lifecycle"

type Type string

const (
	DraftConfirmed Type = "DRAFT_CONFIRMED"
	DraftIssued    Type = "DRAFT_ISSUED"
	QuoteSent      Type = "QUOTE_SENT"
	QuoteAccepted  Type = "QUOTE_ACCEPTED"
	QuoteDeclined  Type = "QUOTE_DECLINED"
	QuoteCancelled Type = "QUOTE_CANCELLED"
)

type Event struct {
	Type    Type      `json:"type"`
	JobID   uuid.UUID `json:"jobId"`
	DocType string    `json:"docType,omitempty"`
	Version int       `json:"version,omitempty"`
	ActorID string    `json:"actorId,omitempty"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (p *Redis) Publish(ctx context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		slog.Warn("encode lifecycle event failed", "type", e.Type, "err", err)
		return
	}

	if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		slog.Warn("publish lifecycle event failed", "type", e.Type, "job_id", e.JobID, "err", err)
	}
}

// Nop drops every event. Used when Redis is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
