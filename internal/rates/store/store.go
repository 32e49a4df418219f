package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/rates"
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

func scanTemplate(s scanner) (*rates.Template, error) {
	var (
		t   rates.Template
		raw []byte
	)

	if err := s.Scan(&t.ID, &t.OwnerID, &t.Name, &raw, &t.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &t.Rates); err != nil {
		return nil, fmt.Errorf("decoding rates: %w", err)
	}

	return &t, nil
}

func (s *Store) GetTemplate(ctx context.Context, id uuid.UUID) (*rates.Template, error) {
	query := `
		SELECT id, owner_id, name, rates, created_at
		FROM rate_templates
		WHERE id = $1 AND deleted_at IS NULL
	`

	t, err := scanTemplate(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rates.ErrTemplateNotFound
		}

		return nil, fmt.Errorf("getting rate template: %w", err)
	}

	return t, nil
}

func (s *Store) ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]*rates.Template, error) {
	query := `
		SELECT id, owner_id, name, rates, created_at
		FROM rate_templates
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing rate templates: %w", err)
	}
	defer rows.Close()

	var out []*rates.Template

	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rate template: %w", err)
		}

		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rate templates: %w", err)
	}

	return out, nil
}

func (s *Store) CreateTemplate(ctx context.Context, t *rates.Template) error {
	raw, err := json.Marshal(t.Rates)
	if err != nil {
		return fmt.Errorf("encoding rates: %w", err)
	}

	query := `
		INSERT INTO rate_templates (owner_id, name, rates, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, t.OwnerID, t.Name, raw).Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("creating rate template: %w", err)
	}

	return nil
}
