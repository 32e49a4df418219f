package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/business"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*business.Profile, error) {
	query := `
		SELECT id, owner_id, legal_name, abn, address, email, phone, default_rates, quote_validity_days, updated_at
		FROM business_profiles
		WHERE owner_id = $1
	`

	var (
		p        business.Profile
		rawRates []byte
	)

	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(
		&p.ID, &p.OwnerID,
		&p.Identity.LegalName, &p.Identity.ABN, &p.Identity.Address, &p.Identity.Email, &p.Identity.Phone,
		&rawRates, &p.QuoteValidityDays, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, business.ErrNotFound
		}

		return nil, fmt.Errorf("getting business profile: %w", err)
	}

	if len(rawRates) > 0 {
		if err := json.Unmarshal(rawRates, &p.DefaultRates); err != nil {
			return nil, fmt.Errorf("decoding default rates: %w", err)
		}
	}

	return &p, nil
}
