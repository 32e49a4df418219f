package business

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/rates"
)

// Identity is the company identity printed on documents and snapshotted on issue.
type Identity struct {
	LegalName string `json:"legal_name"`
	ABN       string `json:"abn"`
	Address   string `json:"address"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Profile is a tradie's business profile. DefaultRates is the lowest rate tier.
type Profile struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	Identity          Identity
	DefaultRates      rates.Rates
	QuoteValidityDays int
	UpdatedAt         time.Time
}

// QuoteValidity returns how long a sent quote stays acceptable, falling back to fallbackDays.
func (p *Profile) QuoteValidity(fallbackDays int) time.Duration {
	days := p.QuoteValidityDays
	if days <= 0 {
		days = fallbackDays
	}

	return time.Duration(days) * 24 * time.Hour
}
