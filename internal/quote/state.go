package quote

import (
	"time"

	"github.com/MrJamesThe3rd/tradepack/internal/job"
)

// sendable reports whether a quote in status may be sent. A client's decision is never erased by
// a plain resend; declined and cancelled quotes need an explicit reissue.
func sendable(status job.ClientStatus, reissue bool) error {
	switch status {
	case job.ClientStatusDraft, job.ClientStatusSent:
		return nil
	case job.ClientStatusAccepted:
		return ErrAlreadyAccepted
	case job.ClientStatusDeclined:
		if reissue {
			return nil
		}

		return ErrAlreadyDeclined
	case job.ClientStatusCancelled:
		if reissue {
			return nil
		}

		return ErrQuoteDeclined
	}

	return ErrQuoteNotSent
}

// acceptable reports why j cannot be accepted at now, or nil. Expiry is exclusive: accepting at
// exactly the deadline succeeds.
func acceptable(j *job.Job, now time.Time) error {
	switch j.ClientStatus {
	case job.ClientStatusAccepted:
		return ErrAlreadyAccepted
	case job.ClientStatusDeclined, job.ClientStatusCancelled:
		return ErrQuoteDeclined
	case job.ClientStatusSent:
	default:
		return ErrQuoteNotSent
	}

	if j.QuoteExpiryAt != nil && now.After(*j.QuoteExpiryAt) {
		return ErrQuoteExpired
	}

	return nil
}

// declinable reports why j cannot be declined, or nil. An expired quote can still be declined.
func declinable(j *job.Job) error {
	switch j.ClientStatus {
	case job.ClientStatusSent:
		return nil
	case job.ClientStatusAccepted:
		return ErrAlreadyAccepted
	case job.ClientStatusDeclined:
		return ErrAlreadyDeclined
	case job.ClientStatusCancelled:
		return ErrQuoteDeclined
	}

	return ErrQuoteNotSent
}
