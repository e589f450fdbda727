package domain

// Validate checks payment invariants before any persistence write. Pure;
// returns the first violated invariant as a sentinel error.
//
// Early settlement is disallowed by business rule: a payment date before
// the due date is rejected rather than accepted with a flag.
func Validate(p *Payment) error {
	if p == nil {
		return ErrInvalidPayment
	}
	if p.SubscriptionID == 0 {
		return ErrInvalidSubscriptionID
	}
	if p.DueDate.IsZero() {
		return ErrInvalidDueDate
	}
	switch p.Status {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusOverdue:
	default:
		return ErrInvalidStatus
	}
	if p.PaymentDate != nil {
		if p.PaymentDate.Before(p.DueDate) {
			return ErrEarlySettlement
		}
		if p.Status != PaymentStatusPaid {
			return ErrStatusMismatch
		}
	}
	return nil
}
