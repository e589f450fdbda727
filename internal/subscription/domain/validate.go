package domain

import "strings"

// Validate checks subscription invariants before any persistence write.
// Pure; returns the first violated invariant as a sentinel error.
func Validate(s *Subscription) error {
	if s == nil {
		return ErrInvalidSubscription
	}
	if strings.TrimSpace(s.ServiceName) == "" {
		return ErrInvalidServiceName
	}
	if s.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if s.StartDate.IsZero() {
		return ErrInvalidStartDate
	}
	if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
		return ErrInvalidEndDate
	}
	switch s.Kind {
	case SubscriptionKindFixed:
		if s.MonthsEngaged <= 0 {
			return ErrInvalidMonthsEngaged
		}
	case SubscriptionKindFlexible:
	default:
		return ErrInvalidKind
	}
	switch s.Status {
	case SubscriptionStatusActive, SubscriptionStatusSuspended, SubscriptionStatusCancelled:
	default:
		return ErrInvalidStatus
	}
	return nil
}
