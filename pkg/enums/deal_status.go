package enums

import "fmt"

// DealStatus is the lifecycle state of a detected deal. Transitions are
// monotonic: active may move to purchased or expired, terminal states never
// move again.
type DealStatus string

const (
	DealStatusActive    DealStatus = "active"
	DealStatusPurchased DealStatus = "purchased"
	DealStatusExpired   DealStatus = "expired"
)

var validDealStatuses = []DealStatus{
	DealStatusActive,
	DealStatusPurchased,
	DealStatusExpired,
}

// IsValid reports whether the value matches the canonical deal status enum.
func (d DealStatus) IsValid() bool {
	for _, candidate := range validDealStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (d DealStatus) IsTerminal() bool {
	return d == DealStatusPurchased || d == DealStatusExpired
}

// CanTransitionTo reports whether moving to target is a legal transition.
// Re-entering the current state is allowed so duplicate calls stay idempotent.
func (d DealStatus) CanTransitionTo(target DealStatus) bool {
	if d == target {
		return true
	}
	return d == DealStatusActive && target.IsTerminal()
}

// ParseDealStatus converts the raw string to DealStatus.
func ParseDealStatus(value string) (DealStatus, error) {
	for _, candidate := range validDealStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal status %q", value)
}
