package enums

// BidState is the auto-bid session state machine state.
type BidState string

const (
	BidStateIdle     BidState = "idle"
	BidStateBidding  BidState = "bidding"
	BidStateWon      BidState = "won"
	BidStateLost     BidState = "lost"
	BidStateDisabled BidState = "disabled"
	BidStateError    BidState = "error"
)

var validBidStates = []BidState{
	BidStateIdle,
	BidStateBidding,
	BidStateWon,
	BidStateLost,
	BidStateDisabled,
	BidStateError,
}

// IsValid reports whether the value matches the canonical bid state enum.
func (b BidState) IsValid() bool {
	for _, candidate := range validBidStates {
		if candidate == b {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the session is finished in this state.
func (b BidState) IsTerminal() bool {
	switch b {
	case BidStateWon, BidStateLost, BidStateDisabled, BidStateError:
		return true
	}
	return false
}
