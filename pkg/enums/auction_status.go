package enums

// AuctionStatus is the listing state reported by the auction source.
type AuctionStatus string

const (
	AuctionStatusUpcoming AuctionStatus = "upcoming"
	AuctionStatusLive     AuctionStatus = "live"
	AuctionStatusEnded    AuctionStatus = "ended"
)

var validAuctionStatuses = []AuctionStatus{
	AuctionStatusUpcoming,
	AuctionStatusLive,
	AuctionStatusEnded,
}

// IsValid reports whether the value matches the canonical auction status enum.
func (a AuctionStatus) IsValid() bool {
	for _, candidate := range validAuctionStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}
