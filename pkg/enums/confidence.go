package enums

// Confidence grades how much trust an arbitrage analysis deserves.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

var validConfidences = []Confidence{
	ConfidenceHigh,
	ConfidenceMedium,
	ConfidenceLow,
}

// IsValid reports whether the value matches the canonical confidence enum.
func (c Confidence) IsValid() bool {
	for _, candidate := range validConfidences {
		if candidate == c {
			return true
		}
	}
	return false
}
