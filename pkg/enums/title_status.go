package enums

import "fmt"

// TitleStatus is the vehicle title classification.
type TitleStatus string

const (
	TitleStatusClean     TitleStatus = "clean"
	TitleStatusSalvage   TitleStatus = "salvage"
	TitleStatusRebuilt   TitleStatus = "rebuilt"
	TitleStatusPartsOnly TitleStatus = "parts-only"
)

var validTitleStatuses = []TitleStatus{
	TitleStatusClean,
	TitleStatusSalvage,
	TitleStatusRebuilt,
	TitleStatusPartsOnly,
}

// IsValid reports whether the value matches the canonical title status enum.
func (s TitleStatus) IsValid() bool {
	for _, candidate := range validTitleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTitleStatus converts the raw string to TitleStatus.
func ParseTitleStatus(value string) (TitleStatus, error) {
	for _, candidate := range validTitleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid title status %q", value)
}
