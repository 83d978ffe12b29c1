package enums

import "fmt"

// DamageType is the reported damage classification on an auction vehicle.
type DamageType string

const (
	DamageTypeNone       DamageType = "none"
	DamageTypeMinor      DamageType = "minor"
	DamageTypeHail       DamageType = "hail"
	DamageTypeRearEnd    DamageType = "rear-end"
	DamageTypeFrontEnd   DamageType = "front-end"
	DamageTypeSideImpact DamageType = "side-impact"
	DamageTypeMechanical DamageType = "mechanical"
	DamageTypeFlood      DamageType = "flood"
)

var validDamageTypes = []DamageType{
	DamageTypeNone,
	DamageTypeMinor,
	DamageTypeHail,
	DamageTypeRearEnd,
	DamageTypeFrontEnd,
	DamageTypeSideImpact,
	DamageTypeMechanical,
	DamageTypeFlood,
}

// IsValid reports whether the value matches the canonical damage type enum.
func (d DamageType) IsValid() bool {
	for _, candidate := range validDamageTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDamageType converts the raw string to DamageType.
func ParseDamageType(value string) (DamageType, error) {
	for _, candidate := range validDamageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid damage type %q", value)
}
