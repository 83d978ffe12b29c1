package enums

// FuelType is the vehicle drivetrain fuel classification.
type FuelType string

const (
	FuelTypeGasoline FuelType = "gasoline"
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeHybrid   FuelType = "hybrid"
	FuelTypeElectric FuelType = "electric"
)

var validFuelTypes = []FuelType{
	FuelTypeGasoline,
	FuelTypeDiesel,
	FuelTypeHybrid,
	FuelTypeElectric,
}

// IsValid reports whether the value matches the canonical fuel type enum.
func (f FuelType) IsValid() bool {
	for _, candidate := range validFuelTypes {
		if candidate == f {
			return true
		}
	}
	return false
}
