package enums

import "fmt"

// ProductCategory buckets catalog items for category-based markup.
type ProductCategory string

const (
	ProductCategoryElectronics ProductCategory = "electronics"
	ProductCategoryAutomotive  ProductCategory = "automotive"
	ProductCategoryRealEstate  ProductCategory = "real-estate"
	ProductCategoryAccessories ProductCategory = "accessories"
	ProductCategoryOther       ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryElectronics,
	ProductCategoryAutomotive,
	ProductCategoryRealEstate,
	ProductCategoryAccessories,
	ProductCategoryOther,
}

// IsValid reports whether the value matches the canonical category enum.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts the raw string to ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
