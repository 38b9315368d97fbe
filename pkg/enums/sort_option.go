package enums

import "fmt"

// SortOption orders the shop product grid.
type SortOption string

const (
	SortDefault    SortOption = "default"
	SortPriceAsc   SortOption = "price-asc"
	SortPriceDesc  SortOption = "price-desc"
	SortRatingDesc SortOption = "rating-desc"
)

var validSortOptions = []SortOption{
	SortDefault,
	SortPriceAsc,
	SortPriceDesc,
	SortRatingDesc,
}

// String implements fmt.Stringer.
func (s SortOption) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortOption.
func (s SortOption) IsValid() bool {
	for _, candidate := range validSortOptions {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortOption converts raw input into a SortOption. Empty input is the
// default ordering.
func ParseSortOption(value string) (SortOption, error) {
	if value == "" {
		return SortDefault, nil
	}
	for _, candidate := range validSortOptions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort option %q", value)
}
