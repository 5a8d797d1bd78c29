// Package model defines the core domain types for pennywise.
package model

import "fmt"

// Category is a spending category assigned to a transaction.
type Category string

// The closed set of categories a transaction can carry.
const (
	CategoryUncategorized Category = "Uncategorized"
	CategoryFoodDrink     Category = "Food & Drink"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryHousing       Category = "Housing"
	CategoryUtilities     Category = "Utilities"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealthcare    Category = "Healthcare"
	CategoryEducation     Category = "Education"
	CategoryIncome        Category = "Income"
	CategoryOther         Category = "Other"
)

// AllCategories returns every valid category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryUncategorized,
		CategoryFoodDrink,
		CategoryTransport,
		CategoryShopping,
		CategoryHousing,
		CategoryUtilities,
		CategoryEntertainment,
		CategoryHealthcare,
		CategoryEducation,
		CategoryIncome,
		CategoryOther,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory converts a string to a Category, rejecting unknown values.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return CategoryUncategorized, fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
