package engine

import (
	"strings"

	"github.com/pennywise-cli/pennywise/internal/model"
)

// KeywordGroup associates a category with the literal terms that imply it.
type KeywordGroup struct {
	Category model.Category
	Terms    []string
}

// KeywordSet is an ordered category-to-terms table used as the fallback when
// no rule matches. Groups are checked in slice order and the first group with
// any matching term wins, so order is part of the configuration.
type KeywordSet []KeywordGroup

// DefaultKeywords returns the built-in keyword table. Terms are matched as
// case-insensitive substrings, not whole words, so "cafeteria" hits "cafe".
func DefaultKeywords() KeywordSet {
	return KeywordSet{
		{Category: model.CategoryFoodDrink, Terms: []string{
			"restaurant", "cafe", "coffee", "starbucks", "grocery",
			"supermarket", "bakery", "pizza", "burger", "deli", "diner",
			"doordash", "uber eats",
		}},
		{Category: model.CategoryTransport, Terms: []string{
			"uber", "lyft", "taxi", "metro", "train", "fuel",
			"gas station", "parking", "toll", "shell", "chevron",
		}},
		{Category: model.CategoryShopping, Terms: []string{
			"amazon", "walmart", "target", "ebay", "etsy", "ikea",
			"best buy", "clothing", "mall",
		}},
		{Category: model.CategoryEntertainment, Terms: []string{
			"netflix", "spotify", "hulu", "cinema", "movie", "theater",
			"steam", "playstation", "concert",
		}},
		{Category: model.CategoryUtilities, Terms: []string{
			"electric", "water bill", "internet", "broadband", "phone",
			"utility", "comcast", "verizon",
		}},
		{Category: model.CategoryHousing, Terms: []string{
			"rent", "mortgage", "landlord", "lease", "property",
		}},
		{Category: model.CategoryHealthcare, Terms: []string{
			"pharmacy", "doctor", "dental", "clinic", "hospital",
			"medical", "walgreens",
		}},
		// Income is normally decided by the amount sign before keywords are
		// consulted; these terms only matter for zero-amount records.
		{Category: model.CategoryIncome, Terms: []string{
			"salary", "payroll", "paycheck", "refund",
		}},
	}
}

// Match returns the first category whose terms contain a substring of
// subject. The subject must already be lowercased.
func (k KeywordSet) Match(subject string) (model.Category, bool) {
	for _, group := range k {
		for _, term := range group.Terms {
			if strings.Contains(subject, term) {
				return group.Category, true
			}
		}
	}
	return model.CategoryUncategorized, false
}
