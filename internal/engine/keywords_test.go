package engine

import (
	"strings"
	"testing"

	"github.com/pennywise-cli/pennywise/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestKeywordSet_Match(t *testing.T) {
	keywords := DefaultKeywords()

	tests := []struct {
		name    string
		subject string
		want    model.Category
		wantOK  bool
	}{
		{"coffee shop", "starbucks coffee", model.CategoryFoodDrink, true},
		{"rent payment", "monthly rent payment", model.CategoryHousing, true},
		{"rideshare", "uber trip help.uber.com", model.CategoryTransport, true},
		{"uber eats is food before transport", "uber eats order", model.CategoryFoodDrink, true},
		{"streaming", "netflix.com subscription", model.CategoryEntertainment, true},
		{"no match", "random text", model.CategoryUncategorized, false},
		{"empty subject", "", model.CategoryUncategorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keywords.Match(tt.subject)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultKeywords_TermsAreLowercase(t *testing.T) {
	// Match expects a lowercased subject, so the table itself must be
	// lowercase or terms would never hit.
	for _, group := range DefaultKeywords() {
		for _, term := range group.Terms {
			assert.Equal(t, strings.ToLower(term), term,
				"term %q in %s is not lowercase", term, group.Category)
		}
	}
}

func TestKeywordSet_CustomTableOverridesDefault(t *testing.T) {
	custom := KeywordSet{
		{Category: model.CategoryEducation, Terms: []string{"tuition"}},
	}
	c := NewCategorizer(custom)

	assert.Equal(t, model.CategoryEducation, c.Categorize("Tuition payment", "", -900.0, nil))
	// Default table entries are gone with a custom table.
	assert.Equal(t, model.CategoryUncategorized, c.Categorize("Starbucks coffee", "", -5.0, nil))
}
