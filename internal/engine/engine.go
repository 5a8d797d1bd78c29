// Package engine implements the transaction categorization engine: ordered
// rule matching with a fixed keyword fallback.
package engine

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pennywise-cli/pennywise/internal/model"
)

// Categorizer decides a transaction's category from its description, raw
// statement text, signed amount, and a snapshot of active rules.
//
// Categorization is a pure function of its inputs: the Categorizer holds no
// mutable state beyond a regexp compile cache and is safe for concurrent use.
type Categorizer struct {
	keywords KeywordSet

	mu       sync.RWMutex
	compiled map[string]*regexp.Regexp // pattern -> compiled, nil = malformed
}

// NewCategorizer creates a Categorizer with the given keyword fallback table.
// A nil or empty set disables the keyword fallback entirely.
func NewCategorizer(keywords KeywordSet) *Categorizer {
	return &Categorizer{
		keywords: keywords,
		compiled: make(map[string]*regexp.Regexp),
	}
}

// NewDefaultCategorizer creates a Categorizer with the built-in keyword table.
func NewDefaultCategorizer() *Categorizer {
	return NewCategorizer(DefaultKeywords())
}

// Categorize decides the category for a single transaction.
//
// Decision order:
//  1. amount > 0 is always Income, regardless of text or rules.
//  2. Active rules in ascending priority order (stable for equal
//     priorities); the first whose pattern matches the description or the
//     raw text wins. A malformed pattern never matches and is skipped.
//  3. The keyword fallback table.
//  4. Uncategorized.
func (c *Categorizer) Categorize(description, rawText string, amount float64, rules []model.Rule) model.Category {
	if amount > 0 {
		return model.CategoryIncome
	}

	for _, rule := range sortedByPriority(rules) {
		if !rule.IsActive {
			continue
		}
		re := c.compile(rule.Pattern)
		if re == nil {
			continue
		}
		if re.MatchString(description) || (rawText != "" && re.MatchString(rawText)) {
			return rule.Category
		}
	}

	subject := strings.ToLower(description + " " + rawText)
	if category, ok := c.keywords.Match(subject); ok {
		return category
	}

	return model.CategoryUncategorized
}

// CategorizeTransaction applies Categorize to a transaction record, honoring
// an explicit category: anything other than Uncategorized is kept as-is.
func (c *Categorizer) CategorizeTransaction(txn *model.Transaction, rules []model.Rule) model.Category {
	if txn.Category != "" && txn.Category != model.CategoryUncategorized {
		return txn.Category
	}
	return c.Categorize(txn.Description, txn.RawText, txn.Amount, rules)
}

// CategorizeBatch categorizes each transaction independently against the same
// rule snapshot. The result at index i is the category for txns[i]; the batch
// is equivalent to N single Categorize calls.
func (c *Categorizer) CategorizeBatch(txns []model.Transaction, rules []model.Rule) []model.Category {
	ordered := sortedByPriority(rules)
	results := make([]model.Category, len(txns))
	for i := range txns {
		results[i] = c.categorizeOrdered(&txns[i], ordered)
	}
	return results
}

func (c *Categorizer) categorizeOrdered(txn *model.Transaction, ordered []model.Rule) model.Category {
	if txn.Category != "" && txn.Category != model.CategoryUncategorized {
		return txn.Category
	}
	if txn.Amount > 0 {
		return model.CategoryIncome
	}

	for _, rule := range ordered {
		if !rule.IsActive {
			continue
		}
		re := c.compile(rule.Pattern)
		if re == nil {
			continue
		}
		if re.MatchString(txn.Description) || (txn.RawText != "" && re.MatchString(txn.RawText)) {
			return rule.Category
		}
	}

	subject := strings.ToLower(txn.Description + " " + txn.RawText)
	if category, ok := c.keywords.Match(subject); ok {
		return category
	}

	return model.CategoryUncategorized
}

// compile returns the case-insensitive regexp for pattern, or nil when the
// pattern is malformed. Results, including failures, are cached so repeated
// evaluations of the same rule set compile each pattern once.
func (c *Categorizer) compile(pattern string) *regexp.Regexp {
	c.mu.RLock()
	re, ok := c.compiled[pattern]
	c.mu.RUnlock()
	if ok {
		return re
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		re = nil
	}

	c.mu.Lock()
	c.compiled[pattern] = re
	c.mu.Unlock()
	return re
}

// sortedByPriority returns a copy of rules in ascending priority order.
// Equal priorities keep their original relative order, so earlier rules win
// ties.
func sortedByPriority(rules []model.Rule) []model.Rule {
	ordered := make([]model.Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return ordered
}
