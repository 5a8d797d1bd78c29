package model

import "time"

// DefaultRulePriority is assigned to rules created without an explicit
// priority. Lower numbers evaluate first.
const DefaultRulePriority = 100

// Rule maps a regular-expression pattern to a category. Rules belong to an
// owner, or to the global scope when OwnerID is nil.
type Rule struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	OwnerID   *int64    `json:"owner_id,omitempty"`
	Name      string    `json:"name"`
	Pattern   string    `json:"pattern"`
	Category  Category  `json:"category"`
	ID        int64     `json:"id"`
	Priority  int       `json:"priority"`
	IsActive  bool      `json:"is_active"`
}
