package model

import "time"

// Transaction represents a single financial event from a bank statement.
// Amounts are signed: negative values are expenses, positive values income.
type Transaction struct {
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	OwnerID     *int64    `json:"owner_id,omitempty"`
	ID          string    `json:"id"`
	Description string    `json:"description"`
	RawText     string    `json:"raw_text,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Category    Category  `json:"category"`
	Amount      float64   `json:"amount"`
}

// IsExpense reports whether the transaction represents money going out.
func (t *Transaction) IsExpense() bool {
	return t.Amount < 0
}
