package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/pennywise-cli/pennywise/internal/common"
	"github.com/pennywise-cli/pennywise/internal/model"
	"github.com/pennywise-cli/pennywise/internal/service"
)

const transactionColumns = `id, date, description, amount, raw_text, category, notes, owner_id, created_at, updated_at`

// CreateTransaction persists a single transaction. A missing ID is assigned
// and a missing category defaults to Uncategorized; the caller is expected to
// have run categorization already.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if txn != nil {
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}
		if txn.Category == "" {
			txn.Category = model.CategoryUncategorized
		}
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (id, date, description, amount, raw_text, category, notes, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		txn.ID, txn.Date, txn.Description, txn.Amount,
		nullableString(txn.RawText), string(txn.Category),
		nullableString(txn.Notes), txn.OwnerID,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	txn.CreatedAt = time.Now()
	txn.UpdatedAt = time.Now()

	return nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

// ListTransactions retrieves transactions for the filter's owner scope,
// newest first. A zero filter limit means no limit.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + ownerClause(filter.OwnerID) +
		` ORDER BY date DESC, id ASC`
	args := ownerArgs(filter.OwnerID)
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", scanErr)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// UpdateTransactionCategory overwrites a transaction's stored category
// unconditionally and bumps its modification timestamp. Rules are not
// re-evaluated; this is the manual correction path.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, id string, category model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if !category.Valid() {
		return fmt.Errorf("%w: %q", common.ErrInvalidCategory, category)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET category = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(category), id)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}

	return nil
}

// SaveTransactions saves a batch of transactions in a single database
// transaction. IDs and default categories are filled in as in
// CreateTransaction; already-present IDs are skipped, which makes statement
// re-imports idempotent.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, txns []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	for i := range txns {
		if txns[i].ID == "" {
			txns[i].ID = uuid.NewString()
		}
		if txns[i].Category == "" {
			txns[i].Category = model.CategoryUncategorized
		}
	}
	if err := validateTransactions(txns); err != nil {
		return err
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (id, date, description, amount, raw_text, category, notes, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range txns {
		txn := &txns[i]
		if _, err := stmt.ExecContext(ctx,
			txn.ID, txn.Date, txn.Description, txn.Amount,
			nullableString(txn.RawText), string(txn.Category),
			nullableString(txn.Notes), txn.OwnerID,
		); err != nil {
			return fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// MonthlySpendingSummary sums expense amounts grouped by category for the
// given month and owner scope. Only already-stored categories are consulted;
// no categorization logic runs here.
func (s *SQLiteStorage) MonthlySpendingSummary(ctx context.Context, year int, month time.Month, ownerID *int64) ([]service.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE strftime('%Y', date) = ?
			AND strftime('%m', date) = ?
			AND amount < 0
			AND ` + ownerClause(ownerID) + `
		GROUP BY category
		ORDER BY total ASC
	`

	args := []any{fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", int(month))}
	args = append(args, ownerArgs(ownerID)...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals []service.CategoryTotal
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		totals = append(totals, service.CategoryTotal{
			Category: model.Category(category),
			Total:    total,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summary rows: %w", err)
	}

	return totals, nil
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var rawText, notes sql.NullString
	var category string
	var ownerID sql.NullInt64

	err := row.Scan(
		&txn.ID, &txn.Date, &txn.Description, &txn.Amount,
		&rawText, &category, &notes, &ownerID,
		&txn.CreatedAt, &txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.RawText = rawText.String
	txn.Notes = notes.String
	txn.Category = model.Category(category)
	if ownerID.Valid {
		txn.OwnerID = &ownerID.Int64
	}

	return &txn, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
