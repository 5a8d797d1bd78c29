package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pennywise-cli/pennywise/internal/common"
	"github.com/pennywise-cli/pennywise/internal/model"
)

const ruleColumns = `id, name, pattern, category, priority, is_active, owner_id, created_at, updated_at`

// CreateRule creates a new categorization rule.
func (s *SQLiteStorage) CreateRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	// Priority is stored verbatim. Zero is a legitimate value (the
	// strongest precedence), so defaulting is left to the callers.
	query := `
		INSERT INTO rules (name, pattern, category, priority, is_active, owner_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		rule.Name, rule.Pattern, string(rule.Category),
		rule.Priority, rule.IsActive, rule.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get rule ID: %w", err)
	}

	rule.ID = id
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()

	return nil
}

// GetRule retrieves a rule by ID.
func (s *SQLiteStorage) GetRule(ctx context.Context, id int64) (*model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+ruleColumns+` FROM rules WHERE id = ?`, id)

	rule, err := scanRule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rule %d: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	return rule, nil
}

// ListRules retrieves rules scoped to the given owner (nil for global),
// ordered by priority. Limit <= 0 means no limit.
func (s *SQLiteStorage) ListRules(ctx context.Context, ownerID *int64, limit, offset int) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + ruleColumns + ` FROM rules WHERE ` + ownerClause(ownerID) +
		` ORDER BY priority ASC, id ASC`
	args := ownerArgs(ownerID)
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectRules(rows)
}

// ActiveRules returns the active rules for the given owner (nil for global
// scope), ascending by priority with ties broken by creation order. This is
// the rule snapshot the categorization engine consumes.
func (s *SQLiteStorage) ActiveRules(ctx context.Context, ownerID *int64) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + ruleColumns + `
		FROM rules
		WHERE is_active = 1 AND ` + ownerClause(ownerID) + `
		ORDER BY priority ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerArgs(ownerID)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get active rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectRules(rows)
}

// UpdateRule updates an existing rule in place.
func (s *SQLiteStorage) UpdateRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	query := `
		UPDATE rules
		SET name = ?, pattern = ?, category = ?, priority = ?, is_active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		rule.Name, rule.Pattern, string(rule.Category),
		rule.Priority, rule.IsActive, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rule %d: %w", rule.ID, common.ErrNotFound)
	}

	rule.UpdatedAt = time.Now()
	return nil
}

// DeleteRule removes a rule by ID.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rule %d: %w", id, common.ErrNotFound)
	}

	return nil
}

// ownerClause returns the WHERE fragment scoping a query to an owner.
// A nil owner selects the global scope (rows with no owner).
func ownerClause(ownerID *int64) string {
	if ownerID == nil {
		return "owner_id IS NULL"
	}
	return "owner_id = ?"
}

func ownerArgs(ownerID *int64) []any {
	if ownerID == nil {
		return nil
	}
	return []any{*ownerID}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*model.Rule, error) {
	var rule model.Rule
	var category string
	var ownerID sql.NullInt64

	err := row.Scan(
		&rule.ID, &rule.Name, &rule.Pattern, &category,
		&rule.Priority, &rule.IsActive, &ownerID,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.Category = model.Category(category)
	if ownerID.Valid {
		rule.OwnerID = &ownerID.Int64
	}

	return &rule, nil
}

func collectRules(rows *sql.Rows) ([]model.Rule, error) {
	var rules []model.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}
	return rules, nil
}
