package storage

import (
	"context"
	"testing"

	"github.com/pennywise-cli/pennywise/internal/common"
	"github.com/pennywise-cli/pennywise/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestMigrate_IsIdempotent(t *testing.T) {
	store := newTestStorage(t)

	// Running migrations again on an up-to-date database is a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	require.Error(t, err)
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		rule    *model.Rule
		wantErr error
		name    string
	}{
		{
			name: "valid rule",
			rule: &model.Rule{Name: "coffee", Pattern: "starbucks", Category: model.CategoryFoodDrink},
		},
		{
			name: "malformed pattern is allowed",
			rule: &model.Rule{Name: "broken", Pattern: "[", Category: model.CategoryOther},
		},
		{
			name:    "missing name",
			rule:    &model.Rule{Pattern: "x", Category: model.CategoryOther},
			wantErr: common.ErrInvalidRule,
		},
		{
			name:    "missing pattern",
			rule:    &model.Rule{Name: "x", Category: model.CategoryOther},
			wantErr: common.ErrInvalidRule,
		},
		{
			name:    "unknown category",
			rule:    &model.Rule{Name: "x", Pattern: "x", Category: "Gadgets"},
			wantErr: common.ErrInvalidRule,
		},
		{
			name:    "nil rule",
			wantErr: ErrNilParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRule(tt.rule)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
