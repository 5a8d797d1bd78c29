package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pennywise-cli/pennywise/internal/common"
	"github.com/pennywise-cli/pennywise/internal/config"
	"github.com/pennywise-cli/pennywise/internal/service"
	"github.com/pennywise-cli/pennywise/internal/storage"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: database.path is not set and no home directory is available", common.ErrMissingConfig)
		}
		dbPath = filepath.Join(home, ".local", "share", "pennywise", "pennywise.db")
	}

	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// ownerScope returns the owner ID configured for this invocation, or nil for
// the global scope.
func ownerScope() *int64 {
	owner := viper.GetInt64("owner")
	if owner == 0 {
		return nil
	}
	return &owner
}
