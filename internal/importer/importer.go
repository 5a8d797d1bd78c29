// Package importer ingests bank statements (CSV and OFX/QFX) and runs each
// record through the categorization engine.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pennywise-cli/pennywise/internal/common"
	"github.com/pennywise-cli/pennywise/internal/engine"
	"github.com/pennywise-cli/pennywise/internal/model"
)

// Importer parses statement files into transactions. Records without an
// explicit category are categorized independently against the supplied rule
// snapshot, so a batch import is equivalent to creating each transaction one
// at a time.
type Importer struct {
	categorizer *engine.Categorizer
}

// New creates an Importer backed by the given categorizer.
func New(categorizer *engine.Categorizer) *Importer {
	return &Importer{categorizer: categorizer}
}

// ImportFile parses the statement at path, dispatching on file extension.
func (i *Importer) ImportFile(ctx context.Context, path string, rules []model.Rule, ownerID *int64) ([]model.Transaction, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".ofx", ".qfx":
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, ext)
	}

	common.LogDebug("Importing statement", common.Fields{"file": path, "format": ext})

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if ext == ".csv" {
		return i.ImportCSV(ctx, f, rules, ownerID)
	}
	return i.ImportOFX(ctx, f, rules, ownerID)
}

// categorize fills in categories for freshly parsed records and stamps the
// owner. Explicit categories, if a format ever supplies them, are preserved.
func (i *Importer) categorize(txns []model.Transaction, rules []model.Rule, ownerID *int64) []model.Transaction {
	categories := i.categorizer.CategorizeBatch(txns, rules)
	for idx := range txns {
		txns[idx].Category = categories[idx]
		txns[idx].OwnerID = ownerID
	}
	return txns
}
