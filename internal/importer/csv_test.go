package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pennywise-cli/pennywise/internal/common"
	"github.com/pennywise-cli/pennywise/internal/engine"
	"github.com/pennywise-cli/pennywise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImporter() *Importer {
	return New(engine.NewDefaultCategorizer())
}

func TestImportCSV(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Amount,RawText",
		"2025-05-01,Starbucks coffee,-5.00,STARBUCKS STORE 1234",
		"2025-05-02,Monthly Rent Payment,-1500.00,",
		"2025-05-03,Paycheck,2000.00,ACME CORP PAYROLL",
		"2025-05-04,random text,-10.00,",
	}, "\n")

	txns, err := newTestImporter().ImportCSV(context.Background(), strings.NewReader(input), nil, nil)
	require.NoError(t, err)
	require.Len(t, txns, 4)

	assert.Equal(t, "Starbucks coffee", txns[0].Description)
	assert.Equal(t, "STARBUCKS STORE 1234", txns[0].RawText)
	assert.InDelta(t, -5.0, txns[0].Amount, 0.001)
	assert.Equal(t, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), txns[0].Date)

	assert.Equal(t, []model.Category{
		model.CategoryFoodDrink,
		model.CategoryHousing,
		model.CategoryIncome,
		model.CategoryUncategorized,
	}, categoriesOf(txns))
}

func TestImportCSV_RulesTakePrecedenceOverKeywords(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Amount",
		"2025-05-01,Starbucks coffee,-5.00",
	}, "\n")

	rules := []model.Rule{
		{Pattern: "starbucks", Category: model.CategoryOther, Priority: 1, IsActive: true},
	}

	txns, err := newTestImporter().ImportCSV(context.Background(), strings.NewReader(input), rules, nil)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.CategoryOther, txns[0].Category)
}

func TestImportCSV_SkipsBadRows(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Amount",
		"not-a-date,Coffee,-5.00",
		"2025-05-01,Groceries,not-a-number",
		"2025-05-02,,-10.00",
		"2025-05-03,Valid row,-20.00",
	}, "\n")

	txns, err := newTestImporter().ImportCSV(context.Background(), strings.NewReader(input), nil, nil)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Valid row", txns[0].Description)
}

func TestImportCSV_MissingColumns(t *testing.T) {
	input := "Date,Amount\n2025-05-01,-5.00\n"

	_, err := newTestImporter().ImportCSV(context.Background(), strings.NewReader(input), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Description")
}

func TestImportCSV_Empty(t *testing.T) {
	_, err := newTestImporter().ImportCSV(context.Background(), strings.NewReader(""), nil, nil)
	require.ErrorIs(t, err, common.ErrNoRecords)

	_, err = newTestImporter().ImportCSV(context.Background(),
		strings.NewReader("Date,Description,Amount\n"), nil, nil)
	require.ErrorIs(t, err, common.ErrNoRecords)
}

func TestImportCSV_OwnerStamped(t *testing.T) {
	owner := int64(9)
	input := "Date,Description,Amount\n2025-05-01,Coffee,-5.00\n"

	txns, err := newTestImporter().ImportCSV(context.Background(), strings.NewReader(input), nil, &owner)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	require.NotNil(t, txns[0].OwnerID)
	assert.Equal(t, owner, *txns[0].OwnerID)
}

func TestImportFile_UnsupportedExtension(t *testing.T) {
	_, err := newTestImporter().ImportFile(context.Background(), "statement.pdf", nil, nil)
	require.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func categoriesOf(txns []model.Transaction) []model.Category {
	out := make([]model.Category, len(txns))
	for i, txn := range txns {
		out[i] = txn.Category
	}
	return out
}
