package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pennywise-cli/pennywise/internal/common"
	"github.com/pennywise-cli/pennywise/internal/model"
)

// Date layouts accepted in CSV statements, tried in order.
var csvDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02.01.2006",
}

// ImportCSV parses a CSV bank statement. The header must contain Date,
// Description and Amount columns; RawText is optional. Rows that fail to
// parse are logged and skipped so one bad line doesn't abort the statement.
func (i *Importer) ImportCSV(ctx context.Context, r io.Reader, rules []model.Rule, ownerID *int64) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, common.ErrNoRecords
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	var skipped int
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			common.LogWarn(err, "Skipping unreadable CSV row", common.Fields{"line": line})
			skipped++
			continue
		}

		txn, err := cols.parseRow(record)
		if err != nil {
			common.LogWarn(err, "Skipping invalid CSV row", common.Fields{"line": line})
			skipped++
			continue
		}
		txns = append(txns, txn)
	}

	if len(txns) == 0 {
		return nil, common.ErrNoRecords
	}
	if skipped > 0 {
		common.LogInfo("CSV import finished with skipped rows", common.Fields{
			"imported": len(txns),
			"skipped":  skipped,
		})
	}

	return i.categorize(txns, rules, ownerID), nil
}

// csvColumns maps statement columns to their positions in the header.
type csvColumns struct {
	date        int
	description int
	amount      int
	rawText     int // -1 when absent
}

func resolveColumns(header []string) (*csvColumns, error) {
	cols := &csvColumns{date: -1, description: -1, amount: -1, rawText: -1}

	for idx, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			cols.date = idx
		case "description":
			cols.description = idx
		case "amount":
			cols.amount = idx
		case "rawtext", "raw_text":
			cols.rawText = idx
		}
	}

	var missing []string
	if cols.date == -1 {
		missing = append(missing, "Date")
	}
	if cols.description == -1 {
		missing = append(missing, "Description")
	}
	if cols.amount == -1 {
		missing = append(missing, "Amount")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("CSV is missing required columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

func (c *csvColumns) parseRow(record []string) (model.Transaction, error) {
	var txn model.Transaction

	if len(record) <= c.amount || len(record) <= c.date || len(record) <= c.description {
		return txn, fmt.Errorf("row has %d fields, expected at least %d", len(record), c.amount+1)
	}

	date, err := parseCSVDate(strings.TrimSpace(record[c.date]))
	if err != nil {
		return txn, err
	}

	description := strings.TrimSpace(record[c.description])
	if description == "" {
		return txn, fmt.Errorf("empty description")
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(record[c.amount]), 64)
	if err != nil {
		return txn, fmt.Errorf("invalid amount %q: %w", record[c.amount], err)
	}

	txn = model.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
	}
	if c.rawText >= 0 && len(record) > c.rawText {
		txn.RawText = strings.TrimSpace(record[c.rawText])
	}

	return txn, nil
}

func parseCSVDate(value string) (time.Time, error) {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
