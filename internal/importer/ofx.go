package importer

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/pennywise-cli/pennywise/internal/common"
	"github.com/pennywise-cli/pennywise/internal/model"
)

// preprocessOFX fixes common formatting issues in OFX files before parsing.
func preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ImportOFX parses an OFX/QFX statement covering both bank and credit card
// accounts. OFX amounts are already signed the way the engine expects
// (negative debits), so they pass through unchanged.
func (i *Importer) ImportOFX(ctx context.Context, r io.Reader, rules []model.Rule, ownerID *int64) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var txns []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				txns = append(txns, convertOFXTransaction(ofxTx))
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				txns = append(txns, convertOFXTransaction(ofxTx))
			}
		}
	}

	common.LogInfo("Parsed OFX statement", common.Fields{
		"transactions":    len(txns),
		"bank_statements": bankStmts,
		"cc_statements":   ccStmts,
	})

	return i.categorize(txns, rules, ownerID), nil
}

// convertOFXTransaction maps an OFX transaction to the domain model. The
// NAME field becomes the description and MEMO the raw text, so rules and
// keywords see both.
func convertOFXTransaction(ofxTx ofxgo.Transaction) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()

	description := strings.TrimSpace(string(ofxTx.Name))
	if ofxTx.Payee != nil && ofxTx.Payee.Name != "" {
		description = strings.TrimSpace(string(ofxTx.Payee.Name))
	}

	return model.Transaction{
		ID:          string(ofxTx.FiTID),
		Date:        ofxTx.DtPosted.Time,
		Description: description,
		RawText:     strings.TrimSpace(string(ofxTx.Memo)),
		Amount:      amount,
	}
}
