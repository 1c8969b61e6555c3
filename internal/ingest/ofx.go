package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/SKY-Fai/reconmatch/internal/model"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// OFXReader parses OFX/QFX bank statements into normalized transactions.
type OFXReader struct{}

// NewOFXReader creates a new OFX reader.
func NewOFXReader() *OFXReader {
	return &OFXReader{}
}

var (
	severityFixRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex      = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes common formatting issues in OFX files from real banks.
func (p *OFXReader) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	content = severityFixRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML-style tags missing their closing bracket
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Read parses an OFX/QFX statement and returns normalized transactions.
func (p *OFXReader) Read(reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, ofxTx := range stmt.BankTranList.Transactions {
			transactions = append(transactions, p.convert(ofxTx))
		}
	}

	slog.Info("Parsed OFX statement", "transactions", len(transactions))
	return transactions, nil
}

// convert maps one OFX transaction onto the normalized model. OFX uses
// negative amounts for debits.
func (p *OFXReader) convert(ofxTx ofxgo.Transaction) model.Transaction {
	amountFloat, _ := ofxTx.TrnAmt.Float64()
	amount := decimal.NewFromFloat(amountFloat)

	direction := model.DirectionCredit
	if amountFloat < 0 {
		direction = model.DirectionDebit
	}

	description := string(ofxTx.Name)
	if ofxTx.Memo != "" {
		description = strings.TrimSpace(description + " " + string(ofxTx.Memo))
	}

	txn := model.Transaction{
		ID:          string(ofxTx.FiTID),
		Date:        ofxTx.DtPosted.Time,
		Description: description,
		Reference:   string(ofxTx.RefNum),
		Amount:      amount,
		Direction:   direction,
	}
	if txn.Reference == "" {
		txn.Reference = string(ofxTx.CheckNum)
	}
	return txn
}
