// Package ingest reads normalized transaction and candidate lists for the
// matching engine. It is a thin collaborator: parse failures are ingestion
// errors, never matcher errors.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/SKY-Fai/reconmatch/internal/common"
	"github.com/SKY-Fai/reconmatch/internal/model"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when parsing statement dates.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"02 Jan 2006",
}

// ReadTransactions parses a normalized transaction CSV. Expected header
// columns (case-insensitive): id, date, description, amount, reference,
// balance, type. Missing optional columns are tolerated.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	records, header, err := readAll(r)
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		txn, err := parseTransaction(rec, header, i)
		if err != nil {
			return nil, err
		}

		// Overlapping statement exports repeat lines; keep the first.
		hash := txn.GenerateHash()
		if _, dup := seen[hash]; dup {
			slog.Debug("Skipping duplicate transaction row", "row", i+2, "id", txn.ID)
			continue
		}
		seen[hash] = struct{}{}

		txns = append(txns, txn)
	}
	return txns, nil
}

// ReadCandidates parses a normalized candidate CSV. Expected header columns:
// id, document_number, party_name, amount, date, description, tax_id, type.
func ReadCandidates(r io.Reader) ([]model.Candidate, error) {
	records, header, err := readAll(r)
	if err != nil {
		return nil, err
	}

	var cands []model.Candidate
	for i, rec := range records {
		cand, err := parseCandidate(rec, header, i)
		if err != nil {
			return nil, err
		}
		cands = append(cands, cand)
	}
	return cands, nil
}

func readAll(r io.Reader) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("CSV has no header row")
	}

	header := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := header["date"]; !ok {
		return nil, nil, fmt.Errorf("%w: no date column in header", common.ErrUnsupportedFormat)
	}
	if _, ok := header["amount"]; !ok {
		return nil, nil, fmt.Errorf("%w: no amount column in header", common.ErrUnsupportedFormat)
	}
	return rows[1:], header, nil
}

func field(rec []string, header map[string]int, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func parseTransaction(rec []string, header map[string]int, row int) (model.Transaction, error) {
	var txn model.Transaction

	txn.ID = field(rec, header, "id")
	if txn.ID == "" {
		txn.ID = fmt.Sprintf("txn-%04d", row+1)
	}
	txn.Description = field(rec, header, "description")
	txn.Reference = field(rec, header, "reference")

	date, err := parseDate(field(rec, header, "date"))
	if err != nil {
		return txn, fmt.Errorf("row %d: %w", row+2, err)
	}
	txn.Date = date

	amount, err := decimal.NewFromString(field(rec, header, "amount"))
	if err != nil {
		return txn, fmt.Errorf("row %d: invalid amount: %w", row+2, err)
	}
	txn.Amount = amount

	if bal := field(rec, header, "balance"); bal != "" {
		balance, err := decimal.NewFromString(bal)
		if err != nil {
			return txn, fmt.Errorf("row %d: invalid balance: %w", row+2, err)
		}
		txn.Balance = &balance
	}

	txn.Direction = parseDirection(field(rec, header, "type"), amount)
	return txn, nil
}

func parseCandidate(rec []string, header map[string]int, row int) (model.Candidate, error) {
	var cand model.Candidate

	cand.ID = field(rec, header, "id")
	if cand.ID == "" {
		return cand, fmt.Errorf("row %d: candidate id is required", row+2)
	}
	cand.DocumentNumber = field(rec, header, "document_number")
	cand.PartyName = field(rec, header, "party_name")
	cand.Description = field(rec, header, "description")
	cand.TaxID = field(rec, header, "tax_id")

	date, err := parseDate(field(rec, header, "date"))
	if err != nil {
		return cand, fmt.Errorf("row %d: %w", row+2, err)
	}
	cand.Date = date

	amount, err := decimal.NewFromString(field(rec, header, "amount"))
	if err != nil {
		return cand, fmt.Errorf("row %d: invalid amount: %w", row+2, err)
	}
	cand.Amount = amount

	switch strings.ToLower(field(rec, header, "type")) {
	case "sales", "sales_invoice", "invoice":
		cand.Kind = model.KindSales
	case "purchase", "purchase_invoice":
		cand.Kind = model.KindPurchase
	case "expense":
		cand.Kind = model.KindExpense
	default:
		cand.Kind = model.KindOther
	}

	return cand, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

func parseDirection(typ string, amount decimal.Decimal) model.TransactionDirection {
	switch strings.ToLower(typ) {
	case "credit", "cr", "deposit":
		return model.DirectionCredit
	case "debit", "dr", "withdrawal":
		return model.DirectionDebit
	}
	// Fall back to the amount sign.
	if amount.IsNegative() {
		return model.DirectionDebit
	}
	if amount.IsPositive() {
		return model.DirectionCredit
	}
	return model.DirectionUnknown
}
