package engine

import (
	"github.com/SKY-Fai/reconmatch/internal/model"

	"github.com/shopspring/decimal"
)

// BuildReport aggregates per-transaction outcomes into run-level totals.
func BuildReport(outcomes []model.TransactionOutcome) model.ReconciliationReport {
	report := model.ReconciliationReport{
		ByCategory:        make(map[model.MatchCategory]int),
		TotalTransactions: len(outcomes),
		MatchedAmount:     decimal.Zero,
		UnmatchedAmount:   decimal.Zero,
	}

	for _, o := range outcomes {
		amount := o.Transaction.Amount.Abs()
		if o.Matched {
			report.MatchedCount++
			report.MatchedAmount = report.MatchedAmount.Add(amount)
		} else {
			report.UnmatchedCount++
			report.UnmatchedAmount = report.UnmatchedAmount.Add(amount)
		}
		if o.Decision != nil {
			report.ByCategory[o.Decision.Category]++
		}
	}

	if report.TotalTransactions > 0 {
		report.MatchedPercent = float64(report.MatchedCount) / float64(report.TotalTransactions) * 100
	}

	return report
}
