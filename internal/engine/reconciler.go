package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SKY-Fai/reconmatch/internal/model"
)

// AccountSuggester proposes a fallback ledger account for a transaction
// that could not be matched automatically.
type AccountSuggester interface {
	Suggest(txn model.Transaction) model.AccountSuggestion
}

// Config holds configuration options for a reconciliation run.
type Config struct {
	// OnProgress, when set, is called after each transaction completes.
	OnProgress func(completed, total int)
	// Workers is the number of parallel candidate-scoring workers.
	Workers int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Workers: 4}
}

// Reconciler orchestrates a reconciliation run: for each transaction, in
// input order, it scores all unclaimed candidates, categorizes the best one,
// and either claims it or routes the transaction to manual mapping.
type Reconciler struct {
	agg       *Aggregator
	suggester AccountSuggester
	cfg       Config
}

// New creates a reconciler with default configuration.
func New(suggester AccountSuggester) *Reconciler {
	return NewWithConfig(suggester, DefaultConfig())
}

// NewWithConfig creates a reconciler with custom configuration.
func NewWithConfig(suggester AccountSuggester, cfg Config) *Reconciler {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Reconciler{
		agg:       NewAggregator(),
		suggester: suggester,
		cfg:       cfg,
	}
}

// Reconcile processes all transactions against the candidate list.
// Transactions are handled strictly in input order so claiming and
// tie-breaking are deterministic; candidate scoring within one transaction
// fans out over the worker pool.
func (r *Reconciler) Reconcile(ctx context.Context, txns []model.Transaction, cands []model.Candidate) (*model.ReconciliationResult, error) {
	slog.Info("Starting reconciliation run",
		"transactions", len(txns),
		"candidates", len(cands),
		"workers", r.cfg.Workers)

	claims := NewClaimTable()
	applier := NewApplier(claims)

	res := &model.ReconciliationResult{
		Outcomes: make([]model.TransactionOutcome, 0, len(txns)),
	}

	for i, txn := range txns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome := model.TransactionOutcome{Transaction: txn}
		best := r.bestMatch(ctx, txn, cands, claims)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if best == nil {
			res.ManualMappings = append(res.ManualMappings,
				r.manualMapping(txn, "", []string{"no_candidates_available"}))
		} else {
			dec := Categorize(best)
			outcome.Best = best
			outcome.Decision = &dec

			if dec.AutoProcess {
				if err := applier.Apply(txn.ID, best.CandidateID); err == nil {
					outcome.Matched = true
				}
			}
			if !outcome.Matched {
				res.ManualMappings = append(res.ManualMappings,
					r.manualMapping(txn, best.CandidateID, dec.ReviewReasons))
			}
		}

		res.Outcomes = append(res.Outcomes, outcome)
		if r.cfg.OnProgress != nil {
			r.cfg.OnProgress(i+1, len(txns))
		}
	}

	res.Report = BuildReport(res.Outcomes)

	slog.Info("Reconciliation run complete",
		"matched", res.Report.MatchedCount,
		"unmatched", res.Report.UnmatchedCount,
		"matched_pct", res.Report.MatchedPercent)

	return res, nil
}

// bestMatch scores every unclaimed candidate for the transaction and returns
// the highest-scoring aggregate, or nil when no candidate is available.
// Ties break toward the earlier candidate in input order.
func (r *Reconciler) bestMatch(ctx context.Context, txn model.Transaction, cands []model.Candidate, claims *ClaimTable) *model.AggregateResult {
	open := make([]model.Candidate, 0, len(cands))
	for _, cand := range cands {
		if !claims.IsClaimed(cand.ID) {
			open = append(open, cand)
		}
	}
	if len(open) == 0 {
		return nil
	}

	// Results are written by index so worker scheduling cannot change the
	// selection order.
	results := make([]model.AggregateResult, len(open))
	workChan := make(chan int, len(open))
	for i := range open {
		workChan <- i
	}
	close(workChan)

	workers := r.cfg.Workers
	if workers > len(open) {
		workers = len(open)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range workChan {
				if ctx.Err() != nil {
					return
				}
				results[i] = r.agg.Score(txn, open[i])
			}
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil
	}

	best := &results[0]
	for i := 1; i < len(results); i++ {
		if results[i].Score > best.Score {
			best = &results[i]
		}
	}
	return best
}

func (r *Reconciler) manualMapping(txn model.Transaction, candidateID string, reasons []string) model.ManualMapping {
	mm := model.ManualMapping{
		TransactionID: txn.ID,
		CandidateID:   candidateID,
		Reasons:       reasons,
	}
	if r.suggester != nil {
		sug := r.suggester.Suggest(txn)
		mm.SuggestedAccount = sug.Code
		mm.AccountName = sug.Name
	}
	return mm
}
