package stages

import (
	"time"

	"github.com/SKY-Fai/reconmatch/internal/model"
)

// recurringIntervals are day deltas that suggest a scheduled payment cycle.
var recurringIntervals = map[int]struct{}{
	7: {}, 14: {}, 21: {}, 28: {}, 30: {}, 90: {}, 180: {}, 365: {},
}

// holidayWindows are (month, day) anchors for major calendar holidays;
// settlements often shift around these.
var holidayWindows = [][2]int{
	{1, 1},   // New Year
	{1, 26},  // Republic Day
	{8, 15},  // Independence Day
	{10, 2},  // Gandhi Jayanti
	{12, 25}, // Christmas
}

// TemporalCorrelation scores the proximity of the transaction date to the
// candidate date, with adjustments for banking calendar effects.
type TemporalCorrelation struct{}

// ID returns the stage identifier.
func (TemporalCorrelation) ID() model.StageID { return model.StageTemporalCorrelation }

// Evaluate compares transaction and candidate dates.
func (s TemporalCorrelation) Evaluate(txn model.Transaction, cand model.Candidate) model.StageResult {
	if txn.Date.IsZero() {
		return failed(s.ID(), "missing_transaction_date")
	}
	if cand.Date.IsZero() {
		return failed(s.ID(), "missing_candidate_date")
	}

	txDay := truncateDay(txn.Date)
	cdDay := truncateDay(cand.Date)
	days := int(txDay.Sub(cdDay).Hours() / 24)
	absDays := days
	if absDays < 0 {
		absDays = -absDays
	}

	score, bandFactor := temporalBand(absDays)
	factors := []string{bandFactor}
	details := map[string]float64{
		"day_diff":   float64(days),
		"base_score": score,
	}

	// Weekend-adjacent candidate dates settle a day or two late.
	if wd := cdDay.Weekday(); (wd == time.Saturday || wd == time.Sunday) && absDays <= 2 && absDays > 0 {
		factors = append(factors, "weekend_adjacent")
		score += 0.03
	}

	// Friday instruction, Monday settlement.
	if cdDay.Weekday() == time.Friday && txDay.Weekday() == time.Monday && days == 3 {
		factors = append(factors, "friday_monday_settlement")
		score += 0.05
	}

	switch {
	case days > 0 && days <= 5:
		// Payment arrives shortly after the invoice: the normal flow.
		factors = append(factors, "forward_payment_flow")
		score += 0.03
	case days < 0:
		// Advance payment before the invoice date.
		factors = append(factors, "advance_payment")
		score += 0.01
	}

	if _, ok := recurringIntervals[absDays]; ok {
		factors = append(factors, "recurring_interval")
		score += 0.02
	}

	if nearHoliday(txDay) {
		factors = append(factors, "holiday_window")
		score += 0.01
	}

	return result(s.ID(), score, factors, details)
}

func temporalBand(absDays int) (float64, string) {
	switch {
	case absDays == 0:
		return 1.0, "same_day"
	case absDays == 1:
		return 0.92, "next_day"
	case absDays <= 2:
		return 0.85, "within_2_days"
	case absDays <= 5:
		return 0.70, "within_5_days"
	case absDays <= 10:
		return 0.50, "within_10_days"
	case absDays <= 30:
		return 0.25, "within_30_days"
	default:
		return 0.05, "distant_dates"
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// nearHoliday reports whether t falls within 3 days of a holiday anchor.
func nearHoliday(t time.Time) bool {
	for _, h := range holidayWindows {
		anchor := time.Date(t.Year(), time.Month(h[0]), h[1], 0, 0, 0, 0, time.UTC)
		diff := t.Sub(anchor).Hours() / 24
		if diff >= -3 && diff <= 3 {
			return true
		}
	}
	return false
}
