package rewards

import (
	"context"
	"sync"

	"github.com/nihongo-dojo/dojo-go/pkg/logging"
)

// BatchStats aggregates the outcome counts of one scored batch. Collection
// is observational only and never feeds back into scores.
type BatchStats struct {
	Correct  int
	Partial  int
	Wrong    int
	NoAnswer int
	Total    int
}

// AccuracyRate returns the fraction of exact or near-exact answers.
func (s BatchStats) AccuracyRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// AccuracyStats accumulates batch outcomes across training steps. Safe for
// concurrent use.
type AccuracyStats struct {
	mu          sync.Mutex
	correct     int
	partial     int
	wrong       int
	noAnswer    int
	formatOK    int
	formatTotal int
	total       int
}

// NewAccuracyStats returns an empty accumulator.
func NewAccuracyStats() *AccuracyStats {
	return &AccuracyStats{}
}

// RecordBatch folds a batch's outcomes into the running totals.
func (a *AccuracyStats) RecordBatch(s BatchStats) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.correct += s.Correct
	a.partial += s.Partial
	a.wrong += s.Wrong
	a.noAnswer += s.NoAnswer
	a.total += s.Total
}

// RecordFormat tracks format-compliance outcomes.
func (a *AccuracyStats) RecordFormat(ok, total int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.formatOK += ok
	a.formatTotal += total
}

// Summary reports the accumulated rates.
type Summary struct {
	TotalAttempts int
	CorrectRate   float64
	PartialRate   float64
	NoAnswerRate  float64
	FormatRate    float64
}

// Summary returns the current accumulated rates, or false when nothing has
// been recorded yet.
func (a *AccuracyStats) Summary() (Summary, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.total == 0 {
		return Summary{}, false
	}
	s := Summary{
		TotalAttempts: a.total,
		CorrectRate:   float64(a.correct) / float64(a.total),
		PartialRate:   float64(a.partial) / float64(a.total),
		NoAnswerRate:  float64(a.noAnswer) / float64(a.total),
	}
	if a.formatTotal > 0 {
		s.FormatRate = float64(a.formatOK) / float64(a.formatTotal)
	}
	return s, true
}

// logBatchStats emits the human-readable batch diagnostics the training
// operator watches. Diagnostic only; scores are computed before this runs.
func logBatchStats(ctx context.Context, family TaskFamily, s BatchStats) {
	if s.Total == 0 {
		return
	}
	logging.GetLogger().Info(logging.WithTaskFamily(ctx, string(family)),
		"batch stats: accuracy=%.1f%% correct=%d partial=%d wrong=%d no_answer=%d",
		s.AccuracyRate()*100, s.Correct, s.Partial, s.Wrong, s.NoAnswer)
}
