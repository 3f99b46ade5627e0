package rewards

import (
	"context"

	"github.com/nihongo-dojo/dojo-go/pkg/errors"
)

// Suite bundles the reward functions for one task family, in the order a
// training loop applies them.
type Suite struct {
	Family TaskFamily
	Funcs  []RewardFunc
}

// NewSuite returns the reward suite for a task family. Unknown families are
// the one shape problem reported as an error rather than scored: a typo in a
// family name should stop the run, not silently score everything wrong.
func NewSuite(family TaskFamily, tags Tags) (*Suite, error) {
	var funcs []RewardFunc
	switch family {
	case FamilyParticle:
		funcs = NewParticleScorer(tags).RewardFuncs()
	case FamilyWordOrder:
		funcs = NewWordOrderScorer(tags).RewardFuncs()
	case FamilyKanji:
		funcs = NewKanjiScorer(tags).RewardFuncs()
	case FamilyCounter:
		funcs = NewCounterScorer(tags).RewardFuncs()
	case FamilyKeigo:
		funcs = NewKeigoScorer(tags).RewardFuncs()
	default:
		return nil, errors.WithFields(
			errors.New(errors.UnknownTaskType, "no reward suite for task family"),
			errors.Fields{"family": string(family)})
	}
	return &Suite{Family: family, Funcs: funcs}, nil
}

// Families lists the task families with a dedicated reward suite.
func Families() []TaskFamily {
	return []TaskFamily{
		FamilyParticle,
		FamilyWordOrder,
		FamilyKanji,
		FamilyCounter,
		FamilyKeigo,
	}
}

// Score applies every reward function of the suite to a batch and returns
// one score vector per function.
func (s *Suite) Score(ctx context.Context, batch *Batch) [][]float64 {
	all := make([][]float64, len(s.Funcs))
	for i, fn := range s.Funcs {
		all[i] = fn(ctx, batch)
	}
	return all
}

// Total sums the per-function vectors into one combined score per
// completion.
func (s *Suite) Total(ctx context.Context, batch *Batch) []float64 {
	return s.WeightedTotal(ctx, batch, Weights{Format: 1, Answer: 1, Quality: 1})
}

// Weights scales the reward function classes when a suite is summed into a
// scalar. Every suite puts the strict format check first, the answer check
// second, and quality or accuracy functions after.
type Weights struct {
	Format  float64
	Answer  float64
	Quality float64
}

// WeightedTotal sums the per-function vectors with per-class weights.
func (s *Suite) WeightedTotal(ctx context.Context, batch *Batch, w Weights) []float64 {
	totals := make([]float64, batch.Len())
	for fi, vec := range s.Score(ctx, batch) {
		weight := w.Quality
		switch fi {
		case 0:
			weight = w.Format
		case 1:
			weight = w.Answer
		}
		for i, v := range vec {
			if i < len(totals) {
				totals[i] += weight * v
			}
		}
	}
	return totals
}
