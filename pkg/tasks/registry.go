package tasks

import (
	"math/rand"

	"github.com/nihongo-dojo/dojo-go/pkg/errors"
)

// DifficultyWeights is the sampling distribution over level bands.
type DifficultyWeights map[Difficulty]float64

// DefaultDifficultyWeights mirrors the distribution the curriculum trains
// with: mostly beginner and intermediate, a tail of advanced items.
func DefaultDifficultyWeights() DifficultyWeights {
	return DifficultyWeights{
		Beginner:     0.4,
		Intermediate: 0.4,
		Advanced:     0.2,
	}
}

// Registry holds one generator per task type plus the difficulty sampler.
type Registry struct {
	generators map[Type]Generator
	weights    DifficultyWeights
	rng        *rand.Rand
}

// NewRegistry builds a registry with every generator seeded deterministically
// from the given seed. Generators get distinct derived seeds so their streams
// do not mirror each other.
func NewRegistry(seed int64, weights DifficultyWeights) *Registry {
	if len(weights) == 0 {
		weights = DefaultDifficultyWeights()
	}
	r := &Registry{
		generators: make(map[Type]Generator),
		weights:    weights,
		rng:        rand.New(rand.NewSource(seed)),
	}
	for _, g := range []Generator{
		NewKanjiReadingGenerator(seed + 1),
		NewKanjiWritingGenerator(seed + 2),
		NewParticleFillGenerator(seed + 3),
		NewWordOrderGenerator(seed + 4),
		NewKeigoConversionGenerator(seed + 5),
		NewCounterWordGenerator(seed + 6),
	} {
		r.generators[g.Type()] = g
	}
	return r
}

// Generate produces one task of the given type. An empty difficulty samples
// one from the configured distribution.
func (r *Registry) Generate(taskType Type, difficulty Difficulty) (*Task, error) {
	g, ok := r.generators[taskType]
	if !ok {
		return nil, errors.WithFields(
			errors.New(errors.UnknownTaskType, "no generator for task type"),
			errors.Fields{"type": string(taskType)})
	}
	if difficulty == "" {
		difficulty = r.SampleDifficulty()
	}
	return g.Generate(difficulty), nil
}

// SampleDifficulty draws a level band from the configured weights.
func (r *Registry) SampleDifficulty() Difficulty {
	total := 0.0
	for _, d := range Difficulties() {
		total += r.weights[d]
	}
	if total == 0 {
		return Beginner
	}
	x := r.rng.Float64() * total
	for _, d := range Difficulties() {
		x -= r.weights[d]
		if x < 0 {
			return d
		}
	}
	return Advanced
}

// SampleType draws a task type uniformly from the given set, or from every
// registered type when the set is empty.
func (r *Registry) SampleType(allowed []Type) Type {
	if len(allowed) == 0 {
		allowed = Types()
	}
	return allowed[r.rng.Intn(len(allowed))]
}
