package rewards

import (
	"context"
	"strings"
	"unicode/utf8"
)

// commonParticles lists the particles a learner plausibly writes, in rough
// frequency order.
var commonParticles = []string{
	"が", "を", "に", "で", "へ", "と", "の", "は", "も", "から", "まで", "より",
	"や", "など", "ので", "のに", "ても", "でも", "ては", "には", "では", "へは",
}

// particleNeighbors groups particles that fill the same grammatical slot and
// are therefore a near-miss rather than a plain error. が/は is the classic
// subject-topic confusion.
var particleNeighbors = map[string][]string{
	"が":  {"は"},
	"は":  {"が"},
	"に":  {"へ", "で"},
	"へ":  {"に"},
	"で":  {"に"},
	"を":  {},
	"から": {"より"},
	"より": {"から"},
}

// particleUsage names the grammatical functions each particle can serve,
// used to judge whether an explanation matches the answer.
var particleUsage = map[string][]string{
	"が":  {"主語", "対象"},
	"を":  {"目的語", "対象", "動作の対象"},
	"に":  {"場所", "方向", "時間", "相手", "基準", "立場"},
	"で":  {"場所", "手段", "理由", "道具"},
	"へ":  {"方向", "目的地"},
	"と":  {"相手", "並列", "引用"},
	"の":  {"所有", "関係", "説明"},
	"は":  {"主題", "対比"},
	"も":  {"並列", "追加"},
	"から": {"起点", "理由", "材料"},
	"まで": {"終点", "範囲"},
	"より": {"比較", "起点"},
}

// Particle ladder constants. Only the ordering is contractual.
const (
	particleExact       = 2.0
	particleNeighbor    = 0.5
	particleKnownWrong  = -0.5
	particleNonParticle = -2.0
	particleMissing     = -3.0
)

// ParticleScorer scores particle-fill answers: single particles on the
// equivalence ladder, list answers position by position.
type ParticleScorer struct {
	matcher *FormatMatcher
	stats   *AccuracyStats
}

// NewParticleScorer builds a particle-fill scorer for a tag configuration.
func NewParticleScorer(tags Tags) *ParticleScorer {
	return &ParticleScorer{
		matcher: NewFormatMatcher(tags),
		stats:   NewAccuracyStats(),
	}
}

// Check scores extracted particle answers against references.
func (s *ParticleScorer) Check(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	refs := batch.References(s.matcher)
	scores := make([]float64, len(texts))
	var stats BatchStats
	stats.Total = len(texts)

	for i, text := range texts {
		guess, found := s.matcher.Extract(text)
		if !found {
			scores[i] = particleMissing
			stats.NoAnswer++
			continue
		}
		ref := refs[i]

		if isListAnswer(ref) {
			scores[i] = s.scoreParticleList(guess, ref)
		} else {
			scores[i] = s.scoreSingleParticle(guess, ref)
		}
		switch {
		case scores[i] >= particleExact:
			stats.Correct++
		case scores[i] > 0:
			stats.Partial++
		default:
			stats.Wrong++
		}
	}

	s.stats.RecordBatch(stats)
	logBatchStats(ctx, FamilyParticle, stats)
	return scores
}

func (s *ParticleScorer) scoreSingleParticle(guess, ref string) float64 {
	if guess == ref {
		return particleExact
	}
	if neighbors, ok := particleNeighbors[ref]; ok {
		for _, n := range neighbors {
			if guess == n {
				return particleNeighbor
			}
		}
	}
	for _, p := range commonParticles {
		if guess == p {
			return particleKnownWrong
		}
	}
	return particleNonParticle
}

// scoreParticleList compares multi-blank answers position by position and
// credits proportionally to the count of matching positions.
func (s *ParticleScorer) scoreParticleList(guess, ref string) float64 {
	want := splitListAnswer(ref)
	if len(want) == 0 {
		return particleNonParticle
	}

	var got []string
	if isListAnswer(guess) {
		got = splitListAnswer(guess)
	} else {
		for _, g := range strings.Split(guess, ",") {
			got = append(got, strings.TrimSpace(g))
		}
	}

	correct := 0
	for i := 0; i < len(got) && i < len(want); i++ {
		if got[i] == want[i] {
			correct++
		}
	}
	total := max(len(got), len(want))

	switch {
	case correct == total:
		return particleExact
	case correct > 0:
		return 1.0 * float64(correct) / float64(total)
	default:
		return -1.0
	}
}

// isListAnswer reports whether an answer string is a bracketed list of
// particles, as emitted for multi-blank tasks.
func isListAnswer(s string) bool {
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

// splitListAnswer parses a bracketed list like ["が", "を"] or [が, を].
func splitListAnswer(s string) []string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		items = append(items, p)
	}
	return items
}

// Quality inspects the reasoning span for grammar-term usage, particle
// mentions, a sane length band, and consistency with the extracted answer.
func (s *ParticleScorer) Quality(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	refs := batch.References(s.matcher)
	scores := make([]float64, len(texts))

	for i, text := range texts {
		reasoning, found := s.matcher.ExtractReasoning(text)
		if !found {
			scores[i] = -1.0
			continue
		}

		score := s.explanationScore(reasoning)
		if guess, ok := s.matcher.Extract(text); ok {
			score += s.consistencyScore(reasoning, guess, refs[i])
		}
		scores[i] = score
	}

	return scores
}

var (
	particleBasicTerms    = []string{"助詞", "主語", "目的語", "対象", "場所", "方向"}
	particleAdvancedTerms = []string{"主題", "対比", "並列", "手段", "起点", "終点", "理由", "条件", "逆接"}
	particleUsageWords    = []string{"表す", "使います", "示す", "表現", "意味"}
)

func (s *ParticleScorer) explanationScore(reasoning string) float64 {
	score := 0.0

	basic := countContained(reasoning, particleBasicTerms)
	switch {
	case basic >= 2:
		score += 0.3
	case basic >= 1:
		score += 0.1
	}
	if countContained(reasoning, particleAdvancedTerms) >= 1 {
		score += 0.2
	}

	mentions := 0
	for _, p := range commonParticles {
		if strings.Contains(reasoning, "「"+p+"」") || strings.Contains(reasoning, "'"+p+"'") {
			mentions++
		}
	}
	switch {
	case mentions >= 2:
		score += 0.2
	case mentions >= 1:
		score += 0.1
	}

	length := utf8.RuneCountInString(reasoning)
	switch {
	case length > 30 && length < 100:
		score += 0.2
	case length >= 100 && length < 200:
		score += 0.1
	case length >= 200:
		score -= 0.1
	case length <= 30:
		score -= 0.2
	}

	if containsAny(reasoning, particleUsageWords) {
		score += 0.1
	}

	return clampQuality(score, 1.0)
}

func (s *ParticleScorer) consistencyScore(reasoning, guess, ref string) float64 {
	if guess == ref {
		if usages, ok := particleUsage[ref]; ok {
			if containsAny(reasoning, usages) {
				return 0.5
			}
			return 0.2 // right answer, explanation misses the function
		}
		return 0.3
	}
	if strings.Contains(reasoning, guess) {
		return -0.2 // rationalizing a wrong answer
	}
	return 0
}

// StrictFormat is the shared four-marker order check.
func (s *ParticleScorer) StrictFormat(ctx context.Context, batch *Batch) []float64 {
	return strictFormatScores(s.matcher, batch)
}

// RewardFuncs returns the particle reward set in dispatch order.
func (s *ParticleScorer) RewardFuncs() []RewardFunc {
	return []RewardFunc{
		s.StrictFormat,
		s.Check,
		s.Quality,
	}
}
