package rewards

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

// counterCategories groups counters by what they count. A wrong counter in
// the right category is a near-miss.
var counterCategories = map[string][]string{
	"animals_small": {"匹"},
	"animals_large": {"頭"},
	"birds":         {"羽"},
	"people":        {"人", "名"},
	"flat_objects":  {"枚"},
	"bound_objects": {"冊", "巻"},
	"long_objects":  {"本"},
	"vehicles":      {"台"},
	"small_objects": {"個", "つ"},
	"buildings":     {"軒", "棟", "戸"},
	"floors":        {"階"},
	"letters":       {"通"},
	"pairs":         {"足", "対"},
	"sets":          {"組", "セット"},
	"times":         {"回", "度"},
	"order":         {"番", "位"},
}

// relatedCategories are category clusters close enough that confusing them is
// less wrong than picking an unrelated counter.
var relatedCategories = [][]string{
	{"animals_small", "animals_large", "birds"},
	{"flat_objects", "letters"},
	{"small_objects", "vehicles"},
	{"times", "order"},
}

// Counter ladder constants. Only the ordering is contractual.
const (
	counterExact          = 2.0
	counterSameCategory   = 0.2
	counterRelated        = -0.5
	counterUnrelated      = -1.0
	counterWrongShape     = -1.5
	counterNumberMismatch = -2.0
	counterMissing        = -3.0
)

// numberCounterSplit separates the numeral prefix (Arabic, fullwidth or
// kanji) from the counter suffix.
var numberCounterSplit = regexp.MustCompile(`^([0-9０-９一二三四五六七八九十百千万]+)(.+)$`)

// CounterScorer scores counter-word answers, splitting the numeral from the
// counter and grading the counter by category proximity. A wrong numeral
// means the quantity itself is wrong and outranks any counter confusion.
type CounterScorer struct {
	matcher *FormatMatcher
	stats   *AccuracyStats
}

// NewCounterScorer builds a counter-word scorer for a tag configuration.
func NewCounterScorer(tags Tags) *CounterScorer {
	return &CounterScorer{
		matcher: NewFormatMatcher(tags),
		stats:   NewAccuracyStats(),
	}
}

// Check scores extracted counter answers against references.
func (s *CounterScorer) Check(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	refs := batch.References(s.matcher)
	scores := make([]float64, len(texts))
	var stats BatchStats
	stats.Total = len(texts)

	for i, text := range texts {
		guess, found := s.matcher.Extract(text)
		if !found {
			scores[i] = counterMissing
			stats.NoAnswer++
			continue
		}
		scores[i] = s.scoreCounter(guess, refs[i])
		switch {
		case scores[i] >= counterExact:
			stats.Correct++
		case scores[i] > 0:
			stats.Partial++
		default:
			stats.Wrong++
		}
	}

	s.stats.RecordBatch(stats)
	logBatchStats(ctx, FamilyCounter, stats)
	return scores
}

func (s *CounterScorer) scoreCounter(guess, ref string) float64 {
	if guess == ref {
		return counterExact
	}

	guessMatch := numberCounterSplit.FindStringSubmatch(guess)
	refMatch := numberCounterSplit.FindStringSubmatch(ref)
	if guessMatch == nil || refMatch == nil {
		return counterWrongShape
	}

	guessNum, guessCounter := NormalizeNumber(guessMatch[1]), guessMatch[2]
	refNum, refCounter := NormalizeNumber(refMatch[1]), refMatch[2]

	if guessNum != refNum {
		return counterNumberMismatch
	}
	if guessCounter == refCounter {
		return counterExact
	}

	guessCat := counterCategory(guessCounter)
	refCat := counterCategory(refCounter)
	switch {
	case guessCat == "" || refCat == "":
		return counterUnrelated
	case guessCat == refCat:
		return counterSameCategory
	case categoriesRelated(guessCat, refCat):
		return counterRelated
	default:
		return counterUnrelated
	}
}

// counterCategory returns the category name a counter belongs to, or "".
func counterCategory(counter string) string {
	for category, counters := range counterCategories {
		for _, c := range counters {
			if counter == c {
				return category
			}
		}
	}
	return ""
}

func categoriesRelated(a, b string) bool {
	for _, group := range relatedCategories {
		if contains(group, a) && contains(group, b) {
			return true
		}
	}
	return false
}

var (
	counterTerms = []string{
		"助数詞", "数え方", "カウンター", "数える",
		"動物", "平たい", "細長い", "薄い", "本", "台", "匹", "頭",
	}
	counterReasons = []string{
		"なので", "だから", "のため", "ので", "から",
	}
)

// Quality inspects the reasoning span for counter vocabulary, causal
// phrasing, a sane length band, and consistency with the extracted answer.
func (s *CounterScorer) Quality(ctx context.Context, batch *Batch) []float64 {
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

func (s *CounterScorer) explanationScore(reasoning string) float64 {
	score := 0.0

	terms := countContained(reasoning, counterTerms)
	switch {
	case terms >= 3:
		score += 0.4
	case terms >= 2:
		score += 0.2
	case terms >= 1:
		score += 0.1
	}

	if containsAny(reasoning, counterReasons) {
		score += 0.2 // explains why the counter applies
	}

	length := utf8.RuneCountInString(reasoning)
	switch {
	case length > 20 && length < 120:
		score += 0.2
	case length >= 120 && length < 200:
		score += 0.1
	case length >= 200:
		score -= 0.1
	case length <= 20:
		score -= 0.2
	}

	return clampQuality(score, 1.0)
}

func (s *CounterScorer) consistencyScore(reasoning, guess, ref string) float64 {
	score := 0.0
	if guess == ref {
		refMatch := numberCounterSplit.FindStringSubmatch(ref)
		if refMatch != nil && strings.Contains(reasoning, refMatch[2]) {
			score += 0.3 // names the counter it chose
		}
		return score
	}
	if strings.Contains(reasoning, guess) {
		score -= 0.2 // rationalizing a wrong answer
	}
	return score
}

// NumberAccuracy isolates the numeral comparison: completions whose numeral
// matches the reference after normalization earn a bonus even when the
// counter is wrong, and a mismatched numeral costs extra.
func (s *CounterScorer) NumberAccuracy(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	refs := batch.References(s.matcher)
	scores := make([]float64, len(texts))

	for i, text := range texts {
		guess, found := s.matcher.Extract(text)
		if !found {
			continue
		}
		guessMatch := numberCounterSplit.FindStringSubmatch(guess)
		refMatch := numberCounterSplit.FindStringSubmatch(refs[i])
		if guessMatch == nil || refMatch == nil {
			continue
		}
		if NormalizeNumber(guessMatch[1]) == NormalizeNumber(refMatch[1]) {
			scores[i] = 0.3
		} else {
			scores[i] = -0.5
		}
	}

	return scores
}

// StrictFormat is the shared four-marker order check.
func (s *CounterScorer) StrictFormat(ctx context.Context, batch *Batch) []float64 {
	return strictFormatScores(s.matcher, batch)
}

// RewardFuncs returns the counter reward set in dispatch order.
func (s *CounterScorer) RewardFuncs() []RewardFunc {
	return []RewardFunc{
		s.StrictFormat,
		s.Check,
		s.Quality,
		s.NumberAccuracy,
	}
}
