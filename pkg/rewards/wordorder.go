package rewards

import (
	"context"
	"strings"
	"unicode/utf8"
)

// verbEndings are the sentence-final inflections checked when comparing
// reconstructed sentences.
var verbEndings = []string{
	"ます", "ました", "ません", "ませんでした",
	"です", "でした", "ではありません", "ではありませんでした",
	"る", "た", "ない", "なかった",
	"だ", "だった", "ではない", "ではなかった",
}

// orderParticles are the particles whose preservation the word-order extra
// check inspects.
var orderParticles = []string{"は", "が", "を", "に", "で", "と", "から", "まで", "より", "も", "へ", "の"}

const wordOrderMissing = -3.0

// WordOrderScorer scores sentence-reconstruction answers by position
// accuracy, word-set overlap and sentence-final inflection.
type WordOrderScorer struct {
	matcher *FormatMatcher
	stats   *AccuracyStats
}

// NewWordOrderScorer builds a word-order scorer for a tag configuration.
func NewWordOrderScorer(tags Tags) *WordOrderScorer {
	return &WordOrderScorer{
		matcher: NewFormatMatcher(tags),
		stats:   NewAccuracyStats(),
	}
}

// Check scores reconstructed sentences against the reference ordering.
func (s *WordOrderScorer) Check(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	refs := batch.References(s.matcher)
	scores := make([]float64, len(texts))
	var stats BatchStats
	stats.Total = len(texts)

	for i, text := range texts {
		guess, found := s.matcher.Extract(text)
		if !found {
			scores[i] = wordOrderMissing
			stats.NoAnswer++
			continue
		}
		scores[i] = s.scoreOrder(guess, refs[i])
		switch {
		case scores[i] >= 2.0:
			stats.Correct++
		case scores[i] > 0:
			stats.Partial++
		default:
			stats.Wrong++
		}
	}

	s.stats.RecordBatch(stats)
	logBatchStats(ctx, FamilyWordOrder, stats)
	return scores
}

func (s *WordOrderScorer) scoreOrder(guess, ref string) float64 {
	if guess == ref {
		return 2.0
	}

	guessWords := strings.Fields(guess)
	refWords := strings.Fields(ref)

	// Same word count: grade by position accuracy with an inflection bonus.
	if len(guessWords) == len(refWords) && len(refWords) > 0 {
		correct := 0
		for i := range refWords {
			if guessWords[i] == refWords[i] {
				correct++
			}
		}
		positionScore := float64(correct) / float64(len(refWords))

		common := wordOverlap(guessWords, refWords)
		inclusionScore := float64(common) / float64(len(refWords))

		bonus := 0.0
		if guessWords[len(guessWords)-1] == refWords[len(refWords)-1] {
			bonus = 0.3 // sentence-final word matches
		} else if sharesVerbEnding(guess, ref) {
			bonus = 0.2 // same inflection, different word
		}

		switch {
		case positionScore == 1.0:
			return 2.0 // identical up to spacing
		case positionScore >= 0.8:
			return 1.5 + bonus
		case positionScore >= 0.6:
			return 1.0 + bonus
		case inclusionScore >= 0.8:
			return 0.5 + bonus
		default:
			return -0.5
		}
	}

	// Mismatched word counts: fall back to set overlap and similarity.
	common := wordOverlap(guessWords, refWords)
	if len(refWords) > 0 && float64(common) >= float64(len(refWords))*0.8 {
		return 0.3
	}
	if similarityRatio(guess, ref) >= 0.7 {
		return 0.1
	}
	return -1.0
}

func wordOverlap(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, w := range a {
		set[w] = struct{}{}
	}
	seen := make(map[string]struct{})
	n := 0
	for _, w := range b {
		if _, ok := set[w]; ok {
			if _, dup := seen[w]; !dup {
				seen[w] = struct{}{}
				n++
			}
		}
	}
	return n
}

func sharesVerbEnding(a, b string) bool {
	for _, ending := range verbEndings {
		if strings.HasSuffix(a, ending) && strings.HasSuffix(b, ending) {
			return true
		}
	}
	return false
}

var (
	wordOrderTerms = []string{
		"語順", "順番", "並び替え", "正しい順序", "文の構造",
		"主語", "述語", "目的語", "修飾語", "助詞",
	}
	wordOrderPatterns = []string{
		"〜てから", "〜ために", "〜けど", "〜ので", "〜について",
		"時間", "場所", "方向", "理由", "目的",
	}
)

// Quality inspects the reasoning span for word-order grammar terms and
// consistency with the extracted answer.
func (s *WordOrderScorer) Quality(ctx context.Context, batch *Batch) []float64 {
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

func (s *WordOrderScorer) explanationScore(reasoning string) float64 {
	score := 0.0

	orderCount := countContained(reasoning, wordOrderTerms)
	switch {
	case orderCount >= 3:
		score += 0.4
	case orderCount >= 2:
		score += 0.2
	case orderCount >= 1:
		score += 0.1
	}

	patternCount := countContained(reasoning, wordOrderPatterns)
	switch {
	case patternCount >= 2:
		score += 0.3
	case patternCount >= 1:
		score += 0.1
	}

	length := utf8.RuneCountInString(reasoning)
	switch {
	case length > 30 && length < 150:
		score += 0.2
	case length >= 150 && length < 250:
		score += 0.1
	case length >= 250:
		score -= 0.1
	case length <= 30:
		score -= 0.2
	}

	if strings.Contains(reasoning, "「") && strings.Contains(reasoning, "」") {
		score += 0.1 // quoted concrete examples
	}

	return clampQuality(score, 1.0)
}

func (s *WordOrderScorer) consistencyScore(reasoning, guess, ref string) float64 {
	score := 0.0
	if guess == ref {
		if strings.Contains(reasoning, "正しい語順") || strings.Contains(reasoning, "正しい順番") {
			score += 0.3
		}
		if containsAny(reasoning, []string{"主語", "述語", "目的語", "動詞"}) {
			score += 0.2
		}
		return score
	}

	if strings.Contains(reasoning, guess) {
		score -= 0.2 // rationalizing a wrong answer
	}
	guessWords := strings.Fields(guess)
	refWords := strings.Fields(ref)
	if len(refWords) > 0 && float64(wordOverlap(guessWords, refWords)) >= float64(len(refWords))*0.7 {
		score += 0.1 // words mostly right even though the order is not
	}
	return score
}

// ParticlePreservation checks that the particles of the reference sentence
// survive in the reconstruction, attached to the same preceding word.
func (s *WordOrderScorer) ParticlePreservation(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	refs := batch.References(s.matcher)
	scores := make([]float64, len(texts))

	for i, text := range texts {
		guess, found := s.matcher.Extract(text)
		if !found {
			scores[i] = -0.5
			continue
		}
		ref := refs[i]

		var expected []string
		for _, p := range orderParticles {
			if strings.Contains(ref, p) {
				expected = append(expected, p)
			}
		}
		var got []string
		for _, p := range orderParticles {
			if strings.Contains(guess, p) {
				got = append(got, p)
			}
		}

		score := 0.0
		overlap := wordOverlap(got, expected)
		switch {
		case len(expected) == len(got) && overlap == len(expected):
			score += 0.3
		case len(expected) > 0 && float64(overlap) >= float64(len(expected))*0.8:
			score += 0.1
		default:
			score -= 0.2
		}

		// Credit particles attached to the same preceding characters.
		for _, p := range expected {
			expIdx := strings.Index(ref, p)
			guessIdx := strings.Index(guess, p)
			if expIdx <= 0 || guessIdx <= 0 {
				continue
			}
			if lastRunes(ref[:expIdx], 2) == lastRunes(guess[:guessIdx], 2) {
				score += 0.1
			}
		}

		scores[i] = score
	}

	return scores
}

// lastRunes returns the final n runes of s.
func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// StrictFormat is the shared four-marker order check.
func (s *WordOrderScorer) StrictFormat(ctx context.Context, batch *Batch) []float64 {
	return strictFormatScores(s.matcher, batch)
}

// RewardFuncs returns the word-order reward set in dispatch order.
func (s *WordOrderScorer) RewardFuncs() []RewardFunc {
	return []RewardFunc{
		s.StrictFormat,
		s.Check,
		s.Quality,
		s.ParticlePreservation,
	}
}
