package rewards

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nihongo-dojo/dojo-go/pkg/logging"
)

// TaskRewards provides the task-agnostic reward functions shared by every
// family: format compliance and a generic answer/reasoning check. Families
// with their own equivalence tables use the dedicated scorers instead of
// CheckAnswer.
type TaskRewards struct {
	matcher *FormatMatcher
	stats   *AccuracyStats
}

// NewTaskRewards builds the generic reward set for a tag configuration.
func NewTaskRewards(tags Tags) *TaskRewards {
	return &TaskRewards{
		matcher: NewFormatMatcher(tags),
		stats:   NewAccuracyStats(),
	}
}

// Stats exposes the running accuracy accumulator.
func (t *TaskRewards) Stats() *AccuracyStats { return t.stats }

// Matcher exposes the underlying format matcher.
func (t *TaskRewards) Matcher() *FormatMatcher { return t.matcher }

// MatchFormatExactly awards +1 for a full structural match and -1 otherwise.
func (t *TaskRewards) MatchFormatExactly(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	scores := make([]float64, len(texts))
	ok := 0
	for i, text := range texts {
		scores[i] = t.matcher.ExactScore(text)
		if scores[i] > 0 {
			ok++
		}
	}
	t.stats.RecordFormat(ok, len(texts))
	if len(texts) > 0 {
		logging.GetLogger().Info(ctx, "format compliance: %.1f%%", float64(ok)/float64(len(texts))*100)
	}
	return scores
}

// MatchFormatApproximately awards partial credit per marker present exactly
// once.
func (t *TaskRewards) MatchFormatApproximately(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	scores := make([]float64, len(texts))
	for i, text := range texts {
		scores[i] = t.matcher.ApproxScore(text)
	}
	return scores
}

// Generic answer ladder constants.
const (
	genericExact       = 3.0
	genericSpaceless   = 2.5
	genericPunctless   = 2.0
	genericWrongChar   = -1.5
	genericWrong       = -1.5
	genericMissing     = -2.0
	genericContainBase = 1.0
)

// CheckAnswer compares extracted answers to references on the generic
// ladder: exact, space-insensitive, punctuation-insensitive, containment
// with a length-ratio weight, then wrong. Missing answer spans take the
// largest penalty regardless of the reference.
func (t *TaskRewards) CheckAnswer(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	refs := batch.References(t.matcher)
	scores := make([]float64, len(texts))
	var stats BatchStats
	stats.Total = len(texts)

	for i, text := range texts {
		guess, found := t.matcher.Extract(text)
		if !found {
			scores[i] = genericMissing
			stats.NoAnswer++
			continue
		}
		ref := refs[i]

		switch {
		case guess == ref:
			scores[i] = genericExact
			stats.Correct++
		case StripSpaces(guess) == StripSpaces(ref):
			scores[i] = genericSpaceless
			stats.Correct++
		case StripPunct(guess) == StripPunct(ref):
			scores[i] = genericPunctless
			stats.Partial++
		case utf8.RuneCountInString(guess) == 1 && utf8.RuneCountInString(ref) == 1:
			// Single glyph answers (one kanji) have no partial overlap to credit.
			scores[i] = genericWrongChar
			stats.Wrong++
		case strings.Contains(guess, ref) || strings.Contains(ref, guess):
			gl, rl := utf8.RuneCountInString(guess), utf8.RuneCountInString(ref)
			ratio := float64(min(gl, rl)) / float64(max(gl, rl))
			scores[i] = genericContainBase * ratio
			stats.Partial++
		default:
			scores[i] = genericWrong
			stats.Wrong++
		}
	}

	t.stats.RecordBatch(stats)
	logBatchStats(ctx, "", stats)
	return scores
}

var latinRun = regexp.MustCompile(`[a-zA-Z]+`)

// genericKeywords are the study-note terms a good explanation mentions.
var genericKeywords = []string{"年生", "習う", "意味", "読み", "書き", "漢字", "音読み", "訓読み"}

// CheckReasoningQuality inspects the reasoning span for domain keywords, an
// appropriate length band and an English gloss.
func (t *TaskRewards) CheckReasoningQuality(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	scores := make([]float64, len(texts))

	for i, text := range texts {
		reasoning, found := t.matcher.ExtractReasoning(text)
		if !found {
			scores[i] = -0.5
			continue
		}

		score := 0.0
		hits := countContained(reasoning, genericKeywords)
		switch {
		case hits >= 3:
			score += 0.5
		case hits >= 1:
			score += 0.2
		}

		length := utf8.RuneCountInString(reasoning)
		switch {
		case length > 20 && length < 100:
			score += 0.3
		case length >= 100 && length < 200:
			score += 0.1
		case length >= 200:
			score -= 0.2
		}

		if latinRun.MatchString(reasoning) {
			score += 0.1 // an English gloss is a bonus
		}

		scores[i] = score
	}

	return scores
}

// RewardFuncs returns the generic reward set in dispatch order.
func (t *TaskRewards) RewardFuncs() []RewardFunc {
	return []RewardFunc{
		t.MatchFormatExactly,
		t.MatchFormatApproximately,
		t.CheckAnswer,
		t.CheckReasoningQuality,
	}
}
