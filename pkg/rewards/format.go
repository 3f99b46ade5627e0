package rewards

import (
	"regexp"
	"strings"
)

// Tags holds the four markers delimiting the reasoning and answer blocks of
// a completion, plus an optional end-of-sequence token tolerated after the
// answer-close marker.
type Tags struct {
	ReasoningStart string
	ReasoningEnd   string
	AnswerStart    string
	AnswerEnd      string
	EOSToken       string
}

// DefaultTags returns the tag set completions are trained to emit.
func DefaultTags() Tags {
	return Tags{
		ReasoningStart: "<reasoning>",
		ReasoningEnd:   "</reasoning>",
		AnswerStart:    "<answer>",
		AnswerEnd:      "</answer>",
	}
}

// FormatMatcher locates the reasoning and answer blocks in free text and
// extracts the answer span. All per-family scorers share one matcher.
type FormatMatcher struct {
	tags      Tags
	full      *regexp.Regexp // reasoning-close .. answer block .. end of text
	answer    *regexp.Regexp // answer block anywhere, for unwrapping references
	reasoning *regexp.Regexp
}

// NewFormatMatcher compiles the match patterns for a tag set.
func NewFormatMatcher(tags Tags) *FormatMatcher {
	end := regexp.QuoteMeta(tags.AnswerEnd) + `\s*`
	if tags.EOSToken != "" {
		end += "(?:" + regexp.QuoteMeta(tags.EOSToken) + ")?"
	}

	full := regexp.MustCompile(
		"(?s)" + regexp.QuoteMeta(tags.ReasoningEnd) + ".*?" +
			regexp.QuoteMeta(tags.AnswerStart) + "(.+?)" + end + `\s*$`)

	answer := regexp.MustCompile(
		"(?s)" + regexp.QuoteMeta(tags.AnswerStart) + "(.+?)" + regexp.QuoteMeta(tags.AnswerEnd))

	reasoning := regexp.MustCompile(
		"(?s)" + regexp.QuoteMeta(tags.ReasoningStart) + "(.*?)" + regexp.QuoteMeta(tags.ReasoningEnd))

	return &FormatMatcher{tags: tags, full: full, answer: answer, reasoning: reasoning}
}

// Tags returns the configured tag set.
func (m *FormatMatcher) Tags() Tags { return m.tags }

// Extract returns the trimmed answer span of a completion. The structure
// must be complete: reasoning-close marker, then the answer block, then
// nothing but whitespace (and the EOS token, if configured) to the end of
// the text. Absence is an outcome, not an error.
func (m *FormatMatcher) Extract(text string) (string, bool) {
	match := m.full.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}

// ExtractReasoning returns the trimmed reasoning span, if present.
func (m *FormatMatcher) ExtractReasoning(text string) (string, bool) {
	match := m.reasoning.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}

// Unwrap extracts the bare answer from a reference that may arrive as a
// full tagged solution. Bare references pass through unchanged.
func (m *FormatMatcher) Unwrap(reference string) string {
	if !strings.Contains(reference, m.tags.AnswerStart) {
		return strings.TrimSpace(reference)
	}
	match := m.answer.FindStringSubmatch(reference)
	if match == nil {
		return strings.TrimSpace(reference)
	}
	return strings.TrimSpace(match[1])
}

// Strict-format scoring constants. The magnitudes are tuned reward-shaping
// values; only their ordering is contractual.
const (
	strictFormatOK        = 0.5
	strictFormatDisorder  = -1.0
	strictFormatPerAbsent = -0.5
)

// StrictScore checks that all four markers are present in order. A complete,
// ordered structure earns a small credit; a disordered one a penalty; each
// absent marker its own penalty.
func (m *FormatMatcher) StrictScore(text string) float64 {
	idxRS := strings.Index(text, m.tags.ReasoningStart)
	idxRE := strings.Index(text, m.tags.ReasoningEnd)
	idxAS := strings.Index(text, m.tags.AnswerStart)
	idxAE := strings.Index(text, m.tags.AnswerEnd)

	if idxRS >= 0 && idxRE >= 0 && idxAS >= 0 && idxAE >= 0 {
		if idxRS < idxRE && idxRE < idxAS && idxAS < idxAE {
			return strictFormatOK
		}
		return strictFormatDisorder
	}

	missing := 0
	for _, idx := range []int{idxRS, idxRE, idxAS, idxAE} {
		if idx < 0 {
			missing++
		}
	}
	return strictFormatPerAbsent * float64(missing)
}

// ExactScore awards +1 when the full structural match succeeds and -1
// otherwise.
func (m *FormatMatcher) ExactScore(text string) float64 {
	if m.full.MatchString(text) {
		return 1.0
	}
	return -1.0
}

// strictFormatScores applies StrictScore across a batch. All family scorers
// share this one implementation.
func strictFormatScores(m *FormatMatcher, batch *Batch) []float64 {
	texts := batch.Texts()
	scores := make([]float64, len(texts))
	for i, text := range texts {
		scores[i] = m.StrictScore(text)
	}
	return scores
}

// ApproxScore counts occurrences of the reasoning-close, answer-open and
// answer-close markers independently: exactly one occurrence earns a
// per-marker credit, zero or several a per-marker penalty. The
// reasoning-open marker is deliberately not counted, matching the exact
// matcher which anchors on the reasoning-close.
func (m *FormatMatcher) ApproxScore(text string) float64 {
	score := 0.0
	for _, marker := range []string{m.tags.ReasoningEnd, m.tags.AnswerStart, m.tags.AnswerEnd} {
		if strings.Count(text, marker) == 1 {
			score += 0.25
		} else {
			score -= 0.5
		}
	}
	return score
}
