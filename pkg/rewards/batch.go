package rewards

import (
	"context"
	"fmt"
)

// TaskFamily identifies which scorer suite applies to a batch.
type TaskFamily string

const (
	FamilyParticle  TaskFamily = "particle_fill"
	FamilyWordOrder TaskFamily = "word_order"
	FamilyKanji     TaskFamily = "kanji"
	FamilyCounter   TaskFamily = "counter_word"
	FamilyKeigo     TaskFamily = "keigo_conversion"
)

// RewardFunc scores a batch of completions, returning one score per
// completion. Implementations never return an error for data-shape
// problems: malformed content is scored, not raised.
type RewardFunc func(ctx context.Context, batch *Batch) []float64

// Message is one chat turn of a structured completion or prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Batch is one scoring request: a group of completions for the same step
// with their prompts and reference answers. Completions and prompts are
// any-typed because training loops hand them over in several shapes; they
// are coerced to plain text once, up front. A Batch is never mutated by
// scorers.
type Batch struct {
	Prompts       []interface{}
	CompletionIDs []string
	Answers       []string

	// Question carries the legacy single-question calling convention.
	Question string

	completions []interface{}
	texts       []string // coerced completion texts, same length as completions
}

// NewBatch builds a batch in the prompts/completions/answer convention.
func NewBatch(prompts, completions []interface{}, answers []string) *Batch {
	b := &Batch{
		Prompts:     prompts,
		Answers:     answers,
		completions: completions,
	}
	b.coerce()
	return b
}

// LegacyBatch builds a batch in the question/answer/responses convention
// used by older training-loop integrations.
func LegacyBatch(question string, answers []string, responses []string) *Batch {
	completions := make([]interface{}, len(responses))
	for i, r := range responses {
		completions[i] = r
	}
	b := &Batch{
		Question:    question,
		Answers:     answers,
		completions: completions,
	}
	b.coerce()
	return b
}

func (b *Batch) coerce() {
	b.texts = make([]string, len(b.completions))
	for i, c := range b.completions {
		b.texts[i] = CoerceText(c)
	}
}

// Texts returns the completions as plain strings.
func (b *Batch) Texts() []string { return b.texts }

// Len returns the number of completions in the batch.
func (b *Batch) Len() int { return len(b.texts) }

// References returns one unwrapped reference answer per completion. A single
// reference is broadcast across the whole batch; missing references become
// empty strings. This is a documented convenience for group-style training
// loops that share one reference across sampled completions, not silent
// truncation.
func (b *Batch) References(m *FormatMatcher) []string {
	refs := make([]string, b.Len())
	switch {
	case len(b.Answers) == 1:
		for i := range refs {
			refs[i] = m.Unwrap(b.Answers[0])
		}
	default:
		for i := range refs {
			if i < len(b.Answers) {
				refs[i] = m.Unwrap(b.Answers[i])
			}
		}
	}
	return refs
}

// QuestionAt returns the question text for completion i: the final message
// of the matching prompt, or the legacy shared question.
func (b *Batch) QuestionAt(i int) string {
	if i < len(b.Prompts) {
		return promptText(b.Prompts[i])
	}
	return b.Question
}

// CoerceText flattens the supported completion representations to plain
// text. Unsupported shapes coerce to the empty string and are scored as a
// format violation downstream rather than propagated as an error.
func CoerceText(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case Message:
		return c.Content
	case []Message:
		if len(c) == 0 {
			return ""
		}
		return c[0].Content
	case map[string]interface{}:
		if content, ok := c["content"].(string); ok {
			return content
		}
		return ""
	case []interface{}:
		if len(c) == 0 {
			return ""
		}
		return CoerceText(c[0])
	case fmt.Stringer:
		return c.String()
	default:
		return ""
	}
}

// promptText resolves a prompt to its question text: for message lists the
// last message wins (the user turn in chat format).
func promptText(v interface{}) string {
	switch p := v.(type) {
	case string:
		return p
	case []Message:
		if len(p) == 0 {
			return ""
		}
		return p[len(p)-1].Content
	case []interface{}:
		if len(p) == 0 {
			return ""
		}
		return CoerceText(p[len(p)-1])
	default:
		return CoerceText(v)
	}
}
