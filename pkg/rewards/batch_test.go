package rewards

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceText(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"string", "plain", "plain"},
		{"message", Message{Role: "assistant", Content: "hello"}, "hello"},
		{"message list", []Message{{Content: "first"}, {Content: "second"}}, "first"},
		{"content map", map[string]interface{}{"content": "mapped"}, "mapped"},
		{"map without content", map[string]interface{}{"text": "x"}, ""},
		{"any list", []interface{}{map[string]interface{}{"content": "nested"}}, "nested"},
		{"nil", nil, ""},
		{"unsupported", 42, ""},
		{"empty list", []interface{}{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceText(tt.in))
		})
	}
}

func TestReferencesBroadcast(t *testing.T) {
	m := NewFormatMatcher(DefaultTags())

	single := batchOf("が", wrap("x", "が"), wrap("x", "は"), wrap("x", "を"))
	repeated := NewBatch(nil,
		[]interface{}{wrap("x", "が"), wrap("x", "は"), wrap("x", "を")},
		[]string{"が", "が", "が"})

	assert.Equal(t, repeated.References(m), single.References(m))

	// The scorer sees both shapes identically.
	scorer := NewParticleScorer(DefaultTags())
	ctx := context.Background()
	assert.Equal(t, scorer.Check(ctx, repeated), scorer.Check(ctx, single))
}

func TestReferencesMissingAreEmpty(t *testing.T) {
	m := NewFormatMatcher(DefaultTags())
	b := NewBatch(nil,
		[]interface{}{wrap("x", "が"), wrap("x", "は"), wrap("x", "を")},
		[]string{"が", "は"})

	refs := b.References(m)
	require.Len(t, refs, 3)
	assert.Equal(t, "", refs[2])
}

func TestReferencesUnwrapped(t *testing.T) {
	m := NewFormatMatcher(DefaultTags())
	b := batchOf(wrap("解説", "が"), wrap("x", "が"))
	assert.Equal(t, []string{"が"}, b.References(m))
}

func TestLegacyBatch(t *testing.T) {
	b := LegacyBatch("「___」を埋めてください", []string{"が"},
		[]string{wrap("x", "が"), wrap("x", "は")})

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, "「___」を埋めてください", b.QuestionAt(0))
	assert.Equal(t, "「___」を埋めてください", b.QuestionAt(1))
}

func TestQuestionAtFromPrompts(t *testing.T) {
	prompts := []interface{}{
		[]Message{{Role: "system", Content: "指示"}, {Role: "user", Content: "質問1"}},
		"質問2",
	}
	b := NewBatch(prompts, []interface{}{wrap("x", "が"), wrap("x", "は")}, []string{"が"})

	assert.Equal(t, "質問1", b.QuestionAt(0))
	assert.Equal(t, "質問2", b.QuestionAt(1))
}

// Malformed completion shapes score as format violations, never panic.
func TestMalformedCompletionsScored(t *testing.T) {
	b := NewBatch(nil, []interface{}{nil, 3.14, struct{}{}}, []string{"が"})
	scorer := NewParticleScorer(DefaultTags())

	scores := scorer.Check(context.Background(), b)
	require.Len(t, scores, 3)
	for _, s := range scores {
		assert.Equal(t, particleMissing, s)
	}
}
