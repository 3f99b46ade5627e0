package rewards

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAnswerLadder(t *testing.T) {
	r := NewTaskRewards(DefaultTags())
	ctx := context.Background()

	tests := []struct {
		name       string
		completion string
		answer     string
		want       float64
	}{
		{"exact", wrap("x", "東京"), "東京", genericExact},
		{"space insensitive", wrap("x", "東 京"), "東京", genericSpaceless},
		{"punct insensitive", wrap("x", "は、い"), "はい", genericPunctless},
		{"single glyph wrong", wrap("x", "木"), "本", genericWrongChar},
		{"wrong", wrap("x", "大阪"), "東京", genericWrong},
		{"no answer block", "<reasoning>考え中</reasoning>", "東京", genericMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := r.CheckAnswer(ctx, batchOf(tt.answer, tt.completion))
			require.Len(t, scores, 1)
			assert.Equal(t, tt.want, scores[0])
		})
	}
}

func TestCheckAnswerContainment(t *testing.T) {
	r := NewTaskRewards(DefaultTags())
	scores := r.CheckAnswer(context.Background(), batchOf("東京", wrap("x", "東京です")))
	require.Len(t, scores, 1)
	assert.InDelta(t, 0.5, scores[0], 1e-9, "2 of 4 runes shared")
}

// An absent answer span scores below every content mismatch.
func TestMissingAnswerIsFloor(t *testing.T) {
	assert.Less(t, genericMissing, genericWrong)
	assert.Less(t, genericMissing, genericWrongChar)
}

func TestMatchFormatExactly(t *testing.T) {
	r := NewTaskRewards(DefaultTags())
	b := batchOf("が", wrap("x", "が"), "no tags here")

	scores := r.MatchFormatExactly(context.Background(), b)
	assert.Equal(t, []float64{1.0, -1.0}, scores)

	summary, ok := r.Stats().Summary()
	if ok {
		assert.InDelta(t, 0.5, summary.FormatRate, 1e-9)
	}
}

func TestCheckReasoningQuality(t *testing.T) {
	r := NewTaskRewards(DefaultTags())
	ctx := context.Background()

	good := wrap("この漢字は小学一年生で習う漢字で、音読みは「ニチ」、訓読みは「ひ」です。", "日")
	bare := wrap("だから", "日")
	missing := "<answer>日</answer>"

	scores := r.CheckReasoningQuality(ctx, batchOf("日", good, bare, missing))
	require.Len(t, scores, 3)
	assert.Greater(t, scores[0], scores[1], "keyword-rich reasoning scores higher")
	assert.Equal(t, -0.5, scores[2])
}
