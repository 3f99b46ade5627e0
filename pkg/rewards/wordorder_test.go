package rewards

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordOrderCheck(t *testing.T) {
	s := NewWordOrderScorer(DefaultTags())
	ctx := context.Background()
	ref := "私 は 学校 に 行きます"

	tests := []struct {
		name       string
		completion string
		want       float64
	}{
		{"exact", wrap("x", ref), 2.0},
		{"one slot wrong, ending kept", wrap("x", "私 は 学校 で 行きます"), 1.8},
		{"three of five", wrap("x", "私 は 行きます に 学校"), 1.0},
		{"right words wrong order", wrap("x", "学校 に 私 は 行きます"), 0.8},
		{"extra word", wrap("x", "私 は 今日 学校 に 行きます"), 0.3},
		{"unrelated", wrap("x", "犬 が 好き です よ"), -0.5},
		{"no answer block", "<reasoning>x</reasoning>", wordOrderMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := s.Check(ctx, batchOf(ref, tt.completion))
			require.Len(t, scores, 1)
			assert.InDelta(t, tt.want, scores[0], 1e-9)
		})
	}
}

func TestWordOrderMismatchedCounts(t *testing.T) {
	s := NewWordOrderScorer(DefaultTags())
	ctx := context.Background()

	// Fewer words but high character similarity.
	scores := s.Check(ctx, batchOf("私 は 学校 に 行きます", wrap("x", "私は 学校に 行きます")))
	require.Len(t, scores, 1)
	assert.InDelta(t, 0.1, scores[0], 1e-9)

	// Nothing in common.
	scores = s.Check(ctx, batchOf("私 は 学校 に 行きます", wrap("x", "全然違う文")))
	assert.InDelta(t, -1.0, scores[0], 1e-9)
}

func TestSharesVerbEnding(t *testing.T) {
	assert.True(t, sharesVerbEnding("学校に行きます", "家に帰ります"))
	assert.True(t, sharesVerbEnding("静かだった", "元気だった"))
	assert.False(t, sharesVerbEnding("行きます", "行った"))
}

func TestWordOverlap(t *testing.T) {
	a := []string{"私", "は", "学校"}
	b := []string{"学校", "私", "犬"}
	assert.Equal(t, 2, wordOverlap(a, b))
	assert.Equal(t, 0, wordOverlap(nil, b))
}

func TestParticlePreservation(t *testing.T) {
	s := NewWordOrderScorer(DefaultTags())
	ctx := context.Background()
	ref := "私は学校に行きます"

	keeps := s.ParticlePreservation(ctx, batchOf(ref, wrap("x", "私は学校に行きます")))
	drops := s.ParticlePreservation(ctx, batchOf(ref, wrap("x", "私が学校を行きます")))
	require.Len(t, keeps, 1)
	require.Len(t, drops, 1)
	assert.Greater(t, keeps[0], drops[0])

	missing := s.ParticlePreservation(ctx, batchOf(ref, "no structure"))
	assert.Equal(t, -0.5, missing[0])
}

func TestWordOrderQuality(t *testing.T) {
	s := NewWordOrderScorer(DefaultTags())
	ctx := context.Background()
	ref := "私 は 学校 に 行きます"

	good := wrap("日本語の語順では主語が先頭に来て、述語は文末に置きます。「私 は 学校 に 行きます」が正しい語順です。", ref)
	weak := wrap("たぶんこれ", ref)

	scores := s.Quality(ctx, batchOf(ref, good, weak))
	require.Len(t, scores, 2)
	assert.Greater(t, scores[0], scores[1])
}
