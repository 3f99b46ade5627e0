package rewards

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticleCheckLadder(t *testing.T) {
	s := NewParticleScorer(DefaultTags())
	ctx := context.Background()

	tests := []struct {
		name       string
		completion string
		answer     string
		want       float64
	}{
		{"exact", wrap("主語を表す", "が"), "が", particleExact},
		{"topic-subject neighbor", wrap("x", "は"), "が", particleNeighbor},
		{"direction neighbor", wrap("x", "へ"), "に", particleNeighbor},
		{"known particle wrong", wrap("x", "で"), "が", particleKnownWrong},
		{"not a particle", wrap("x", "犬"), "が", particleNonParticle},
		{"no answer block", "<reasoning>うーん</reasoning>", "が", particleMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := s.Check(ctx, batchOf(tt.answer, tt.completion))
			require.Len(t, scores, 1)
			assert.Equal(t, tt.want, scores[0])
		})
	}
}

// The equivalence ladder is strictly ordered, and a missing answer sits at
// the bottom.
func TestParticleLadderOrdering(t *testing.T) {
	assert.Greater(t, particleExact, particleNeighbor)
	assert.Greater(t, particleNeighbor, particleKnownWrong)
	assert.Greater(t, particleKnownWrong, particleNonParticle)
	assert.Greater(t, particleNonParticle, particleMissing)
}

func TestParticleListAnswers(t *testing.T) {
	s := NewParticleScorer(DefaultTags())
	ctx := context.Background()

	tests := []struct {
		name       string
		completion string
		answer     string
		want       float64
	}{
		{"all positions", wrap("x", "が, を"), `["が", "を"]`, particleExact},
		{"bracketed guess", wrap("x", "[が, を]"), `["が", "を"]`, particleExact},
		{"half right", wrap("x", "が, に"), `["が", "を"]`, 0.5},
		{"none right", wrap("x", "に, で"), `["が", "を"]`, -1.0},
		{"length mismatch counts against", wrap("x", "が"), `["が", "を"]`, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := s.Check(ctx, batchOf(tt.answer, tt.completion))
			require.Len(t, scores, 1)
			assert.InDelta(t, tt.want, scores[0], 1e-9)
		})
	}
}

func TestSplitListAnswer(t *testing.T) {
	assert.Equal(t, []string{"が", "を"}, splitListAnswer(`["が", "を"]`))
	assert.Equal(t, []string{"が", "を"}, splitListAnswer(`[が, を]`))
	assert.Equal(t, []string{"が"}, splitListAnswer(`['が']`))
	assert.Nil(t, splitListAnswer(`[]`))
}

func TestParticleQuality(t *testing.T) {
	s := NewParticleScorer(DefaultTags())
	ctx := context.Background()

	good := wrap("「が」は主語を表す助詞です。この文では動作の主体を示すために使います。", "が")
	rationalizing := wrap("「を」は主語を表すので正しいです。", "を")
	missing := "<answer>が</answer>"

	scores := s.Quality(ctx, batchOf("が", good, rationalizing, missing))
	require.Len(t, scores, 3)
	assert.Greater(t, scores[0], scores[1])
	assert.Equal(t, -1.0, scores[2])
}

func TestParticleRewardFuncs(t *testing.T) {
	s := NewParticleScorer(DefaultTags())
	funcs := s.RewardFuncs()
	require.Len(t, funcs, 3)

	b := batchOf("が", wrap("x", "が"))
	for _, fn := range funcs {
		assert.Len(t, fn(context.Background(), b), 1)
	}
}
