package rewards

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKanjiCheckLadder(t *testing.T) {
	s := NewKanjiScorer(DefaultTags())
	ctx := context.Background()

	tests := []struct {
		name       string
		completion string
		answer     string
		want       float64
	}{
		{"exact", wrap("x", "学校"), "学校", kanjiExact},
		{"nfkc equivalent", wrap("x", "ｶﾞｯｺｳ"), "ガッコウ", kanjiNFKC},
		{"small kana reading", wrap("x", "がつこう"), "がっこう", kanjiReadingNear},
		{"dakuten reading", wrap("x", "かっこう"), "がっこう", kanjiReadingNear},
		{"long vowel reading", wrap("x", "こー"), "こう", kanjiReadingNear},
		{"lookalike kanji", wrap("x", "目"), "日", kanjiSimilarShape},
		{"confused reading", wrap("x", "じゅっ"), "十", kanjiSimilarSound},
		{"semantic group", wrap("x", "河"), "川", kanjiSemantic},
		{"wrong", wrap("x", "火"), "山", kanjiWrong},
		{"no answer block", "<reasoning>x</reasoning>", "学校", kanjiMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := s.Check(ctx, batchOf(tt.answer, tt.completion))
			require.Len(t, scores, 1)
			assert.InDelta(t, tt.want, scores[0], 1e-9)
		})
	}
}

func TestKanjiPartialCharacterCredit(t *testing.T) {
	s := NewKanjiScorer(DefaultTags())
	scores := s.Check(context.Background(), batchOf("山田", wrap("x", "山口")))
	require.Len(t, scores, 1)
	assert.InDelta(t, 0.25, scores[0], 1e-9, "one of two characters correct")
}

func TestKanjiLadderOrdering(t *testing.T) {
	assert.Greater(t, kanjiExact, kanjiNFKC)
	assert.Greater(t, kanjiNFKC, kanjiReadingNear)
	assert.Greater(t, kanjiReadingNear, kanjiSimilarShape)
	assert.Greater(t, kanjiSimilarShape, kanjiSimilarSound)
	assert.Greater(t, kanjiSimilarSound, kanjiSemantic)
	assert.Greater(t, kanjiSemantic, kanjiWrong)
	assert.Greater(t, kanjiWrong, kanjiMissing)
}

func TestReadingNearMatchRequiresKana(t *testing.T) {
	assert.False(t, readingNearMatch("学校", "がっこう"), "kanji never reading-matches kana")
	assert.False(t, readingNearMatch("キョウ", "きょう"), "script difference is not a spelling variant")
}

func TestKanjiQuality(t *testing.T) {
	s := NewKanjiScorer(DefaultTags())
	ctx := context.Background()

	good := wrap("この漢字は小学1年生で習う漢字です。音読みは「ニチ」、訓読みは「ひ」で、太陽を表します。", "日")
	weak := wrap("日です", "日")
	missing := "<answer>日</answer>"

	scores := s.Quality(ctx, batchOf("日", good, weak, missing))
	require.Len(t, scores, 3)
	assert.Greater(t, scores[0], scores[1])
	assert.Equal(t, -1.0, scores[2])
}

func TestKanjiGradeAccuracy(t *testing.T) {
	s := NewKanjiScorer(DefaultTags())
	ctx := context.Background()

	match := wrap("「日」は小学1年生で習います。", "日")
	near := wrap("「日」は小学2年生で習います。", "日")
	far := wrap("「日」は小学5年生で習います。", "日")
	silent := wrap("説明なし", "日")

	scores := s.GradeAccuracy(ctx, batchOf("日", match, near, far, silent))
	require.Len(t, scores, 4)
	assert.Equal(t, 0.3, scores[0])
	assert.Equal(t, 0.1, scores[1])
	assert.Equal(t, -0.1, scores[2])
	assert.Equal(t, 0.0, scores[3])
}

// A kanji listed in several grades (語 appears in both the grade 2 and grade
// 4 tables) resolves to the lowest grade on every call.
func TestKanjiGradeAccuracyMultiGradeKanji(t *testing.T) {
	s := NewKanjiScorer(DefaultTags())
	ctx := context.Background()

	claimsTwo := wrap("「語」は小学2年生で習います。", "語")
	claimsFour := wrap("「語」は小学4年生で習います。", "語")

	for i := 0; i < 50; i++ {
		scores := s.GradeAccuracy(ctx, batchOf("語", claimsTwo, claimsFour))
		require.Len(t, scores, 2)
		assert.Equal(t, 0.3, scores[0])
		assert.Equal(t, -0.1, scores[1])
	}
}

func TestKanjiRewardFuncs(t *testing.T) {
	s := NewKanjiScorer(DefaultTags())
	funcs := s.RewardFuncs()
	require.Len(t, funcs, 4)

	b := batchOf("日", wrap("x", "日"))
	for _, fn := range funcs {
		assert.Len(t, fn(context.Background(), b), 1)
	}
}
