package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihongo-dojo/dojo-go/pkg/rewards"
)

func completion(answer string) string {
	return "<reasoning>説明</reasoning>\n<answer>" + answer + "</answer>"
}

func TestStepLoggerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l, err := NewStepLogger(dir, "particle", rewards.DefaultTags())
	require.NoError(t, err)

	responses := []string{completion("が"), completion("は"), "malformed"}
	rec, err := l.LogStep(1, "[　]を埋めてください", "が", responses, nil, []float64{2.0, 0.5, -3.0})
	require.NoError(t, err)
	assert.Equal(t, []string{"が", "は", ""}, rec.Extracted, "answers recovered from responses")

	_, err = l.LogStep(2, "次の問題", "は", []string{completion("は")}, []string{"は"}, []float64{2.0})
	require.NoError(t, err)
	assert.Equal(t, 2, l.Steps())

	require.NoError(t, l.LogRewards(1, "check_answer", []float64{2.0, 0.5, -3.0}))
	require.NoError(t, l.Close())

	records, err := ReadStepLog(l.StepPath())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Step)
	assert.Equal(t, "が", records[0].Answer)
	assert.Equal(t, []float64{2.0, 0.5, -3.0}, records[0].Rewards)
}

func TestStepLoggerMismatchedExtracted(t *testing.T) {
	l, err := NewStepLogger(t.TempDir(), "kanji", rewards.DefaultTags())
	require.NoError(t, err)
	defer l.Close()

	// Wrong-length extracted slice is discarded and re-derived.
	rec, err := l.LogStep(1, "q", "日", []string{completion("日")}, []string{"a", "b"}, []float64{2.0})
	require.NoError(t, err)
	assert.Equal(t, []string{"日"}, rec.Extracted)
}

func TestStoreSummary(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	steps := []*StepRecord{
		{Step: 1, Question: "q1", Answer: "が", Extracted: []string{"が", "は", ""}, Rewards: []float64{2.0, 0.5, -3.0}},
		{Step: 2, Question: "q2", Answer: "日", Extracted: []string{"日", "日"}, Rewards: []float64{2.0, 2.0}},
	}
	for _, rec := range steps {
		require.NoError(t, s.RecordStep(rec))
	}

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalSteps)
	assert.Equal(t, 5, summary.TotalSamples)
	assert.InDelta(t, 3.0/5.0, summary.AccuracyRate, 1e-9)
	assert.InDelta(t, 4.0/5.0, summary.ExtractedRate, 1e-9)
	assert.InDelta(t, 0.7, summary.MeanReward, 1e-9)
	assert.Equal(t, -3.0, summary.MinReward)
	assert.Equal(t, 2.0, summary.MaxReward)
}

func TestStoreFunctionMeans(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.RecordRewards(1, "check_answer", []float64{2.0, -1.0}))
	require.NoError(t, s.RecordRewards(2, "check_answer", []float64{1.0, 1.0}))
	require.NoError(t, s.RecordRewards(1, "strict_format", []float64{0.5, 0.5}))
	require.NoError(t, s.RecordRewards(3, "empty", nil), "empty batches are ignored")

	means, err := s.FunctionMeans()
	require.NoError(t, err)
	assert.InDelta(t, 0.75, means["check_answer"], 1e-9)
	assert.InDelta(t, 0.5, means["strict_format"], 1e-9)
	_, ok := means["empty"]
	assert.False(t, ok)
}

func TestStoreEmptySummary(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalSteps)
	assert.Equal(t, 0.0, summary.MeanReward)
}
