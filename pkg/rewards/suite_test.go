package rewards

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihongo-dojo/dojo-go/pkg/errors"
)

func TestNewSuitePerFamily(t *testing.T) {
	for _, family := range Families() {
		suite, err := NewSuite(family, DefaultTags())
		require.NoError(t, err, "family %s", family)
		assert.Equal(t, family, suite.Family)
		assert.NotEmpty(t, suite.Funcs)
	}
}

func TestNewSuiteUnknownFamily(t *testing.T) {
	_, err := NewSuite("haiku_composition", DefaultTags())
	require.Error(t, err)

	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, errors.UnknownTaskType, e.Code())
	assert.Equal(t, "haiku_composition", e.Fields()["family"])
}

func TestSuiteScoreShape(t *testing.T) {
	suite, err := NewSuite(FamilyParticle, DefaultTags())
	require.NoError(t, err)

	b := batchOf("が", wrap("x", "が"), wrap("x", "は"), "garbage")
	all := suite.Score(context.Background(), b)
	require.Len(t, all, len(suite.Funcs))
	for _, vec := range all {
		assert.Len(t, vec, b.Len())
	}
}

func TestSuiteTotalOrdering(t *testing.T) {
	suite, err := NewSuite(FamilyParticle, DefaultTags())
	require.NoError(t, err)

	good := wrap("「が」は主語を表す助詞です。この文では動作の主体を示します。", "が")
	near := wrap("「は」は主題を表す助詞です。", "は")
	bad := "答えはがです"

	totals := suite.Total(context.Background(), batchOf("が", good, near, bad))
	require.Len(t, totals, 3)
	assert.Greater(t, totals[0], totals[1], "exact beats neighbor")
	assert.Greater(t, totals[1], totals[2], "neighbor beats missing structure")
}

func TestSuiteWeightedTotal(t *testing.T) {
	suite, err := NewSuite(FamilyParticle, DefaultTags())
	require.NoError(t, err)

	ctx := context.Background()
	b := batchOf("が", wrap("理由", "が"))

	unit := suite.WeightedTotal(ctx, b, Weights{Format: 1, Answer: 1, Quality: 1})
	assert.InDeltaSlice(t, suite.Total(ctx, b), unit, 1e-9, "unit weights match Total")

	vecs := suite.Score(ctx, b)
	answerOnly := suite.WeightedTotal(ctx, b, Weights{Answer: 1})
	assert.InDelta(t, vecs[1][0], answerOnly[0], 1e-9)

	doubled := suite.WeightedTotal(ctx, b, Weights{Format: 2, Answer: 2, Quality: 2})
	assert.InDelta(t, 2*unit[0], doubled[0], 1e-9)
}
