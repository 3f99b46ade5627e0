package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldKatakana(t *testing.T) {
	assert.Equal(t, "かたかな", FoldKatakana("カタカナ"))
	assert.Equal(t, "ひらがな", FoldKatakana("ひらがな"), "hiragana unchanged")
	assert.Equal(t, "らーめん", FoldKatakana("ラーメン"), "long-vowel mark preserved")
	assert.Equal(t, "漢字abc", FoldKatakana("漢字abc"))
}

func TestFoldDakuten(t *testing.T) {
	assert.Equal(t, "かきくけこ", FoldDakuten("がぎぐげご"))
	assert.Equal(t, "はひふ", FoldDakuten("ぱびぷ"))
	assert.Equal(t, "かな", FoldDakuten("かな"))
}

func TestFoldSmallKana(t *testing.T) {
	assert.Equal(t, "きよう", FoldSmallKana("きょう"))
	assert.Equal(t, "かつこう", FoldSmallKana("かっこう"))
	assert.Equal(t, "とうきゆよ", FoldSmallKana("とうきゅょ"))
}

// Every fold is idempotent: applying it twice equals applying it once.
func TestFoldIdempotence(t *testing.T) {
	inputs := []string{"カタカナ", "がっこう", "きょうとデパート", "ラーメン屋", "３匹"}
	folds := map[string]func(string) string{
		"katakana":  FoldKatakana,
		"dakuten":   FoldDakuten,
		"smallKana": FoldSmallKana,
		"number":    NormalizeNumber,
		"spaces":    StripSpaces,
		"punct":     StripPunct,
		"nfkc":      NFKC,
	}
	for name, fold := range folds {
		for _, in := range inputs {
			once := fold(in)
			assert.Equal(t, once, fold(once), "%s not idempotent on %q", name, in)
		}
	}
}

func TestNormalizeNumber(t *testing.T) {
	assert.Equal(t, "3匹", NormalizeNumber("３匹"))
	assert.Equal(t, "3匹", NormalizeNumber("三匹"))
	assert.Equal(t, "10回", NormalizeNumber("十回"))
	assert.Equal(t, "42", NormalizeNumber("４２"))
}

func TestStripSpaces(t *testing.T) {
	assert.Equal(t, "東京", StripSpaces("東 京"))
	assert.Equal(t, "東京", StripSpaces("東　京"))
}

func TestStripPunct(t *testing.T) {
	assert.Equal(t, "はい", StripPunct("は、い"))
	assert.Equal(t, "はい", StripPunct("は　い"))
}

func TestNFKC(t *testing.T) {
	assert.Equal(t, "ガ", NFKC("ｶﾞ"), "halfwidth katakana composed")
	assert.Equal(t, "ABC", NFKC("ＡＢＣ"))
}

func TestIsKana(t *testing.T) {
	assert.True(t, IsKana("がっこう"))
	assert.True(t, IsKana("ガッコウ"))
	assert.True(t, IsKana("こーひー"))
	assert.False(t, IsKana("学校"))
	assert.False(t, IsKana(""))
	assert.False(t, IsKana("がkou"))
}
