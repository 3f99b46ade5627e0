package rewards

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalization helpers used by the per-family scorers before comparing
// answer strings. All functions here are pure, total and idempotent.

// katakana block bounds folded to hiragana. The long-vowel mark (ー) and the
// middle dot live outside this range and pass through unchanged.
const (
	katakanaFirst = 'ァ' // U+30A1
	katakanaLast  = 'ヶ' // U+30F6
	kanaOffset    = 0x60
)

// FoldKatakana converts katakana code points to their hiragana equivalents
// by the fixed block offset. Everything else is left as is.
func FoldKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= katakanaFirst && r <= katakanaLast {
			return r - kanaOffset
		}
		return r
	}, s)
}

// dakutenFold maps voiced and semi-voiced kana to their unvoiced base form.
// Used only for similar-sound partial credit, never for exact matching.
var dakutenFold = map[rune]rune{
	'が': 'か', 'ぎ': 'き', 'ぐ': 'く', 'げ': 'け', 'ご': 'こ',
	'ざ': 'さ', 'じ': 'し', 'ず': 'す', 'ぜ': 'せ', 'ぞ': 'そ',
	'だ': 'た', 'ぢ': 'ち', 'づ': 'つ', 'で': 'て', 'ど': 'と',
	'ば': 'は', 'び': 'ひ', 'ぶ': 'ふ', 'べ': 'へ', 'ぼ': 'ほ',
	'ぱ': 'は', 'ぴ': 'ひ', 'ぷ': 'ふ', 'ぺ': 'へ', 'ぽ': 'ほ',
}

// FoldDakuten replaces voiced/semi-voiced hiragana with their base kana.
func FoldDakuten(s string) string {
	return strings.Map(func(r rune) rune {
		if base, ok := dakutenFold[r]; ok {
			return base
		}
		return r
	}, s)
}

// smallKanaFold promotes the small kana that most commonly differ in
// learner answers (っ/つ and the three y-row glides).
var smallKanaFold = map[rune]rune{
	'っ': 'つ', 'ゃ': 'や', 'ゅ': 'ゆ', 'ょ': 'よ',
}

// FoldSmallKana promotes small kana to their full-size counterparts.
func FoldSmallKana(s string) string {
	return strings.Map(func(r rune) rune {
		if full, ok := smallKanaFold[r]; ok {
			return full
		}
		return r
	}, s)
}

var fullwidthDigits = map[rune]rune{
	'０': '0', '１': '1', '２': '2', '３': '3', '４': '4',
	'５': '5', '６': '6', '７': '7', '８': '8', '９': '9',
}

// kanjiNumerals lists the fixed numeral set, replaced in order. Only the
// values 1-10 convert correctly; compound numerals and anything beyond this
// set (百, 千, ...) pass through unconverted. That limitation is deliberate:
// counter answers in the task tables stay within 1-10.
var kanjiNumerals = []struct {
	kanji string
	digit string
}{
	{"一", "1"}, {"二", "2"}, {"三", "3"}, {"四", "4"}, {"五", "5"},
	{"六", "6"}, {"七", "7"}, {"八", "8"}, {"九", "9"}, {"十", "10"},
}

// NormalizeNumber maps full-width digits to ASCII and the kanji numerals
// 一-十 to their digit strings.
func NormalizeNumber(s string) string {
	s = strings.Map(func(r rune) rune {
		if d, ok := fullwidthDigits[r]; ok {
			return d
		}
		return r
	}, s)
	for _, n := range kanjiNumerals {
		s = strings.ReplaceAll(s, n.kanji, n.digit)
	}
	return s
}

// StripSpaces removes ASCII and full-width spaces.
func StripSpaces(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "　", "")
}

// StripPunct removes the full-width space and the comma punctuation checked
// before near-match comparisons.
func StripPunct(s string) string {
	s = strings.ReplaceAll(s, "　", "")
	return strings.ReplaceAll(s, "、", "")
}

// NFKC returns the Unicode compatibility-composed form of s.
func NFKC(s string) string {
	return norm.NFKC.String(s)
}

// IsKana reports whether s consists entirely of hiragana, katakana or the
// long-vowel mark.
func IsKana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == 'ー' {
			continue
		}
		if !unicode.In(r, unicode.Hiragana, unicode.Katakana) {
			return false
		}
	}
	return true
}
