package rewards

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// commonMistakes maps kanji to readings learners habitually confuse with
// each other, used for similar-sound partial credit.
var commonMistakes = map[string][]string{
	"紅": {"くれない", "べに", "こう"},
	"十": {"じゅう", "じっ", "じゅっ", "とお"},
	"反": {"はん", "たん", "へん"},
	"都": {"と", "つ"},
	"留": {"と", "る", "りゅう"},
	"張": {"は", "ちょう"},
	"常": {"とこ", "じょう"},
}

// similarKanji maps a kanji to visually confusable characters (shared
// strokes or near-identical shape).
var similarKanji = map[string][]string{
	"日": {"目", "白", "旧"},
	"人": {"入", "八"},
	"土": {"士", "工"},
	"我": {"找", "戒"},
	"川": {"州", "順"},
}

// commonRadicals are the high-frequency radicals checked for shared-radical
// partial credit.
var commonRadicals = []string{"氵", "亻", "木", "火", "土", "金", "水", "日", "月", "⺾"}

// semanticGroups are fixed synonym groups earning a sliver of credit for
// semantically related but wrong kanji.
var semanticGroups = [][]string{
	{"川", "河", "江"},
	{"山", "岳", "峰"},
	{"木", "樹", "林", "森"},
	{"日", "陽", "太陽"},
	{"月", "月光", "月夜"},
	{"火", "炎", "焔"},
	{"水", "氷", "湯"},
}

// Kanji ladder constants. Only the ordering is contractual.
const (
	kanjiExact        = 2.0
	kanjiNFKC         = 1.8
	kanjiReadingNear  = 0.8
	kanjiSimilarShape = 0.3
	kanjiSimilarSound = 0.2
	kanjiSemantic     = 0.1
	kanjiWrong        = -1.5
	kanjiMissing      = -3.0
)

// KanjiScorer scores kanji reading and writing answers, tolerating kana
// spelling variants for readings and crediting visually or semantically
// related characters for writings.
type KanjiScorer struct {
	matcher *FormatMatcher
	stats   *AccuracyStats
}

// NewKanjiScorer builds a kanji scorer for a tag configuration.
func NewKanjiScorer(tags Tags) *KanjiScorer {
	return &KanjiScorer{
		matcher: NewFormatMatcher(tags),
		stats:   NewAccuracyStats(),
	}
}

// Check scores extracted kanji answers against references.
func (s *KanjiScorer) Check(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	refs := batch.References(s.matcher)
	scores := make([]float64, len(texts))
	var stats BatchStats
	stats.Total = len(texts)

	for i, text := range texts {
		guess, found := s.matcher.Extract(text)
		if !found {
			scores[i] = kanjiMissing
			stats.NoAnswer++
			continue
		}
		scores[i] = s.scoreKanji(guess, refs[i])
		switch {
		case scores[i] >= kanjiNFKC:
			stats.Correct++
		case scores[i] > 0:
			stats.Partial++
		default:
			stats.Wrong++
		}
	}

	s.stats.RecordBatch(stats)
	logBatchStats(ctx, FamilyKanji, stats)
	return scores
}

func (s *KanjiScorer) scoreKanji(guess, ref string) float64 {
	if guess == ref {
		return kanjiExact
	}
	if NFKC(guess) == NFKC(ref) {
		return kanjiNFKC
	}
	if readingNearMatch(guess, ref) {
		return kanjiReadingNear
	}
	if visuallySimilar(guess, ref) {
		return kanjiSimilarShape
	}
	if soundConfusion(guess, ref) {
		return kanjiSimilarSound
	}

	// Same length with some correct characters earns proportional credit.
	gr, rr := []rune(guess), []rune(ref)
	if len(gr) == len(rr) && len(rr) > 0 {
		common := 0
		for i := range rr {
			if gr[i] == rr[i] {
				common++
			}
		}
		if common > 0 {
			return 0.5 * float64(common) / float64(len(rr))
		}
	}

	if semanticallyRelated(guess, ref) {
		return kanjiSemantic
	}

	return kanjiWrong
}

// readingNearMatch tolerates the kana spelling variants that do not change
// which word was read: promoted small kana, voiced/unvoiced confusion, and
// long-vowel spelling.
func readingNearMatch(guess, ref string) bool {
	if !IsKana(guess) || !IsKana(ref) {
		return false
	}
	if FoldSmallKana(guess) == FoldSmallKana(ref) {
		return true
	}
	if FoldDakuten(guess) == FoldDakuten(ref) {
		return true
	}
	// こう vs こー style long-vowel variants.
	if strings.ReplaceAll(guess, "う", "ー") == ref || strings.ReplaceAll(ref, "う", "ー") == guess {
		return true
	}
	return false
}

func visuallySimilar(guess, ref string) bool {
	for kanji, lookalikes := range similarKanji {
		if ref == kanji && contains(lookalikes, guess) {
			return true
		}
		if guess == kanji && contains(lookalikes, ref) {
			return true
		}
	}
	// A shared high-frequency radical is a weaker form of the same signal.
	for _, radical := range commonRadicals {
		if strings.Contains(guess, radical) && strings.Contains(ref, radical) {
			return true
		}
	}
	return false
}

func soundConfusion(guess, ref string) bool {
	for kanji, readings := range commonMistakes {
		if ref == kanji || guess == kanji {
			if contains(readings, guess) || contains(readings, ref) {
				return true
			}
		}
	}
	return false
}

func semanticallyRelated(guess, ref string) bool {
	for _, group := range semanticGroups {
		if contains(group, guess) && contains(group, ref) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

var (
	kanjiLearningKeywords = []string{
		"年生", "習う", "学年", "小学", "中学",
		"音読み", "訓読み", "おんよみ", "くんよみ",
		"意味", "部首", "画数", "書き順",
	}
	kanjiExplanationElements = []string{
		"これは", "この漢字は", "という漢字",
		"読み方は", "と読みます", "という意味",
		"などです", "を表します",
	}
	gradePatterns = []*regexp.Regexp{
		regexp.MustCompile(`小学(\d)年生`),
		regexp.MustCompile(`(\d)年生で習う`),
		regexp.MustCompile(`中学(\d)年生`),
		regexp.MustCompile(`常用漢字`),
	}
	latinWord = regexp.MustCompile(`[a-zA-Z]{3,}`)
)

// Quality inspects the reasoning span for study-note keywords, explanation
// phrasing, a sane length band, and consistency with the extracted answer.
func (s *KanjiScorer) Quality(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	refs := batch.References(s.matcher)
	scores := make([]float64, len(texts))

	for i, text := range texts {
		reasoning, found := s.matcher.ExtractReasoning(text)
		if !found {
			scores[i] = -1.0
			continue
		}

		score := s.explanationScore(reasoning)
		if guess, ok := s.matcher.Extract(text); ok {
			score += s.consistencyScore(reasoning, guess, refs[i])
		}
		scores[i] = score
	}

	return scores
}

func (s *KanjiScorer) explanationScore(reasoning string) float64 {
	score := 0.0

	keywords := countContained(reasoning, kanjiLearningKeywords)
	switch {
	case keywords >= 3:
		score += 0.4
	case keywords >= 2:
		score += 0.2
	case keywords >= 1:
		score += 0.1
	}

	elements := countContained(reasoning, kanjiExplanationElements)
	switch {
	case elements >= 2:
		score += 0.2
	case elements >= 1:
		score += 0.1
	}

	length := utf8.RuneCountInString(reasoning)
	switch {
	case length > 30 && length < 150:
		score += 0.2
	case length >= 150 && length < 250:
		score += 0.1
	case length >= 250:
		score -= 0.1
	case length <= 30:
		score -= 0.2
	}

	if latinWord.MatchString(reasoning) {
		score += 0.1 // an English gloss is a bonus
	}

	return clampQuality(score, 1.0)
}

func (s *KanjiScorer) consistencyScore(reasoning, guess, ref string) float64 {
	score := 0.0
	if guess == ref {
		for _, p := range gradePatterns {
			if p.MatchString(reasoning) {
				score += 0.2
				break
			}
		}
		if strings.Contains(reasoning, "音読み") || strings.Contains(reasoning, "訓読み") {
			score += 0.1
		}
		return score
	}

	if strings.Contains(reasoning, guess) {
		score -= 0.2 // rationalizing a wrong answer
	}
	if readingNearMatch(guess, ref) {
		score += 0.1
	}
	return score
}

// gradeKanji is a reduced grade lookup used by GradeAccuracy to sanity-check
// the grade a completion claims a kanji is taught in.
var gradeKanji = map[int][]string{
	1: {"一", "二", "三", "四", "五", "六", "七", "八", "九", "十", "日", "月", "火", "水", "木", "金", "土"},
	2: {"国", "語", "算", "数", "理", "科", "社", "会", "音", "楽", "図", "工", "体", "育", "家", "庭"},
	3: {"医", "者", "学", "校", "先", "生", "友", "達", "兄", "弟", "姉", "妹", "父", "母", "祖", "先"},
	4: {"英", "語", "歴", "史", "地", "理", "政", "治", "経", "済", "文", "化", "芸", "術", "技", "術"},
	5: {"情", "報", "環", "境", "国", "際", "平", "和", "民", "主", "自", "由", "権", "利", "義", "務"},
	6: {"憲", "法", "裁", "判", "警", "察", "防", "衛", "外", "交", "貿", "易", "産", "業", "商", "業"},
}

var mentionedGrade = regexp.MustCompile(`小学(\d)年生`)

// GradeAccuracy rewards completions whose claimed school grade matches the
// answered kanji, within one grade of slack.
func (s *KanjiScorer) GradeAccuracy(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	scores := make([]float64, len(texts))

	for i, text := range texts {
		match := mentionedGrade.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		mentioned, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		kanji, found := s.matcher.Extract(text)
		if !found {
			continue
		}

		// Ascending scan; a kanji listed in several grades resolves to
		// the grade it is first taught in.
		actual := 0
		for grade := 1; grade <= 6 && actual == 0; grade++ {
			for _, k := range gradeKanji[grade] {
				if strings.Contains(kanji, k) {
					actual = grade
					break
				}
			}
		}
		if actual == 0 {
			continue
		}

		diff := mentioned - actual
		if diff < 0 {
			diff = -diff
		}
		switch diff {
		case 0:
			scores[i] = 0.3
		case 1:
			scores[i] = 0.1
		default:
			scores[i] = -0.1
		}
	}

	return scores
}

// StrictFormat is the shared four-marker order check.
func (s *KanjiScorer) StrictFormat(ctx context.Context, batch *Batch) []float64 {
	return strictFormatScores(s.matcher, batch)
}

// RewardFuncs returns the kanji reward set in dispatch order.
func (s *KanjiScorer) RewardFuncs() []RewardFunc {
	return []RewardFunc{
		s.StrictFormat,
		s.Check,
		s.Quality,
		s.GradeAccuracy,
	}
}
