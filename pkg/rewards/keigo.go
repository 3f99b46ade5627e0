package rewards

import (
	"context"
	"strings"
	"unicode/utf8"
)

// keigoPair holds the honorific (sonkeigo) and humble (kenjougo) renderings
// of one plain verb. Alternatives are slash-separated.
type keigoPair struct {
	Sonkeigo string
	Kenjougo string
}

// keigoPairs maps plain verbs to their respectful forms.
var keigoPairs = map[string]keigoPair{
	"行く":  {"いらっしゃる/おいでになる", "参る/伺う"},
	"来る":  {"いらっしゃる/おいでになる/お越しになる", "参る/伺う"},
	"いる":  {"いらっしゃる/おいでになる", "おる"},
	"する":  {"なさる/される", "いたす"},
	"言う":  {"おっしゃる", "申す/申し上げる"},
	"見る":  {"ご覧になる", "拝見する"},
	"聞く":  {"お聞きになる", "伺う/拝聴する"},
	"食べる": {"召し上がる", "いただく"},
	"飲む":  {"召し上がる", "いただく"},
	"もらう": {"お受け取りになる", "いただく/頂戴する"},
	"あげる": {"くださる", "差し上げる"},
	"知る":  {"ご存知だ", "存じる/存じ上げる"},
	"思う":  {"お思いになる", "存じる"},
	"会う":  {"お会いになる", "お目にかかる"},
	"読む":  {"お読みになる", "拝読する"},
	"書く":  {"お書きになる", "お書きする"},
	"待つ":  {"お待ちになる", "お待ちする"},
	"寝る":  {"お休みになる", "休ませていただく"},
	"死ぬ":  {"お亡くなりになる", "亡くなる"},
}

// politeVariations maps dictionary-form keigo to its ます-form, so that a
// politeness-level difference is not graded as a different verb.
var politeVariations = map[string]string{
	"おる":      "おります",
	"いらっしゃる":  "いらっしゃいます",
	"参る":      "参ります",
	"伺う":      "伺います",
	"なさる":     "なさいます",
	"いたす":     "いたします",
	"おっしゃる":   "おっしゃいます",
	"申す":      "申します",
	"申し上げる":   "申し上げます",
	"召し上がる":   "召し上がります",
	"いただく":    "いただきます",
	"くださる":    "くださいます",
	"差し上げる":   "差し上げます",
	"存じる":     "存じます",
	"拝見する":    "拝見します",
	"ご覧になる":   "ご覧になります",
	"お目にかかる":  "お目にかかります",
	"お越しになる":  "お越しになります",
	"おいでになる":  "おいでになります",
	"お休みになる":  "お休みになります",
	"頂戴する":    "頂戴します",
	"お亡くなりになる": "お亡くなりになります",
}

// keigoStems are honorific verb stems granting partial credit when the
// answer starts with one but the inflection is off.
var keigoStems = []string{"いらっしゃ", "おっしゃ", "なさ", "くださ", "召し上が"}

// Keigo ladder constants. Confusing the honorific direction teaches the
// exact opposite social register, so it costs more than an unrelated wrong
// answer. Only the ordering is contractual.
const (
	keigoExact       = 3.0
	keigoPoliteness  = 2.5
	keigoSameType    = 2.0
	keigoPartialStem = 0.5
	keigoWrong       = -1.5
	keigoConfusion   = -2.0
	keigoMissing     = -3.0
)

// KeigoScorer scores honorific-conversion answers, tolerating politeness
// levels within a register and penalizing sonkeigo/kenjougo confusion harder
// than an unrelated error.
type KeigoScorer struct {
	matcher *FormatMatcher
	stats   *AccuracyStats
}

// NewKeigoScorer builds a keigo scorer for a tag configuration.
func NewKeigoScorer(tags Tags) *KeigoScorer {
	return &KeigoScorer{
		matcher: NewFormatMatcher(tags),
		stats:   NewAccuracyStats(),
	}
}

// Check scores extracted keigo answers against references.
func (s *KeigoScorer) Check(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	refs := batch.References(s.matcher)
	scores := make([]float64, len(texts))
	var stats BatchStats
	stats.Total = len(texts)

	for i, text := range texts {
		guess, found := s.matcher.Extract(text)
		if !found {
			scores[i] = keigoMissing
			stats.NoAnswer++
			continue
		}
		scores[i] = s.scoreKeigo(guess, refs[i])
		switch {
		case scores[i] >= keigoSameType:
			stats.Correct++
		case scores[i] > 0:
			stats.Partial++
		default:
			stats.Wrong++
		}
	}

	s.stats.RecordBatch(stats)
	logBatchStats(ctx, FamilyKeigo, stats)
	return scores
}

func (s *KeigoScorer) scoreKeigo(guess, ref string) float64 {
	if guess == ref {
		return keigoExact
	}
	if politenessVariant(guess, ref) {
		return keigoPoliteness
	}

	refType := classifyKeigo(ref)
	guessType := classifyKeigo(guess)

	if refType != "" && guessType != "" {
		if refType == guessType {
			if sameRegisterAlternative(guess, ref, refType) {
				return keigoSameType
			}
			return keigoWrong // right register, different verb
		}
		return keigoConfusion
	}

	if partialStemMatch(guess, ref) {
		return keigoPartialStem
	}
	return keigoWrong
}

// politenessVariant reports whether guess and ref are the same keigo verb at
// different politeness levels.
func politenessVariant(guess, ref string) bool {
	if polite, ok := politeVariations[ref]; ok && guess == polite {
		return true
	}
	if polite, ok := politeVariations[guess]; ok && ref == polite {
		return true
	}
	return stripPoliteSuffix(guess) == stripPoliteSuffix(ref) && stripPoliteSuffix(guess) != ""
}

func stripPoliteSuffix(s string) string {
	for _, suffix := range []string{"ます", "です"} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}

// classifyKeigo reports which register a keigo form belongs to, or "" when it
// matches no known form. Forms shared by several base verbs (おいでになる is
// sonkeigo of 行く, 来る and いる) are classified by scanning every pair, so
// the answer never depends on map iteration order; sonkeigo wins the
// (currently unpopulated) case of a form listed in both registers.
func classifyKeigo(form string) string {
	folded := stripPoliteSuffix(form)
	var sonkeigo, kenjougo bool
	for _, pair := range keigoPairs {
		if matchesKeigoOption(form, folded, pair.Sonkeigo) {
			sonkeigo = true
		}
		if matchesKeigoOption(form, folded, pair.Kenjougo) {
			kenjougo = true
		}
	}
	switch {
	case sonkeigo:
		return "尊敬語"
	case kenjougo:
		return "謙譲語"
	}
	return ""
}

func matchesKeigoOption(form, folded, options string) bool {
	for _, option := range strings.Split(options, "/") {
		if form == option || folded == stripPoliteSuffix(option) {
			return true
		}
	}
	return false
}

// sameRegisterAlternative reports whether guess and ref are accepted forms of
// the same plain verb in the given register. Co-membership is checked across
// every pair's option list, so a form belonging to several verbs matches as
// long as one of those verbs also accepts the reference.
func sameRegisterAlternative(guess, ref, register string) bool {
	guessFolded := stripPoliteSuffix(guess)
	refFolded := stripPoliteSuffix(ref)
	for _, pair := range keigoPairs {
		options := pair.Sonkeigo
		if register == "謙譲語" {
			options = pair.Kenjougo
		}
		if matchesKeigoOption(guess, guessFolded, options) && matchesKeigoOption(ref, refFolded, options) {
			return true
		}
	}
	return false
}

// partialStemMatch credits answers sharing an honorific stem or the お-prefix
// pattern of the reference.
func partialStemMatch(guess, ref string) bool {
	for _, stem := range keigoStems {
		if strings.HasPrefix(guess, stem) && strings.HasPrefix(ref, stem) {
			return true
		}
	}
	if strings.HasPrefix(guess, "お") && strings.HasPrefix(ref, "お") {
		gr, rr := []rune(guess), []rune(ref)
		if len(gr) >= 2 && len(rr) >= 2 && gr[1] == rr[1] {
			return true
		}
	}
	return false
}

var (
	keigoTerms = []string{
		"尊敬語", "謙譲語", "丁寧語", "敬語", "敬意",
		"目上", "相手", "自分", "へりくだ", "高める",
	}
	keigoContextWords = []string{
		"先生", "上司", "お客様", "社長", "部長", "取引先",
	}
)

// Quality inspects the reasoning span for keigo terminology, social-context
// awareness, a sane length band, and consistency with the extracted answer.
func (s *KeigoScorer) Quality(ctx context.Context, batch *Batch) []float64 {
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

func (s *KeigoScorer) explanationScore(reasoning string) float64 {
	score := 0.0

	terms := countContained(reasoning, keigoTerms)
	switch {
	case terms >= 3:
		score += 0.4
	case terms >= 2:
		score += 0.2
	case terms >= 1:
		score += 0.1
	}

	if containsAny(reasoning, keigoContextWords) {
		score += 0.2 // names who the speaker defers to
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

	return clampQuality(score, 1.0)
}

func (s *KeigoScorer) consistencyScore(reasoning, guess, ref string) float64 {
	score := 0.0
	refType := classifyKeigo(ref)
	if guess == ref || politenessVariant(guess, ref) {
		if refType != "" && strings.Contains(reasoning, refType) {
			score += 0.3 // names the register it converted into
		}
		return score
	}
	if strings.Contains(reasoning, guess) {
		score -= 0.2 // rationalizing a wrong answer
	}
	return score
}

// TypeAccuracy checks the register the question asked for against the
// register of the extracted answer: a match earns a bonus, answering in the
// opposite register costs most.
func (s *KeigoScorer) TypeAccuracy(ctx context.Context, batch *Batch) []float64 {
	texts := batch.Texts()
	scores := make([]float64, len(texts))

	for i, text := range texts {
		question := batch.QuestionAt(i)
		required := ""
		switch {
		case strings.Contains(question, "尊敬語"):
			required = "尊敬語"
		case strings.Contains(question, "謙譲語"):
			required = "謙譲語"
		default:
			continue
		}

		guess, found := s.matcher.Extract(text)
		if !found {
			continue
		}
		guessType := classifyKeigo(guess)
		switch guessType {
		case required:
			scores[i] = 0.3
		case "":
			scores[i] = -0.2
		default:
			scores[i] = -0.5
		}
	}

	return scores
}

// StrictFormat is the shared four-marker order check.
func (s *KeigoScorer) StrictFormat(ctx context.Context, batch *Batch) []float64 {
	return strictFormatScores(s.matcher, batch)
}

// RewardFuncs returns the keigo reward set in dispatch order.
func (s *KeigoScorer) RewardFuncs() []RewardFunc {
	return []RewardFunc{
		s.StrictFormat,
		s.Check,
		s.Quality,
		s.TypeAccuracy,
	}
}
