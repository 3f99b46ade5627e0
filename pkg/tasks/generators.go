package tasks

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// Generator produces tasks of one type. Each generator owns its random
// source, so two generators never contend on shared state and a seeded run
// is reproducible per type.
type Generator interface {
	Type() Type
	Generate(difficulty Difficulty) *Task
}

func newTask(taskType Type, difficulty Difficulty) *Task {
	return &Task{
		ID:         uuid.New().String(),
		Type:       taskType,
		Difficulty: difficulty,
	}
}

// KanjiReadingGenerator asks for the hiragana reading of a kanji word.
type KanjiReadingGenerator struct{ rng *rand.Rand }

func NewKanjiReadingGenerator(seed int64) *KanjiReadingGenerator {
	return &KanjiReadingGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *KanjiReadingGenerator) Type() Type { return KanjiReading }

func (g *KanjiReadingGenerator) Generate(difficulty Difficulty) *Task {
	entry := pick(g.rng, kanjiReadingTable, difficulty)

	t := newTask(KanjiReading, difficulty)
	t.Instruction = "次の漢字の読み方をひらがなで答えてください。"
	t.Question = fmt.Sprintf("「%s」の読み方は？", entry.Kanji)
	t.Answer = entry.Reading
	t.Explanation = fmt.Sprintf("「%s」は「%s」と読みます。意味: %s", entry.Kanji, entry.Reading, entry.Meaning)
	t.Metadata = map[string]string{"meaning": entry.Meaning}
	return t
}

// KanjiWritingGenerator asks for the kanji spelling of a hiragana word.
type KanjiWritingGenerator struct{ rng *rand.Rand }

func NewKanjiWritingGenerator(seed int64) *KanjiWritingGenerator {
	return &KanjiWritingGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *KanjiWritingGenerator) Type() Type { return KanjiWriting }

func (g *KanjiWritingGenerator) Generate(difficulty Difficulty) *Task {
	entry := pick(g.rng, kanjiWritingTable, difficulty)

	t := newTask(KanjiWriting, difficulty)
	t.Instruction = "次のひらがなを漢字で書いてください。"
	t.Question = fmt.Sprintf("「%s」を漢字で書くと？", entry.Reading)
	t.Answer = entry.Kanji
	t.Explanation = fmt.Sprintf("「%s」は「%s」と書きます。意味: %s", entry.Reading, entry.Kanji, entry.Meaning)
	t.Metadata = map[string]string{"meaning": entry.Meaning}
	return t
}

// ParticleFillGenerator blanks particles out of a sentence.
type ParticleFillGenerator struct{ rng *rand.Rand }

func NewParticleFillGenerator(seed int64) *ParticleFillGenerator {
	return &ParticleFillGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *ParticleFillGenerator) Type() Type { return ParticleFill }

func (g *ParticleFillGenerator) Generate(difficulty Difficulty) *Task {
	entry := pick(g.rng, particleTable, difficulty)

	t := newTask(ParticleFill, difficulty)
	t.Instruction = "文中の[　]に入る適切な助詞を答えてください。"
	t.Question = strings.ReplaceAll(entry.Sentence, "＿", "[　]")
	if len(entry.Particles) == 1 {
		t.Answer = entry.Particles[0]
	} else {
		t.Answers = entry.Particles
		t.Answer = renderListAnswer(entry.Particles)
	}
	t.Explanation = fmt.Sprintf("この文では%sを表す助詞を使います。", entry.Function)
	t.Metadata = map[string]string{"particle_count": fmt.Sprint(len(entry.Particles))}
	return t
}

// WordOrderGenerator shuffles a sentence and asks for the original order.
type WordOrderGenerator struct{ rng *rand.Rand }

func NewWordOrderGenerator(seed int64) *WordOrderGenerator {
	return &WordOrderGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *WordOrderGenerator) Type() Type { return WordOrder }

func (g *WordOrderGenerator) Generate(difficulty Difficulty) *Task {
	entry := pick(g.rng, wordOrderTable, difficulty)
	correct := strings.Join(entry.Words, "")

	shuffled := make([]string, len(entry.Words))
	copy(shuffled, entry.Words)
	for strings.Join(shuffled, "") == correct && len(shuffled) > 1 {
		g.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	}

	t := newTask(WordOrder, difficulty)
	t.Instruction = "次の単語を正しい順番に並び替えて文を作ってください。"
	t.Context = fmt.Sprintf("意味: %s", entry.Meaning)
	t.Question = strings.Join(shuffled, " / ")
	t.Answer = correct
	t.Explanation = fmt.Sprintf("正しい語順は「%s」です。", correct)
	t.Metadata = map[string]string{
		"word_count": fmt.Sprint(len(entry.Words)),
		"meaning":    entry.Meaning,
	}
	return t
}

// KeigoConversionGenerator asks for the honorific or humble form of a verb,
// picking the register at random.
type KeigoConversionGenerator struct{ rng *rand.Rand }

func NewKeigoConversionGenerator(seed int64) *KeigoConversionGenerator {
	return &KeigoConversionGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *KeigoConversionGenerator) Type() Type { return KeigoConversion }

func (g *KeigoConversionGenerator) Generate(difficulty Difficulty) *Task {
	entry := pick(g.rng, keigoTable, difficulty)

	register, answer := "尊敬語", entry.Sonkeigo
	if g.rng.Intn(2) == 1 {
		register, answer = "謙譲語", entry.Kenjougo
	}

	t := newTask(KeigoConversion, difficulty)
	t.Instruction = fmt.Sprintf("次の動詞を%sに変換してください。", register)
	t.Question = fmt.Sprintf("「%s」の%sは？", entry.Plain, register)
	t.Answer = answer
	t.Explanation = fmt.Sprintf("「%s」の%sは「%s」です。", entry.Plain, register, answer)
	t.Metadata = map[string]string{
		"keigo_type": register,
		"plain":      entry.Plain,
		"sonkeigo":   entry.Sonkeigo,
		"kenjougo":   entry.Kenjougo,
	}
	return t
}

// CounterWordGenerator asks for the correct counter for a counted item.
type CounterWordGenerator struct{ rng *rand.Rand }

func NewCounterWordGenerator(seed int64) *CounterWordGenerator {
	return &CounterWordGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *CounterWordGenerator) Type() Type { return CounterWord }

func (g *CounterWordGenerator) Generate(difficulty Difficulty) *Task {
	entry := pick(g.rng, counterTable, difficulty)
	number := g.rng.Intn(10) + 1
	item := entry.Items[g.rng.Intn(len(entry.Items))]

	t := newTask(CounterWord, difficulty)
	t.Instruction = "適切な助数詞を使って数えてください。"
	t.Question = fmt.Sprintf("%sが%dつあります。正しい数え方は？", item, number)
	t.Answer = fmt.Sprintf("%d%s", number, entry.Counter)
	t.Explanation = fmt.Sprintf("%sのような物を数えるときは「%s（%s）」を使います。", item, entry.Counter, entry.Reading)
	t.Metadata = map[string]string{
		"counter": entry.Counter,
		"reading": entry.Reading,
		"number":  fmt.Sprint(number),
		"item":    item,
	}
	return t
}

// pick selects a random entry from the band's table, falling back to the
// beginner band when the requested one is empty.
func pick[E any](rng *rand.Rand, table map[Difficulty][]E, difficulty Difficulty) E {
	entries := table[difficulty]
	if len(entries) == 0 {
		entries = table[Beginner]
	}
	return entries[rng.Intn(len(entries))]
}
