package tasks

import (
	"fmt"
	"strings"
)

// Type identifies a task family.
type Type string

const (
	KanjiReading    Type = "kanji_reading"
	KanjiWriting    Type = "kanji_writing"
	ParticleFill    Type = "particle_fill"
	WordOrder       Type = "word_order"
	KeigoConversion Type = "keigo_conversion"
	CounterWord     Type = "counter_word"
)

// Types lists every generatable task type.
func Types() []Type {
	return []Type{KanjiReading, KanjiWriting, ParticleFill, WordOrder, KeigoConversion, CounterWord}
}

// Difficulty is the JLPT-aligned level band of a task.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"     // N5-N4
	Intermediate Difficulty = "intermediate" // N3
	Advanced     Difficulty = "advanced"     // N2-N1
)

// Difficulties lists the level bands in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced}
}

// Task is one generated practice item. Answer holds the single reference
// answer; multi-blank tasks put every blank in Answers and render Answer as a
// bracketed list for the wire format.
type Task struct {
	ID          string            `json:"task_id"`
	Type        Type              `json:"type"`
	Difficulty  Difficulty        `json:"difficulty"`
	Instruction string            `json:"instruction"`
	Context     string            `json:"context,omitempty"`
	Question    string            `json:"question"`
	Answer      string            `json:"answer"`
	Answers     []string          `json:"answers,omitempty"`
	Explanation string            `json:"explanation,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// renderListAnswer formats a multi-blank answer the way references are
// compared downstream: a bracketed, quoted list.
func renderListAnswer(answers []string) string {
	quoted := make([]string, len(answers))
	for i, a := range answers {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
