package tasks

import (
	"fmt"
	"strings"

	"github.com/nihongo-dojo/dojo-go/pkg/rewards"
)

// SystemPrompt is the instruction completions are trained against: think in
// the reasoning block, answer in the answer block.
func SystemPrompt(tags rewards.Tags) string {
	return fmt.Sprintf(
		"あなたは日本語学習を支援するアシスタントです。\n"+
			"まず%s...%sの中で考え方を説明し、\n"+
			"次に%s...%sの中に答えだけを書いてください。",
		tags.ReasoningStart, tags.ReasoningEnd, tags.AnswerStart, tags.AnswerEnd)
}

// FormatPrompt renders a task as the user turn of a training prompt.
func FormatPrompt(t *Task) string {
	var b strings.Builder
	b.WriteString(t.Instruction)
	if t.Context != "" {
		b.WriteString("\n")
		b.WriteString(t.Context)
	}
	b.WriteString("\n")
	b.WriteString(t.Question)
	return b.String()
}

// FormatSolution renders the reference completion in the tagged wire format,
// explanation in the reasoning block and the bare answer in the answer block.
func FormatSolution(t *Task, tags rewards.Tags) string {
	reasoning := t.Explanation
	if reasoning == "" {
		reasoning = fmt.Sprintf("答えは「%s」です。", t.Answer)
	}
	var b strings.Builder
	b.WriteString(tags.ReasoningStart)
	b.WriteString(reasoning)
	b.WriteString(tags.ReasoningEnd)
	b.WriteString("\n")
	b.WriteString(tags.AnswerStart)
	b.WriteString(t.Answer)
	b.WriteString(tags.AnswerEnd)
	if tags.EOSToken != "" {
		b.WriteString(tags.EOSToken)
	}
	return b.String()
}
