package datasets

import (
	"math/rand"

	"github.com/nihongo-dojo/dojo-go/pkg/rewards"
	"github.com/nihongo-dojo/dojo-go/pkg/tasks"
)

// GRPODataset is an in-memory collection of generated tasks ready to be
// grouped, converted to a training format, or serialized.
type GRPODataset struct {
	Name    string
	Version string
	Tasks   []*tasks.Task
}

// NewGRPODataset creates an empty dataset.
func NewGRPODataset(name, version string) *GRPODataset {
	return &GRPODataset{Name: name, Version: version}
}

// Add appends tasks to the dataset.
func (d *GRPODataset) Add(ts ...*tasks.Task) {
	d.Tasks = append(d.Tasks, ts...)
}

// Len returns the number of tasks.
func (d *GRPODataset) Len() int { return len(d.Tasks) }

// Groups partitions the tasks into GRPO groups of the given size. When seed
// is non-zero the tasks are shuffled first with that seed; the final short
// group is kept.
func (d *GRPODataset) Groups(size int, seed int64) [][]*tasks.Task {
	if size <= 0 {
		size = 4
	}
	ordered := d.Tasks
	if seed != 0 {
		ordered = make([]*tasks.Task, len(d.Tasks))
		copy(ordered, d.Tasks)
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	}

	var groups [][]*tasks.Task
	for start := 0; start < len(ordered); start += size {
		end := start + size
		if end > len(ordered) {
			end = len(ordered)
		}
		groups = append(groups, ordered[start:end])
	}
	return groups
}

// TrainingExample is one task rendered for supervised or GRPO consumption:
// both the instruction/input/output and the prompt/completion conventions
// are filled in.
type TrainingExample struct {
	TaskID      string `json:"task_id"`
	TaskType    string `json:"task_type"`
	Instruction string `json:"instruction"`
	Input       string `json:"input"`
	Output      string `json:"output"`
	Prompt      string `json:"prompt"`
	Completion  string `json:"completion"`
	Answer      string `json:"answer"`
}

// TrainingFormat renders every task with the tagged solution format.
func (d *GRPODataset) TrainingFormat(tags rewards.Tags) []TrainingExample {
	examples := make([]TrainingExample, len(d.Tasks))
	for i, t := range d.Tasks {
		solution := tasks.FormatSolution(t, tags)
		examples[i] = TrainingExample{
			TaskID:      t.ID,
			TaskType:    string(t.Type),
			Instruction: t.Instruction,
			Input:       t.Question,
			Output:      solution,
			Prompt:      tasks.FormatPrompt(t),
			Completion:  solution,
			Answer:      t.Answer,
		}
	}
	return examples
}

// TypeDistribution counts tasks per type.
func (d *GRPODataset) TypeDistribution() map[string]int {
	dist := make(map[string]int)
	for _, t := range d.Tasks {
		dist[string(t.Type)]++
	}
	return dist
}

// DifficultyDistribution counts tasks per level band.
func (d *GRPODataset) DifficultyDistribution() map[string]int {
	dist := make(map[string]int)
	for _, t := range d.Tasks {
		dist[string(t.Difficulty)]++
	}
	return dist
}
