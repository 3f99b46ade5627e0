package training

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nihongo-dojo/dojo-go/pkg/errors"
	"github.com/nihongo-dojo/dojo-go/pkg/rewards"
)

// StepRecord is one training step as persisted to the step log: the shared
// question, the reference answer, every sampled response with its extracted
// answer, and the reward vector.
type StepRecord struct {
	Step      int       `json:"step"`
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Responses []string  `json:"responses"`
	Extracted []string  `json:"extracted"`
	Rewards   []float64 `json:"rewards"`
}

// StepLogger appends one JSON line per training step, flushed immediately so
// an interrupted run loses at most the current step. A second stream records
// per-reward-function history.
type StepLogger struct {
	mu      sync.Mutex
	steps   *os.File
	history *os.File
	matcher *rewards.FormatMatcher
	count   int
}

// NewStepLogger opens the step and history streams under dir, named by task
// and start time.
func NewStepLogger(dir, taskName string, tags rewards.Tags) (*StepLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.IOFailed, "create log directory")
	}
	stamp := time.Now().Format("20060102_150405")
	base := filepath.Join(dir, fmt.Sprintf("%s_training_%s", taskName, stamp))

	steps, err := os.Create(base + ".jsonl")
	if err != nil {
		return nil, errors.Wrap(err, errors.IOFailed, "create step log")
	}
	history, err := os.Create(base + "_history.jsonl")
	if err != nil {
		steps.Close()
		return nil, errors.Wrap(err, errors.IOFailed, "create history log")
	}
	return &StepLogger{
		steps:   steps,
		history: history,
		matcher: rewards.NewFormatMatcher(tags),
	}, nil
}

// StepPath returns the step stream's file path.
func (l *StepLogger) StepPath() string { return l.steps.Name() }

// LogStep records one step. Empty extracted answers are recovered from the
// responses before writing.
func (l *StepLogger) LogStep(step int, question, answer string, responses, extracted []string, rewardVec []float64) (*StepRecord, error) {
	if len(extracted) != len(responses) {
		extracted = nil
	}
	if extracted == nil {
		extracted = make([]string, len(responses))
		for i, r := range responses {
			if a, ok := l.matcher.Extract(r); ok {
				extracted[i] = a
			}
		}
	}

	rec := &StepRecord{
		Step:      step,
		Timestamp: time.Now().UTC(),
		Question:  question,
		Answer:    answer,
		Responses: responses,
		Extracted: extracted,
		Rewards:   rewardVec,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := appendJSONLine(l.steps, rec); err != nil {
		return nil, err
	}
	l.count++
	return rec, nil
}

// HistoryRecord is one reward-function evaluation in the history stream.
type HistoryRecord struct {
	Step       int       `json:"step"`
	Timestamp  time.Time `json:"timestamp"`
	RewardFunc string    `json:"reward_function"`
	Rewards    []float64 `json:"rewards"`
	Mean       float64   `json:"mean"`
}

// LogRewards records one reward function's batch output.
func (l *StepLogger) LogRewards(step int, rewardFunc string, rewardVec []float64) error {
	rec := HistoryRecord{
		Step:       step,
		Timestamp:  time.Now().UTC(),
		RewardFunc: rewardFunc,
		Rewards:    rewardVec,
		Mean:       mean(rewardVec),
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return appendJSONLine(l.history, rec)
}

// Steps returns how many steps have been logged.
func (l *StepLogger) Steps() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Close flushes and closes both streams.
func (l *StepLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.steps.Close(); err != nil {
		l.history.Close()
		return errors.Wrap(err, errors.IOFailed, "close step log")
	}
	return l.history.Close()
}

func appendJSONLine(f *os.File, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, errors.SerializationFailed, "encode log record")
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, errors.IOFailed, "write log record")
	}
	return nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// ReadStepLog loads a step stream back into memory, for analysis tooling.
func ReadStepLog(path string) ([]StepRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ResourceNotFound, "open step log")
	}
	defer f.Close()

	var records []StepRecord
	dec := json.NewDecoder(f)
	for dec.More() {
		var rec StepRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, errors.Wrap(err, errors.SerializationFailed, "decode step record")
		}
		records = append(records, rec)
	}
	return records, nil
}
