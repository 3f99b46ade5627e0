package training

import (
	"database/sql"
	"encoding/json"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nihongo-dojo/dojo-go/pkg/errors"
)

// Store persists training steps into sqlite so runs can be queried after the
// fact without replaying JSONL files. ":memory:" gives an ephemeral store.
type Store struct {
	db *sql.DB
	mu sync.Mutex

	initialized sync.Once
}

// NewStore opens (and initializes) a store at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.IOFailed, "open training store"),
			errors.Fields{"path": path})
	}
	s := &Store{db: db}
	if err := s.ensureInitialized(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureInitialized() error {
	var initErr error
	s.initialized.Do(func() {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			initErr = errors.Wrap(err, errors.IOFailed, "enable WAL mode")
			return
		}
		query := `
        CREATE TABLE IF NOT EXISTS steps (
            step INTEGER NOT NULL,
            timestamp DATETIME NOT NULL,
            question TEXT NOT NULL,
            answer TEXT NOT NULL,
            responses TEXT NOT NULL,
            extracted TEXT NOT NULL,
            rewards TEXT NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_steps_step ON steps(step);

        CREATE TABLE IF NOT EXISTS reward_history (
            step INTEGER NOT NULL,
            reward_function TEXT NOT NULL,
            mean_reward REAL NOT NULL,
            min_reward REAL NOT NULL,
            max_reward REAL NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_history_func ON reward_history(reward_function);
        `
		if _, err := s.db.Exec(query); err != nil {
			initErr = errors.Wrap(err, errors.IOFailed, "initialize training store schema")
		}
	})
	return initErr
}

// RecordStep inserts one step record.
func (s *Store) RecordStep(rec *StepRecord) error {
	responses, err := json.Marshal(rec.Responses)
	if err != nil {
		return errors.Wrap(err, errors.SerializationFailed, "encode responses")
	}
	extracted, err := json.Marshal(rec.Extracted)
	if err != nil {
		return errors.Wrap(err, errors.SerializationFailed, "encode extracted answers")
	}
	rewardsJSON, err := json.Marshal(rec.Rewards)
	if err != nil {
		return errors.Wrap(err, errors.SerializationFailed, "encode rewards")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		`INSERT INTO steps (step, timestamp, question, answer, responses, extracted, rewards)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Step, rec.Timestamp, rec.Question, rec.Answer,
		string(responses), string(extracted), string(rewardsJSON))
	if err != nil {
		return errors.Wrap(err, errors.IOFailed, "insert step")
	}
	return nil
}

// RecordRewards inserts one reward function's batch summary.
func (s *Store) RecordRewards(step int, rewardFunc string, rewardVec []float64) error {
	if len(rewardVec) == 0 {
		return nil
	}
	minR, maxR := rewardVec[0], rewardVec[0]
	for _, r := range rewardVec[1:] {
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO reward_history (step, reward_function, mean_reward, min_reward, max_reward)
         VALUES (?, ?, ?, ?, ?)`,
		step, rewardFunc, mean(rewardVec), minR, maxR)
	if err != nil {
		return errors.Wrap(err, errors.IOFailed, "insert reward history")
	}
	return nil
}

// RunSummary aggregates a stored run.
type RunSummary struct {
	TotalSteps    int
	TotalSamples  int
	MeanReward    float64
	MinReward     float64
	MaxReward     float64
	AccuracyRate  float64 // fraction of responses whose extracted answer equals the reference
	ExtractedRate float64 // fraction of responses with any extracted answer
}

// Summary computes the aggregate view of every stored step.
func (s *Store) Summary() (*RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT answer, extracted, rewards FROM steps ORDER BY step`)
	if err != nil {
		return nil, errors.Wrap(err, errors.IOFailed, "query steps")
	}
	defer rows.Close()

	summary := &RunSummary{}
	correct, extractedCount := 0, 0
	rewardSum := 0.0
	rewardCount := 0
	first := true

	for rows.Next() {
		var answer, extractedJSON, rewardsJSON string
		if err := rows.Scan(&answer, &extractedJSON, &rewardsJSON); err != nil {
			return nil, errors.Wrap(err, errors.IOFailed, "scan step row")
		}
		var extracted []string
		var rewardVec []float64
		if err := json.Unmarshal([]byte(extractedJSON), &extracted); err != nil {
			return nil, errors.Wrap(err, errors.SerializationFailed, "decode extracted answers")
		}
		if err := json.Unmarshal([]byte(rewardsJSON), &rewardVec); err != nil {
			return nil, errors.Wrap(err, errors.SerializationFailed, "decode rewards")
		}

		summary.TotalSteps++
		summary.TotalSamples += len(extracted)
		for _, e := range extracted {
			if e != "" {
				extractedCount++
				if e == answer {
					correct++
				}
			}
		}
		for _, r := range rewardVec {
			rewardSum += r
			rewardCount++
			if first || r < summary.MinReward {
				summary.MinReward = r
			}
			if first || r > summary.MaxReward {
				summary.MaxReward = r
			}
			first = false
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.IOFailed, "iterate step rows")
	}

	if rewardCount > 0 {
		summary.MeanReward = rewardSum / float64(rewardCount)
	}
	if summary.TotalSamples > 0 {
		summary.AccuracyRate = float64(correct) / float64(summary.TotalSamples)
		summary.ExtractedRate = float64(extractedCount) / float64(summary.TotalSamples)
	}
	return summary, nil
}

// FunctionMeans returns the mean reward per reward function across the run.
func (s *Store) FunctionMeans() (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT reward_function, AVG(mean_reward) FROM reward_history GROUP BY reward_function`)
	if err != nil {
		return nil, errors.Wrap(err, errors.IOFailed, "query reward history")
	}
	defer rows.Close()

	means := make(map[string]float64)
	for rows.Next() {
		var name string
		var avg float64
		if err := rows.Scan(&name, &avg); err != nil {
			return nil, errors.Wrap(err, errors.IOFailed, "scan history row")
		}
		means[name] = avg
	}
	return means, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
