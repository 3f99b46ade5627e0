package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihongo-dojo/dojo-go/pkg/tasks"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestLoadOverridesDefaults(t *testing.T) {
	yaml := []byte(`
generation:
  size: 500
  workers: 8
  types:
    - particle_fill
    - kanji_reading
logging:
  level: debug
`)
	cfg, err := Load(yaml)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Generation.Size)
	assert.Equal(t, 8, cfg.Generation.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "<reasoning>", cfg.Tags.ReasoningStart, "defaults preserved")
	assert.Equal(t, []tasks.Type{tasks.ParticleFill, tasks.KanjiReading}, cfg.Generation.TaskTypes())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero size", "generation:\n  size: 0\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"unknown task type", "generation:\n  types:\n    - haiku\n"},
		{"too many workers", "generation:\n  workers: 1000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load([]byte("generation: ["))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generation:\n  seed: 7\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Generation.Seed)

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestTagsConversion(t *testing.T) {
	cfg := Default()
	cfg.Tags.EOSToken = "<eos>"
	tags := cfg.Tags.Tags()
	assert.Equal(t, "<answer>", tags.AnswerStart)
	assert.Equal(t, "<eos>", tags.EOSToken)
}

func TestRewardWeightsConversion(t *testing.T) {
	cfg := Default()
	cfg.Rewards.QualityWeight = 0.5
	w := cfg.Rewards.Weights()
	assert.InDelta(t, 1.0, w.Format, 1e-9)
	assert.InDelta(t, 1.0, w.Answer, 1e-9)
	assert.InDelta(t, 0.5, w.Quality, 1e-9)
}

func TestWeightsConversion(t *testing.T) {
	cfg := Default()
	w := cfg.Generation.Weights()
	assert.InDelta(t, 0.4, w[tasks.Beginner], 1e-9)
	assert.InDelta(t, 0.2, w[tasks.Advanced], 1e-9)

	cfg.Generation.DifficultyWeights = nil
	assert.Nil(t, cfg.Generation.Weights())
}
