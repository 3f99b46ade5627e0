package config

// Config is the complete configuration for dataset generation and scoring.
type Config struct {
	// Tags delimit the reasoning and answer blocks of completions.
	Tags TagsConfig `yaml:"tags,omitempty" validate:"omitempty"`

	// Generation controls dataset generation runs.
	Generation GenerationConfig `yaml:"generation,omitempty" validate:"omitempty"`

	// Logging configuration.
	Logging LoggingConfig `yaml:"logging,omitempty" validate:"omitempty"`

	// Rewards tuning.
	Rewards RewardsConfig `yaml:"rewards,omitempty" validate:"omitempty"`
}

// TagsConfig names the four block markers and the optional EOS token.
type TagsConfig struct {
	ReasoningStart string `yaml:"reasoning_start" validate:"required"`
	ReasoningEnd   string `yaml:"reasoning_end" validate:"required"`
	AnswerStart    string `yaml:"answer_start" validate:"required"`
	AnswerEnd      string `yaml:"answer_end" validate:"required"`
	EOSToken       string `yaml:"eos_token,omitempty"`
}

// GenerationConfig controls dataset generation.
type GenerationConfig struct {
	// Size is the number of tasks to generate.
	Size int `yaml:"size" validate:"min=1"`

	// Types restricts generation to the named task types; empty means all.
	Types []string `yaml:"types,omitempty" validate:"omitempty,dive,oneof=kanji_reading kanji_writing particle_fill word_order keigo_conversion counter_word"`

	// GroupSize is the GRPO group size.
	GroupSize int `yaml:"group_size" validate:"min=1"`

	// Workers is the generation pool size.
	Workers int `yaml:"workers" validate:"min=1,max=64"`

	// Seed makes runs reproducible.
	Seed int64 `yaml:"seed"`

	// ChunkSize is tasks per serialized chunk file.
	ChunkSize int `yaml:"chunk_size" validate:"min=1"`

	// Gzip compresses chunk files.
	Gzip bool `yaml:"gzip"`

	// DifficultyWeights is the sampling distribution over level bands.
	DifficultyWeights map[string]float64 `yaml:"difficulty_weights,omitempty" validate:"omitempty,dive,min=0"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	// Level is the minimum severity (debug, info, warn, error).
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`

	// File adds a JSONL output at this path when non-empty.
	File string `yaml:"file,omitempty"`
}

// RewardsConfig carries the per-function weights applied when summing a
// suite into one scalar per completion.
type RewardsConfig struct {
	FormatWeight  float64 `yaml:"format_weight" validate:"min=0"`
	AnswerWeight  float64 `yaml:"answer_weight" validate:"min=0"`
	QualityWeight float64 `yaml:"quality_weight" validate:"min=0"`
}
