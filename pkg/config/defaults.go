package config

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Tags: TagsConfig{
			ReasoningStart: "<reasoning>",
			ReasoningEnd:   "</reasoning>",
			AnswerStart:    "<answer>",
			AnswerEnd:      "</answer>",
		},
		Generation: GenerationConfig{
			Size:      10000,
			GroupSize: 4,
			Workers:   4,
			Seed:      42,
			ChunkSize: 10000,
			Gzip:      true,
			DifficultyWeights: map[string]float64{
				"beginner":     0.4,
				"intermediate": 0.4,
				"advanced":     0.2,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Rewards: RewardsConfig{
			FormatWeight:  1.0,
			AnswerWeight:  1.0,
			QualityWeight: 1.0,
		},
	}
}
