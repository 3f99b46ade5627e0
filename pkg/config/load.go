package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/nihongo-dojo/dojo-go/pkg/errors"
	"github.com/nihongo-dojo/dojo-go/pkg/rewards"
	"github.com/nihongo-dojo/dojo-go/pkg/tasks"
)

var validate = validator.New()

// Load parses YAML on top of the defaults and validates the result.
func Load(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "parse config yaml")
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and parses a YAML config file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ResourceNotFound, "read config file"),
			errors.Fields{"path": path})
	}
	return Load(data)
}

// Validate checks the configuration's struct tags and cross-field rules.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var invalid validator.ValidationErrors
		if stderrors.As(err, &invalid) {
			messages := make([]string, 0, len(invalid))
			for _, fe := range invalid {
				messages = append(messages, fieldMessage(fe))
			}
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "invalid configuration"),
				errors.Fields{"problems": strings.Join(messages, "; ")})
		}
		return errors.Wrap(err, errors.ValidationFailed, "validate configuration")
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Namespace(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Namespace(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Namespace(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag())
	}
}

// Tags converts the tag section to the scorer's tag set.
func (c *TagsConfig) Tags() rewards.Tags {
	return rewards.Tags{
		ReasoningStart: c.ReasoningStart,
		ReasoningEnd:   c.ReasoningEnd,
		AnswerStart:    c.AnswerStart,
		AnswerEnd:      c.AnswerEnd,
		EOSToken:       c.EOSToken,
	}
}

// Weights converts the reward section to the suite's class weights.
func (c *RewardsConfig) Weights() rewards.Weights {
	return rewards.Weights{
		Format:  c.FormatWeight,
		Answer:  c.AnswerWeight,
		Quality: c.QualityWeight,
	}
}

// TaskTypes converts the configured type names.
func (c *GenerationConfig) TaskTypes() []tasks.Type {
	types := make([]tasks.Type, len(c.Types))
	for i, t := range c.Types {
		types[i] = tasks.Type(t)
	}
	return types
}

// Weights converts the difficulty distribution.
func (c *GenerationConfig) Weights() tasks.DifficultyWeights {
	if len(c.DifficultyWeights) == 0 {
		return nil
	}
	w := make(tasks.DifficultyWeights, len(c.DifficultyWeights))
	for band, weight := range c.DifficultyWeights {
		w[tasks.Difficulty(band)] = weight
	}
	return w
}
