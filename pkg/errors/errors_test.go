package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(UnknownTaskType, "no such task family")
	assert.EqualError(t, err, "no such task family")

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, UnknownTaskType, e.Code())
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("disk full")
	err := Wrap(base, IOFailed, "writing chunk")
	assert.EqualError(t, err, "writing chunk: disk full")
	assert.ErrorIs(t, errors.Unwrap(err), base)

	assert.Nil(t, Wrap(nil, IOFailed, "ignored"))
}

func TestWithFields(t *testing.T) {
	err := New(MissingTable, "equivalence table missing")
	err = WithFields(err, Fields{"family": "counter"})

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, MissingTable, e.Code())
	assert.Equal(t, "counter", e.Fields()["family"])
	assert.True(t, strings.Contains(err.Error(), "family=counter"))

	// Merging keeps existing fields.
	err = WithFields(err, Fields{"step": 12})
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, "counter", e.Fields()["family"])
	assert.Equal(t, 12, e.Fields()["step"])
}

func TestWithFieldsOnPlainError(t *testing.T) {
	err := WithFields(fmt.Errorf("boom"), Fields{"n": 1})

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, Unknown, e.Code())
}

func TestIsMatchesOnCode(t *testing.T) {
	err := New(DatasetNotFound, "missing dataset")
	assert.True(t, errors.Is(err, New(DatasetNotFound, "different message")))
	assert.False(t, errors.Is(err, New(ChecksumMismatch, "missing dataset")))
}
