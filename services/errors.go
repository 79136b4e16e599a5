package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("quiz not found")
	ErrCreationFailed   = errors.New("quiz creation failed")
	ErrDeletionFailed   = errors.New("quiz deletion failed")
	ErrGenerationFailed = errors.New("quiz generation failed")
)

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// GenerationKind tells a failed provider call apart from unusable output.
type GenerationKind string

const (
	GenerationTransport GenerationKind = "transport"
	GenerationMalformed GenerationKind = "malformed"
)

type GenerationError struct {
	Kind GenerationKind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

func generationError(kind GenerationKind, format string, args ...interface{}) error {
	return &GenerationError{Kind: kind, Err: fmt.Errorf(format, args...)}
}
