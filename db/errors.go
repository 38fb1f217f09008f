package db

import (
	"errors"
	"fmt"
)

var (
	ErrArityMismatch        = errors.New("column count does not match value count")
	ErrUnsupportedStatement = errors.New("unsupported statement")
)

// EvaluationError reports a statement that parsed but cannot be applied to
// its table.
type EvaluationError struct {
	Table string
	Err   error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error: %s: %v", e.Table, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
