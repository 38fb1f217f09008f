package sql

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedQuery  = errors.New("malformed query")
	ErrInvalidSelect   = errors.New("invalid SELECT format")
	ErrInvalidWhere    = errors.New("invalid WHERE clause format")
	ErrInvalidJoin     = errors.New("invalid JOIN clause format")
	ErrInvalidGroupBy  = errors.New("invalid GROUP BY clause format")
	ErrInvalidOrderBy  = errors.New("invalid ORDER BY clause format")
	ErrInvalidLimit    = errors.New("invalid LIMIT clause format")
	ErrInvalidInsert   = errors.New("invalid INSERT query format")
	ErrMalformedDelete = errors.New("malformed DELETE query")
)

// ParseError reports a statement that could not be parsed. Err wraps one of
// the sentinel errors above, so callers can match with errors.Is.
type ParseError struct {
	Query string
	Err   error
}

func (e *ParseError) Error() string {
	return "query parsing error: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(query string, kind error, format string, args ...any) *ParseError {
	if format == "" {
		return &ParseError{Query: query, Err: kind}
	}
	return &ParseError{Query: query, Err: fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))}
}

// describe renders a token for error messages.
func describe(token Token) string {
	if token.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s at position %d", token, token.Pos)
}
