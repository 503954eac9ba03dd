package csvimport

import (
	"errors"
	"fmt"
)

// Row error codes
const (
	CodeRequired      = "REQUIRED_FIELD"
	CodeInvalidFormat = "INVALID_FORMAT"
	CodeInvalidValue  = "INVALID_VALUE"
	CodeTooLong       = "TOO_LONG"
	CodeDuplicate     = "DUPLICATE_IN_FILE"
)

// File level errors
var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("CSV file must be UTF-8 encoded")
	ErrMissingHeader   = errors.New("CSV file missing header row")
	ErrMalformedRow    = errors.New("malformed CSV row")
	ErrTooManyRows     = errors.New("CSV file has too many rows")
)

// RowError describes a problem with one cell
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ErrorCollection keeps the first max errors and counts the rest
type ErrorCollection struct {
	errors []RowError
	max    int
	total  int
	rows   map[int]struct{}
}

// NewErrorCollection creates a collection; max <= 0 means 100
func NewErrorCollection(max int) *ErrorCollection {
	if max <= 0 {
		max = 100
	}
	return &ErrorCollection{max: max, rows: make(map[int]struct{})}
}

// Add records an error
func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	ec.rows[err.Row] = struct{}{}
	if len(ec.errors) < ec.max {
		ec.errors = append(ec.errors, err)
	}
}

// Required records a missing mandatory value
func (ec *ErrorCollection) Required(row int, column string) {
	ec.Add(RowError{Row: row, Column: column, Code: CodeRequired, Message: fmt.Sprintf("field '%s' is required", column)})
}

// Format records a value that could not be parsed
func (ec *ErrorCollection) Format(row int, column, expected, value string) {
	ec.Add(RowError{Row: row, Column: column, Code: CodeInvalidFormat, Message: "expected " + expected, Value: value})
}

// Errors returns the kept errors
func (ec *ErrorCollection) Errors() []RowError {
	if ec.errors == nil {
		return []RowError{}
	}
	return ec.errors
}

// Total counts every recorded error
func (ec *ErrorCollection) Total() int {
	return ec.total
}

// Rows counts distinct rows with at least one error
func (ec *ErrorCollection) Rows() int {
	return len(ec.rows)
}

// HasErrors reports whether anything was recorded
func (ec *ErrorCollection) HasErrors() bool {
	return ec.total > 0
}

// IsTruncated reports whether errors were dropped
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.total > len(ec.errors)
}
