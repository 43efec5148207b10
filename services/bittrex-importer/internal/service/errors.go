package service

import "fmt"

type FileKind string

const (
	FileCSV      FileKind = "CSV"
	FileDatabase FileKind = "database"
)

// MissingFileError reports an input path that is absent or not a regular file.
type MissingFileError struct {
	Kind FileKind
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s file not found: %s", e.Kind, e.Path)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// ParseError means the CSV could not be decoded as delimited text.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FormatError points at the first field that did not convert to its column type.
type FormatError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: invalid %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string {
	return "invalid input for conversion: " + e.Msg
}

type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }
