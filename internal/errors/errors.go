// Package errors defines the error taxonomy shared across the crawl
// pipeline. Errors are tagged structs, not sentinel values, so callers can
// type-switch on the failure class while still getting a useful Error()
// string and, where applicable, Unwrap() access to the underlying cause.
package errors

import "fmt"

// GenericError is the untagged fallback for conditions that don't warrant
// their own type.
type GenericError struct {
	Message string
}

func (e *GenericError) Error() string { return e.Message }

func NewGenericError(message string) *GenericError {
	return &GenericError{Message: message}
}

// MissingDependencyError reports a dependency-registry lookup miss.
type MissingDependencyError struct {
	Name string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency: %s", e.Name)
}

func NewMissingDependencyError(name string) *MissingDependencyError {
	return &MissingDependencyError{Name: name}
}

// IndexOutOfBoundsError reports a stream-reader or FSM cursor moving past
// the bounds of its source.
type IndexOutOfBoundsError struct {
	Index, Length int
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds (length %d)", e.Index, e.Length)
}

// InvalidUtf8Error reports a byte sequence that does not decode to a valid
// UTF-8 code point within four bytes.
type InvalidUtf8Error struct {
	Offset int64
}

func (e *InvalidUtf8Error) Error() string {
	return fmt.Sprintf("invalid utf-8 sequence at offset %d", e.Offset)
}

// ParseError reports a failure to parse a structured value.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error (%s): %v", e.What, e.Err)
	}
	return fmt.Sprintf("parse error: %s", e.What)
}

func (e *ParseError) Unwrap() error { return e.Err }

func NewParseError(what string, err error) *ParseError {
	return &ParseError{What: what, Err: err}
}

// IOError wraps a lower-layer I/O failure (filesystem, network stream).
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error during %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func NewIOError(op string, err error) *IOError {
	return &IOError{Op: op, Err: err}
}

// UrlParseError wraps a net/url parse failure.
type UrlParseError struct {
	Input string
	Err   error
}

func (e *UrlParseError) Error() string {
	return fmt.Sprintf("could not parse url %q: %v", e.Input, e.Err)
}

func (e *UrlParseError) Unwrap() error { return e.Err }

func NewUrlParseError(input string, err error) *UrlParseError {
	return &UrlParseError{Input: input, Err: err}
}

// Base64DecodeError wraps a failure to decode a base64-encoded CDP response
// body.
type Base64DecodeError struct {
	Err error
}

func (e *Base64DecodeError) Error() string {
	return fmt.Sprintf("base64 decode error: %v", e.Err)
}

func (e *Base64DecodeError) Unwrap() error { return e.Err }

func NewBase64DecodeError(err error) *Base64DecodeError {
	return &Base64DecodeError{Err: err}
}

// FetchError reports a terminal HTTP-level fetch failure tied to a status
// code and the URI being fetched.
type FetchError struct {
	Status int
	URI    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error: status %d for %s", e.Status, e.URI)
}

func NewFetchError(status int, uri string) *FetchError {
	return &FetchError{Status: status, URI: uri}
}

// HttpError reports a transport-level failure (no response received).
type HttpError struct {
	Method  string
	Message string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("http %s failed: %s", e.Method, e.Message)
}

func NewHttpError(method, message string) *HttpError {
	return &HttpError{Method: method, Message: message}
}

// NotFoundError reports a missing key in a keyed store (object store, hash
// set).
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Key)
}

func NewNotFoundError(key string) *NotFoundError {
	return &NotFoundError{Key: key}
}

// UnexpectedEofError reports clean source exhaustion. Parser tasks treat
// this as a non-fatal termination signal, not a propagated error.
type UnexpectedEofError struct{}

func (e *UnexpectedEofError) Error() string { return "unexpected eof" }
