// Package errs implements cocosearch's error taxonomy: typed errors that
// carry the failing artifact (file, index, query) so callers and tests can
// assert against them instead of matching on message substrings.
package errs

import (
	"fmt"
	"time"
)

// Kind names one of the taxonomy's error categories (spec.md §7).
type Kind string

const (
	KindValidation     Kind = "validation"
	KindIndexNotFound  Kind = "index_not_found"
	KindInfrastructure Kind = "infrastructure"
	KindSearch         Kind = "search"
	KindIndexing       Kind = "indexing"
)

// maxQueryTextInMessage bounds how much of a query string we echo back in an
// error message (spec.md §7: "query text truncated to 200 chars").
const maxQueryTextInMessage = 200

func truncate(s string) string {
	if len(s) <= maxQueryTextInMessage {
		return s
	}
	return s[:maxQueryTextInMessage] + "…"
}

// ValidationError reports a malformed index name, an impossible flag
// combination, or a query exceeding the length cap. Never retried.
type ValidationError struct {
	Field      string
	Value      string
	Underlying error
}

func NewValidationError(field, value string, err error) *ValidationError {
	return &ValidationError{Field: field, Value: truncate(value), Underlying: err}
}

func (e *ValidationError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("validation error: %s %q: %v", e.Field, e.Value, e.Underlying)
	}
	return fmt.Sprintf("validation error: %s %q", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Underlying }

// IndexNotFoundError reports that an index's chunk table does not exist.
type IndexNotFoundError struct {
	IndexName string
}

func NewIndexNotFoundError(indexName string) *IndexNotFoundError {
	return &IndexNotFoundError{IndexName: indexName}
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("index not found: %q", e.IndexName)
}

// InfrastructureError reports the embedding endpoint or storage being
// unreachable. Surfaced with a remediation hint; no automatic retry beyond
// the underlying driver's own connection pool.
type InfrastructureError struct {
	Component  string // "storage" or "embedding"
	Remedy     string
	Underlying error
	Timestamp  time.Time
}

func NewInfrastructureError(component, remedy string, err error) *InfrastructureError {
	return &InfrastructureError{Component: component, Remedy: remedy, Underlying: err, Timestamp: time.Now()}
}

func (e *InfrastructureError) Error() string {
	if e.Remedy != "" {
		return fmt.Sprintf("%s unavailable: %v (%s)", e.Component, e.Underlying, e.Remedy)
	}
	return fmt.Sprintf("%s unavailable: %v", e.Component, e.Underlying)
}

func (e *InfrastructureError) Unwrap() error { return e.Underlying }

// SearchError reports a retrieval failure surfaced to the caller: vector
// retrieval failed, the fused results could not be hydrated, or the call
// was cancelled between retrieval and fusion. A failing keyword retrieval
// alone does not produce one; the search degrades to vector-only results.
type SearchError struct {
	QueryText  string
	Reason     string
	Underlying error
}

func NewSearchError(queryText, reason string, err error) *SearchError {
	return &SearchError{QueryText: truncate(queryText), Reason: reason, Underlying: err}
}

func (e *SearchError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("search failed for %q: %s: %v", e.QueryText, e.Reason, e.Underlying)
	}
	return fmt.Sprintf("search failed for %q: %s", e.QueryText, e.Reason)
}

func (e *SearchError) Unwrap() error { return e.Underlying }

// ErrCancelled is the Underlying sentinel for a SearchError caused by
// cancellation between retrieval and fusion.
var ErrCancelled = fmt.Errorf("search cancelled")

// IndexingError reports a per-file failure (read, parse, embed) during an
// indexing run. The run continues after logging these; they are collected,
// not necessarily returned, so IndexingError implements error but callers
// typically only log it.
type IndexingError struct {
	FilePath   string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

func NewIndexingError(filePath, op string, err error) *IndexingError {
	return &IndexingError{FilePath: filePath, Operation: op, Underlying: err, Timestamp: time.Now()}
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("indexing %s failed for %s: %v", e.Operation, e.FilePath, e.Underlying)
}

func (e *IndexingError) Unwrap() error { return e.Underlying }

// MultiError aggregates independent errors, used when an indexing run
// finishes with a non-empty but non-fatal error set.
type MultiError struct {
	Errors []error
}

func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred, first: %v", len(e.Errors), e.Errors[0])
}

func (e *MultiError) Unwrap() []error { return e.Errors }
