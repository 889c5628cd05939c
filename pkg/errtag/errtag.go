// Package errtag categorizes errors raised across snaprag's ingestion
// pipeline so callers can branch on failure class without string
// matching or depending on a specific package's error type.
package errtag

import (
	"errors"
	"fmt"
)

// Category is one of the six failure classes the poller and storage
// layer distinguish.
type Category string

const (
	// Transient is a retryable I/O failure: RPC timeout, connection
	// reset, pool exhaustion. The caller should back off and retry.
	Transient Category = "transient"

	// Serialization is a database serialization/deadlock failure
	// (Postgres codes 40001, 40P01). Retryable, same as Transient, but
	// kept distinct for metrics.
	Serialization Category = "serialization"

	// DataError is a malformed or unexpected payload that isn't a
	// unique-constraint collision: bad protobuf, constraint violation
	// other than message_hash uniqueness.
	DataError Category = "data_error"

	// ParseWarning is a recognized-but-unsupported message shape (e.g.
	// an unknown UserDataAdd sub-type). Logged at debug, not fatal.
	ParseWarning Category = "parse_warning"

	// UserError is a bad caller input: invalid shard ID, malformed CLI
	// flag, config validation failure.
	UserError Category = "user_error"

	// Catastrophic is unrecoverable: lock acquisition failure, missing
	// migrations, corrupt lockfile. The process should exit.
	Catastrophic Category = "catastrophic"
)

// taggedError pairs an error with its Category.
type taggedError struct {
	category Category
	err      error
}

func (e *taggedError) Error() string {
	return fmt.Sprintf("%s: %s", e.category, e.err)
}

func (e *taggedError) Unwrap() error {
	return e.err
}

// Tag wraps err with the given category.
func Tag(category Category, err error) error {
	if err == nil {
		return nil
	}
	return &taggedError{category: category, err: err}
}

// Tagf wraps a formatted error with the given category, analogous to
// fmt.Errorf("...: %w", err).
func Tagf(category Category, format string, args ...any) error {
	return &taggedError{category: category, err: fmt.Errorf(format, args...)}
}

// CategoryOf returns err's category, or Catastrophic if err was never
// tagged — an untagged error reaching the top of the pipeline is itself
// a bug, so it is treated as the most severe class by default.
func CategoryOf(err error) Category {
	var tagged *taggedError
	if errors.As(err, &tagged) {
		return tagged.category
	}
	return Catastrophic
}

// IsRetryable reports whether err's category warrants a retry with
// backoff rather than surfacing to the caller.
func IsRetryable(err error) bool {
	switch CategoryOf(err) {
	case Transient, Serialization:
		return true
	default:
		return false
	}
}
