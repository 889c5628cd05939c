package storage

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/snaprag/snaprag/pkg/errtag"
)

// Postgres error codes the flush path distinguishes. See
// https://www.postgresql.org/docs/current/errcodes-appendix.html.
const (
	pgCodeUniqueViolation        = "23505"
	pgCodeSerializationFailure   = "40001"
	pgCodeDeadlockDetected       = "40P01"
)

// wrapPGError tags err with the errtag category the flush/query paths
// switch on. Idempotent appends use ON CONFLICT DO NOTHING, so
// unique-violation here means a non-append write collided outside
// that path; serialization/deadlock is retryable; anything else
// constraint-shaped is a DataError; a non-Postgres error (pool
// exhaustion, context deadline) is Transient.
func wrapPGError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeUniqueViolation:
			return errtag.Tagf(errtag.DataError, "%s: unique violation on %s: %w", op, pgErr.ConstraintName, err)
		case pgCodeSerializationFailure, pgCodeDeadlockDetected:
			return errtag.Tagf(errtag.Serialization, "%s: %w", op, err)
		default:
			return errtag.Tagf(errtag.DataError, "%s: %w", op, err)
		}
	}

	return errtag.Tagf(errtag.Transient, "%s: %w", op, err)
}

// ErrNotFound is returned by single-row lookups that find nothing.
var ErrNotFound = fmt.Errorf("not found")
