// Package errs provides the shared error types of the pickup service.
//
// Every type follows the same shape: a sentinel (ErrValueIsRequired, ...), a
// struct carrying the offending parameter and an optional cause, constructors
// with and without cause, and an Unwrap method returning the sentinel so that
// callers classify failures with errors.Is:
//
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    return echo.NewHTTPError(http.StatusNotFound)
//	}
//
// VersionIsInvalidError doubles as the optimistic-locking conflict reported by
// the postgres repositories.
package errs
