package ratelimiter

import "github.com/pkg/errors"

// ErrBackendUnavailable marks a transport, timeout, or protocol failure from
// either store. Always recoverable: the engine falls back or applies the
// fail policy, it never surfaces this to the caller of Check.
var ErrBackendUnavailable = errors.New("rate limit backend unavailable")

// ErrPipelineIntegrity marks an atomic batch that completed without
// returning the increment result. Treated exactly like ErrBackendUnavailable.
var ErrPipelineIntegrity = errors.New("rate limit pipeline returned no result")

// IsBackendUnavailable reports whether err marks a store failure the engine
// recovers from by falling back or applying the fail policy.
func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable) || errors.Is(err, ErrPipelineIntegrity)
}

// backendUnavailable wraps err so IsBackendUnavailable holds while keeping
// the original cause for logging.
func backendUnavailable(err error, op string) error {
	return errors.Wrapf(ErrBackendUnavailable, "%s: %v", op, err)
}
