package source

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnavailable       = errors.New("source unavailable")
	ErrRateLimited       = errors.New("source rate limited")
	ErrMalformedResponse = errors.New("malformed source response")

	errMissingKey = errors.New("api key not configured")
	errMissingURL = errors.New("url not configured")
)

const (
	KindUnavailable = "unavailable"
	KindRateLimited = "rate_limited"
	KindMalformed   = "malformed_response"
	KindUnknown     = "unknown"
)

// Kind returns a stable label for the error class err belongs to.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	default:
		return KindUnknown
	}
}

// classify prefixes err with the source id and makes sure it wraps one of
// the three error kinds. Unclassified errors count as unavailable.
func classify(id string, err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != KindUnknown {
		return fmt.Errorf("%s: %w", id, err)
	}
	return fmt.Errorf("%s: %w: %w", id, ErrUnavailable, err)
}

func statusError(status int) error {
	switch {
	case status == 429:
		return fmt.Errorf("%w: http %d", ErrRateLimited, status)
	default:
		return fmt.Errorf("%w: http %d", ErrUnavailable, status)
	}
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: timed out: %w", ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
