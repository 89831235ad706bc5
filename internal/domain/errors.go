package domain

import "errors"

var (
	// ErrProductNotFound is returned when no source can resolve a product.
	ErrProductNotFound = errors.New("product not found")

	// ErrNetworkFailure is returned when a remote call fails at the transport level.
	ErrNetworkFailure = errors.New("network request failed")

	// ErrDecodeFailure is returned when a remote response body cannot be decoded.
	ErrDecodeFailure = errors.New("failed to decode response")

	// ErrInvalidURL is returned when a request URL cannot be constructed.
	ErrInvalidURL = errors.New("invalid request URL")

	// ErrAlreadyActioned is returned when a user verifies or reports the same
	// product a second time.
	ErrAlreadyActioned = errors.New("product already actioned by this user")

	// ErrAuthenticationFailed is returned when anonymous authentication against
	// the shared store fails.
	ErrAuthenticationFailed = errors.New("anonymous authentication failed")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when a barcode is not present in the cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrMeasurementOutOfRange is returned when a body measurement fails the
	// plausibility checks.
	ErrMeasurementOutOfRange = errors.New("measurement out of plausible range")

	// ErrRecordNotFound is returned when a local store row does not exist.
	ErrRecordNotFound = errors.New("record not found")
)
