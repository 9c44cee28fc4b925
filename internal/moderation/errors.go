package moderation

import "errors"

var (
	// ErrPostNotFound is returned for a missing post or one the caller cannot see.
	ErrPostNotFound = errors.New("post not found")
	// ErrDuplicateReport is returned when a user reports the same post twice.
	ErrDuplicateReport = errors.New("concern already sent for this post")
	// ErrInvalidReason is returned for a report reason outside the known set.
	ErrInvalidReason = errors.New("invalid report reason")
	// ErrClassifierUnavailable wraps transport and breaker failures.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	// ErrInvalidClassifierResponse is returned when the classifier output does not match the schema.
	ErrInvalidClassifierResponse = errors.New("invalid classifier response")
)
