package domain

import "errors"

var (
	// Party errors
	ErrPartyNotFound     = errors.New("party not found")
	ErrDuplicateCode     = errors.New("party code already in use")
	ErrPartyInactive     = errors.New("party is inactive")
	ErrPartyKindMismatch = errors.New("document kind does not match party kind")

	// Document errors
	ErrDocumentNotFound    = errors.New("document not found")
	ErrInvalidDocumentKind = errors.New("invalid document kind")
	ErrInvalidAmount       = errors.New("amount must be positive")

	// ErrNegativeBalance is returned when an operation would drive the
	// party balance negative and the caller did not explicitly confirm.
	// A negative balance is a valid business state, it just needs intent.
	ErrNegativeBalance = errors.New("operation would make balance negative; confirmation required")
)
