package sigs

import "github.com/iov-one/swap/errors"

var (
	// ErrInvalidSequence is returned when a signature carries a sequence
	// that is not the next one expected for its signer.
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
