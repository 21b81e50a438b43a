package escrow

import "github.com/iov-one/swap/errors"

var (
	// ErrInvalidAmount is returned when an offer is made for nothing, or
	// for free.
	ErrInvalidAmount = errors.Register(1000, "amount must be greater than zero")

	// ErrInvalidTokenMint is returned when both sides of an offer are the
	// same asset.
	ErrInvalidTokenMint = errors.Register(1001, "token mint must be different from offered token")
)
