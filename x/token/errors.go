package token

import "github.com/iov-one/swap/errors"

// ErrDecimals is returned when a checked transfer declares a number of
// decimals different from the mint.
var ErrDecimals = errors.Register(1100, "decimals mismatch")
