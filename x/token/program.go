package token

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

var (
	// ProgramID is the address of the token program.
	ProgramID = swap.MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	// AssociatedProgramID is the address of the program deriving the
	// associated token accounts.
	AssociatedProgramID = swap.MustParseAddress("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
)

// AssociatedAddress returns the address of the canonical token account of
// the owner for given mint.
func AssociatedAddress(owner, mint swap.Address) (swap.Address, error) {
	addr, _, err := swap.FindProgramAddress(AssociatedProgramID, owner.Bytes(), ProgramID.Bytes(), mint.Bytes())
	if err != nil {
		return swap.Address{}, errors.Wrap(err, "associated address")
	}
	return addr, nil
}
