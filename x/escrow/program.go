package escrow

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x/token"
)

// ProgramID is the address of the escrow program. All offer addresses are
// derived from it.
var ProgramID = swap.MustParseAddress("FUcrdwZAbMgHknZh1ZoXkWdM75MDANE6UdDpxkPaz5qh")

var offerSeed = []byte("offer")

// OfferAddress returns the address of the offer with given id, together
// with the bump seed that must be stored to recompute it.
func OfferAddress(id uint64) (swap.Address, uint8, error) {
	addr, bump, err := swap.FindProgramAddress(ProgramID, offerSeed, swap.Uint64Seed(id))
	if err != nil {
		return swap.Address{}, 0, errors.Wrap(err, "offer address")
	}
	return addr, bump, nil
}

// VaultAddress returns the token account holding the deposit of an offer.
func VaultAddress(offer, mintA swap.Address) (swap.Address, error) {
	return token.AssociatedAddress(offer, mintA)
}

// signerSeeds returns the seeds, bump included, the program presents to
// act on behalf of the offer address.
func signerSeeds(o *Offer) [][]byte {
	return [][]byte{offerSeed, swap.Uint64Seed(o.ID), {o.Bump}}
}

// address recomputes the offer address from the stored bump.
func (o *Offer) address() (swap.Address, error) {
	return swap.CreateProgramAddress(ProgramID, signerSeeds(o)...)
}
