package app

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/commands"
	"github.com/iov-one/swap/crypto"
	"github.com/iov-one/swap/x/escrow"
	"github.com/iov-one/swap/x/sigs"
	"github.com/iov-one/swap/x/token"
)

// ExampleChainID is the chain the example transaction is signed for.
const ExampleChainID = "escrow-example"

func exampleKey(b byte) *crypto.PrivateKey {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = b
	}
	key, err := crypto.PrivKeyEd25519FromSeed(seed)
	if err != nil {
		panic(err)
	}
	return key
}

func mustAssociated(owner, mint swap.Address) swap.Address {
	addr, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		panic(err)
	}
	return addr
}

// Examples returns deterministic instances of the escrow messages, the
// stored offer and a signed transaction.
func Examples() []commands.Example {
	maker := exampleKey(1).PublicKey().Address()
	taker := exampleKey(2).PublicKey().Address()
	mintA := exampleKey(3).PublicKey().Address()
	mintB := exampleKey(4).PublicKey().Address()

	offer, bump, err := escrow.OfferAddress(42)
	if err != nil {
		panic(err)
	}
	vault := mustAssociated(offer, mintA)

	makeMsg := &escrow.MakeOfferMsg{
		Maker:               maker,
		ID:                  42,
		TokenMintA:          mintA,
		TokenMintB:          mintB,
		MakerTokenAccountA:  mustAssociated(maker, mintA),
		Offer:               offer,
		Vault:               vault,
		TokenAAmountOffered: 1000,
		TokenBAmountWanted:  500,
	}
	takeMsg := &escrow.TakeOfferMsg{
		Taker:              taker,
		Maker:              maker,
		TokenMintA:         mintA,
		TokenMintB:         mintB,
		Offer:              offer,
		TakerTokenAccountA: mustAssociated(taker, mintA),
		TakerTokenAccountB: mustAssociated(taker, mintB),
		Vault:              vault,
		MakerTokenAccountB: mustAssociated(maker, mintB),
	}
	refundMsg := &escrow.RefundOfferMsg{
		Maker:              maker,
		TokenMintA:         mintA,
		TokenMintB:         mintB,
		Offer:              offer,
		Vault:              vault,
		MakerTokenAccountA: mustAssociated(maker, mintA),
	}
	stored := &escrow.Offer{
		ID:                 42,
		Maker:              maker,
		TokenMintA:         mintA,
		TokenMintB:         mintB,
		TokenBAmountWanted: 500,
		Bump:               bump,
	}

	tx, err := NewTx(makeMsg)
	if err != nil {
		panic(err)
	}
	sig, err := sigs.SignTx(exampleKey(1), tx, ExampleChainID, 0)
	if err != nil {
		panic(err)
	}
	tx.Signatures = append(tx.Signatures, sig)

	return []commands.Example{
		{Filename: "offer", Obj: stored},
		{Filename: "make_offer_msg", Obj: makeMsg},
		{Filename: "take_offer_msg", Obj: takeMsg},
		{Filename: "refund_offer_msg", Obj: refundMsg},
		{Filename: "std_signature", Obj: sig},
		{Filename: "make_offer_tx", Obj: tx},
	}
}
