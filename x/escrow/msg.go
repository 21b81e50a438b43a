package escrow

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

const (
	pathMakeOfferMsg   = "escrow/make"
	pathTakeOfferMsg   = "escrow/take"
	pathRefundOfferMsg = "escrow/refund"
)

var (
	_ swap.Msg           = (*MakeOfferMsg)(nil)
	_ swap.AccountLister = (*MakeOfferMsg)(nil)
	_ swap.Msg           = (*TakeOfferMsg)(nil)
	_ swap.AccountLister = (*TakeOfferMsg)(nil)
	_ swap.Msg           = (*RefundOfferMsg)(nil)
	_ swap.AccountLister = (*RefundOfferMsg)(nil)
)

// MakeOfferMsg deposits TokenAAmountOffered of mint A into a new vault and
// opens an offer asking for TokenBAmountWanted of mint B. The maker signs
// and pays for the storage of both the offer and the vault.
//
// Offer and Vault must be the addresses derived from the id, they are
// declared so that the transaction lists every account it writes.
type MakeOfferMsg struct {
	Maker               swap.Address `codec:"maker"`
	ID                  uint64       `codec:"id"`
	TokenMintA          swap.Address `codec:"token_mint_a"`
	TokenMintB          swap.Address `codec:"token_mint_b"`
	MakerTokenAccountA  swap.Address `codec:"maker_token_account_a"`
	Offer               swap.Address `codec:"offer"`
	Vault               swap.Address `codec:"vault"`
	TokenAAmountOffered uint64       `codec:"token_a_amount_offered"`
	TokenBAmountWanted  uint64       `codec:"token_b_amount_wanted"`
}

func (MakeOfferMsg) Path() string {
	return pathMakeOfferMsg
}

func (m *MakeOfferMsg) Validate() error {
	if m.TokenAAmountOffered == 0 {
		return errors.Wrap(ErrInvalidAmount, "offered")
	}
	if m.TokenBAmountWanted == 0 {
		return errors.Wrap(ErrInvalidAmount, "wanted")
	}
	if m.TokenMintA.Equals(m.TokenMintB) {
		return errors.Wrap(ErrInvalidTokenMint, m.TokenMintA.String())
	}
	return validateAccounts(map[string]swap.Address{
		"maker":                 m.Maker,
		"token mint a":          m.TokenMintA,
		"token mint b":          m.TokenMintB,
		"maker token account a": m.MakerTokenAccountA,
		"offer":                 m.Offer,
		"vault":                 m.Vault,
	})
}

func (m *MakeOfferMsg) WritableAccounts() []swap.Address {
	return []swap.Address{m.Maker, m.MakerTokenAccountA, m.Offer, m.Vault}
}

// TakeOfferMsg completes an offer. The taker signs and pays for the
// storage of its token A account and the maker's token B account, created
// when missing.
type TakeOfferMsg struct {
	Taker              swap.Address `codec:"taker"`
	Maker              swap.Address `codec:"maker"`
	TokenMintA         swap.Address `codec:"token_mint_a"`
	TokenMintB         swap.Address `codec:"token_mint_b"`
	Offer              swap.Address `codec:"offer"`
	TakerTokenAccountA swap.Address `codec:"taker_token_account_a"`
	TakerTokenAccountB swap.Address `codec:"taker_token_account_b"`
	Vault              swap.Address `codec:"vault"`
	MakerTokenAccountB swap.Address `codec:"maker_token_account_b"`
}

func (TakeOfferMsg) Path() string {
	return pathTakeOfferMsg
}

func (m *TakeOfferMsg) Validate() error {
	return validateAccounts(map[string]swap.Address{
		"taker":                 m.Taker,
		"maker":                 m.Maker,
		"token mint a":          m.TokenMintA,
		"token mint b":          m.TokenMintB,
		"offer":                 m.Offer,
		"taker token account a": m.TakerTokenAccountA,
		"taker token account b": m.TakerTokenAccountB,
		"vault":                 m.Vault,
		"maker token account b": m.MakerTokenAccountB,
	})
}

func (m *TakeOfferMsg) WritableAccounts() []swap.Address {
	return []swap.Address{
		m.Taker,
		m.Maker,
		m.Offer,
		m.TakerTokenAccountA,
		m.TakerTokenAccountB,
		m.Vault,
		m.MakerTokenAccountB,
	}
}

// RefundOfferMsg cancels an offer and returns the deposit to the maker,
// who must sign.
type RefundOfferMsg struct {
	Maker              swap.Address `codec:"maker"`
	TokenMintA         swap.Address `codec:"token_mint_a"`
	TokenMintB         swap.Address `codec:"token_mint_b"`
	Offer              swap.Address `codec:"offer"`
	Vault              swap.Address `codec:"vault"`
	MakerTokenAccountA swap.Address `codec:"maker_token_account_a"`
}

func (RefundOfferMsg) Path() string {
	return pathRefundOfferMsg
}

func (m *RefundOfferMsg) Validate() error {
	return validateAccounts(map[string]swap.Address{
		"maker":                 m.Maker,
		"token mint a":          m.TokenMintA,
		"token mint b":          m.TokenMintB,
		"offer":                 m.Offer,
		"vault":                 m.Vault,
		"maker token account a": m.MakerTokenAccountA,
	})
}

func (m *RefundOfferMsg) WritableAccounts() []swap.Address {
	return []swap.Address{m.Maker, m.Offer, m.Vault, m.MakerTokenAccountA}
}

func validateAccounts(accounts map[string]swap.Address) error {
	for name, addr := range accounts {
		if err := addr.Validate(); err != nil {
			return errors.Wrap(err, name)
		}
	}
	return nil
}
