package token

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

const (
	pathCreateMintMsg    = "token/create_mint"
	pathCreateAccountMsg = "token/create_account"
	pathMintToMsg        = "token/mint"
	pathTransferMsg      = "token/transfer"
)

var (
	_ swap.Msg           = (*CreateMintMsg)(nil)
	_ swap.AccountLister = (*CreateMintMsg)(nil)
	_ swap.Msg           = (*CreateAccountMsg)(nil)
	_ swap.AccountLister = (*CreateAccountMsg)(nil)
	_ swap.Msg           = (*MintToMsg)(nil)
	_ swap.AccountLister = (*MintToMsg)(nil)
	_ swap.Msg           = (*TransferMsg)(nil)
	_ swap.AccountLister = (*TransferMsg)(nil)
)

// CreateMintMsg creates a new asset. Both the payer and the mint key must
// sign.
type CreateMintMsg struct {
	Payer     swap.Address `codec:"payer"`
	Mint      swap.Address `codec:"mint"`
	Decimals  uint8        `codec:"decimals"`
	Authority swap.Address `codec:"authority"`
}

func (CreateMintMsg) Path() string {
	return pathCreateMintMsg
}

func (m *CreateMintMsg) Validate() error {
	if err := m.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	return nil
}

func (m *CreateMintMsg) WritableAccounts() []swap.Address {
	return []swap.Address{m.Payer, m.Mint}
}

// CreateAccountMsg creates the associated token account of the owner. The
// payer must sign.
type CreateAccountMsg struct {
	Payer      swap.Address `codec:"payer"`
	Owner      swap.Address `codec:"owner"`
	Mint       swap.Address `codec:"mint"`
	Idempotent bool         `codec:"idempotent"`
}

func (CreateAccountMsg) Path() string {
	return pathCreateAccountMsg
}

func (m *CreateAccountMsg) Validate() error {
	if err := m.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	return nil
}

func (m *CreateAccountMsg) WritableAccounts() []swap.Address {
	accounts := []swap.Address{m.Payer}
	if addr, err := AssociatedAddress(m.Owner, m.Mint); err == nil {
		accounts = append(accounts, addr)
	}
	return accounts
}

// MintToMsg issues new tokens. The mint authority must sign.
type MintToMsg struct {
	Mint      swap.Address `codec:"mint"`
	Account   swap.Address `codec:"account"`
	Authority swap.Address `codec:"authority"`
	Amount    uint64       `codec:"amount"`
}

func (MintToMsg) Path() string {
	return pathMintToMsg
}

func (m *MintToMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := m.Account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	return errors.Wrap(m.Authority.Validate(), "authority")
}

func (m *MintToMsg) WritableAccounts() []swap.Address {
	return []swap.Address{m.Mint, m.Account}
}

// TransferMsg moves tokens between two token accounts. The owner of the
// source account must sign.
type TransferMsg struct {
	Source      swap.Address `codec:"source"`
	Destination swap.Address `codec:"destination"`
	Mint        swap.Address `codec:"mint"`
	Owner       swap.Address `codec:"owner"`
	Amount      uint64       `codec:"amount"`
	Decimals    uint8        `codec:"decimals"`
}

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	return errors.Wrap(m.Owner.Validate(), "owner")
}

func (m *TransferMsg) WritableAccounts() []swap.Address {
	return []swap.Address{m.Source, m.Destination}
}
