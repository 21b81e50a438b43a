package escrow

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x/token"
)

// transferTokens moves amount of mint between two token accounts, checked
// against the decimals of the mint. Authorization is either the signature
// of the source owner or the seeds of the offer address owning the source.
func transferTokens(
	ctx swap.Context,
	db swap.KVStore,
	tokens token.Controller,
	from, to swap.Address,
	amount uint64,
	mint swap.Address,
	auth token.Authorization,
) error {
	m, err := tokens.Mint(db, mint)
	if err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := tokens.TransferChecked(ctx, db, from, mint, to, amount, m.Decimals, auth); err != nil {
		return errors.Wrap(err, "transfer")
	}
	return nil
}

// closeTokenAccount deletes an empty token account and sends its storage
// deposit to destination.
func closeTokenAccount(
	ctx swap.Context,
	db swap.KVStore,
	tokens token.Controller,
	account, destination swap.Address,
	auth token.Authorization,
) error {
	return errors.Wrap(tokens.CloseAccount(ctx, db, account, destination, auth), "close token account")
}
