package token

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x"
)

// Authorization proves the right to act on behalf of the owner of an
// account. It is either Signed or Derived.
type Authorization interface {
	authorize(ctx swap.Context, auth x.Authenticator, owner swap.Address) error
}

// Signed authorizes with the signature of a key pair.
func Signed(signer swap.Address) Authorization {
	return signed{signer: signer}
}

type signed struct {
	signer swap.Address
}

func (s signed) authorize(ctx swap.Context, auth x.Authenticator, owner swap.Address) error {
	if !s.signer.Equals(owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the owner", s.signer)
	}
	if !auth.HasAddress(ctx, s.signer) {
		return errors.Wrapf(errors.ErrUnauthorized, "missing signature of %s", s.signer)
	}
	return nil
}

// Derived authorizes a program derived address. Seeds must include the
// bump. The address is derived for the program currently executing, so a
// program can only sign for addresses it owns.
func Derived(seeds ...[]byte) Authorization {
	return derived{seeds: seeds}
}

type derived struct {
	seeds [][]byte
}

func (d derived) authorize(ctx swap.Context, auth x.Authenticator, owner swap.Address) error {
	program, ok := swap.GetProgram(ctx)
	if !ok {
		return errors.Wrap(errors.ErrUnauthorized, "no program executing")
	}
	addr, err := swap.CreateProgramAddress(program, d.seeds...)
	if err != nil {
		return errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	if !addr.Equals(owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "seeds derive %s, not the owner", addr)
	}
	return nil
}
