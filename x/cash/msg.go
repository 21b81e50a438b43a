package cash

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

const maxMemoSize int = 128

var (
	_ swap.Msg           = (*SendMsg)(nil)
	_ swap.AccountLister = (*SendMsg)(nil)
)

// SendMsg moves native balance between two accounts.
type SendMsg struct {
	Source      swap.Address `codec:"source"`
	Destination swap.Address `codec:"destination"`
	Amount      uint64       `codec:"amount"`
	Memo        string       `codec:"memo"`
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	if s.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive SendMsg")
	}
	if err := s.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := s.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(s.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}

func (s *SendMsg) WritableAccounts() []swap.Address {
	return []swap.Address{s.Source, s.Destination}
}
