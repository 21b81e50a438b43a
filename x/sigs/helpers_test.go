package sigs

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/weavetest"
)

// StdTx is a signed transaction. Its sign bytes are given payload.
type StdTx struct {
	weavetest.Tx
	Payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ swap.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{
		Tx:      weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/std"}},
		Payload: payload,
	}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return tx.Payload, nil
}
