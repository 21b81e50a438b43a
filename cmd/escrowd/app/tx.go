package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x/cash"
	"github.com/iov-one/swap/x/escrow"
	"github.com/iov-one/swap/x/sigs"
	"github.com/iov-one/swap/x/token"
)

// messages maps every routed path to a constructor of its message.
var messages = map[string]func() swap.Msg{}

func init() {
	constructors := []func() swap.Msg{
		func() swap.Msg { return &cash.SendMsg{} },
		func() swap.Msg { return &sigs.BumpSequenceMsg{} },
		func() swap.Msg { return &token.CreateMintMsg{} },
		func() swap.Msg { return &token.CreateAccountMsg{} },
		func() swap.Msg { return &token.MintToMsg{} },
		func() swap.Msg { return &token.TransferMsg{} },
		func() swap.Msg { return &escrow.MakeOfferMsg{} },
		func() swap.Msg { return &escrow.TakeOfferMsg{} },
		func() swap.Msg { return &escrow.RefundOfferMsg{} },
	}
	for _, fn := range constructors {
		messages[fn().Path()] = fn
	}
}

// Tx is the protobuf envelope of a single message, selected by its path,
// together with the signatures authorizing it. The payload is the msgpack
// encoding of the message: messages hold fixed size addresses, which
// protobuf can only carry as bytes.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3"`
	Path       string               `protobuf:"bytes,2,opt,name=path,proto3"`
	Payload    []byte               `protobuf:"bytes,3,opt,name=payload,proto3"`
}

var (
	_ swap.Tx            = (*Tx)(nil)
	_ sigs.SignedTx      = (*Tx)(nil)
	_ swap.AccountLister = (*Tx)(nil)
)

// NewTx returns an unsigned transaction carrying msg.
func NewTx(msg swap.Msg) (*Tx, error) {
	if _, ok := messages[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown path %q", msg.Path())
	}
	payload, err := swap.MarshalMsgpack(msg)
	if err != nil {
		return nil, err
	}
	return &Tx{Path: msg.Path(), Payload: payload}, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (swap.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// txWire is Tx without its Marshal and Unmarshal methods, that the
// protobuf runtime would call back into.
type txWire Tx

func (w *txWire) Reset()         { *w = txWire{} }
func (w *txWire) String() string { return proto.CompactTextString(w) }
func (*txWire) ProtoMessage()    {}

func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := proto.Marshal((*txWire)(tx))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*txWire)(tx)); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// GetMsg decodes the payload into the message registered for the path.
func (tx *Tx) GetMsg() (swap.Msg, error) {
	build, ok := messages[tx.Path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown path %q", tx.Path)
	}
	msg := build()
	if err := swap.UnmarshalMsgpack(tx.Payload, msg); err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "%s: %s", tx.Path, err)
	}
	return msg, nil
}

// GetSignBytes returns the bytes to sign: the transaction without any
// signature.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Path: tx.Path, Payload: tx.Payload}
	return unsigned.Marshal()
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// WritableAccounts returns the signers, whose sequences are incremented,
// and the accounts written by the message.
func (tx *Tx) WritableAccounts() []swap.Address {
	var accounts []swap.Address
	for _, sig := range tx.Signatures {
		if sig != nil && sig.Pubkey.Validate() == nil {
			accounts = append(accounts, sig.Pubkey.Address())
		}
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return accounts
	}
	if al, ok := msg.(swap.AccountLister); ok {
		accounts = append(accounts, al.WritableAccounts()...)
	}
	return accounts
}
