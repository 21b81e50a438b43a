package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/swap/crypto"
	"github.com/iov-one/swap/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	// Helpful to store original, unparsed bytes here, just in case.
	GetSignBytes() ([]byte, error)

	// Signatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature of a transaction, bound to a chain and to
// the sequence of its signer.
type StdSignature struct {
	Pubkey    crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" codec:"pubkey"`
	Signature []byte           `protobuf:"bytes,2,opt,name=signature,proto3" codec:"signature"`
	Sequence  int64            `protobuf:"varint,3,opt,name=sequence,proto3" codec:"sequence"`
}

var _ proto.Message = (*StdSignature)(nil)

func (s *StdSignature) Reset()         { *s = StdSignature{} }
func (s *StdSignature) String() string { return proto.CompactTextString(s) }
func (*StdSignature) ProtoMessage()    {}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Pubkey) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
