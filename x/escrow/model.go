package escrow

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/orm"
)

// OfferSize is the length of a serialized offer, discriminator included.
const OfferSize = discriminatorSize + 8 + 3*swap.AddressLength + 8 + 1

const discriminatorSize = 8

// offerDiscriminator prefixes every serialized offer, so that bytes of
// another record type are never read as an offer.
var offerDiscriminator = discriminator("Offer")

func discriminator(name string) []byte {
	sum := sha256.Sum256([]byte("account:" + name))
	return sum[:discriminatorSize]
}

// Offer is an open proposal to exchange the content of its vault for
// TokenBAmountWanted of TokenMintB. The offered amount is not stored, it
// is always the vault balance.
type Offer struct {
	ID                 uint64       `json:"id"`
	Maker              swap.Address `json:"maker"`
	TokenMintA         swap.Address `json:"token_mint_a"`
	TokenMintB         swap.Address `json:"token_mint_b"`
	TokenBAmountWanted uint64       `json:"token_b_amount_wanted"`
	Bump               uint8        `json:"bump"`
}

var _ orm.Model = (*Offer)(nil)

// Marshal serializes the offer into its fixed layout. All integers are
// little endian.
func (o *Offer) Marshal() ([]byte, error) {
	raw := make([]byte, 0, OfferSize)
	raw = append(raw, offerDiscriminator...)
	raw = binary.LittleEndian.AppendUint64(raw, o.ID)
	raw = append(raw, o.Maker[:]...)
	raw = append(raw, o.TokenMintA[:]...)
	raw = append(raw, o.TokenMintB[:]...)
	raw = binary.LittleEndian.AppendUint64(raw, o.TokenBAmountWanted)
	raw = append(raw, o.Bump)
	return raw, nil
}

func (o *Offer) Unmarshal(raw []byte) error {
	if len(raw) != OfferSize {
		return errors.Wrapf(errors.ErrModel, "offer is %d bytes, got %d", OfferSize, len(raw))
	}
	if !bytes.Equal(raw[:discriminatorSize], offerDiscriminator) {
		return errors.Wrap(errors.ErrModel, "not an offer")
	}
	raw = raw[discriminatorSize:]
	o.ID = binary.LittleEndian.Uint64(raw)
	raw = raw[8:]
	raw = raw[copy(o.Maker[:], raw):]
	raw = raw[copy(o.TokenMintA[:], raw):]
	raw = raw[copy(o.TokenMintB[:], raw):]
	o.TokenBAmountWanted = binary.LittleEndian.Uint64(raw)
	o.Bump = raw[8]
	return nil
}

// Validate checks the stored fields. Amount and mints are checked by the
// messages creating the offer.
func (o *Offer) Validate() error {
	if err := o.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := o.TokenMintA.Validate(); err != nil {
		return errors.Wrap(err, "token mint a")
	}
	if err := o.TokenMintB.Validate(); err != nil {
		return errors.Wrap(err, "token mint b")
	}
	return nil
}

// NewBucket returns a bucket storing offers under their derived address,
// indexed by maker.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("offers", func() orm.Model { return &Offer{} },
		orm.WithIndex("maker", makerIndex))
}

func makerIndex(key []byte, m orm.Model) ([][]byte, error) {
	o, ok := m.(*Offer)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, m)
	}
	return [][]byte{o.Maker.Bytes()}, nil
}
