package swap

import (
	"github.com/iov-one/swap/errors"
	"github.com/ugorji/go/codec"
)

// msgpack is shared by all encoders. A handle is safe for concurrent use
// once configured.
var msgpack = newMsgpackHandle()

func newMsgpackHandle() *codec.MsgpackHandle {
	var h codec.MsgpackHandle
	h.WriteExt = true
	h.Canonical = true
	return &h
}

// MarshalMsgpack serializes given value using the msgpack format. Map keys
// are sorted, so equal values always produce the same bytes.
func MarshalMsgpack(v interface{}) ([]byte, error) {
	var raw []byte
	if err := codec.NewEncoderBytes(&raw, msgpack).Encode(v); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// UnmarshalMsgpack deserializes msgpack data into the value pointed to by v.
func UnmarshalMsgpack(raw []byte, v interface{}) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrInput, "empty msgpack data")
	}
	if err := codec.NewDecoderBytes(raw, msgpack).Decode(v); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
