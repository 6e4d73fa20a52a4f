// Package cbor implements the network codec with a one byte envelope code
// followed by the canonical CBOR encoding of the message.
package cbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/onflow/mint-node/network"
	"github.com/onflow/mint-node/network/codec"
)

var _ network.Codec = (*Codec)(nil)

// Codec encodes and decodes network messages. Encoding uses canonical CBOR so
// that every participant produces the same bytes for the same message.
type Codec struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

// NewCodec creates a new CBOR codec.
func NewCodec() *Codec {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		// the canonical options are static and always valid
		panic(fmt.Errorf("could not create cbor encoding mode: %w", err))
	}
	decMode, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(fmt.Errorf("could not create cbor decoding mode: %w", err))
	}
	return &Codec{
		encMode: encMode,
		decMode: decMode,
	}
}

// Encode will, given a Golang interface 'v', return a []byte 'envelope'.
// Return an error if packing the envelope fails.
// NOTE: 'v' is the network message payload in unserialized form.
// NOTE: 'code' is the message type.
// NOTE: 'envelope' contains 'code' & serialized / encoded 'v'.
func (c *Codec) Encode(v interface{}) ([]byte, error) {
	code, what, err := codec.MessageCodeFromInterface(v)
	if err != nil {
		return nil, fmt.Errorf("could not determine envelope code: %w", err)
	}

	payload, err := c.encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not encode cbor payload of type %s: %w", what, err)
	}

	envelope := make([]byte, 0, len(payload)+1)
	envelope = append(envelope, code.Uint8())
	envelope = append(envelope, payload...)
	return envelope, nil
}

// Decode will, given a []byte 'envelope', return a Golang interface 'v'.
// Return an error if unpacking the envelope fails.
// Expected error returns during normal operations:
//   - codec.ErrInvalidEncoding if the envelope is empty.
//   - codec.ErrUnknownMsgCode if the envelope code is unknown.
//   - codec.ErrMsgUnmarshal if the payload cannot be decoded into the message type.
func (c *Codec) Decode(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, codec.ErrInvalidEncoding
	}

	code := codec.MessageCode(data[0])
	v, what, err := codec.InterfaceFromMessageCode(code)
	if err != nil {
		return nil, err
	}

	err = c.decMode.Unmarshal(data[1:], v)
	if err != nil {
		return nil, codec.NewMsgUnmarshalErr(code, what, err)
	}

	return v, nil
}
