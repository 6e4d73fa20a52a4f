package feldman

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// dealing is what one participant sends to another: the public commitments of
// its polynomial and the recipient's private share of it.
type dealing struct {
	Commitments [][]byte
	Share       []byte
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Errorf("could not create cbor encoding mode: %w", err))
	}
	decMode, err = cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(fmt.Errorf("could not create cbor decoding mode: %w", err))
	}
}

func encodeDealing(d *dealing) ([]byte, error) {
	return encMode.Marshal(d)
}

func decodeDealing(data []byte) (*dealing, error) {
	var d dealing
	err := decMode.Unmarshal(data, &d)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
