// Package contracts models the pallet-contracts data exchanged with a node:
// runtime API requests and results, weights, storage deposits, dispatch
// errors and the encoded extrinsic calls.
package contracts

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/inkctl/internal/balance"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// ErrEncoding is returned when a byte field expected to carry text is not valid UTF-8.
var ErrEncoding = errors.New("encoding error")

// Hash is a 32-byte blake2 hash (code hashes, block hashes).
type Hash [32]byte

func encodeCompact(enc scale.Encoder, v *big.Int) error {
	return enc.EncodeUintCompact(*v)
}

func encodeCompactU64(enc scale.Encoder, v uint64) error {
	return enc.EncodeUintCompact(*new(big.Int).SetUint64(v))
}

func decodeCompactU64(dec scale.Decoder) (uint64, error) {
	v, err := dec.DecodeUintCompact()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("compact value %s exceeds 64 bits", v)
	}
	return v.Uint64(), nil
}

// encodeU128 writes a 128-bit little-endian integer.
func encodeU128(enc scale.Encoder, b balance.Balance) error {
	be := b.Big().FillBytes(make([]byte, 16))
	le := make([]byte, 16)
	for i := range be {
		le[i] = be[15-i]
	}
	return enc.Write(le)
}

func decodeU128(dec scale.Decoder) (balance.Balance, error) {
	le := make([]byte, 16)
	if err := dec.Read(le); err != nil {
		return balance.Balance{}, err
	}
	be := make([]byte, 16)
	for i := range le {
		be[i] = le[15-i]
	}
	return balance.FromBig(new(big.Int).SetBytes(be))
}

func encodeBytes(enc scale.Encoder, b []byte) error {
	if err := encodeCompactU64(enc, uint64(len(b))); err != nil {
		return err
	}
	return enc.Write(b)
}

func decodeBytes(dec scale.Decoder) ([]byte, error) {
	n, err := decodeCompactU64(dec)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if err := dec.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// encodeOptionBalance writes Option<Balance>, compact-encoded when compact is set.
func encodeOptionBalance(enc scale.Encoder, b *balance.Balance, compact bool) error {
	if b == nil {
		return enc.PushByte(0)
	}
	if err := enc.PushByte(1); err != nil {
		return err
	}
	if compact {
		return encodeCompact(enc, b.Big())
	}
	return encodeU128(enc, *b)
}

func encodeOptionWeight(enc scale.Encoder, w *Weight) error {
	if w == nil {
		return enc.PushByte(0)
	}
	if err := enc.PushByte(1); err != nil {
		return err
	}
	return w.Encode(enc)
}

// decodeResultTag reads the Ok(0)/Err(1) tag of a Result.
func decodeResultTag(dec scale.Decoder) (ok bool, err error) {
	tag, err := dec.ReadOneByte()
	if err != nil {
		return false, err
	}
	switch tag {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, fmt.Errorf("invalid Result tag %d", tag)
	}
}
