package contracts

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Weight is the two-dimensional execution cost: computation time and proof size.
type Weight struct {
	RefTime   uint64 `json:"ref_time"`
	ProofSize uint64 `json:"proof_size"`
}

// Encode writes both dimensions as compact integers.
func (w Weight) Encode(enc scale.Encoder) error {
	if err := encodeCompactU64(enc, w.RefTime); err != nil {
		return err
	}
	return encodeCompactU64(enc, w.ProofSize)
}

// Decode reads both dimensions as compact integers.
func (w *Weight) Decode(dec scale.Decoder) error {
	var err error
	if w.RefTime, err = decodeCompactU64(dec); err != nil {
		return fmt.Errorf("decoding ref_time: %w", err)
	}
	if w.ProofSize, err = decodeCompactU64(dec); err != nil {
		return fmt.Errorf("decoding proof_size: %w", err)
	}
	return nil
}

// IsZero reports whether both dimensions are zero.
func (w Weight) IsZero() bool { return w.RefTime == 0 && w.ProofSize == 0 }

func (w Weight) String() string {
	return fmt.Sprintf("Weight(ref_time: %d, proof_size: %d)", w.RefTime, w.ProofSize)
}
