package contracts

import (
	"bytes"

	"github.com/Mohsinsiddi/inkctl/internal/account"
	"github.com/Mohsinsiddi/inkctl/internal/balance"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// Dispatchable names looked up in runtime metadata.
const (
	CallCall                = "Contracts.call"
	CallInstantiate         = "Contracts.instantiate"
	CallInstantiateWithCode = "Contracts.instantiate_with_code"
	CallUploadCode          = "Contracts.upload_code"
)

// multiAddressID is the MultiAddress::Id variant.
const multiAddressID = 0x00

// CallArgs are the arguments of Contracts.call.
type CallArgs struct {
	Dest                account.AccountID
	Value               balance.Balance
	GasLimit            Weight
	StorageDepositLimit *balance.Balance
	Data                []byte
}

// InstantiateArgs are the arguments of Contracts.instantiate and
// Contracts.instantiate_with_code, depending on which Code field is set.
type InstantiateArgs struct {
	Value               balance.Balance
	GasLimit            Weight
	StorageDepositLimit *balance.Balance
	Code                Code
	Data                []byte
	Salt                []byte
}

// UploadArgs are the arguments of Contracts.upload_code.
type UploadArgs struct {
	Code                []byte
	StorageDepositLimit *balance.Balance
	Determinism         uint8
}

// EncodeCall encodes a Contracts.call dispatchable.
func EncodeCall(idx types.CallIndex, a CallArgs) ([]byte, error) {
	return encodeWith(idx, func(enc scale.Encoder) error {
		if err := enc.PushByte(multiAddressID); err != nil {
			return err
		}
		if err := enc.Write(a.Dest[:]); err != nil {
			return err
		}
		if err := encodeCompact(enc, a.Value.Big()); err != nil {
			return err
		}
		if err := a.GasLimit.Encode(enc); err != nil {
			return err
		}
		if err := encodeOptionBalance(enc, a.StorageDepositLimit, true); err != nil {
			return err
		}
		return encodeBytes(enc, a.Data)
	})
}

// CallName returns the dispatchable matching the code source.
func (a InstantiateArgs) CallName() string {
	if a.Code.Hash != nil {
		return CallInstantiate
	}
	return CallInstantiateWithCode
}

// EncodeInstantiate encodes Contracts.instantiate_with_code, or
// Contracts.instantiate when the code is referenced by hash.
func EncodeInstantiate(idx types.CallIndex, a InstantiateArgs) ([]byte, error) {
	return encodeWith(idx, func(enc scale.Encoder) error {
		if err := encodeCompact(enc, a.Value.Big()); err != nil {
			return err
		}
		if err := a.GasLimit.Encode(enc); err != nil {
			return err
		}
		if err := encodeOptionBalance(enc, a.StorageDepositLimit, true); err != nil {
			return err
		}
		var err error
		if a.Code.Hash != nil {
			err = enc.Write(a.Code.Hash[:])
		} else {
			err = encodeBytes(enc, a.Code.Wasm)
		}
		if err != nil {
			return err
		}
		if err := encodeBytes(enc, a.Data); err != nil {
			return err
		}
		return encodeBytes(enc, a.Salt)
	})
}

// EncodeUpload encodes a Contracts.upload_code dispatchable.
func EncodeUpload(idx types.CallIndex, a UploadArgs) ([]byte, error) {
	return encodeWith(idx, func(enc scale.Encoder) error {
		if err := encodeBytes(enc, a.Code); err != nil {
			return err
		}
		if err := encodeOptionBalance(enc, a.StorageDepositLimit, true); err != nil {
			return err
		}
		return enc.PushByte(a.Determinism)
	})
}

func encodeWith(idx types.CallIndex, body func(scale.Encoder) error) ([]byte, error) {
	var buf bytes.Buffer
	enc := scale.NewEncoder(&buf)
	if err := enc.PushByte(idx.SectionIndex); err != nil {
		return nil, err
	}
	if err := enc.PushByte(idx.MethodIndex); err != nil {
		return nil, err
	}
	if err := body(*enc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
