package contracts

import (
	"fmt"

	"github.com/Mohsinsiddi/inkctl/internal/account"
	"github.com/Mohsinsiddi/inkctl/internal/balance"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Runtime API entry points queried through state_call.
const (
	FnCall        = "ContractsApi_call"
	FnInstantiate = "ContractsApi_instantiate"
	FnUploadCode  = "ContractsApi_upload_code"
)

// Determinism required of uploaded code.
const (
	DeterminismEnforced uint8 = 0
	DeterminismRelaxed  uint8 = 1
)

// CallRequest is the argument tuple of ContractsApi_call.
type CallRequest struct {
	Origin              account.AccountID
	Dest                account.AccountID
	Value               balance.Balance
	GasLimit            *Weight
	StorageDepositLimit *balance.Balance
	InputData           []byte
}

func (r CallRequest) Encode(enc scale.Encoder) error {
	if err := enc.Write(r.Origin[:]); err != nil {
		return err
	}
	if err := enc.Write(r.Dest[:]); err != nil {
		return err
	}
	if err := encodeU128(enc, r.Value); err != nil {
		return err
	}
	if err := encodeOptionWeight(enc, r.GasLimit); err != nil {
		return err
	}
	if err := encodeOptionBalance(enc, r.StorageDepositLimit, false); err != nil {
		return err
	}
	return encodeBytes(enc, r.InputData)
}

// Code selects between uploading new Wasm and referencing stored code.
// Exactly one of Wasm and Hash is set.
type Code struct {
	Wasm []byte
	Hash *Hash
}

func (c Code) Encode(enc scale.Encoder) error {
	if c.Hash != nil {
		if err := enc.PushByte(1); err != nil {
			return err
		}
		return enc.Write(c.Hash[:])
	}
	if err := enc.PushByte(0); err != nil {
		return err
	}
	return encodeBytes(enc, c.Wasm)
}

// InstantiateRequest is the argument tuple of ContractsApi_instantiate.
type InstantiateRequest struct {
	Origin              account.AccountID
	Value               balance.Balance
	GasLimit            *Weight
	StorageDepositLimit *balance.Balance
	Code                Code
	Data                []byte
	Salt                []byte
}

func (r InstantiateRequest) Encode(enc scale.Encoder) error {
	if err := enc.Write(r.Origin[:]); err != nil {
		return err
	}
	if err := encodeU128(enc, r.Value); err != nil {
		return err
	}
	if err := encodeOptionWeight(enc, r.GasLimit); err != nil {
		return err
	}
	if err := encodeOptionBalance(enc, r.StorageDepositLimit, false); err != nil {
		return err
	}
	if err := r.Code.Encode(enc); err != nil {
		return err
	}
	if err := encodeBytes(enc, r.Data); err != nil {
		return err
	}
	return encodeBytes(enc, r.Salt)
}

// UploadRequest is the argument tuple of ContractsApi_upload_code.
type UploadRequest struct {
	Origin              account.AccountID
	Code                []byte
	StorageDepositLimit *balance.Balance
	Determinism         uint8
}

func (r UploadRequest) Encode(enc scale.Encoder) error {
	if err := enc.Write(r.Origin[:]); err != nil {
		return err
	}
	if err := encodeBytes(enc, r.Code); err != nil {
		return err
	}
	if err := encodeOptionBalance(enc, r.StorageDepositLimit, false); err != nil {
		return err
	}
	return enc.PushByte(r.Determinism)
}

// Response is a decoded runtime API answer that can be normalized.
type Response interface {
	Result() *ExecutionResult
}

// resultHeader holds the fields every ContractResult starts with.
type resultHeader struct {
	gasConsumed    Weight
	gasRequired    Weight
	storageDeposit StorageDeposit
	debugMessage   []byte
}

func (h *resultHeader) decode(dec scale.Decoder) error {
	if err := h.gasConsumed.Decode(dec); err != nil {
		return fmt.Errorf("gas_consumed: %w", err)
	}
	if err := h.gasRequired.Decode(dec); err != nil {
		return fmt.Errorf("gas_required: %w", err)
	}
	if err := h.storageDeposit.Decode(dec); err != nil {
		return fmt.Errorf("storage_deposit: %w", err)
	}
	msg, err := decodeBytes(dec)
	if err != nil {
		return fmt.Errorf("debug_message: %w", err)
	}
	h.debugMessage = msg
	return nil
}

func (h *resultHeader) result() *ExecutionResult {
	return &ExecutionResult{
		GasConsumed:    h.gasConsumed,
		GasRequired:    h.gasRequired,
		StorageDeposit: h.storageDeposit,
		DebugMessage:   h.debugMessage,
	}
}

func decodeReturnValue(dec scale.Decoder) (*ExecReturnValue, error) {
	var v ExecReturnValue
	if err := dec.Decode(&v.Flags); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	data, err := decodeBytes(dec)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	v.Data = data
	return &v, nil
}

func decodeDispatchError(dec scale.Decoder) (*DispatchError, error) {
	var e DispatchError
	if err := e.Decode(dec); err != nil {
		return nil, err
	}
	return &e, nil
}

// CallResponse is the answer of ContractsApi_call.
type CallResponse struct {
	res *ExecutionResult
}

func (r *CallResponse) Decode(dec scale.Decoder) error {
	var h resultHeader
	if err := h.decode(dec); err != nil {
		return err
	}
	res := h.result()
	ok, err := decodeResultTag(dec)
	if err != nil {
		return err
	}
	if ok {
		if res.Return, err = decodeReturnValue(dec); err != nil {
			return err
		}
	} else if res.Err, err = decodeDispatchError(dec); err != nil {
		return err
	}
	r.res = res
	return nil
}

func (r *CallResponse) Result() *ExecutionResult { return r.res }

// InstantiateResponse is the answer of ContractsApi_instantiate.
type InstantiateResponse struct {
	res *ExecutionResult
}

func (r *InstantiateResponse) Decode(dec scale.Decoder) error {
	var h resultHeader
	if err := h.decode(dec); err != nil {
		return err
	}
	res := h.result()
	ok, err := decodeResultTag(dec)
	if err != nil {
		return err
	}
	if ok {
		if res.Return, err = decodeReturnValue(dec); err != nil {
			return err
		}
		var addr account.AccountID
		if err := dec.Read(addr[:]); err != nil {
			return fmt.Errorf("account_id: %w", err)
		}
		res.Contract = &addr
	} else if res.Err, err = decodeDispatchError(dec); err != nil {
		return err
	}
	r.res = res
	return nil
}

func (r *InstantiateResponse) Result() *ExecutionResult { return r.res }

// UploadResponse is the answer of ContractsApi_upload_code. The upload
// deposit is reported as a Charge; no gas figures are returned.
type UploadResponse struct {
	res *ExecutionResult
}

func (r *UploadResponse) Decode(dec scale.Decoder) error {
	ok, err := decodeResultTag(dec)
	if err != nil {
		return err
	}
	res := &ExecutionResult{}
	if !ok {
		if res.Err, err = decodeDispatchError(dec); err != nil {
			return err
		}
		r.res = res
		return nil
	}
	var hash Hash
	if err := dec.Read(hash[:]); err != nil {
		return fmt.Errorf("code_hash: %w", err)
	}
	deposit, err := decodeU128(dec)
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	res.CodeHash = &hash
	res.StorageDeposit = ChargeOf(deposit)
	r.res = res
	return nil
}

func (r *UploadResponse) Result() *ExecutionResult { return r.res }
