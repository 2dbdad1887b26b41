package extrinsic

import (
	"fmt"

	"github.com/Mohsinsiddi/inkctl/internal/account"
	"github.com/Mohsinsiddi/inkctl/internal/balance"
	"github.com/Mohsinsiddi/inkctl/internal/contracts"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Payload is the contract operation a pipeline run simulates and submits.
type Payload interface {
	// Op names the operation in status lines: "call", "instantiate" or "upload".
	Op() string
	// Summary lists the facts shown before confirmation.
	Summary(meta balance.TokenMetadata, ss58Prefix uint16) [][2]string
	// UsesGas reports whether the dispatchable takes a gas limit.
	UsesGas() bool
}

// CallPayload calls a message on a deployed contract.
type CallPayload struct {
	Contract            account.AccountID
	Value               balance.Balance
	Data                []byte
	StorageDepositLimit *balance.Balance
}

func (p *CallPayload) Op() string    { return "call" }
func (p *CallPayload) UsesGas() bool { return true }

func (p *CallPayload) Summary(meta balance.TokenMetadata, prefix uint16) [][2]string {
	return [][2]string{
		{"Contract", p.Contract.SS58(prefix)},
		{"Value", meta.Format(p.Value)},
		{"Data", hexutil.Encode(p.Data)},
		{"Deposit Limit", limitText(p.StorageDepositLimit, meta)},
	}
}

// InstantiatePayload deploys a contract from new Wasm or from stored code.
type InstantiatePayload struct {
	Code                contracts.Code
	Value               balance.Balance
	Data                []byte
	Salt                []byte
	StorageDepositLimit *balance.Balance
}

func (p *InstantiatePayload) Op() string    { return "instantiate" }
func (p *InstantiatePayload) UsesGas() bool { return true }

func (p *InstantiatePayload) Summary(meta balance.TokenMetadata, _ uint16) [][2]string {
	code := fmt.Sprintf("%d bytes of Wasm", len(p.Code.Wasm))
	if p.Code.Hash != nil {
		code = hexutil.Encode(p.Code.Hash[:])
	}
	return [][2]string{
		{"Code", code},
		{"Value", meta.Format(p.Value)},
		{"Data", hexutil.Encode(p.Data)},
		{"Salt", hexutil.Encode(p.Salt)},
		{"Deposit Limit", limitText(p.StorageDepositLimit, meta)},
	}
}

// UploadPayload stores contract code on chain without instantiating it.
type UploadPayload struct {
	Code                []byte
	StorageDepositLimit *balance.Balance
}

func (p *UploadPayload) Op() string    { return "upload" }
func (p *UploadPayload) UsesGas() bool { return false }

func (p *UploadPayload) Summary(meta balance.TokenMetadata, _ uint16) [][2]string {
	return [][2]string{
		{"Code", fmt.Sprintf("%d bytes of Wasm", len(p.Code))},
		{"Deposit Limit", limitText(p.StorageDepositLimit, meta)},
	}
}

func limitText(limit *balance.Balance, meta balance.TokenMetadata) string {
	if limit == nil {
		return "none"
	}
	return meta.Format(*limit)
}
