package contracts

import (
	"encoding/json"
	"fmt"

	"github.com/Mohsinsiddi/inkctl/internal/balance"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// DepositKind says which way a storage deposit moved. Refund orders before Charge.
type DepositKind uint8

const (
	// Refund means the involved contracts returned balance to the caller.
	Refund DepositKind = iota
	// Charge means the caller paid balance to the involved contracts.
	Charge
)

func (k DepositKind) String() string {
	if k == Refund {
		return "Refund"
	}
	return "Charge"
}

// StorageDeposit is the balance moved to or from contracts to pay for their storage.
type StorageDeposit struct {
	Kind   DepositKind
	Amount balance.Balance
}

// RefundOf returns a Refund deposit.
func RefundOf(b balance.Balance) StorageDeposit { return StorageDeposit{Kind: Refund, Amount: b} }

// ChargeOf returns a Charge deposit.
func ChargeOf(b balance.Balance) StorageDeposit { return StorageDeposit{Kind: Charge, Amount: b} }

// Cmp orders deposits by kind (Refund < Charge) and then by amount.
func (d StorageDeposit) Cmp(o StorageDeposit) int {
	switch {
	case d.Kind < o.Kind:
		return -1
	case d.Kind > o.Kind:
		return 1
	default:
		return d.Amount.Cmp(o.Amount)
	}
}

func (d StorageDeposit) String() string {
	return fmt.Sprintf("%s(%s)", d.Kind, d.Amount)
}

// Encode writes the enum index followed by the u128 amount.
func (d StorageDeposit) Encode(enc scale.Encoder) error {
	if err := enc.PushByte(byte(d.Kind)); err != nil {
		return err
	}
	return encodeU128(enc, d.Amount)
}

// Decode reads the enum index followed by the u128 amount.
func (d *StorageDeposit) Decode(dec scale.Decoder) error {
	tag, err := dec.ReadOneByte()
	if err != nil {
		return err
	}
	if tag > byte(Charge) {
		return fmt.Errorf("invalid storage deposit variant %d", tag)
	}
	amount, err := decodeU128(dec)
	if err != nil {
		return fmt.Errorf("decoding storage deposit amount: %w", err)
	}
	d.Kind, d.Amount = DepositKind(tag), amount
	return nil
}

// MarshalJSON produces the tagged form {"Refund": amount} or {"Charge": amount}.
func (d StorageDeposit) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]balance.Balance{d.Kind.String(): d.Amount})
}

// UnmarshalJSON accepts exactly one of the two tags.
func (d *StorageDeposit) UnmarshalJSON(data []byte) error {
	var tagged map[string]balance.Balance
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	if len(tagged) != 1 {
		return fmt.Errorf("storage deposit must have exactly one of Refund or Charge, got %d keys", len(tagged))
	}
	for tag, amount := range tagged {
		switch tag {
		case "Refund":
			*d = RefundOf(amount)
		case "Charge":
			*d = ChargeOf(amount)
		default:
			return fmt.Errorf("unknown storage deposit tag %q", tag)
		}
	}
	return nil
}
