package node

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/registry"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/parser"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// Event is a decoded runtime event.
type Event struct {
	Pallet string
	Name   string
	Fields registry.DecodedFields
	// Extrinsic is the index of the extrinsic that emitted the event, or -1.
	Extrinsic int
}

// Is reports whether the event is pallet.name.
func (e Event) Is(pallet, name string) bool { return e.Pallet == pallet && e.Name == name }

func (e Event) String() string { return e.Pallet + "." + e.Name }

// Field looks up a field by name anywhere in the event's decoded fields.
// The registry prefixes fields of named types with the type path, so
// "from" also matches "sp_core.crypto.AccountId32.from".
func (e Event) Field(name string) (interface{}, bool) {
	return lookup(e.Fields, name)
}

// Events fetches and decodes System.Events at block hash.
func (c *Client) Events(ctx context.Context, meta *types.Metadata, hash types.Hash) ([]Event, error) {
	key, err := types.CreateStorageKey(meta, "System", "Events")
	if err != nil {
		return nil, fmt.Errorf("%w: System.Events key: %v", ErrDecode, err)
	}
	raw, err := c.Storage(ctx, key, hash)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	reg, err := registry.NewFactory().CreateEventRegistry(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: event registry: %v", ErrDecode, err)
	}
	sd := types.StorageDataRaw(raw)
	parsed, err := parser.NewEventParser().ParseEvents(reg, &sd)
	if err != nil {
		return nil, fmt.Errorf("%w: events: %v", ErrDecode, err)
	}

	events := make([]Event, 0, len(parsed))
	for _, p := range parsed {
		pallet, name, _ := strings.Cut(p.Name, ".")
		ev := Event{Pallet: pallet, Name: name, Fields: p.Fields, Extrinsic: -1}
		if p.Phase != nil && p.Phase.IsApplyExtrinsic {
			ev.Extrinsic = int(p.Phase.AsApplyExtrinsic)
		}
		events = append(events, ev)
	}
	return events, nil
}

func lookup(v interface{}, name string) (interface{}, bool) {
	fields, ok := v.(registry.DecodedFields)
	if !ok {
		return nil, false
	}
	for _, f := range fields {
		if fieldNamed(f.Name, name) {
			return f.Value, true
		}
	}
	for _, f := range fields {
		if found, ok := lookup(f.Value, name); ok {
			return found, true
		}
	}
	return nil, false
}

func fieldNamed(full, name string) bool {
	return full == name || strings.HasSuffix(full, "."+name)
}

// unwrap descends through single-field composites such as AccountId32 or
// newtype wrappers to reach the inner value.
func unwrap(v interface{}) interface{} {
	for {
		fields, ok := v.(registry.DecodedFields)
		if !ok || len(fields) != 1 {
			return v
		}
		v = fields[0].Value
	}
}

// AsBig converts a decoded integer value.
func AsBig(v interface{}) (*big.Int, bool) {
	switch x := unwrap(v).(type) {
	case types.U128:
		if x.Int == nil {
			return new(big.Int), true
		}
		return new(big.Int).Set(x.Int), true
	case types.UCompact:
		b := big.Int(x)
		return new(big.Int).Set(&b), true
	case types.U64:
		return new(big.Int).SetUint64(uint64(x)), true
	case types.U32:
		return new(big.Int).SetUint64(uint64(x)), true
	case types.U16:
		return new(big.Int).SetUint64(uint64(x)), true
	case types.U8:
		return new(big.Int).SetUint64(uint64(x)), true
	case uint64:
		return new(big.Int).SetUint64(x), true
	case *big.Int:
		return new(big.Int).Set(x), true
	}
	return nil, false
}

// AsBytes converts a decoded byte array or sequence.
func AsBytes(v interface{}) ([]byte, bool) {
	switch x := unwrap(v).(type) {
	case []byte:
		return x, true
	case types.Bytes:
		return x, true
	case types.AccountID:
		return x.ToBytes(), true
	case types.Hash:
		return x[:], true
	case [32]byte:
		return x[:], true
	case []types.U8:
		out := make([]byte, len(x))
		for i, b := range x {
			out[i] = byte(b)
		}
		return out, true
	case []interface{}:
		out := make([]byte, len(x))
		for i, e := range x {
			b, ok := AsBig(e)
			if !ok || !b.IsUint64() || b.Uint64() > 0xff {
				return nil, false
			}
			out[i] = byte(b.Uint64())
		}
		return out, true
	}
	return nil, false
}

// AsBytes32 converts a decoded 32-byte value such as an AccountId32 or H256.
func AsBytes32(v interface{}) ([32]byte, bool) {
	var out [32]byte
	b, ok := AsBytes(v)
	if !ok || len(b) != len(out) {
		return out, false
	}
	copy(out[:], b)
	return out, true
}
