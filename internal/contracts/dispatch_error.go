package contracts

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

var dispatchErrorVariants = []string{
	"Other",
	"CannotLookup",
	"BadOrigin",
	"Module",
	"ConsumerRemaining",
	"NoProviders",
	"TooManyConsumers",
	"Token",
	"Arithmetic",
	"Transactional",
	"Exhausted",
	"Corruption",
	"Unavailable",
	"RootNotAllowed",
}

var arithmeticErrors = []string{"Underflow", "Overflow", "DivisionByZero"}

var transactionalErrors = []string{"LimitReached", "NoLayer"}

// ModuleError is a runtime error raised by a specific pallet. Only the
// pallet and error indices are known; they are not resolved to names.
type ModuleError struct {
	Pallet uint8
	Index  uint8
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module error: pallet index %d, error index %d", e.Pallet, e.Index)
}

// DispatchError is the reason a runtime call failed.
type DispatchError struct {
	Variant string
	Module  *ModuleError
	// Detail holds the inner error name for Token, Arithmetic and Transactional.
	Detail string
}

func (e *DispatchError) Error() string {
	switch {
	case e.Module != nil:
		return e.Module.Error()
	case e.Detail != "":
		return fmt.Sprintf("%s(%s)", e.Variant, e.Detail)
	default:
		return e.Variant
	}
}

// Decode reads a sp_runtime::DispatchError.
func (e *DispatchError) Decode(dec scale.Decoder) error {
	tag, err := dec.ReadOneByte()
	if err != nil {
		return err
	}
	if int(tag) >= len(dispatchErrorVariants) {
		return fmt.Errorf("invalid dispatch error variant %d", tag)
	}
	*e = DispatchError{Variant: dispatchErrorVariants[tag]}
	switch e.Variant {
	case "Module":
		var raw [5]byte
		if err := dec.Read(raw[:]); err != nil {
			return fmt.Errorf("decoding module error: %w", err)
		}
		e.Module = &ModuleError{Pallet: raw[0], Index: raw[1]}
	case "Token", "Arithmetic", "Transactional":
		inner, err := dec.ReadOneByte()
		if err != nil {
			return fmt.Errorf("decoding %s error: %w", e.Variant, err)
		}
		e.Detail = innerName(e.Variant, inner)
	}
	return nil
}

func innerName(variant string, idx byte) string {
	var names []string
	switch variant {
	case "Arithmetic":
		names = arithmeticErrors
	case "Transactional":
		names = transactionalErrors
	}
	if int(idx) < len(names) {
		return names[idx]
	}
	return fmt.Sprintf("%d", idx)
}
