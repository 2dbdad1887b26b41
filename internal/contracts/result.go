package contracts

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Mohsinsiddi/inkctl/internal/account"
)

// FlagRevert is set in ExecReturnValue.Flags when the contract reverted its state.
const FlagRevert uint32 = 1

// ExecReturnValue is what a contract returned from a successful dispatch.
type ExecReturnValue struct {
	Flags uint32
	Data  []byte
}

// Reverted reports whether the contract signalled a revert.
func (v ExecReturnValue) Reverted() bool { return v.Flags&FlagRevert != 0 }

// ExecutionResult is the normalized outcome of a simulated or submitted
// contract operation. Exactly one of Err and Return is set for simulated
// calls and instantiations.
type ExecutionResult struct {
	GasConsumed    Weight
	GasRequired    Weight
	StorageDeposit StorageDeposit
	DebugMessage   []byte

	Err    *DispatchError
	Return *ExecReturnValue

	Contract *account.AccountID
	CodeHash *Hash
}

// Failed reports whether the dispatch errored or the contract reverted.
func (r *ExecutionResult) Failed() bool {
	return r.Err != nil || (r.Return != nil && r.Return.Reverted())
}

// Reverted reports whether the contract reverted.
func (r *ExecutionResult) Reverted() bool {
	return r.Return != nil && r.Return.Reverted()
}

// DebugLines splits the debug buffer into lines. It fails with ErrEncoding
// when the buffer is not valid UTF-8.
func (r *ExecutionResult) DebugLines() ([]string, error) {
	if !utf8.Valid(r.DebugMessage) {
		return nil, fmt.Errorf("%w: debug message is not valid UTF-8", ErrEncoding)
	}
	return splitLines(string(r.DebugMessage)), nil
}

// splitLines breaks on '\n', drops a trailing empty line and strips '\r'.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
