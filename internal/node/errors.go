package node

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers connection and I/O failures talking to the node.
	ErrTransport = errors.New("transport error")
	// ErrDecode means a node response could not be decoded into the expected shape.
	ErrDecode = errors.New("decode error")
	// ErrTimeout means the node did not answer before the deadline.
	ErrTimeout = errors.New("timed out waiting for node")
	// ErrTxDropped means the transaction pool rejected or discarded the extrinsic.
	ErrTxDropped = errors.New("transaction was not included")
)

// RPCError is an error object returned by the node in a JSON-RPC response.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("RPC error %d: %s: %v", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}
