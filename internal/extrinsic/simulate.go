package extrinsic

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/inkctl/internal/account"
	"github.com/Mohsinsiddi/inkctl/internal/contracts"
	"github.com/Mohsinsiddi/inkctl/internal/node"
	"go.uber.org/zap"
)

// Simulator executes a payload against current chain state without
// mutating it.
type Simulator interface {
	Simulate(ctx context.Context, p Payload) (*contracts.ExecutionResult, error)
}

// SimulationFailure is returned when a dry-run errors or reverts.
type SimulationFailure struct {
	Result *contracts.ExecutionResult
	// PreSubmit is set when the dry-run was guarding a real submission.
	PreSubmit bool
}

func (e *SimulationFailure) Error() string {
	if e.PreSubmit {
		return "Pre-submission dry-run failed. Use --skip-dry-run to skip this step."
	}
	switch {
	case e.Result.Err != nil:
		return fmt.Sprintf("dry-run failed: %s", e.Result.Err)
	default:
		return "dry-run failed: contract reverted"
	}
}

// Unwrap exposes the module error behind a failed dispatch.
func (e *SimulationFailure) Unwrap() error {
	if e.Result.Err != nil && e.Result.Err.Module != nil {
		return e.Result.Err.Module
	}
	return nil
}

// NodeSimulator dry-runs payloads through the ContractsApi runtime API.
type NodeSimulator struct {
	endpoint string
	origin   account.AccountID
	log      *zap.Logger
}

// NewNodeSimulator simulates as origin against the node at endpoint.
func NewNodeSimulator(endpoint string, origin account.AccountID, log *zap.Logger) *NodeSimulator {
	return &NodeSimulator{endpoint: endpoint, origin: origin, log: log}
}

// Simulate runs the runtime API matching the payload kind.
func (s *NodeSimulator) Simulate(ctx context.Context, p Payload) (*contracts.ExecutionResult, error) {
	s.log.Debug("dry-running", zap.String("op", p.Op()))
	switch p := p.(type) {
	case *CallPayload:
		return simulate[contracts.CallResponse](ctx, s, contracts.FnCall, contracts.CallRequest{
			Origin:              s.origin,
			Dest:                p.Contract,
			Value:               p.Value,
			StorageDepositLimit: p.StorageDepositLimit,
			InputData:           p.Data,
		})
	case *InstantiatePayload:
		return simulate[contracts.InstantiateResponse](ctx, s, contracts.FnInstantiate, contracts.InstantiateRequest{
			Origin:              s.origin,
			Value:               p.Value,
			StorageDepositLimit: p.StorageDepositLimit,
			Code:                p.Code,
			Data:                p.Data,
			Salt:                p.Salt,
		})
	case *UploadPayload:
		return simulate[contracts.UploadResponse](ctx, s, contracts.FnUploadCode, contracts.UploadRequest{
			Origin:              s.origin,
			Code:                p.Code,
			StorageDepositLimit: p.StorageDepositLimit,
			Determinism:         contracts.DeterminismEnforced,
		})
	default:
		return nil, fmt.Errorf("cannot simulate %T", p)
	}
}

// response is satisfied by pointers to the runtime API response types.
type response[T any] interface {
	*T
	contracts.Response
}

func simulate[T any, PT response[T]](ctx context.Context, s *NodeSimulator, fn string, req interface{}) (*contracts.ExecutionResult, error) {
	resp, err := node.StateCall[T](ctx, s.endpoint, fn, req, s.log)
	if err != nil {
		return nil, err
	}
	res := PT(&resp).Result()
	if res == nil {
		return nil, fmt.Errorf("%w: empty %s result", node.ErrDecode, fn)
	}
	return res, nil
}
