package extrinsic

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Mohsinsiddi/inkctl/internal/account"
	"github.com/Mohsinsiddi/inkctl/internal/balance"
	"github.com/Mohsinsiddi/inkctl/internal/contracts"
	"github.com/Mohsinsiddi/inkctl/internal/node"
	"github.com/Mohsinsiddi/inkctl/internal/ui"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"go.uber.org/zap"
)

// Outcome is what a successfully included extrinsic produced.
type Outcome struct {
	BlockHash     string
	ExtrinsicHash string
	Events        []node.Event
	// Result carries the figures derived from the events: actual weight,
	// gas limit, net storage deposit and any new contract or code hash.
	Result *contracts.ExecutionResult
}

// Submitter signs, submits and waits for an extrinsic to be included.
type Submitter interface {
	Submit(ctx context.Context, p Payload, gasLimit contracts.Weight) (*Outcome, error)
}

// NodeSubmitter submits through a node's author RPC.
type NodeSubmitter struct {
	endpoint   string
	signer     *account.Keypair
	ss58Prefix uint16
	timeout    time.Duration
	progress   io.Writer
	log        *zap.Logger
}

// NewNodeSubmitter creates a submitter. A nil progress writer disables the spinner.
func NewNodeSubmitter(endpoint string, signer *account.Keypair, ss58Prefix uint16, timeout time.Duration, progress io.Writer, log *zap.Logger) *NodeSubmitter {
	return &NodeSubmitter{
		endpoint:   endpoint,
		signer:     signer,
		ss58Prefix: ss58Prefix,
		timeout:    timeout,
		progress:   progress,
		log:        log,
	}
}

// Submit blocks until the extrinsic is in a block and its events are known.
// It does not wait for finality. A dispatch error inside the block is
// returned as *contracts.ModuleError.
func (s *NodeSubmitter) Submit(ctx context.Context, p Payload, gasLimit contracts.Weight) (*Outcome, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	c, err := node.Dial(ctx, s.endpoint, s.log)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	meta, err := c.Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching metadata: %w", err)
	}
	call, err := encodeCall(meta, p, gasLimit)
	if err != nil {
		return nil, err
	}

	if s.progress != nil {
		spin := ui.NewSpinnerTo(s.progress, fmt.Sprintf("Waiting for %s to be included in a block...", p.Op()))
		spin.Start()
		defer spin.Stop()
	}

	progress, err := c.SignAndSubmitThenWatch(ctx, meta, call, s.signer, s.ss58Prefix)
	if err != nil {
		return nil, fmt.Errorf("submitting %s: %w", p.Op(), err)
	}
	inBlock, err := progress.WaitForInBlock(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Debug("extrinsic in block",
		zap.String("block", inBlock.BlockHash.Hex()),
		zap.String("extrinsic", inBlock.ExtrinsicHash.Hex()))

	events, err := inBlock.WaitForSuccess(ctx)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		BlockHash:     inBlock.BlockHash.Hex(),
		ExtrinsicHash: inBlock.ExtrinsicHash.Hex(),
		Events:        events,
		Result:        summarize(events, s.signer.AccountID(), gasLimit),
	}, nil
}

func encodeCall(meta *types.Metadata, p Payload, gas contracts.Weight) ([]byte, error) {
	switch p := p.(type) {
	case *CallPayload:
		idx, err := meta.FindCallIndex(contracts.CallCall)
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", contracts.CallCall, err)
		}
		return contracts.EncodeCall(idx, contracts.CallArgs{
			Dest:                p.Contract,
			Value:               p.Value,
			GasLimit:            gas,
			StorageDepositLimit: p.StorageDepositLimit,
			Data:                p.Data,
		})
	case *InstantiatePayload:
		args := contracts.InstantiateArgs{
			Value:               p.Value,
			GasLimit:            gas,
			StorageDepositLimit: p.StorageDepositLimit,
			Code:                p.Code,
			Data:                p.Data,
			Salt:                p.Salt,
		}
		idx, err := meta.FindCallIndex(args.CallName())
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", args.CallName(), err)
		}
		return contracts.EncodeInstantiate(idx, args)
	case *UploadPayload:
		idx, err := meta.FindCallIndex(contracts.CallUploadCode)
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", contracts.CallUploadCode, err)
		}
		return contracts.EncodeUpload(idx, contracts.UploadArgs{
			Code:                p.Code,
			StorageDepositLimit: p.StorageDepositLimit,
			Determinism:         contracts.DeterminismEnforced,
		})
	default:
		return nil, fmt.Errorf("cannot submit %T", p)
	}
}

// summarize derives the submission's own figures from its events.
func summarize(events []node.Event, caller account.AccountID, gasLimit contracts.Weight) *contracts.ExecutionResult {
	res := &contracts.ExecutionResult{GasRequired: gasLimit}
	var charged, refunded balance.Balance

	for _, ev := range events {
		switch {
		case ev.Is("System", "ExtrinsicSuccess"):
			res.GasConsumed = eventWeight(ev)
		case ev.Is("Contracts", "StorageDepositTransferredAndHeld"):
			if from, ok := eventAccount(ev, "from"); ok && from == caller {
				charged = addAmount(charged, ev)
			}
		case ev.Is("Contracts", "StorageDepositTransferredAndReleased"):
			if to, ok := eventAccount(ev, "to"); ok && to == caller {
				refunded = addAmount(refunded, ev)
			}
		case ev.Is("Contracts", "Instantiated"):
			if addr, ok := eventAccount(ev, "contract"); ok {
				res.Contract = &addr
			}
		case ev.Is("Contracts", "CodeStored"):
			if v, ok := ev.Field("code_hash"); ok {
				if h, ok := node.AsBytes32(v); ok {
					hash := contracts.Hash(h)
					res.CodeHash = &hash
				}
			}
		}
	}

	if diff, neg := charged.Sub(refunded); neg {
		res.StorageDeposit = contracts.RefundOf(diff)
	} else {
		res.StorageDeposit = contracts.ChargeOf(diff)
	}
	return res
}

func eventWeight(ev node.Event) contracts.Weight {
	var w contracts.Weight
	if v, ok := ev.Field("ref_time"); ok {
		if n, ok := node.AsBig(v); ok && n.IsUint64() {
			w.RefTime = n.Uint64()
		}
	}
	if v, ok := ev.Field("proof_size"); ok {
		if n, ok := node.AsBig(v); ok && n.IsUint64() {
			w.ProofSize = n.Uint64()
		}
	}
	return w
}

func eventAccount(ev node.Event, field string) (account.AccountID, bool) {
	v, ok := ev.Field(field)
	if !ok {
		return account.AccountID{}, false
	}
	b, ok := node.AsBytes32(v)
	return account.AccountID(b), ok
}

func addAmount(acc balance.Balance, ev node.Event) balance.Balance {
	v, ok := ev.Field("amount")
	if !ok {
		return acc
	}
	n, ok := node.AsBig(v)
	if !ok {
		return acc
	}
	b, err := balance.FromBig(n)
	if err != nil {
		return acc
	}
	sum, err := acc.Add(b)
	if err != nil {
		return acc
	}
	return sum
}
