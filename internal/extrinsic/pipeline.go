package extrinsic

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Mohsinsiddi/inkctl/internal/balance"
	"github.com/Mohsinsiddi/inkctl/internal/contracts"
	"github.com/Mohsinsiddi/inkctl/internal/ui"
	"go.uber.org/zap"
)

// ErrWeightRequired is returned when submitting without a dry-run and
// without an explicit gas limit.
var ErrWeightRequired = errors.New("weight args --gas and --proof-size required if --skip-dry-run specified")

// Pipeline runs dry-run, confirmation, submission and reporting in order.
// Each step may end the run with an error; nothing runs concurrently.
type Pipeline struct {
	Options   *Options
	Simulator Simulator
	Submitter Submitter
	Gate      *Gate
	Reporter  *Reporter
	Token     balance.TokenMetadata
	// Out receives status lines and the confirmation summary.
	Out        io.Writer
	SS58Prefix uint16
	Log        *zap.Logger
}

// Run executes p. gas overrides the dry-run estimate when set; it is
// required when the dry-run is skipped for a payload that takes a gas limit.
func (pl *Pipeline) Run(ctx context.Context, p Payload, gas *contracts.Weight) (*Outcome, error) {
	log := pl.Log
	if log == nil {
		log = zap.NewNop()
	}
	opts := pl.Options

	if opts.DryRun() {
		res, err := pl.Simulator.Simulate(ctx, p)
		if err != nil {
			return nil, err
		}
		if err := pl.Reporter.ReportDryRun(res); err != nil {
			return nil, err
		}
		if res.Failed() {
			return nil, &SimulationFailure{Result: res}
		}
		return nil, nil
	}

	limit, err := pl.gasLimit(ctx, p, gas, log)
	if err != nil {
		return nil, err
	}

	if opts.SkipConfirm() {
		log.Debug("confirmation skipped")
	} else if err := pl.Gate.Confirm(func() { pl.summary(p, limit) }); err != nil {
		return nil, err
	}

	outcome, err := pl.Submitter.Submit(ctx, p, limit)
	if err != nil {
		return nil, err
	}
	if err := pl.Reporter.ReportOutcome(outcome); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// gasLimit dry-runs the payload unless skipped and picks the gas limit.
func (pl *Pipeline) gasLimit(ctx context.Context, p Payload, gas *contracts.Weight, log *zap.Logger) (contracts.Weight, error) {
	if pl.Options.SkipDryRun() {
		log.Debug("dry-run skipped")
		if !p.UsesGas() {
			return contracts.Weight{}, nil
		}
		if gas == nil {
			return contracts.Weight{}, ErrWeightRequired
		}
		log.Debug("gas limit from flags", zap.Stringer("weight", *gas))
		return *gas, nil
	}

	if !pl.Reporter.JSON() {
		fmt.Fprintln(pl.Out, ui.StatusLine("Dry-running", p.Op()+" "+ui.Meta("(skip with --skip-dry-run)"), pl.Reporter.Width()))
	}
	res, err := pl.Simulator.Simulate(ctx, p)
	if err != nil {
		return contracts.Weight{}, err
	}
	if res.Failed() {
		if !pl.Reporter.JSON() {
			reason := "contract reverted"
			if res.Err != nil {
				reason = res.Err.Error()
			}
			ui.PrintNameValue(pl.Out, "Result", ui.StyleError.Render(reason), pl.Reporter.Width())
		}
		if err := pl.Reporter.ReportDebug(res); err != nil {
			return contracts.Weight{}, err
		}
		return contracts.Weight{}, &SimulationFailure{Result: res, PreSubmit: true}
	}

	if !pl.Reporter.JSON() {
		msg := "Success!"
		if p.UsesGas() {
			msg += " Gas required estimated at " + ui.Val(res.GasRequired.String())
		}
		fmt.Fprintln(pl.Out, ui.StatusLine("Result", msg, pl.Reporter.Width()))
	}
	if gas != nil {
		log.Debug("gas limit from flags", zap.Stringer("weight", *gas))
		return *gas, nil
	}
	log.Debug("gas limit from dry-run", zap.Stringer("weight", res.GasRequired))
	return res.GasRequired, nil
}

func (pl *Pipeline) summary(p Payload, gas contracts.Weight) {
	w := pl.Reporter.Width()
	ui.PrintNameValue(pl.Out, "Operation", p.Op(), w)
	for _, kv := range p.Summary(pl.Token, pl.SS58Prefix) {
		ui.PrintNameValue(pl.Out, kv[0], kv[1], w)
	}
	if p.UsesGas() {
		ui.PrintNameValue(pl.Out, "Gas Limit", gas.String(), w)
	}
}
