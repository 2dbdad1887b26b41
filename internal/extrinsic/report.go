package extrinsic

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Mohsinsiddi/inkctl/internal/contracts"
	"github.com/Mohsinsiddi/inkctl/internal/ui"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MaxKeyColWidth fits the longest label the reporter prints.
const MaxKeyColWidth = len("Storage Deposit") + 1

// Record is the structured form of a report.
type Record struct {
	GasConsumed    contracts.Weight         `json:"gas_consumed"`
	GasRequired    contracts.Weight         `json:"gas_required"`
	StorageDeposit contracts.StorageDeposit `json:"storage_deposit"`
	DebugMessage   []string                 `json:"debug_message"`

	Result   string `json:"result,omitempty"`
	Reverted bool   `json:"reverted,omitempty"`
	Data     string `json:"data,omitempty"`
	Contract string `json:"contract,omitempty"`
	CodeHash string `json:"code_hash,omitempty"`

	BlockHash     string   `json:"block_hash,omitempty"`
	ExtrinsicHash string   `json:"extrinsic_hash,omitempty"`
	Events        []string `json:"events,omitempty"`
}

// Reporter prints execution results as aligned name/value lines or JSON.
type Reporter struct {
	out        io.Writer
	width      int
	asJSON     bool
	ss58Prefix uint16
}

// NewReporter writes to out, right-aligning names in a column of width.
func NewReporter(out io.Writer, width int, asJSON bool, ss58Prefix uint16) *Reporter {
	return &Reporter{out: out, width: width, asJSON: asJSON, ss58Prefix: ss58Prefix}
}

// JSON reports whether the reporter emits structured records.
func (r *Reporter) JSON() bool { return r.asJSON }

// Width is the name column width.
func (r *Reporter) Width() int { return r.width }

// Report prints gas consumed, gas required, storage deposit and the debug
// message. Only the first debug line carries the label.
func (r *Reporter) Report(res *contracts.ExecutionResult) error {
	lines, err := res.DebugLines()
	if err != nil {
		return err
	}
	if r.asJSON {
		return r.writeJSON(r.record(res, lines))
	}
	r.line("Gas Consumed", res.GasConsumed.String())
	r.line("Gas Required", res.GasRequired.String())
	r.line("Storage Deposit", res.StorageDeposit.String())
	r.debug(lines)
	return nil
}

// ReportDebug prints only the debug message lines.
func (r *Reporter) ReportDebug(res *contracts.ExecutionResult) error {
	lines, err := res.DebugLines()
	if err != nil {
		return err
	}
	if r.asJSON {
		return r.writeJSON(struct {
			DebugMessage []string `json:"debug_message"`
		}{lines})
	}
	r.debug(lines)
	return nil
}

// ReportDryRun prints the full report followed by the decoded dispatch result.
func (r *Reporter) ReportDryRun(res *contracts.ExecutionResult) error {
	lines, err := res.DebugLines()
	if err != nil {
		return err
	}
	rec := r.record(res, lines)
	r.decorate(&rec, res)
	if r.asJSON {
		return r.writeJSON(rec)
	}
	if err := r.Report(res); err != nil {
		return err
	}
	r.line("Result", rec.Result)
	if res.Return != nil {
		r.line("Reverted", fmt.Sprintf("%t", rec.Reverted))
		r.line("Data", rec.Data)
	}
	if rec.Contract != "" {
		r.line("Contract", ui.Addr(rec.Contract))
	}
	if rec.CodeHash != "" {
		r.line("Code hash", rec.CodeHash)
	}
	return nil
}

// ReportOutcome prints where the extrinsic landed, its events and the
// figures derived from them.
func (r *Reporter) ReportOutcome(o *Outcome) error {
	lines, err := o.Result.DebugLines()
	if err != nil {
		return err
	}
	rec := r.record(o.Result, lines)
	r.decorate(&rec, o.Result)
	rec.Result = ""
	rec.BlockHash = o.BlockHash
	rec.ExtrinsicHash = o.ExtrinsicHash
	for _, ev := range o.Events {
		rec.Events = append(rec.Events, ev.String())
	}
	if r.asJSON {
		return r.writeJSON(rec)
	}

	r.line("Block", o.BlockHash)
	r.line("Extrinsic", o.ExtrinsicHash)
	for i, ev := range o.Events {
		name := ""
		if i == 0 {
			name = "Events"
		}
		r.line(name, ui.Pallet(ev.Pallet)+" ➜ "+ui.Val(ev.Name))
	}
	if err := r.Report(o.Result); err != nil {
		return err
	}
	if rec.Contract != "" {
		r.line("Contract", ui.Addr(rec.Contract))
	}
	if rec.CodeHash != "" {
		r.line("Code hash", rec.CodeHash)
	}
	return nil
}

func (r *Reporter) record(res *contracts.ExecutionResult, lines []string) Record {
	if lines == nil {
		lines = []string{}
	}
	return Record{
		GasConsumed:    res.GasConsumed,
		GasRequired:    res.GasRequired,
		StorageDeposit: res.StorageDeposit,
		DebugMessage:   lines,
	}
}

func (r *Reporter) decorate(rec *Record, res *contracts.ExecutionResult) {
	rec.Result = "Success!"
	if res.Err != nil {
		rec.Result = res.Err.Error()
	}
	if res.Return != nil {
		rec.Reverted = res.Return.Reverted()
		rec.Data = hexutil.Encode(res.Return.Data)
	}
	if res.Contract != nil {
		rec.Contract = res.Contract.SS58(r.ss58Prefix)
	}
	if res.CodeHash != nil {
		rec.CodeHash = hexutil.Encode(res.CodeHash[:])
	}
}

func (r *Reporter) debug(lines []string) {
	for i, l := range lines {
		name := ""
		if i == 0 {
			name = "Debug Message"
		}
		r.line(name, l)
	}
}

func (r *Reporter) line(name, value string) {
	ui.PrintNameValue(r.out, name, value, r.width)
}

func (r *Reporter) writeJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, string(data))
	return nil
}
