package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Mohsinsiddi/inkctl/internal/balance"
	"github.com/Mohsinsiddi/inkctl/internal/contracts"
	"github.com/Mohsinsiddi/inkctl/internal/extrinsic"
	"github.com/Mohsinsiddi/inkctl/internal/node"
	"github.com/Mohsinsiddi/inkctl/internal/ui"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errWeightPair = errors.New("--gas and --proof-size must be given together")

// extrinsicFlags are the options shared by every command that submits a transaction.
type extrinsicFlags struct {
	extrinsic.Flags
	gas       uint64
	proofSize uint64
	withGas   bool
}

func (f *extrinsicFlags) register(cmd *cobra.Command, withGas bool) {
	fl := cmd.Flags()
	fl.StringVar(&f.URL, "url", "", "websocket URL of the node (default from config)")
	fl.StringVarP(&f.Suri, "suri", "s", "", "secret URI of the signer, e.g. //Alice or a mnemonic phrase")
	fl.StringVarP(&f.Password, "password", "p", "", "password for the secret URI")
	fl.StringVar(&f.StorageDepositLimit, "storage-deposit-limit", "", "maximum storage deposit, e.g. 1000 or 1.5UNIT")
	fl.BoolVar(&f.DryRun, "dry-run", false, "only simulate, never submit")
	fl.BoolVar(&f.SkipDryRun, "skip-dry-run", false, "submit without simulating first")
	fl.BoolVar(&f.SkipConfirm, "skip-confirm", false, "submit without asking for confirmation")
	fl.BoolVar(&f.OutputJSON, "output-json", false, "print results as JSON")
	_ = cmd.MarkFlagRequired("suri")

	f.withGas = withGas
	if withGas {
		fl.Uint64Var(&f.gas, "gas", 0, "gas limit ref_time (required with --skip-dry-run)")
		fl.Uint64Var(&f.proofSize, "proof-size", 0, "gas limit proof_size (required with --skip-dry-run)")
	}
}

// weight returns the explicit gas limit, or nil when neither flag was given.
func (f *extrinsicFlags) weight(cmd *cobra.Command) (*contracts.Weight, error) {
	if !f.withGas {
		return nil, nil
	}
	gasSet, proofSet := cmd.Flags().Changed("gas"), cmd.Flags().Changed("proof-size")
	if !gasSet && !proofSet {
		return nil, nil
	}
	if gasSet != proofSet {
		return nil, errWeightPair
	}
	return &contracts.Weight{RefTime: f.gas, ProofSize: f.proofSize}, nil
}

// session carries what a transaction command resolved before building its payload.
type session struct {
	opts  *extrinsic.Options
	token balance.TokenMetadata
}

// amount denominates an operator-entered balance against the chain's token.
func (s *session) amount(flag, raw string) (balance.Balance, error) {
	if strings.TrimSpace(raw) == "" {
		return balance.New(0), nil
	}
	a, err := balance.ParseAmount(raw)
	if err != nil {
		return balance.Balance{}, fmt.Errorf("--%s: %w", flag, err)
	}
	b, err := a.Denominate(s.token)
	if err != nil {
		return balance.Balance{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return b, nil
}

func (s *session) storageDepositLimit() (*balance.Balance, error) {
	return s.opts.StorageDepositLimit(s.token)
}

// runExtrinsic validates the shared flags, builds the payload and runs the pipeline.
func runExtrinsic(cmd *cobra.Command, f *extrinsicFlags, build func(*session) (extrinsic.Payload, error)) error {
	if f.URL == "" {
		f.URL = cfg.DefaultURL
	}
	opts, err := extrinsic.NewOptions(f.Flags)
	if err != nil {
		return err
	}
	gas, err := f.weight(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if opts.DryRun() && opts.SkipDryRun() && !opts.OutputJSON() {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn("--dry-run takes precedence over --skip-dry-run"))
	}
	if verbose && !opts.OutputJSON() {
		ui.PrintNameValue(out, "Endpoint", opts.DisplayURL(), extrinsic.MaxKeyColWidth)
	}
	log.Debug("using endpoint",
		zap.String("url", opts.DisplayURL()),
		zap.String("signer", opts.Signer().Address(cfg.SS58Prefix)))

	token, err := node.FetchTokenMetadata(ctx, opts.Endpoint(), log)
	if err != nil {
		return fmt.Errorf("fetching token metadata: %w", err)
	}
	s := &session{opts: opts, token: token}
	payload, err := build(s)
	if err != nil {
		return err
	}

	var progress io.Writer
	if !opts.OutputJSON() && !quiet {
		progress = cmd.ErrOrStderr()
	}
	pipeline := &extrinsic.Pipeline{
		Options:   opts,
		Simulator: extrinsic.NewNodeSimulator(opts.Endpoint(), opts.Signer().AccountID(), log),
		Submitter: extrinsic.NewNodeSubmitter(opts.Endpoint(), opts.Signer(), cfg.SS58Prefix,
			cfg.Timeout(), progress, log),
		Gate:       extrinsic.NewGate(cmd.InOrStdin(), out),
		Reporter:   extrinsic.NewReporter(out, extrinsic.MaxKeyColWidth, opts.OutputJSON(), cfg.SS58Prefix),
		Token:      token,
		Out:        out,
		SS58Prefix: cfg.SS58Prefix,
		Log:        log,
	}
	_, err = pipeline.Run(ctx, payload, gas)
	return err
}

// parseHex decodes hex with or without the 0x prefix. Empty input yields nil.
func parseHex(flag, s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: invalid hex: %w", flag, err)
	}
	return b, nil
}

func parseCodeHash(s string) (contracts.Hash, error) {
	var h contracts.Hash
	b, err := parseHex("code-hash", s)
	if err != nil {
		return h, err
	}
	if len(b) != len(h) {
		return h, fmt.Errorf("--code-hash: expected %d bytes, got %d", len(h), len(b))
	}
	copy(h[:], b)
	return h, nil
}

var wasmMagic = []byte{0x00, 'a', 's', 'm'}

func readWasm(path string) ([]byte, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading wasm: %w", err)
	}
	if len(code) < len(wasmMagic) || string(code[:4]) != string(wasmMagic) {
		return nil, fmt.Errorf("%s is not a Wasm module", path)
	}
	log.Debug("loaded wasm", zap.String("path", path), zap.Int("bytes", len(code)))
	return code, nil
}
