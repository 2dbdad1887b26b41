// Package extrinsic runs a contract transaction from options to report:
// optional dry-run, confirmation, signed submission and result reporting.
package extrinsic

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Mohsinsiddi/inkctl/internal/account"
	"github.com/Mohsinsiddi/inkctl/internal/balance"
	"github.com/Mohsinsiddi/inkctl/internal/node"
)

// Flags is the raw, unvalidated form of Options as bound to the command line.
type Flags struct {
	URL                 string
	Suri                string
	Password            string
	StorageDepositLimit string
	DryRun              bool
	SkipDryRun          bool
	SkipConfirm         bool
	OutputJSON          bool
}

// Options is the validated configuration of one transaction attempt.
// DryRun means never submit; SkipDryRun means submit without simulating
// first. Both may be set, in which case nothing is simulated or submitted
// beyond what DryRun alone implies.
type Options struct {
	url                 *url.URL
	signer              *account.Keypair
	storageDepositLimit *balance.Amount
	dryRun              bool
	skipDryRun          bool
	skipConfirm         bool
	outputJSON          bool
}

// NewOptions validates f and derives the signing key pair.
func NewOptions(f Flags) (*Options, error) {
	u, err := url.Parse(strings.TrimSpace(f.URL))
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", f.URL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid url %q: scheme must be ws or wss", f.URL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid url %q: missing host", f.URL)
	}

	signer, err := account.FromSecretURI(f.Suri, f.Password)
	if err != nil {
		return nil, err
	}

	o := &Options{
		url:         u,
		signer:      signer,
		dryRun:      f.DryRun,
		skipDryRun:  f.SkipDryRun,
		skipConfirm: f.SkipConfirm,
		outputJSON:  f.OutputJSON,
	}
	if s := strings.TrimSpace(f.StorageDepositLimit); s != "" {
		amt, err := balance.ParseAmount(s)
		if err != nil {
			return nil, fmt.Errorf("--storage-deposit-limit: %w", err)
		}
		o.storageDepositLimit = &amt
	}
	return o, nil
}

// Endpoint is the URL to dial.
func (o *Options) Endpoint() string { return o.url.String() }

// DisplayURL is the endpoint with its port made explicit.
func (o *Options) DisplayURL() string { return node.NormalizeURL(o.url) }

// Signer is the key pair derived from the secret URI.
func (o *Options) Signer() *account.Keypair { return o.signer }

func (o *Options) DryRun() bool      { return o.dryRun }
func (o *Options) SkipDryRun() bool  { return o.skipDryRun }
func (o *Options) SkipConfirm() bool { return o.skipConfirm }
func (o *Options) OutputJSON() bool  { return o.outputJSON }

// HasStorageDepositLimit reports whether a cap was given.
func (o *Options) HasStorageDepositLimit() bool { return o.storageDepositLimit != nil }

// NeedsTokenMetadata reports whether the cap has to be denominated.
func (o *Options) NeedsTokenMetadata() bool {
	return o.storageDepositLimit != nil && !o.storageDepositLimit.IsRaw()
}

// StorageDepositLimit resolves the cap against the token, or returns nil when unset.
func (o *Options) StorageDepositLimit(meta balance.TokenMetadata) (*balance.Balance, error) {
	if o.storageDepositLimit == nil {
		return nil, nil
	}
	b, err := o.storageDepositLimit.Denominate(meta)
	if err != nil {
		return nil, fmt.Errorf("--storage-deposit-limit: %w", err)
	}
	return &b, nil
}
