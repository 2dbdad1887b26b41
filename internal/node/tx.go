package node

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/inkctl/internal/account"
	"github.com/Mohsinsiddi/inkctl/internal/contracts"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

const (
	extrinsicVersionSigned = 0x84
	multiAddressID         = 0x00
	multiSignatureSr25519  = 0x01
	eraImmortal            = 0x00
	maxUnhashedPayload     = 256
)

// Signer produces signatures for an account.
type Signer interface {
	AccountID() account.AccountID
	Sign(msg []byte) ([]byte, error)
}

// TxParams are the chain facts a signed extrinsic commits to.
type TxParams struct {
	Nonce   uint64
	Runtime RuntimeVersion
	Genesis types.Hash
}

// signedExtensions builds the extra (in the extrinsic) and additional
// (signed only) data for each extension the runtime declares.
func signedExtensions(meta *types.Metadata, p TxParams) (extra, additional []byte, err error) {
	var ex, add bytes.Buffer
	exEnc, addEnc := scale.NewEncoder(&ex), scale.NewEncoder(&add)
	compact := func(enc *scale.Encoder, v uint64) error {
		return enc.EncodeUintCompact(*new(big.Int).SetUint64(v))
	}

	for _, ext := range meta.AsMetadataV14.Extrinsic.SignedExtensions {
		id := string(ext.Identifier)
		switch id {
		case "CheckNonZeroSender", "CheckWeight", "PrevalidateAttests", "StorageWeightReclaim":
		case "CheckSpecVersion":
			err = addEnc.Encode(p.Runtime.SpecVersion)
		case "CheckTxVersion":
			err = addEnc.Encode(p.Runtime.TransactionVersion)
		case "CheckGenesis":
			err = addEnc.Write(p.Genesis[:])
		case "CheckMortality", "CheckEra":
			if err = exEnc.PushByte(eraImmortal); err == nil {
				err = addEnc.Write(p.Genesis[:])
			}
		case "CheckNonce":
			err = compact(exEnc, p.Nonce)
		case "ChargeTransactionPayment":
			err = compact(exEnc, 0)
		case "ChargeAssetTxPayment":
			if err = compact(exEnc, 0); err == nil {
				err = exEnc.PushByte(0)
			}
		case "CheckMetadataHash":
			if err = exEnc.PushByte(0); err == nil {
				err = addEnc.PushByte(0)
			}
		default:
			return nil, nil, fmt.Errorf("unsupported signed extension %q", id)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("encoding signed extension %s: %w", id, err)
		}
	}
	return ex.Bytes(), add.Bytes(), nil
}

// BuildSignedExtrinsic signs call and returns the length-prefixed v4 extrinsic.
func BuildSignedExtrinsic(meta *types.Metadata, call []byte, signer Signer, p TxParams) ([]byte, error) {
	extra, additional, err := signedExtensions(meta, p)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, len(call)+len(extra)+len(additional))
	payload = append(payload, call...)
	payload = append(payload, extra...)
	payload = append(payload, additional...)
	if len(payload) > maxUnhashedPayload {
		h := blake2b.Sum256(payload)
		payload = h[:]
	}
	sig, err := signer.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("signing extrinsic: %w", err)
	}

	who := signer.AccountID()
	body := []byte{extrinsicVersionSigned, multiAddressID}
	body = append(body, who[:]...)
	body = append(body, multiSignatureSr25519)
	body = append(body, sig...)
	body = append(body, extra...)
	body = append(body, call...)

	var out bytes.Buffer
	enc := scale.NewEncoder(&out)
	if err := enc.EncodeUintCompact(*new(big.Int).SetUint64(uint64(len(body)))); err != nil {
		return nil, err
	}
	if err := enc.Write(body); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// TxProgress tracks a submitted extrinsic through the transaction pool.
type TxProgress struct {
	client *Client
	meta   *types.Metadata
	sub    *Subscription
	hash   types.Hash
}

// ExtrinsicHash is the blake2-256 hash of the encoded extrinsic.
func (p *TxProgress) ExtrinsicHash() types.Hash { return p.hash }

// SignAndSubmitThenWatch signs call with signer's next nonce, submits it
// and subscribes to its status updates.
func (c *Client) SignAndSubmitThenWatch(ctx context.Context, meta *types.Metadata, call []byte, signer Signer, ss58Prefix uint16) (*TxProgress, error) {
	rv, err := c.RuntimeVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching runtime version: %w", err)
	}
	genesis, err := c.GenesisHash(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching genesis hash: %w", err)
	}
	who := signer.AccountID()
	nonce, err := c.AccountNextIndex(ctx, who.SS58(ss58Prefix))
	if err != nil {
		return nil, fmt.Errorf("fetching account nonce: %w", err)
	}

	xt, err := BuildSignedExtrinsic(meta, call, signer, TxParams{Nonce: nonce, Runtime: rv, Genesis: genesis})
	if err != nil {
		return nil, err
	}
	hash := types.Hash(blake2b.Sum256(xt))
	c.log.Debug("submitting extrinsic",
		zap.String("hash", hash.Hex()),
		zap.Uint64("nonce", nonce),
		zap.Int("bytes", len(xt)))

	sub, err := c.Subscribe(ctx, "author_submitAndWatchExtrinsic", "author_unwatchExtrinsic", hexutil.Encode(xt))
	if err != nil {
		return nil, err
	}
	return &TxProgress{client: c, meta: meta, sub: sub, hash: hash}, nil
}

// TxInBlock is an extrinsic known to be included in a block.
type TxInBlock struct {
	client        *Client
	meta          *types.Metadata
	BlockHash     types.Hash
	ExtrinsicHash types.Hash
}

// WaitForInBlock blocks until the extrinsic lands in a block. It does not
// wait for finality.
func (p *TxProgress) WaitForInBlock(ctx context.Context) (*TxInBlock, error) {
	defer p.sub.Unsubscribe(context.Background())
	for {
		raw, err := p.sub.Next(ctx)
		if err != nil {
			return nil, err
		}
		status, block, err := parseTxStatus(raw)
		if err != nil {
			return nil, err
		}
		p.client.log.Debug("extrinsic status", zap.String("status", status))
		switch status {
		case "inBlock", "finalized":
			return &TxInBlock{client: p.client, meta: p.meta, BlockHash: block, ExtrinsicHash: p.hash}, nil
		case "dropped", "invalid", "usurped", "finalityTimeout":
			return nil, fmt.Errorf("%w: status %s", ErrTxDropped, status)
		}
	}
}

// parseTxStatus decodes an author_extrinsicUpdate payload, which is either a
// bare string or a single-key object carrying a block hash.
func parseTxStatus(raw json.RawMessage) (string, types.Hash, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, types.Hash{}, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || len(obj) != 1 {
		return "", types.Hash{}, fmt.Errorf("%w: transaction status %s", ErrDecode, raw)
	}
	for k, v := range obj {
		var h hexutil.Bytes
		if json.Unmarshal(v, &h) == nil && len(h) == len(types.Hash{}) {
			return k, types.NewHash(h), nil
		}
		return k, types.Hash{}, nil
	}
	return "", types.Hash{}, nil
}

// WaitForSuccess fetches the events emitted by the extrinsic. A
// System.ExtrinsicFailed event yields a *contracts.ModuleError for pallet
// errors, or a generic dispatch failure otherwise.
func (b *TxInBlock) WaitForSuccess(ctx context.Context) ([]Event, error) {
	xts, err := b.client.BlockExtrinsics(ctx, b.BlockHash)
	if err != nil {
		return nil, fmt.Errorf("fetching block: %w", err)
	}
	idx := -1
	for i, xt := range xts {
		if types.Hash(blake2b.Sum256(xt)) == b.ExtrinsicHash {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: extrinsic %s not found in block %s", ErrDecode, b.ExtrinsicHash.Hex(), b.BlockHash.Hex())
	}

	all, err := b.client.Events(ctx, b.meta, b.BlockHash)
	if err != nil {
		return nil, err
	}
	var events []Event
	for _, ev := range all {
		if ev.Extrinsic == idx {
			events = append(events, ev)
		}
	}
	for _, ev := range events {
		if ev.Is("System", "ExtrinsicFailed") {
			return events, dispatchFailure(ev)
		}
	}
	return events, nil
}

var errDispatchFailed = errors.New("extrinsic failed")

func dispatchFailure(ev Event) error {
	v, ok := ev.Field("dispatch_error")
	if !ok {
		return errDispatchFailed
	}
	if me, ok := moduleError(v); ok {
		return me
	}
	return fmt.Errorf("%w: %v", errDispatchFailed, v)
}

// moduleError searches decoded fields for a composite with index and error.
func moduleError(v interface{}) (*contracts.ModuleError, bool) {
	idx, ok := lookup(v, "index")
	if !ok {
		return nil, false
	}
	errv, ok := lookup(v, "error")
	if !ok {
		return nil, false
	}
	pallet, ok := AsBig(idx)
	if !ok {
		return nil, false
	}
	var code uint8
	if b, ok := AsBytes(errv); ok && len(b) > 0 {
		code = b[0]
	} else if n, ok := AsBig(errv); ok {
		code = uint8(n.Uint64())
	} else {
		return nil, false
	}
	return &contracts.ModuleError{Pallet: uint8(pallet.Uint64()), Index: code}, true
}
