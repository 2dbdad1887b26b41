package node

import (
	"context"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// RuntimeVersion carries the versions a signed extrinsic commits to.
type RuntimeVersion struct {
	SpecName           string `json:"specName"`
	SpecVersion        uint32 `json:"specVersion"`
	TransactionVersion uint32 `json:"transactionVersion"`
}

// RuntimeVersion returns the node's current runtime version.
func (c *Client) RuntimeVersion(ctx context.Context) (RuntimeVersion, error) {
	var v RuntimeVersion
	err := c.Call(ctx, &v, "state_getRuntimeVersion")
	return v, err
}

// GenesisHash returns the hash of block zero.
func (c *Client) GenesisHash(ctx context.Context) (types.Hash, error) {
	return c.BlockHash(ctx, 0)
}

// BlockHash returns the hash of the block at height n.
func (c *Client) BlockHash(ctx context.Context, n uint64) (types.Hash, error) {
	var h hexutil.Bytes
	if err := c.Call(ctx, &h, "chain_getBlockHash", n); err != nil {
		return types.Hash{}, err
	}
	if len(h) != len(types.Hash{}) {
		return types.Hash{}, fmt.Errorf("%w: block hash has %d bytes", ErrDecode, len(h))
	}
	return types.NewHash(h), nil
}

// AccountNextIndex returns the next usable nonce for an SS58 address,
// counting transactions already in the pool.
func (c *Client) AccountNextIndex(ctx context.Context, address string) (uint64, error) {
	var n uint64
	err := c.Call(ctx, &n, "system_accountNextIndex", address)
	return n, err
}

// Metadata fetches and decodes the runtime metadata.
func (c *Client) Metadata(ctx context.Context) (*types.Metadata, error) {
	var raw string
	if err := c.Call(ctx, &raw, "state_getMetadata"); err != nil {
		return nil, err
	}
	var meta types.Metadata
	if err := codec.DecodeFromHex(raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", ErrDecode, err)
	}
	if meta.Version != 14 {
		return nil, fmt.Errorf("%w: unsupported metadata version %d", ErrDecode, meta.Version)
	}
	return &meta, nil
}

// BlockExtrinsics returns the encoded extrinsics of a block in order.
func (c *Client) BlockExtrinsics(ctx context.Context, hash types.Hash) ([][]byte, error) {
	var block struct {
		Block struct {
			Extrinsics []hexutil.Bytes `json:"extrinsics"`
		} `json:"block"`
	}
	if err := c.Call(ctx, &block, "chain_getBlock", hash.Hex()); err != nil {
		return nil, err
	}
	out := make([][]byte, len(block.Block.Extrinsics))
	for i, x := range block.Block.Extrinsics {
		out[i] = x
	}
	return out, nil
}

// Storage reads a raw storage value at a block. A missing key yields nil.
func (c *Client) Storage(ctx context.Context, key []byte, at types.Hash) ([]byte, error) {
	var v *hexutil.Bytes
	if err := c.Call(ctx, &v, "state_getStorage", hexutil.Bytes(key), at.Hex()); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return *v, nil
}
