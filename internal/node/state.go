package node

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"

	"github.com/Mohsinsiddi/inkctl/internal/balance"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

var defaultPorts = map[string]string{
	"ws":    "80",
	"wss":   "443",
	"http":  "80",
	"https": "443",
}

// NormalizeURL renders an endpoint with its port always present, filling in
// the scheme's default port when the URL omits it.
func NormalizeURL(u *url.URL) string {
	out := *u
	if out.Port() == "" {
		if port, ok := defaultPorts[out.Scheme]; ok {
			out.Host = net.JoinHostPort(out.Hostname(), port)
		}
	}
	if out.Path == "" {
		out.Path = "/"
	}
	return out.String()
}

// StateCall invokes a runtime API function with SCALE-encoded args and
// decodes the response into R. It opens and closes its own connection.
func StateCall[R any](ctx context.Context, endpoint, fn string, args interface{}, log *zap.Logger) (R, error) {
	var out R
	encoded, err := codec.Encode(args)
	if err != nil {
		return out, fmt.Errorf("encoding %s args: %w", fn, err)
	}

	c, err := Dial(ctx, endpoint, log)
	if err != nil {
		return out, err
	}
	defer c.Close()

	raw, err := c.StateCall(ctx, fn, encoded)
	if err != nil {
		return out, err
	}
	if err := codec.Decode(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %s result: %v", ErrDecode, fn, err)
	}
	return out, nil
}

// StateCall issues state_call and returns the raw result bytes.
func (c *Client) StateCall(ctx context.Context, fn string, args []byte) ([]byte, error) {
	var res hexutil.Bytes
	if err := c.Call(ctx, &res, "state_call", fn, hexutil.Bytes(args)); err != nil {
		return nil, err
	}
	return res, nil
}

// TokenMetadata reads the native token symbol and decimals from
// system_properties. Missing values fall back to UNIT with 0 decimals.
func (c *Client) TokenMetadata(ctx context.Context) (balance.TokenMetadata, error) {
	meta := balance.TokenMetadata{Symbol: balance.DefaultSymbol}
	var props map[string]json.RawMessage
	if err := c.Call(ctx, &props, "system_properties"); err != nil {
		return meta, err
	}
	if raw, ok := props["tokenSymbol"]; ok {
		var sym string
		if err := firstOf(raw, &sym); err != nil {
			return meta, fmt.Errorf("%w: tokenSymbol: %v", ErrDecode, err)
		}
		if sym != "" {
			meta.Symbol = sym
		}
	}
	if raw, ok := props["tokenDecimals"]; ok {
		var dec uint8
		if err := firstOf(raw, &dec); err != nil {
			return meta, fmt.Errorf("%w: tokenDecimals: %v", ErrDecode, err)
		}
		meta.Decimals = dec
	}
	return meta, nil
}

// firstOf decodes a scalar, or the first element of an array of scalars.
func firstOf(raw json.RawMessage, v interface{}) error {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return nil
		}
		raw = list[0]
	}
	return json.Unmarshal(raw, v)
}

// FetchTokenMetadata dials endpoint and reads its token metadata.
func FetchTokenMetadata(ctx context.Context, endpoint string, log *zap.Logger) (balance.TokenMetadata, error) {
	c, err := Dial(ctx, endpoint, log)
	if err != nil {
		return balance.TokenMetadata{}, err
	}
	defer c.Close()
	return c.TokenMetadata(ctx)
}
