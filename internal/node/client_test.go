package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Client.Call / Subscribe
// ---------------------------------------------------------------------------

func TestCall_Result(t *testing.T) {
	srv := wsServer(t, func(method string, params []json.RawMessage) reply {
		require.Equal(t, "system_accountNextIndex", method)
		require.Len(t, params, 1)
		return reply{result: 7}
	})
	c, err := Dial(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)
	defer c.Close()

	n, err := c.AccountNextIndex(context.Background(), "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), n)
}

func TestCall_RPCError(t *testing.T) {
	srv := wsServer(t, func(string, []json.RawMessage) reply {
		return reply{err: &RPCError{Code: 1010, Message: "Invalid Transaction"}}
	})
	c, err := Dial(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)
	defer c.Close()

	err = c.Call(context.Background(), nil, "author_submitExtrinsic", "0x00")
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, 1010, rpcErr.Code)
	assert.Contains(t, err.Error(), "Invalid Transaction")
}

func TestCall_DecodeError(t *testing.T) {
	srv := wsServer(t, func(string, []json.RawMessage) reply {
		return reply{result: "not a number"}
	})
	c, err := Dial(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.AccountNextIndex(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCall_Timeout(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	srv := wsServer(t, func(string, []json.RawMessage) reply {
		<-block
		return reply{result: true}
	})
	c, err := Dial(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = c.Call(ctx, nil, "system_health")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestDial_ConnectionRefused(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:19994", nil)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSubscribe_DeliversEarlyNotifications(t *testing.T) {
	srv := wsServer(t, func(method string, _ []json.RawMessage) reply {
		switch method {
		case "author_submitAndWatchExtrinsic":
			return reply{result: "sub-1", notify: []interface{}{"ready", "broadcast"}}
		default:
			return reply{result: true}
		}
	})
	c, err := Dial(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)
	defer c.Close()

	sub, err := c.Subscribe(context.Background(), "author_submitAndWatchExtrinsic", "author_unwatchExtrinsic", "0x00")
	require.NoError(t, err)
	defer sub.Unsubscribe(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	first, err := sub.Next(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `"ready"`, string(first))
	second, err := sub.Next(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `"broadcast"`, string(second))
}

func TestDispatch_BoundsEarlyNotifications(t *testing.T) {
	c := &Client{
		log:     zap.NewNop(),
		subs:    make(map[string]chan json.RawMessage),
		orphans: make(map[string][]json.RawMessage),
	}
	for i := 0; i < subscriptionBuffer; i++ {
		c.dispatch(&message{Params: json.RawMessage(fmt.Sprintf(`{"subscription":"sub-1","result":%d}`, i))})
	}
	// Beyond the buffer early notifications are dropped.
	c.dispatch(&message{Params: json.RawMessage(`{"subscription":"sub-1","result":"late"}`)})
	require.Len(t, c.orphans["sub-1"], subscriptionBuffer)

	ch := c.register("sub-1")
	assert.Empty(t, c.orphans)
	require.Len(t, ch, subscriptionBuffer)
	assert.JSONEq(t, `0`, string(<-ch))

	// The live channel still has room once the backlog is queued.
	c.dispatch(&message{Params: json.RawMessage(`{"subscription":"sub-1","result":"next"}`)})
	assert.Len(t, ch, subscriptionBuffer)
}

func TestRegister_GrowsForOversizedBacklog(t *testing.T) {
	c := &Client{
		log:     zap.NewNop(),
		subs:    make(map[string]chan json.RawMessage),
		orphans: make(map[string][]json.RawMessage),
	}
	for i := 0; i < 2*subscriptionBuffer; i++ {
		c.orphans["sub-1"] = append(c.orphans["sub-1"], json.RawMessage(`"ready"`))
	}

	done := make(chan chan json.RawMessage)
	go func() { done <- c.register("sub-1") }()
	select {
	case ch := <-done:
		assert.Len(t, ch, 2*subscriptionBuffer)
		assert.Equal(t, ch, c.subs["sub-1"])
	case <-time.After(2 * time.Second):
		t.Fatal("register blocked on a full channel")
	}
}

// ---------------------------------------------------------------------------
// State queries
// ---------------------------------------------------------------------------

func TestStateCall_Generic(t *testing.T) {
	srv := wsServer(t, func(method string, params []json.RawMessage) reply {
		require.Equal(t, "state_call", method)
		require.Len(t, params, 2)
		assert.JSONEq(t, `"ContractsApi_call"`, string(params[0]))
		assert.JSONEq(t, `"0x05000000"`, string(params[1]))
		return reply{result: "0x2a000000"}
	})

	got, err := StateCall[types.U32](context.Background(), wsURL(srv), "ContractsApi_call", types.U32(5), nil)
	require.NoError(t, err)
	assert.Equal(t, types.U32(42), got)
}

func TestStateCall_UndecodableResult(t *testing.T) {
	srv := wsServer(t, func(string, []json.RawMessage) reply {
		return reply{result: "0x01"}
	})

	_, err := StateCall[types.U32](context.Background(), wsURL(srv), "ContractsApi_call", types.U32(5), nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestStateCall_TransportFailure(t *testing.T) {
	_, err := StateCall[types.U32](context.Background(), "ws://127.0.0.1:19995", "ContractsApi_call", types.U32(5), nil)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestTokenMetadata(t *testing.T) {
	cases := []struct {
		name    string
		props   interface{}
		symbol  string
		decimal uint8
	}{
		{"scalars", map[string]interface{}{"tokenSymbol": "ROC", "tokenDecimals": 12}, "ROC", 12},
		{"arrays", map[string]interface{}{"tokenSymbol": []string{"DOT", "X"}, "tokenDecimals": []int{10, 6}}, "DOT", 10},
		{"missing", map[string]interface{}{"ss58Format": 42}, "UNIT", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := wsServer(t, func(string, []json.RawMessage) reply { return reply{result: tc.props} })
			meta, err := FetchTokenMetadata(context.Background(), wsURL(srv), nil)
			require.NoError(t, err)
			assert.Equal(t, tc.symbol, meta.Symbol)
			assert.Equal(t, tc.decimal, meta.Decimals)
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"ws://localhost:9944":   "ws://localhost:9944/",
		"ws://example.com/":     "ws://example.com:80/",
		"wss://rpc.example.com": "wss://rpc.example.com:443/",
		"wss://host:8443/path":  "wss://host:8443/path",
		"ws://[::1]/":           "ws://[::1]:80/",
	}
	for in, want := range cases {
		u, err := url.Parse(in)
		require.NoError(t, err)
		assert.Equal(t, want, NormalizeURL(u), in)
	}
}
