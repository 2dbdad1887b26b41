package node

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Mohsinsiddi/inkctl/internal/account"
	"github.com/Mohsinsiddi/inkctl/internal/contracts"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSigner struct {
	id     account.AccountID
	signed [][]byte
}

func (f *fakeSigner) AccountID() account.AccountID { return f.id }

func (f *fakeSigner) Sign(msg []byte) ([]byte, error) {
	f.signed = append(f.signed, append([]byte(nil), msg...))
	return bytes.Repeat([]byte{0x5a}, 64), nil
}

func testMetadata(exts ...string) *types.Metadata {
	meta := &types.Metadata{Version: 14}
	for _, e := range exts {
		meta.AsMetadataV14.Extrinsic.SignedExtensions = append(meta.AsMetadataV14.Extrinsic.SignedExtensions,
			types.SignedExtensionMetadataV14{Identifier: types.Text(e)})
	}
	return meta
}

var defaultExtensions = []string{
	"CheckNonZeroSender", "CheckSpecVersion", "CheckTxVersion", "CheckGenesis",
	"CheckMortality", "CheckNonce", "CheckWeight", "ChargeTransactionPayment",
}

// ---------------------------------------------------------------------------
// Extrinsic construction
// ---------------------------------------------------------------------------

func TestBuildSignedExtrinsic_Layout(t *testing.T) {
	signer := &fakeSigner{id: account.AccountID{0xd4}}
	call := []byte{0x07, 0x06, 0xaa}
	genesis := types.Hash{0x01}
	p := TxParams{Nonce: 3, Runtime: RuntimeVersion{SpecVersion: 100, TransactionVersion: 1}, Genesis: genesis}

	xt, err := BuildSignedExtrinsic(testMetadata(defaultExtensions...), call, signer, p)
	require.NoError(t, err)

	// version + address + signature + era + nonce + tip + call
	bodyLen := 1 + 33 + 65 + 1 + 1 + 1 + len(call)
	require.Equal(t, []byte{byte(bodyLen<<2 | 1), byte(bodyLen >> 6)}, xt[:2])
	body := xt[2:]
	require.Len(t, body, bodyLen)
	assert.Equal(t, byte(0x84), body[0])
	assert.Equal(t, byte(0x00), body[1])
	assert.Equal(t, byte(0xd4), body[2])
	assert.Equal(t, byte(0x01), body[34])
	assert.Equal(t, []byte{0x00, 0x0c, 0x00}, body[99:102])
	assert.Equal(t, call, body[102:])

	require.Len(t, signer.signed, 1)
	payload := signer.signed[0]
	// call + extra + spec + tx + genesis + genesis
	assert.Len(t, payload, len(call)+3+4+4+32+32)
	assert.True(t, bytes.HasPrefix(payload, call))
}

func TestBuildSignedExtrinsic_HashesLongPayload(t *testing.T) {
	signer := &fakeSigner{}
	call := bytes.Repeat([]byte{0x01}, 300)

	_, err := BuildSignedExtrinsic(testMetadata(defaultExtensions...), call, signer, TxParams{})
	require.NoError(t, err)
	require.Len(t, signer.signed, 1)
	assert.Len(t, signer.signed[0], 32)
}

func TestBuildSignedExtrinsic_UnknownExtension(t *testing.T) {
	_, err := BuildSignedExtrinsic(testMetadata("CheckSomethingNew"), []byte{0}, &fakeSigner{}, TxParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CheckSomethingNew")
}

// ---------------------------------------------------------------------------
// Submission and status tracking
// ---------------------------------------------------------------------------

func submitServer(t *testing.T, updates ...interface{}) string {
	srv := wsServer(t, func(method string, params []json.RawMessage) reply {
		switch method {
		case "state_getRuntimeVersion":
			return reply{result: map[string]interface{}{"specName": "node", "specVersion": 100, "transactionVersion": 1}}
		case "chain_getBlockHash":
			return reply{result: "0x" + strings.Repeat("00", 32)}
		case "system_accountNextIndex":
			return reply{result: 0}
		case "author_submitAndWatchExtrinsic":
			return reply{result: "sub-1", notify: updates}
		default:
			return reply{result: true}
		}
	})
	return wsURL(srv)
}

func submit(t *testing.T, endpoint string) (*TxInBlock, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Dial(ctx, endpoint, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	progress, err := c.SignAndSubmitThenWatch(ctx, testMetadata(defaultExtensions...), []byte{7, 6}, &fakeSigner{}, 42)
	require.NoError(t, err)
	return progress.WaitForInBlock(ctx)
}

func TestWaitForInBlock(t *testing.T) {
	block := "0x" + strings.Repeat("11", 32)
	endpoint := submitServer(t, "ready", map[string]string{"broadcast": ""}, map[string]string{"inBlock": block})

	in, err := submit(t, endpoint)
	require.NoError(t, err)
	assert.Equal(t, block, in.BlockHash.Hex())
}

func TestWaitForInBlock_Dropped(t *testing.T) {
	endpoint := submitServer(t, "ready", "dropped")

	_, err := submit(t, endpoint)
	assert.ErrorIs(t, err, ErrTxDropped)
}

func TestParseTxStatus(t *testing.T) {
	s, _, err := parseTxStatus(json.RawMessage(`"future"`))
	require.NoError(t, err)
	assert.Equal(t, "future", s)

	s, h, err := parseTxStatus(json.RawMessage(`{"finalized":"0x` + strings.Repeat("ab", 32) + `"}`))
	require.NoError(t, err)
	assert.Equal(t, "finalized", s)
	assert.Equal(t, byte(0xab), h[0])

	_, _, err = parseTxStatus(json.RawMessage(`42`))
	assert.ErrorIs(t, err, ErrDecode)
}

// ---------------------------------------------------------------------------
// Event field helpers
// ---------------------------------------------------------------------------

func TestDispatchFailure_ModuleError(t *testing.T) {
	ev := Event{
		Pallet: "System",
		Name:   "ExtrinsicFailed",
		Fields: registry.DecodedFields{
			{Name: "sp_runtime.DispatchError.dispatch_error", Value: registry.DecodedFields{
				{Name: "sp_runtime.ModuleError.ModuleError", Value: registry.DecodedFields{
					{Name: "index", Value: types.U8(8)},
					{Name: "error", Value: []interface{}{types.U8(3), types.U8(0), types.U8(0), types.U8(0)}},
				}},
			}},
		},
	}

	err := dispatchFailure(ev)
	var me *contracts.ModuleError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, contracts.ModuleError{Pallet: 8, Index: 3}, *me)
}

func TestDispatchFailure_Other(t *testing.T) {
	ev := Event{Pallet: "System", Name: "ExtrinsicFailed", Fields: registry.DecodedFields{
		{Name: "sp_runtime.DispatchError.dispatch_error", Value: uint8(2)},
	}}
	err := dispatchFailure(ev)
	assert.ErrorIs(t, err, errDispatchFailed)
}

func TestFieldConversions(t *testing.T) {
	ev := Event{Fields: registry.DecodedFields{
		{Name: "sp_core.crypto.AccountId32.contract", Value: registry.DecodedFields{
			{Name: "[u8; 32]", Value: toAny(bytes.Repeat([]byte{0x22}, 32))},
		}},
		{Name: "amount", Value: types.NewU128(*bigInt(500))},
	}}

	v, ok := ev.Field("contract")
	require.True(t, ok)
	addr, ok := AsBytes32(v)
	require.True(t, ok)
	assert.Equal(t, byte(0x22), addr[31])

	v, ok = ev.Field("amount")
	require.True(t, ok)
	n, ok := AsBig(v)
	require.True(t, ok)
	assert.Equal(t, int64(500), n.Int64())

	_, ok = ev.Field("missing")
	assert.False(t, ok)
	_, ok = ev.Field("tract")
	assert.False(t, ok)
}
