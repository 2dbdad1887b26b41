package node

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/gorilla/websocket"
)

// reply is what the mock node answers to one request.
type reply struct {
	result interface{}
	err    *RPCError
	// notify is pushed to subscription "sub-1" after the response.
	notify []interface{}
}

type handler func(method string, params []json.RawMessage) reply

func wsServer(t *testing.T, h handler) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req struct {
				ID     uint64            `json:"id"`
				Method string            `json:"method"`
				Params []json.RawMessage `json:"params"`
			}
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			rep := h(req.Method, req.Params)
			resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
			if rep.err != nil {
				resp["error"] = rep.err
			} else {
				resp["result"] = rep.result
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
			for _, n := range rep.notify {
				_ = conn.WriteJSON(map[string]interface{}{
					"jsonrpc": "2.0",
					"method":  "author_extrinsicUpdate",
					"params":  map[string]interface{}{"subscription": "sub-1", "result": n},
				})
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func toAny(b []byte) []interface{} {
	out := make([]interface{}, len(b))
	for i, x := range b {
		out[i] = types.U8(x)
	}
	return out
}

func bigInt(n int64) *big.Int { return big.NewInt(n) }
