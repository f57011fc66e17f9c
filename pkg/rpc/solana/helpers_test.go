package solana

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fystack/solana-rpc-client/pkg/rpc"
)

// rawReply is written to the wire unchanged instead of being wrapped in a
// result envelope.
type rawReply string

// recorder keeps every request the test server received.
type recorder struct {
	mu   sync.Mutex
	reqs []rpc.RPCRequest
}

func (r *recorder) add(req rpc.RPCRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
}

func (r *recorder) all() []rpc.RPCRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]rpc.RPCRequest(nil), r.reqs...)
}

func (r *recorder) last() rpc.RPCRequest {
	all := r.all()
	return all[len(all)-1]
}

func newTestClient(t *testing.T, handler func(req *rpc.RPCRequest) any, opts ...Option) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req rpc.RPCRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rec.add(req)
		reply := handler(&req)
		w.Header().Set("Content-Type", "application/json")
		if raw, ok := reply.(rawReply); ok {
			_, _ = w.Write([]byte(raw))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  reply,
		})
	}))
	t.Cleanup(server.Close)

	opts = append([]Option{WithEndpoint(server.URL)}, opts...)
	return NewClient(Devnet, opts...), rec
}

// debugLogger captures debug output as JSON lines.
func debugLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// fakeTx is an already serialized transaction.
type fakeTx []byte

func (tx fakeTx) MarshalBinary() ([]byte, error) { return tx, nil }

func ptr[T any](v T) *T { return &v }
