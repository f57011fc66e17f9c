package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"sync"
	"testing"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/solana-rpc-client/pkg/rpc"
)

var (
	testKey   = solanago.PublicKey{0x11, 0x22, 0x33, 0x44}
	testOwner = solanago.TokenProgramID
)

func withContext(value any) map[string]any {
	return map[string]any{"context": map[string]any{"slot": 1}, "value": value}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Devnet)
	assert.Equal(t, Devnet, c.Network())
	assert.Equal(t, "https://api.devnet.solana.com", c.Endpoint())
	assert.Equal(t, RPCConfig{Encoding: EncodingJSONParsed, Commitment: CommitmentConfirmed}, c.Config())

	c.SetCommitment(CommitmentFinalized)
	c.SetEncoding(EncodingBase64)
	assert.Equal(t, RPCConfig{Encoding: EncodingBase64, Commitment: CommitmentFinalized}, c.Config())

	custom := NewClientWithConfig(Mainnet, RPCConfig{}, WithEndpoint("http://rpc.internal:8899/"))
	assert.Equal(t, "http://rpc.internal:8899", custom.Endpoint())
	assert.Equal(t, RPCConfig{}, custom.Config())
}

func TestGetBalance_IsIdempotent(t *testing.T) {
	c, rec := newTestClient(t, func(req *rpc.RPCRequest) any {
		return withContext(5_000_000)
	})

	for i := 0; i < 3; i++ {
		balance, err := c.GetBalance(context.Background(), testKey)
		require.NoError(t, err)
		assert.Equal(t, uint64(5_000_000), balance)
	}

	reqs := rec.all()
	require.Len(t, reqs, 3)
	for i, req := range reqs {
		assert.Equal(t, uint64(i+1), req.ID)
		assert.Equal(t, "getBalance", req.Method)
		assert.Equal(t, []any{testKey.String(), map[string]any{"commitment": "confirmed"}}, req.Params)
	}
}

func TestClient_ConcurrentCallsGetDistinctIDs(t *testing.T) {
	c, rec := newTestClient(t, func(req *rpc.RPCRequest) any {
		return 99
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetSlot(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := map[uint64]bool{}
	for _, req := range rec.all() {
		assert.False(t, seen[req.ID], "duplicate id %d", req.ID)
		seen[req.ID] = true
	}
	assert.Len(t, seen, 16)
}

func TestGetAccount_Parsed(t *testing.T) {
	c, rec := newTestClient(t, func(req *rpc.RPCRequest) any {
		return withContext(map[string]any{
			"lamports": 2039280,
			"owner":    testOwner.String(),
			"data": map[string]any{
				"program": "spl-token",
				"parsed":  map[string]any{"type": "account", "info": map[string]any{"mint": "abc"}},
				"space":   165,
			},
			"executable": false,
			"rentEpoch":  361,
			"space":      165,
		})
	})

	account, err := c.GetAccount(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, uint64(2039280), account.Lamports)
	assert.True(t, account.Data.IsParsed())
	assert.Equal(t, "spl-token", account.Data.Program)

	owner, err := account.OwnerKey()
	require.NoError(t, err)
	assert.Equal(t, testOwner, owner)

	assert.Equal(t, "getAccountInfo", rec.last().Method)
	assert.Equal(t, []any{
		testKey.String(),
		map[string]any{"encoding": "jsonParsed", "commitment": "confirmed"},
	}, rec.last().Params)

	var parsed struct {
		Type string `json:"type"`
		Info struct {
			Mint string `json:"mint"`
		} `json:"info"`
	}
	require.NoError(t, c.GetAccountParsed(context.Background(), testKey, &parsed))
	assert.Equal(t, "account", parsed.Type)
	assert.Equal(t, "abc", parsed.Info.Mint)
}

func TestGetAccount_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(req *rpc.RPCRequest) any {
		return withContext(nil)
	})

	_, err := c.GetAccount(context.Background(), testKey)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

type counterState struct {
	Count     uint64
	Authority solanago.PublicKey
}

func TestGetAccountBorsh(t *testing.T) {
	want := counterState{Count: 42, Authority: testKey}
	buf := new(bytes.Buffer)
	require.NoError(t, bin.NewBorshEncoder(buf).Encode(&want))
	raw := buf.Bytes()

	c, rec := newTestClient(t, func(req *rpc.RPCRequest) any {
		return withContext(map[string]any{
			"lamports":   1,
			"owner":      testOwner.String(),
			"data":       []string{base64.StdEncoding.EncodeToString(raw), "base64"},
			"executable": false,
			"rentEpoch":  0,
		})
	})

	var got counterState
	require.NoError(t, c.GetAccountBorsh(context.Background(), testKey, &got))
	assert.Equal(t, want, got)

	cfg := rec.last().Params[1].(map[string]any)
	assert.Equal(t, "base64", cfg["encoding"], "borsh reads force base64")
	assert.Equal(t, EncodingJSONParsed, c.Config().Encoding, "client config is untouched")
}

func TestGetMultipleAccounts_PreservesOrder(t *testing.T) {
	other := solanago.SystemProgramID
	c, rec := newTestClient(t, func(req *rpc.RPCRequest) any {
		return withContext([]any{
			map[string]any{"lamports": 10, "owner": testOwner.String(), "data": []string{"", "base64"}},
			nil,
		})
	})

	accounts, err := c.GetMultipleAccounts(context.Background(), []solanago.PublicKey{testKey, other})
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, uint64(10), accounts[0].Lamports)
	assert.Nil(t, accounts[1])

	assert.Equal(t, []any{testKey.String(), other.String()}, rec.last().Params[0])
}

func TestGetOwner(t *testing.T) {
	c, _ := newTestClient(t, func(req *rpc.RPCRequest) any {
		return withContext(map[string]any{
			"lamports": 1, "owner": testOwner.String(), "data": []string{"", "base64"},
		})
	})

	owner, err := c.GetOwner(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, testOwner, owner)
}

func TestGetMinimumBalanceForRentExemption(t *testing.T) {
	c, rec := newTestClient(t, func(req *rpc.RPCRequest) any {
		return 2039280
	})

	lamports, err := c.GetMinimumBalanceForRentExemption(context.Background(), 165)
	require.NoError(t, err)
	assert.Equal(t, uint64(2039280), lamports)
	assert.Equal(t, []any{float64(165)}, rec.last().Params)
}

func TestRequestAirdrop(t *testing.T) {
	hash := solanago.Hash{7, 7, 7}
	c, rec := newTestClient(t, func(req *rpc.RPCRequest) any {
		return testSignature.String()
	})

	sig, err := c.RequestAirdrop(context.Background(), testKey, LamportsPerSol, hash)
	require.NoError(t, err)
	assert.Equal(t, testSignature, sig)

	req := rec.last()
	assert.Equal(t, "requestAirdrop", req.Method)
	assert.Equal(t, []any{
		testKey.String(),
		float64(LamportsPerSol),
		map[string]any{"recentBlockhash": hash.String(), "commitment": "confirmed"},
	}, req.Params)
}

func TestGetLatestBlockhash_FallsBackOnce(t *testing.T) {
	hash := solanago.Hash{1, 2, 3}
	c, rec := newTestClient(t, func(req *rpc.RPCRequest) any {
		if req.Method == "getLatestBlockhash" {
			return rawReply(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found"}}`)
		}
		return withContext(map[string]any{
			"blockhash":     hash.String(),
			"feeCalculator": map[string]any{"lamportsPerSignature": 5000},
		})
	})

	for i := 0; i < 2; i++ {
		got, err := c.GetLatestBlockhash(context.Background())
		require.NoError(t, err)
		assert.Equal(t, hash, got)
	}

	methods := []string{}
	for _, req := range rec.all() {
		methods = append(methods, req.Method)
	}
	assert.Equal(t, []string{"getLatestBlockhash", "getRecentBlockhash", "getRecentBlockhash"}, methods)
}

func TestGetLatestBlockhash_OtherErrorsDoNotFallBack(t *testing.T) {
	c, rec := newTestClient(t, func(req *rpc.RPCRequest) any {
		return rawReply(`{"jsonrpc":"2.0","id":1,"error":{"code":-32005,"message":"node unhealthy"}}`)
	})

	_, err := c.GetLatestBlockhash(context.Background())
	var rpcErr *rpc.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32005, rpcErr.Code)
	assert.Len(t, rec.all(), 1)
}

func TestGetSlot(t *testing.T) {
	c, rec := newTestClient(t, func(req *rpc.RPCRequest) any {
		return 12345
	})
	c.SetCommitment(CommitmentFinalized)

	slot, err := c.GetSlot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), slot)
	assert.Equal(t, []any{map[string]any{"commitment": "finalized"}}, rec.last().Params)
}

func TestGetBlockTime(t *testing.T) {
	c, _ := newTestClient(t, func(req *rpc.RPCRequest) any {
		if req.Params[0] == float64(1) {
			return nil
		}
		return 1_700_000_000
	})

	ts, err := c.GetBlockTime(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000), ts)

	_, err = c.GetBlockTime(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBlockTimeUnavailable)
}

func TestCheckSignatureStatus(t *testing.T) {
	tests := []struct {
		name   string
		status any
		want   bool
	}{
		{"unknown signature", nil, false},
		{"processed only", map[string]any{"slot": 1, "confirmations": 0, "err": nil, "confirmationStatus": "processed"}, false},
		{"confirmed", map[string]any{"slot": 1, "confirmations": 1, "err": nil, "confirmationStatus": "confirmed"}, true},
		{"legacy node, rooted", map[string]any{"slot": 1, "confirmations": nil, "err": nil}, true},
		{"confirmed but failed", map[string]any{"slot": 1, "confirmations": nil, "err": map[string]any{"x": 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(req *rpc.RPCRequest) any {
				return withContext([]any{tt.status})
			})
			ok, err := c.CheckSignatureStatus(context.Background(), testSignature)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestClient_MalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(req *rpc.RPCRequest) any {
		return rawReply(`not json at all`)
	})

	_, err := c.GetSlot(context.Background())
	assert.ErrorIs(t, err, rpc.ErrMalformedResponse)
}
