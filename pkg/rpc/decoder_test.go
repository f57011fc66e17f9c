package rpc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResult_Success(t *testing.T) {
	res := DecodeResult[uint64]([]byte(`{"jsonrpc":"2.0","id":1,"result":42}`))
	require.Equal(t, ResultSuccess, res.Kind)

	v, err := res.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
}

func TestDecodeResult_ContextWrapped(t *testing.T) {
	raw := []byte(`{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":99},"value":5000}}`)

	res := DecodeResult[WithContext[uint64]](raw)
	v, err := res.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, uint64(99), v.Context.Slot)
	assert.Equal(t, uint64(5000), v.Value)

	// the bare shape does not silently accept a wrapped value
	_, err = DecodeResult[uint64](raw).Unwrap()
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDecodeResult_ErrorWinsOverGenericShape(t *testing.T) {
	raw := []byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32002,"message":"Transaction simulation failed","data":{"err":"BlockhashNotFound","logs":["log0"]}}}`)

	// any and json.RawMessage would accept every value; the error must still win
	anyRes := DecodeResult[any](raw)
	assert.Equal(t, ResultFailure, anyRes.Kind)
	require.NotNil(t, anyRes.Err)
	assert.Equal(t, -32002, anyRes.Err.Code)

	rawRes := DecodeResult[json.RawMessage](raw)
	assert.Equal(t, ResultFailure, rawRes.Kind)

	_, err := rawRes.Unwrap()
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, "Transaction simulation failed", rpcErr.Message)
	assert.JSONEq(t, `{"err":"BlockhashNotFound","logs":["log0"]}`, string(rpcErr.Data))
}

func TestDecodeResult_ErrorWinsWhenBothPresent(t *testing.T) {
	raw := []byte(`{"jsonrpc":"2.0","id":1,"result":null,"error":{"code":-32601,"message":"Method not found"}}`)
	res := DecodeResult[any](raw)
	assert.Equal(t, ResultFailure, res.Kind)
	assert.True(t, IsMethodNotFound(res.Err))
}

func TestDecodeResult_NullErrorIsIgnored(t *testing.T) {
	res := DecodeResult[string]([]byte(`{"jsonrpc":"2.0","id":1,"result":"ok","error":null}`))
	v, err := res.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestDecodeResult_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{"jsonrpc":`},
		{"not an object", `[1,2,3]`},
		{"missing members", `{"jsonrpc":"2.0","id":1}`},
		{"wrong result type", `{"jsonrpc":"2.0","id":1,"result":"not-a-number"}`},
		{"error not an object", `{"jsonrpc":"2.0","id":1,"error":"boom"}`},
		{"error without code or message", `{"jsonrpc":"2.0","id":1,"error":{"foo":1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DecodeResult[uint64]([]byte(tt.raw))
			assert.Equal(t, ResultMalformed, res.Kind)
			_, err := res.Unwrap()
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestDecodeResult_IsPure(t *testing.T) {
	raw := []byte(`{"jsonrpc":"2.0","id":3,"result":{"context":{"slot":1},"value":7}}`)
	first := DecodeResult[WithContext[uint64]](raw)
	second := DecodeResult[WithContext[uint64]](raw)
	assert.Equal(t, first, second)
}
