package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// JSONRPCVersion is the protocol version tag sent on every request.
const JSONRPCVersion = "2.0"

// Standard JSON-RPC error codes the clients care about.
const (
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
)

// ErrMalformedResponse is returned when a payload matches neither the
// expected success shape nor the error shape.
var ErrMalformedResponse = errors.New("unparseable RPC response")

// ErrNoEndpoint is returned when the client was built without a URL.
var ErrNoEndpoint = errors.New("no RPC endpoint configured")

// RPCRequest represents a JSON-RPC request
type RPCRequest struct {
	ID      uint64 `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// RPCResponse represents a JSON-RPC response
type RPCResponse struct {
	ID      uint64          `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// IsMethodNotFound reports whether err is a server-side "method not found".
func IsMethodNotFound(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == CodeMethodNotFound
}

// Context is the slot context attached to some results.
type Context struct {
	Slot uint64 `json:"slot"`
}

// WithContext is the {context, value} wrapper used by context-aware methods.
type WithContext[T any] struct {
	Context Context `json:"context"`
	Value   T       `json:"value"`
}

// HTTPStatusError is returned for non-2xx replies that carry no JSON-RPC error.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, e.Body)
}
