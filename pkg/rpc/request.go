package rpc

import "encoding/json"

// NewRequest builds a request envelope. Params keep the caller's order and
// are never validated here.
func NewRequest(id uint64, method string, params ...any) *RPCRequest {
	if params == nil {
		params = []any{}
	}
	return &RPCRequest{
		ID:      id,
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  params,
	}
}

// Marshal serializes the envelope for the wire.
func (r *RPCRequest) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
