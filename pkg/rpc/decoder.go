package rpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ResultKind tells which shape a response payload decoded into.
type ResultKind int

const (
	ResultMalformed ResultKind = iota
	ResultSuccess
	ResultFailure
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultFailure:
		return "failure"
	default:
		return "malformed"
	}
}

// Result is the decoded form of one response payload. Exactly one of Value
// (Kind == ResultSuccess) or Err (Kind == ResultFailure) is meaningful.
type Result[T any] struct {
	Kind  ResultKind
	Value T
	Err   *RPCError

	cause error
}

// DecodeResult decodes raw into a success value of type T or a server error.
//
// A non-null "error" member always wins over "result", so an error envelope
// is never mistaken for an empty success even when T would accept anything.
// The result is decoded context-free; callers that need the slot context ask
// for WithContext[T].
func DecodeResult[T any](raw []byte) Result[T] {
	if !gjson.ValidBytes(raw) {
		return malformed[T](errors.New("invalid JSON"))
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return malformed[T](errors.New("envelope is not an object"))
	}

	if e := root.Get("error"); e.Exists() && e.Type != gjson.Null {
		if !e.IsObject() {
			return malformed[T](errors.New("error member is not an object"))
		}
		var rpcErr RPCError
		if err := json.Unmarshal([]byte(e.Raw), &rpcErr); err != nil {
			return malformed[T](fmt.Errorf("decode error member: %w", err))
		}
		if !e.Get("code").Exists() && !e.Get("message").Exists() {
			return malformed[T](errors.New("error member has neither code nor message"))
		}
		return Result[T]{Kind: ResultFailure, Err: &rpcErr}
	}

	r := root.Get("result")
	if !r.Exists() {
		return malformed[T](errors.New("missing result member"))
	}
	var v T
	if err := json.Unmarshal([]byte(r.Raw), &v); err != nil {
		return malformed[T](fmt.Errorf("decode result: %w", err))
	}
	return Result[T]{Kind: ResultSuccess, Value: v}
}

// Unwrap converts the result into Go's (value, error) form. Failures return
// the *RPCError, malformed payloads an error wrapping ErrMalformedResponse.
func (r Result[T]) Unwrap() (T, error) {
	switch r.Kind {
	case ResultSuccess:
		return r.Value, nil
	case ResultFailure:
		return r.Value, r.Err
	default:
		return r.Value, fmt.Errorf("%w: %v", ErrMalformedResponse, r.cause)
	}
}

func malformed[T any](cause error) Result[T] {
	return Result[T]{Kind: ResultMalformed, cause: cause}
}
