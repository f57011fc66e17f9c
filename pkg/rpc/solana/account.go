package solana

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/klauspost/compress/zstd"
	"github.com/mr-tron/base58"
)

// zstdDecoder is built on first use. A nil-reader decoder is safe for
// concurrent DecodeAll calls.
var zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
})

// Bytes decodes the raw account payload.
func (d AccountData) Bytes() ([]byte, error) {
	switch d.Encoding {
	case EncodingBase64:
		raw, err := base64.StdEncoding.DecodeString(d.Content)
		if err != nil {
			return nil, decodeErr("base64 account data", err)
		}
		return raw, nil
	case EncodingBase58:
		raw, err := base58.Decode(d.Content)
		if err != nil {
			return nil, decodeErr("base58 account data", err)
		}
		return raw, nil
	case EncodingBase64Zstd:
		compressed, err := base64.StdEncoding.DecodeString(d.Content)
		if err != nil {
			return nil, decodeErr("base64+zstd account data", err)
		}
		dec, err := zstdDecoder()
		if err != nil {
			return nil, decodeErr("zstd decoder", err)
		}
		raw, err := dec.DecodeAll(compressed, nil)
		if err != nil {
			return nil, decodeErr("zstd account data", err)
		}
		return raw, nil
	case EncodingJSONParsed:
		return nil, decodeErr("account data", errors.New("jsonParsed data has no raw bytes; request base64 encoding"))
	default:
		return nil, decodeErr("account data", fmt.Errorf("unsupported encoding %q", d.Encoding))
	}
}

// DecodeBorsh decodes the raw payload into v with the borsh layout.
func (d AccountData) DecodeBorsh(v any) error {
	raw, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := bin.NewBorshDecoder(raw).Decode(v); err != nil {
		return decodeErr("borsh account data", err)
	}
	return nil
}

// DecodeParsed unmarshals the jsonParsed "parsed" object into v.
func (d AccountData) DecodeParsed(v any) error {
	if !d.IsParsed() {
		return decodeErr("parsed account data", fmt.Errorf("node returned %q encoded data", d.Encoding))
	}
	if err := json.Unmarshal(d.Parsed, v); err != nil {
		return decodeErr("parsed account data", err)
	}
	return nil
}

// OwnerKey parses the owner address.
func (a *Account) OwnerKey() (solanago.PublicKey, error) {
	pk, err := solanago.PublicKeyFromBase58(a.Owner)
	if err != nil {
		return solanago.PublicKey{}, decodeErr("owner address", err)
	}
	return pk, nil
}
