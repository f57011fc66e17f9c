package solana

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Account is a read-only snapshot returned by getAccountInfo and
// getMultipleAccounts.
type Account struct {
	Lamports   uint64      `json:"lamports"`
	Owner      string      `json:"owner"`
	Data       AccountData `json:"data"`
	Executable bool        `json:"executable"`
	RentEpoch  uint64      `json:"rentEpoch"`
	Space      uint64      `json:"space,omitempty"`
}

// AccountData is either an encoded payload (["<data>", "<encoding>"]) or a
// jsonParsed object ({program, parsed, space}).
type AccountData struct {
	Encoding Encoding
	Content  string // encoded payload; empty for parsed data

	Program string          // jsonParsed only
	Parsed  json.RawMessage // jsonParsed only
	Space   uint64          // jsonParsed only
}

// IsParsed reports whether the node returned a jsonParsed object.
func (d AccountData) IsParsed() bool {
	return d.Encoding == EncodingJSONParsed
}

func (d *AccountData) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*d = AccountData{}
		return nil
	}

	switch b[0] {
	case '[':
		var pair []string
		if err := json.Unmarshal(b, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("account data: expected [data, encoding], got %d elements", len(pair))
		}
		*d = AccountData{Content: pair[0], Encoding: Encoding(pair[1])}
	case '"':
		// legacy binary form is a bare base58 string
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = AccountData{Content: s, Encoding: EncodingBase58}
	case '{':
		var parsed struct {
			Program string          `json:"program"`
			Parsed  json.RawMessage `json:"parsed"`
			Space   uint64          `json:"space"`
		}
		if err := json.Unmarshal(b, &parsed); err != nil {
			return err
		}
		*d = AccountData{
			Encoding: EncodingJSONParsed,
			Program:  parsed.Program,
			Parsed:   parsed.Parsed,
			Space:    parsed.Space,
		}
	default:
		return fmt.Errorf("account data: unexpected JSON %q", string(b))
	}
	return nil
}

func (d AccountData) MarshalJSON() ([]byte, error) {
	if d.IsParsed() {
		return json.Marshal(struct {
			Program string          `json:"program"`
			Parsed  json.RawMessage `json:"parsed"`
			Space   uint64          `json:"space"`
		}{d.Program, d.Parsed, d.Space})
	}
	return json.Marshal([]string{d.Content, string(d.Encoding)})
}

// ConfirmationStatus is the explicit status newer nodes attach to a
// signature status.
type ConfirmationStatus string

const (
	ConfirmationProcessed ConfirmationStatus = "processed"
	ConfirmationConfirmed ConfirmationStatus = "confirmed"
	ConfirmationFinalized ConfirmationStatus = "finalized"
)

// TransactionStatus is one entry of getSignatureStatuses.
type TransactionStatus struct {
	Slot               uint64              `json:"slot"`
	Confirmations      *uint64             `json:"confirmations"`      // nil = rooted
	Status             json.RawMessage     `json:"status"`             // legacy {"Ok":null} | {"Err":...}
	Err                json.RawMessage     `json:"err"`                // null on success
	ConfirmationStatus *ConfirmationStatus `json:"confirmationStatus"` // absent on old nodes
}

// Blockhash is the value of getLatestBlockhash / getRecentBlockhash.
type Blockhash struct {
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
}
