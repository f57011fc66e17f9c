package events

import (
	"encoding/json"
	"time"
)

const DefaultSubject = "solana.transaction"

// Event types.
const (
	TypeConfirmed = "confirmed"
	TypeFailed    = "failed"
	TypeTimeout   = "timeout"
)

// ConfirmationEvent describes how a submitted transaction ended.
type ConfirmationEvent struct {
	Type       string `json:"type"`
	Network    string `json:"network"`
	Signature  string `json:"signature"`
	Slot       uint64 `json:"slot,omitempty"`
	Commitment string `json:"commitment,omitempty"`
	Error      string `json:"error,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

type Emitter interface {
	Emit(event ConfirmationEvent) error
	Close()
}

// Publisher is the subset of *nats.Conn the emitter uses.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type emitter struct {
	pub     Publisher
	subject string
	closeFn func()
}

// NewEmitter publishes JSON events on subject through pub.
func NewEmitter(pub Publisher, subject string) Emitter {
	if subject == "" {
		subject = DefaultSubject
	}
	return &emitter{pub: pub, subject: subject}
}

func (e *emitter) Emit(event ConfirmationEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UTC().Unix()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return e.pub.Publish(e.subject, data)
}

func (e *emitter) Close() {
	if e.closeFn != nil {
		e.closeFn()
	}
}

// NopEmitter drops every event.
type NopEmitter struct{}

func (NopEmitter) Emit(ConfirmationEvent) error { return nil }
func (NopEmitter) Close()                       {}
