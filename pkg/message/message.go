// Package message defines the wire-level value exchanged with WebSocket
// clients: a small tagged union over the frame kinds the transport can
// carry, plus the accessors handlers and extractors use to read them.
package message

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Kind identifies which variant of Message is populated.
type Kind int

const (
	KindText Kind = iota
	KindBinary
	KindPing
	KindPong
	KindClose
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	case KindPing:
		return "ping"
	case KindPong:
		return "pong"
	case KindClose:
		return "close"
	default:
		return "unknown"
	}
}

// Message is a single WebSocket frame. Construction helpers below are the
// only supported way to build one; the zero value is not meaningful.
type Message struct {
	kind    Kind
	payload []byte

	// CloseCode and CloseReason are only meaningful when kind == KindClose.
	CloseCode   int
	CloseReason string
}

// Text builds a Text message. It fails rather than silently replacing
// invalid bytes, per the UTF-8 invariant on Text payloads.
func Text(s string) (Message, error) {
	if !utf8.ValidString(s) {
		return Message{}, fmt.Errorf("message: text payload is not valid UTF-8")
	}
	return Message{kind: KindText, payload: []byte(s)}, nil
}

// MustText is Text, panicking on invalid UTF-8. Intended for literals
// constructed from known-good Go string constants, not untrusted input.
func MustText(s string) Message {
	m, err := Text(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Binary builds a Binary message carrying raw bytes.
func Binary(b []byte) Message {
	return Message{kind: KindBinary, payload: append([]byte(nil), b...)}
}

// Ping builds a Ping message with the given application payload.
func Ping(b []byte) Message {
	return Message{kind: KindPing, payload: append([]byte(nil), b...)}
}

// Pong builds a Pong message with the given application payload.
func Pong(b []byte) Message {
	return Message{kind: KindPong, payload: append([]byte(nil), b...)}
}

// Close builds a Close message with an optional code and reason.
func Close(code int, reason string) Message {
	return Message{kind: KindClose, CloseCode: code, CloseReason: reason}
}

func (m Message) Kind() Kind { return m.kind }

func (m Message) IsText() bool   { return m.kind == KindText }
func (m Message) IsBinary() bool { return m.kind == KindBinary }
func (m Message) IsPing() bool   { return m.kind == KindPing }
func (m Message) IsPong() bool   { return m.kind == KindPong }
func (m Message) IsClose() bool  { return m.kind == KindClose }

// AsText returns the text view of the message. ok is false unless the
// message is a Text message.
func (m Message) AsText() (text string, ok bool) {
	if m.kind != KindText {
		return "", false
	}
	return string(m.payload), true
}

// AsBytes returns the raw payload bytes regardless of kind.
func (m Message) AsBytes() []byte {
	return m.payload
}

// DecodeJSON decodes a Text message's payload as T. It is a derived
// operation over the Text accessor: non-Text messages and malformed JSON
// both return an error.
func DecodeJSON[T any](m Message) (T, error) {
	var out T
	text, ok := m.AsText()
	if !ok {
		return out, fmt.Errorf("message: cannot decode JSON from a %s message", m.kind)
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return out, err
	}
	return out, nil
}
