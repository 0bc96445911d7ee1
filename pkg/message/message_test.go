package message

import "testing"

func TestTextRejectsInvalidUTF8(t *testing.T) {
	_, err := Text(string([]byte{0xff, 0xfe, 0xfd}))
	if err == nil {
		t.Fatal("expected error for invalid UTF-8 text payload")
	}
}

func TestTextRoundTrip(t *testing.T) {
	m, err := Text("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsText() {
		t.Fatal("expected IsText to be true")
	}
	text, ok := m.AsText()
	if !ok || text != "hello" {
		t.Fatalf("AsText() = %q, %v; want %q, true", text, ok, "hello")
	}
}

func TestMustTextPanicsOnInvalidUTF8(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustText to panic on invalid UTF-8")
		}
	}()
	MustText(string([]byte{0xff}))
}

func TestBinaryIsNotText(t *testing.T) {
	m := Binary([]byte{1, 2, 3})
	if !m.IsBinary() {
		t.Fatal("expected IsBinary to be true")
	}
	if _, ok := m.AsText(); ok {
		t.Fatal("expected AsText to fail on a Binary message")
	}
	if got := m.AsBytes(); len(got) != 3 {
		t.Fatalf("AsBytes() = %v, want 3 bytes", got)
	}
}

func TestBinaryCopiesInputSlice(t *testing.T) {
	b := []byte{1, 2, 3}
	m := Binary(b)
	b[0] = 99
	if got := m.AsBytes()[0]; got != 1 {
		t.Fatalf("Binary retained a reference to caller's slice: got %d, want 1", got)
	}
}

func TestCloseCarriesCodeAndReason(t *testing.T) {
	m := Close(1000, "bye")
	if !m.IsClose() {
		t.Fatal("expected IsClose to be true")
	}
	if m.CloseCode != 1000 || m.CloseReason != "bye" {
		t.Fatalf("got code=%d reason=%q, want 1000, bye", m.CloseCode, m.CloseReason)
	}
}

func TestKindStringCoversAllVariants(t *testing.T) {
	cases := map[Kind]string{
		KindText:   "text",
		KindBinary: "binary",
		KindPing:   "ping",
		KindPong:   "pong",
		KindClose:  "close",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

type payload struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

func TestDecodeJSONFromText(t *testing.T) {
	m := MustText(`{"name":"ada","n":7}`)
	got, err := DecodeJSON[payload](m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "ada" || got.N != 7 {
		t.Fatalf("got %+v, want {ada 7}", got)
	}
}

func TestDecodeJSONRejectsNonText(t *testing.T) {
	m := Binary([]byte(`{"name":"ada"}`))
	if _, err := DecodeJSON[payload](m); err == nil {
		t.Fatal("expected error decoding JSON from a Binary message")
	}
}

func TestDecodeJSONRejectsMalformedJSON(t *testing.T) {
	m := MustText("not json")
	if _, err := DecodeJSON[payload](m); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
