package httpclient

import (
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"
)

func TestJSONCodec_Unmarshal(t *testing.T) {
	type item struct {
		ID int `json:"id"`
	}
	tests := []struct {
		name    string
		codec   JSONCodec
		data    string
		wantErr bool
	}{
		{"valid", JSONCodec{}, `{"id":1}`, false},
		{"unknown field allowed", JSONCodec{}, `{"id":1,"x":2}`, false},
		{"unknown field rejected", JSONCodec{DisallowUnknownFields: true}, `{"id":1,"x":2}`, true},
		{"trailing data", JSONCodec{}, `{"id":1} {"id":2}`, true},
		{"trailing whitespace", JSONCodec{}, "{\"id\":1}\n", false},
		{"empty", JSONCodec{}, ``, true},
		{"not json", JSONCodec{}, `not json`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v item
			err := tt.codec.Unmarshal([]byte(tt.data), &v)
			if (err != nil) != tt.wantErr {
				t.Errorf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJSONCodec_EmptyIsUnexpectedEOF(t *testing.T) {
	var v map[string]any
	if err := (JSONCodec{}).Unmarshal(nil, &v); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestJSONCodec_UseNumber(t *testing.T) {
	var v any
	if err := (JSONCodec{UseNumber: true}).Unmarshal([]byte(`{"n":12345678901234567890}`), &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := v.(map[string]any)["n"].(json.Number)
	if !ok || n.String() != "12345678901234567890" {
		t.Errorf("expected json.Number, got %#v", v)
	}
}

func TestJSONCodec_PassThroughTypes(t *testing.T) {
	type payload struct {
		At   time.Time `json:"at"`
		Data []byte    `json:"data"`
	}
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	out, err := DefaultCodec.Marshal(payload{At: at, Data: []byte("hi")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"at":"2026-03-04T05:06:07Z","data":"aGk="}` {
		t.Errorf("got %s", out)
	}
}

func TestUnixTime(t *testing.T) {
	type event struct {
		At UnixTime `json:"at"`
	}
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	out, err := json.Marshal(event{At: UnixTime{at}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"at":1772600767}` {
		t.Errorf("got %s", out)
	}

	var e event
	if err := json.Unmarshal([]byte(`{"at":1772600767.5}`), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if want := at.Add(500 * time.Millisecond); !e.At.Equal(want) {
		t.Errorf("got %v, want %v", e.At.Time, want)
	}

	e = event{}
	if err := json.Unmarshal([]byte(`{"at":null}`), &e); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !e.At.IsZero() {
		t.Errorf("expected zero time, got %v", e.At.Time)
	}

	if err := json.Unmarshal([]byte(`{"at":"yesterday"}`), &e); err == nil {
		t.Error("expected error for non-numeric timestamp")
	}
}
