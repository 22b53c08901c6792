package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"time"
)

// Codec serializes parameters and deserializes responses. A request family
// may supply its own to change how dates or bytes travel on the wire.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default codec. time.Time travels as RFC 3339 and []byte
// as standard base64, i.e. whatever the types themselves produce.
type JSONCodec struct {
	// UseNumber decodes numbers into json.Number when the target is any.
	UseNumber bool
	// DisallowUnknownFields rejects object members with no matching field.
	DisallowUnknownFields bool
}

// DefaultCodec is used when a request family declares none.
var DefaultCodec Codec = JSONCodec{}

// Marshal implements Codec.
func (c JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements Codec. Trailing data after the first value is an error.
func (c JSONCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if c.UseNumber {
		dec.UseNumber()
	}
	if c.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("invalid character after top-level value")
	}
	return nil
}

// UnixTime is a time.Time that travels as whole seconds since the epoch.
// Use it for fields of APIs that expect numeric timestamps.
type UnixTime struct {
	time.Time
}

// MarshalJSON implements json.Marshaler.
func (t UnixTime) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, t.Unix(), 10), nil
}

// UnmarshalJSON implements json.Unmarshaler. Fractional seconds are accepted.
func (t *UnixTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	seconds, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	whole := int64(seconds)
	t.Time = time.Unix(whole, int64((seconds-float64(whole))*float64(time.Second))).UTC()
	return nil
}
