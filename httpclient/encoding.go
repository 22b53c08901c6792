package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

type encodingKind int

const (
	encodingJSON encodingKind = iota
	encodingQuery
	encodingCustom
)

// ParameterEncoding selects the Content-Type of a request family and how its
// body parameter becomes bytes. The zero value is EncodingJSON.
type ParameterEncoding struct {
	kind        encodingKind
	contentType string
	transform   func([]byte) ([]byte, error)
}

var (
	// EncodingJSON sends the codec output as application/json.
	EncodingJSON = ParameterEncoding{kind: encodingJSON}
	// EncodingQuery sends the parameter, which must encode to a flat object,
	// as an application/x-www-form-urlencoded body.
	EncodingQuery = ParameterEncoding{kind: encodingQuery}
)

// CustomEncoding sends transform(codec output) with the given content type.
// A nil result from transform means the request has no body.
func CustomEncoding(contentType string, transform func([]byte) ([]byte, error)) ParameterEncoding {
	return ParameterEncoding{kind: encodingCustom, contentType: contentType, transform: transform}
}

// ContentType returns the Content-Type header value for this encoding.
func (e ParameterEncoding) ContentType() string {
	switch e.kind {
	case encodingQuery:
		return contentTypeForm
	case encodingCustom:
		return e.contentType
	default:
		return contentTypeJSON
	}
}

// IsQuery reports whether e is EncodingQuery.
func (e ParameterEncoding) IsQuery() bool {
	return e.kind == encodingQuery
}

// encodeBody turns a body parameter into request bytes.
func (e ParameterEncoding) encodeBody(codec Codec, param any) ([]byte, error) {
	switch e.kind {
	case encodingQuery:
		items, err := flatten(codec, param)
		if err != nil {
			return nil, err
		}
		return []byte(items.values().Encode()), nil
	case encodingCustom:
		data, err := codec.Marshal(param)
		if err != nil {
			return nil, err
		}
		if e.transform == nil {
			return data, nil
		}
		return e.transform(data)
	default:
		return codec.Marshal(param)
	}
}

type queryItem struct {
	name  string
	value string
}

type queryItems []queryItem

func (q queryItems) values() url.Values {
	v := make(url.Values, len(q))
	for _, item := range q {
		v.Add(item.name, item.value)
	}
	return v
}

// flatten encodes v through the codec and reads it back as a single-level
// object of scalars. Null members are dropped; nested objects and arrays are
// rejected. Items are sorted by name.
func flatten(codec Codec, v any) (queryItems, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("expected a JSON object: %w", err)
	}
	object, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected to encode a flat object but found %s", jsonKind(decoded))
	}

	items := make(queryItems, 0, len(object))
	for name, raw := range object {
		var value string
		switch x := raw.(type) {
		case nil:
			continue
		case string:
			value = x
		case json.Number:
			value = x.String()
		case bool:
			value = strconv.FormatBool(x)
		default:
			return nil, fmt.Errorf("query member %q is a nested %s; only scalars are allowed", name, jsonKind(raw))
		}
		items = append(items, queryItem{name: name, value: value})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].name < items[j].name })
	return items, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}
