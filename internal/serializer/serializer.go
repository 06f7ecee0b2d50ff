// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package serializer maps a restricted set of dynamic values — string,
// finite number, boolean, null, undefined, raw byte buffer, ordered
// sequence, and key-to-value mapping — to a self-describing JSON blob and
// back, preserving round-trip identity for every supported type at the top
// level.
//
// # Encoding rules
//
// Primitive scalars (string, number, boolean) and the [Undefined] marker are
// wrapped as {"__type": T, "value": v} so they survive a round trip through
// JSON, which otherwise cannot distinguish "undefined" from "null" or
// losslessly preserve a byte buffer. Raw byte buffers are wrapped the same
// way as {"__type": "Bytes", "value": [byte, ...]}. Mappings and sequences
// are serialized directly with no wrapper; values nested inside them are
// left to native JSON representation rather than tagged recursively — this
// is a deliberate, spec-documented simplification. Nested scalar values
// inside a map or slice therefore lose the Undefined/Bytes distinction that
// only the top-level wrapper preserves; callers who need that distinction at
// depth should encode the nested value as its own top-level [Encode] call.
//
// NaN and ±Infinity have no JSON representation; this package maps them to
// JSON null at encode time. This is a known, documented lossy case rather
// than an invented tagged encoding, matching the reference behavior of
// JSON's own default handling of non-finite numbers.
package serializer

import (
	"encoding/json"
	"math"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
)

// Undefined is the marker value for the host language's "undefined" / unit
// value, distinct from nil/null. Encode(Undefined{}) round-trips through
// Decode as Undefined{}.
type Undefined struct{}

const (
	tagString    = "String"
	tagNumber    = "Number"
	tagBoolean   = "Boolean"
	tagNull      = "Null"
	tagUndefined = "Undefined"
	tagBytes     = "Bytes"
)

type taggedValue struct {
	Type  string `json:"__type"`
	Value any    `json:"value"`
}

// Encode serializes payload to UTF-8 JSON bytes. Returns an error with
// [hyerrors.KindValidation] (kind "NonSerializable") if payload is not one
// of the supported types: nil, [Undefined], string, any Go numeric type,
// bool, []byte, []any (sequence), or map[string]any (mapping).
func Encode(payload any) ([]byte, error) {
	encodable, err := toEncodable(payload, true)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(encodable)
	if err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindFormat, "serializer.Encode", err, "failed to marshal JSON")
	}
	return out, nil
}

// toEncodable converts payload into a value safe for encoding/json.Marshal,
// applying the tagging rule only when atTop is true.
func toEncodable(payload any, atTop bool) (any, error) {
	switch v := payload.(type) {
	case nil:
		return wrapIfTop(tagNull, nil, atTop), nil
	case Undefined:
		return wrapIfTop(tagUndefined, nil, atTop), nil
	case string:
		return wrapIfTop(tagString, v, atTop), nil
	case bool:
		return wrapIfTop(tagBoolean, v, atTop), nil
	case []byte:
		ints := make([]int, len(v))
		for i, b := range v {
			ints[i] = int(b)
		}
		return wrapIfTop(tagBytes, ints, atTop), nil
	case float32:
		return wrapIfTop(tagNumber, sanitizeFloat(float64(v)), atTop), nil
	case float64:
		return wrapIfTop(tagNumber, sanitizeFloat(v), atTop), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return wrapIfTop(tagNumber, v, atTop), nil
	case []any:
		seq := make([]any, len(v))
		for i, elem := range v {
			enc, err := toEncodable(elem, false)
			if err != nil {
				return nil, err
			}
			seq[i] = enc
		}
		return seq, nil
	case map[string]any:
		m := make(map[string]any, len(v))
		for key, elem := range v {
			enc, err := toEncodable(elem, false)
			if err != nil {
				return nil, err
			}
			m[key] = enc
		}
		return m, nil
	default:
		return nil, hyerrors.New(hyerrors.KindValidation, "serializer.Encode", "NonSerializable: unsupported value type")
	}
}

func wrapIfTop(tag string, value any, atTop bool) any {
	if !atTop {
		return value
	}
	return taggedValue{Type: tag, Value: value}
}

// sanitizeFloat maps NaN and ±Inf to nil (JSON null), a documented lossy
// edge case; all other finite values pass through unchanged.
func sanitizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// Decode parses JSON bytes produced by [Encode] (or any compatible producer)
// back into a dynamic value. Top-level tagged scalars and byte buffers are
// decoded to their original type; an absent "__type" key means the parsed
// JSON value is returned as-is (a map[string]any, []any, string, float64,
// bool, or nil).
func Decode(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindFormat, "serializer.Decode", err, "failed to parse JSON")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return raw, nil
	}

	tag, hasTag := obj["__type"].(string)
	if !hasTag {
		return raw, nil
	}

	value := obj["value"]
	switch tag {
	case tagNull:
		return nil, nil
	case tagUndefined:
		return Undefined{}, nil
	case tagString:
		s, ok := value.(string)
		if !ok {
			return nil, hyerrors.New(hyerrors.KindFormat, "serializer.Decode", "tagged String value is not a string")
		}
		return s, nil
	case tagBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, hyerrors.New(hyerrors.KindFormat, "serializer.Decode", "tagged Boolean value is not a bool")
		}
		return b, nil
	case tagNumber:
		if value == nil {
			// NaN and ±Inf are encoded as null.
			return nil, nil
		}
		n, ok := value.(float64)
		if !ok {
			return nil, hyerrors.New(hyerrors.KindFormat, "serializer.Decode", "tagged Number value is not numeric")
		}
		return n, nil
	case tagBytes:
		arr, ok := value.([]any)
		if !ok {
			return nil, hyerrors.New(hyerrors.KindFormat, "serializer.Decode", "tagged Bytes value is not an array")
		}
		out := make([]byte, len(arr))
		for i, elem := range arr {
			f, ok := elem.(float64)
			if !ok {
				return nil, hyerrors.New(hyerrors.KindFormat, "serializer.Decode", "tagged Bytes element is not numeric")
			}
			out[i] = byte(f)
		}
		return out, nil
	default:
		// Unknown tag: treat the whole object as an ordinary mapping rather
		// than failing, since a mapping's keys may legitimately collide
		// with "__type" by coincidence.
		return raw, nil
	}
}
