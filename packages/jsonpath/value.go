package jsonpath

import (
	"bytes"
	"encoding/json"
	"math/big"

	"github.com/tidwall/gjson"
)

// Canonical renders v as compact JSON. Object keys keep the order of their
// first occurrence, a duplicated key takes its last value, strings are
// re-escaped and numbers are kept as written.
func Canonical(v gjson.Result) string {
	return string(appendCanonical(nil, v))
}

func appendCanonical(dst []byte, v gjson.Result) []byte {
	switch {
	case v.IsObject():
		keys, values := orderedMembers(v)
		dst = append(dst, '{')
		for i, k := range keys {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendString(dst, k)
			dst = append(dst, ':')
			dst = appendCanonical(dst, values[k])
		}
		return append(dst, '}')
	case v.IsArray():
		dst = append(dst, '[')
		first := true
		v.ForEach(func(_, val gjson.Result) bool {
			if !first {
				dst = append(dst, ',')
			}
			first = false
			dst = appendCanonical(dst, val)
			return true
		})
		return append(dst, ']')
	case v.Type == gjson.String:
		return appendString(dst, v.Str)
	case v.Type == gjson.Null:
		return append(dst, "null"...)
	default:
		return append(dst, v.Raw...)
	}
}

func appendString(dst []byte, s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return append(dst, `""`...)
	}
	return append(dst, bytes.TrimSuffix(buf.Bytes(), []byte("\n"))...)
}

// Equal reports whether a and b are structurally equal JSON values. Numbers
// compare by value, so 30, 30.0 and 3e1 are all equal. Objects compare by
// key set regardless of order, with duplicate keys resolved last-wins.
func Equal(a, b gjson.Result) bool {
	switch {
	case a.IsObject():
		if !b.IsObject() {
			return false
		}
		am, bm := members(a), members(b)
		if len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case a.IsArray():
		if !b.IsArray() {
			return false
		}
		ae, be := a.Array(), b.Array()
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !Equal(ae[i], be[i]) {
				return false
			}
		}
		return true
	}

	if a.Type != b.Type || b.IsObject() || b.IsArray() {
		return false
	}
	switch a.Type {
	case gjson.String:
		return a.Str == b.Str
	case gjson.Number:
		return numbersEqual(a, b)
	default:
		return true
	}
}

// orderedMembers lists object keys once each, in first-occurrence order,
// with the last value seen for each.
func orderedMembers(v gjson.Result) ([]string, map[string]gjson.Result) {
	var keys []string
	values := make(map[string]gjson.Result)
	v.ForEach(func(k, val gjson.Result) bool {
		if _, seen := values[k.Str]; !seen {
			keys = append(keys, k.Str)
		}
		values[k.Str] = val
		return true
	})
	return keys, values
}

func members(v gjson.Result) map[string]gjson.Result {
	m := make(map[string]gjson.Result)
	v.ForEach(func(k, val gjson.Result) bool {
		m[k.Str] = val
		return true
	})
	return m
}

func numbersEqual(a, b gjson.Result) bool {
	if a.Raw == b.Raw {
		return true
	}
	ar, aok := new(big.Rat).SetString(a.Raw)
	br, bok := new(big.Rat).SetString(b.Raw)
	if !aok || !bok {
		return a.Num == b.Num
	}
	return ar.Cmp(br) == 0
}
