// Package jsoninfo formats, minifies, validates and describes raw JSON text
// for previews and diagnostics. Invalid input is never an error: the
// formatting functions hand it back unchanged.
package jsoninfo

import (
	"bytes"
	"encoding/json"

	"github.com/abdul-hamid-achik/volt/packages/jsonpath"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// formatOptions puts every array element on its own line.
var formatOptions = &pretty.Options{Width: 0, Prefix: "", Indent: "  ", SortKeys: false}

// Format re-indents text with two spaces, keeping key order. Invalid JSON
// is returned unchanged.
func Format(text string) string {
	if _, ok := jsonpath.Parse(text); !ok {
		return text
	}
	out := pretty.PrettyOptions([]byte(text), formatOptions)
	return string(bytes.TrimRight(out, "\n"))
}

// Minify strips insignificant whitespace. Invalid JSON is returned unchanged.
func Minify(text string) string {
	if _, ok := jsonpath.Parse(text); !ok {
		return text
	}
	return string(pretty.Ugly([]byte(text)))
}

// Validate reports whether text is valid JSON.
func Validate(text string) bool {
	_, ok := jsonpath.Parse(text)
	return ok
}

// Info describes a JSON document. Type, Depth, Keys and Length are only
// meaningful when Valid is true.
type Info struct {
	Valid  bool
	Size   int
	Type   string
	Depth  int
	Keys   int
	Length int
}

// MarshalJSON omits the descriptive fields for invalid documents.
func (i Info) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return json.Marshal(struct {
			Valid bool `json:"valid"`
			Size  int  `json:"size"`
		}{i.Valid, i.Size})
	}
	return json.Marshal(struct {
		Valid  bool   `json:"valid"`
		Size   int    `json:"size"`
		Type   string `json:"type"`
		Depth  int    `json:"depth"`
		Keys   int    `json:"keys"`
		Length int    `json:"length"`
	}{i.Valid, i.Size, i.Type, i.Depth, i.Keys, i.Length})
}

// Describe reports validity, byte size and, for valid documents, the
// top-level type, nesting depth, object key count and array length.
func Describe(text string) Info {
	info := Info{Size: len(text)}
	doc, ok := jsonpath.Parse(text)
	if !ok {
		return info
	}

	info.Valid = true
	info.Type = TypeName(doc)
	info.Depth = Depth(doc)
	switch {
	case doc.IsObject():
		keys := make(map[string]struct{})
		doc.ForEach(func(k, _ gjson.Result) bool {
			keys[k.Str] = struct{}{}
			return true
		})
		info.Keys = len(keys)
	case doc.IsArray():
		doc.ForEach(func(_, _ gjson.Result) bool {
			info.Length++
			return true
		})
	}
	return info
}

// TypeName returns null, boolean, number, string, array or object.
func TypeName(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if v.IsArray() {
		return "array"
	}
	return "object"
}

// Depth is 0 for scalars and 1 + the deepest child for arrays and objects,
// so an empty container has depth 1. It walks the raw text once, counting
// bracket nesting outside strings.
func Depth(v gjson.Result) int {
	if !v.IsObject() && !v.IsArray() {
		return 0
	}
	depth, deepest := 0, 0
	inString, escaped := false, false
	for i := 0; i < len(v.Raw); i++ {
		c := v.Raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
			if depth > deepest {
				deepest = depth
			}
		case ']', '}':
			depth--
		}
	}
	return deepest
}
