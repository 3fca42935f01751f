package jsonpath

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Undefined is what Extract returns for a path that does not resolve. It is
// deliberately not valid JSON so it can never be confused with null.
const Undefined = "undefined"

// indexedSegment matches "key[3]". The key is greedy, so "a[0][1]" is key
// "a[0]" with index 1.
var indexedSegment = regexp.MustCompile(`^(.+)\[(\d+)\]$`)

// Parse validates text as JSON and returns its value tree.
func Parse(text string) (gjson.Result, bool) {
	if !gjson.Valid(text) {
		return gjson.Result{}, false
	}
	return gjson.Parse(text), true
}

// Resolve walks doc along a dotted path such as "data.users[0].name".
// An empty path resolves to doc itself. Any missing field, non-object,
// non-array or out of range index makes the whole path unresolved.
func Resolve(doc gjson.Result, path string) (gjson.Result, bool) {
	if path == "" {
		return doc, doc.Exists()
	}

	current := doc
	for _, segment := range strings.Split(path, ".") {
		var ok bool
		if m := indexedSegment.FindStringSubmatch(segment); m != nil {
			index, err := strconv.Atoi(m[2])
			if err != nil {
				return gjson.Result{}, false
			}
			if current, ok = field(current, m[1]); !ok {
				return gjson.Result{}, false
			}
			if current, ok = element(current, index); !ok {
				return gjson.Result{}, false
			}
			continue
		}
		if current, ok = field(current, segment); !ok {
			return gjson.Result{}, false
		}
	}
	return current, true
}

// field looks up an object member by exact name. Duplicate keys resolve to
// the last occurrence.
func field(v gjson.Result, key string) (gjson.Result, bool) {
	if !v.IsObject() {
		return gjson.Result{}, false
	}
	var found gjson.Result
	ok := false
	v.ForEach(func(k, val gjson.Result) bool {
		if k.Str == key {
			found, ok = val, true
		}
		return true
	})
	return found, ok
}

func element(v gjson.Result, index int) (gjson.Result, bool) {
	if !v.IsArray() || index < 0 {
		return gjson.Result{}, false
	}
	var found gjson.Result
	ok := false
	i := 0
	v.ForEach(func(_, val gjson.Result) bool {
		if i == index {
			found, ok = val, true
			return false
		}
		i++
		return true
	})
	return found, ok
}

// Extract resolves path and returns the value as canonical JSON text, or
// Undefined when the path does not resolve.
func Extract(doc gjson.Result, path string) string {
	v, ok := Resolve(doc, path)
	if !ok {
		return Undefined
	}
	return Canonical(v)
}

// ExtractBatch resolves each path against doc. Paths that do not resolve are
// left out of the result rather than mapped to null.
func ExtractBatch(doc gjson.Result, paths []string) map[string]gjson.Result {
	results := make(map[string]gjson.Result)
	for _, p := range paths {
		if v, ok := Resolve(doc, p); ok {
			results[p] = v
		}
	}
	return results
}
