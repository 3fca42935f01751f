// Package api exposes volt's core operations over plain strings, for hosts
// that exchange JSON text rather than Go values.
//
// Every function is total. Malformed input produces a documented fallback
// value, and a panic inside an operation is recovered, logged through slog
// and turned into the same fallback.
package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/abdul-hamid-achik/volt/packages/assertions"
	"github.com/abdul-hamid-achik/volt/packages/core/env"
	"github.com/abdul-hamid-achik/volt/packages/diag"
	"github.com/abdul-hamid-achik/volt/packages/http"
	"github.com/abdul-hamid-achik/volt/packages/jsoninfo"
	"github.com/abdul-hamid-achik/volt/packages/jsonpath"
)

const (
	emptyArray  = "[]"
	emptyObject = "{}"
)

// SubstituteVariables replaces {{name}} placeholders in text using the JSON
// object variablesJSON. Text is returned unchanged when the table cannot be
// decoded.
func SubstituteVariables(text, variablesJSON string) (out string) {
	defer diag.Recover("SubstituteVariables", func() { out = text })

	if !env.HasVariables(text) {
		return text
	}
	vars, ok := decodeVariables(variablesJSON)
	if !ok {
		return text
	}
	return env.Substitute(text, vars)
}

// SubstituteVariablesBatch substitutes every string of the JSON array
// textsJSON and returns the results as a JSON array.
func SubstituteVariablesBatch(textsJSON, variablesJSON string) (out string) {
	defer diag.Recover("SubstituteVariablesBatch", func() { out = emptyArray })

	texts, ok := decodeTexts(textsJSON)
	if !ok {
		return emptyArray
	}
	vars, ok := decodeVariables(variablesJSON)
	if !ok {
		return encode(texts, emptyArray)
	}
	return encode(env.SubstituteBatch(texts, vars), emptyArray)
}

// FindVariables lists the distinct placeholder names in text as a JSON
// array, in order of first appearance.
func FindVariables(text string) (out string) {
	defer diag.Recover("FindVariables", func() { out = emptyArray })
	return encode(env.FindVariables(text), emptyArray)
}

func HasVariables(text string) (out bool) {
	defer diag.Recover("HasVariables", func() { out = false })
	return env.HasVariables(text)
}

// JSONExtract resolves a dotted path in document and returns the value as
// JSON text, or "undefined".
func JSONExtract(document, path string) (out string) {
	defer diag.Recover("JSONExtract", func() { out = jsonpath.Undefined })

	doc, ok := jsonpath.Parse(document)
	if !ok {
		return jsonpath.Undefined
	}
	return jsonpath.Extract(doc, path)
}

// JSONExtractBatch resolves every path of the JSON array pathsJSON and
// returns an object keyed by path. Unresolved paths are omitted.
func JSONExtractBatch(document, pathsJSON string) (out string) {
	defer diag.Recover("JSONExtractBatch", func() { out = emptyObject })

	doc, ok := jsonpath.Parse(document)
	if !ok {
		return emptyObject
	}
	var paths []string
	if err := json.Unmarshal([]byte(pathsJSON), &paths); err != nil {
		return emptyObject
	}

	values := jsonpath.ExtractBatch(doc, paths)
	results := make(map[string]json.RawMessage, len(values))
	for path, v := range values {
		results[path] = json.RawMessage(jsonpath.Canonical(v))
	}
	return encode(results, emptyObject)
}

func JSONFormat(document string) (out string) {
	defer diag.Recover("JSONFormat", func() { out = document })
	return jsoninfo.Format(document)
}

func JSONMinify(document string) (out string) {
	defer diag.Recover("JSONMinify", func() { out = document })
	return jsoninfo.Minify(document)
}

func JSONValidate(document string) (out bool) {
	defer diag.Recover("JSONValidate", func() { out = false })
	return jsoninfo.Validate(document)
}

// JSONInfo describes document as a JSON object. Invalid documents report
// only valid and size.
func JSONInfo(document string) (out string) {
	invalid := jsoninfo.Info{Size: len(document)}
	defer diag.Recover("JSONInfo", func() { out = encode(invalid, emptyObject) })
	return encode(jsoninfo.Describe(document), emptyObject)
}

// RunAssertions evaluates the JSON array assertionsJSON against the response
// described by responseJSON and returns one result object per assertion.
func RunAssertions(assertionsJSON, responseJSON string) (out string) {
	defer diag.Recover("RunAssertions", func() { out = emptyArray })

	var list []*assertions.Assertion
	if err := json.Unmarshal([]byte(assertionsJSON), &list); err != nil {
		return emptyArray
	}
	var resp http.Response
	if err := json.Unmarshal([]byte(responseJSON), &resp); err != nil {
		return emptyArray
	}
	for _, a := range list {
		if a == nil {
			return emptyArray
		}
	}
	return encode(assertions.EvaluateAll(&resp, list), emptyArray)
}

// decodeVariables reads a JSON object of string values. A null table or a
// null value is treated as undecodable.
func decodeVariables(variablesJSON string) (env.Variables, bool) {
	var raw map[string]*string
	if err := json.Unmarshal([]byte(variablesJSON), &raw); err != nil || raw == nil {
		return nil, false
	}
	vars := make(env.Variables, len(raw))
	for k, v := range raw {
		if v == nil {
			return nil, false
		}
		vars[k] = *v
	}
	return vars, true
}

// decodeTexts reads a JSON array of strings; null elements are rejected.
func decodeTexts(textsJSON string) ([]string, bool) {
	var raw []*string
	if err := json.Unmarshal([]byte(textsJSON), &raw); err != nil || raw == nil {
		return nil, false
	}
	texts := make([]string, len(raw))
	for i, t := range raw {
		if t == nil {
			return nil, false
		}
		texts[i] = *t
	}
	return texts, true
}

// encode marshals v without HTML escaping so that messages such as
// "Status code 404 < 500" survive verbatim.
func encode(v any, fallback string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fallback
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
