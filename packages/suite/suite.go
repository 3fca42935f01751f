package suite

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/volt/packages/assertions"
	"github.com/abdul-hamid-achik/volt/packages/core/env"
	"github.com/abdul-hamid-achik/volt/packages/http"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Format is the encoding of a suite document.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatOf picks the format from a file name. Anything that is not .json is
// read as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Suite is a named set of recorded responses and the assertions they must
// satisfy.
type Suite struct {
	Name       string
	Path       string
	Variables  env.Variables
	Assertions []*assertions.Assertion
	Cases      []*Case
}

// Case is one recorded response. Its assertions run after the suite-wide
// ones, and its variables override the suite's.
type Case struct {
	Name       string
	Skip       string
	Variables  env.Variables
	Assertions []*assertions.Assertion
	Response   *http.Response
}

// AllAssertions returns the suite-wide assertions followed by the case's own.
func (s *Suite) AllAssertions(c *Case) []*assertions.Assertion {
	all := make([]*assertions.Assertion, 0, len(s.Assertions)+len(c.Assertions))
	all = append(all, s.Assertions...)
	return append(all, c.Assertions...)
}

// ValidationError lists every schema violation found in a suite document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid suite: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid suite (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// Load reads, validates and decodes the suite file at path. A suite without
// a name is named after its file.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read suite %s: %w", path, err)
	}
	s, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	if s.Name == "" {
		s.Name = suiteName(path)
	}
	return s, nil
}

// Validate checks a suite document against the schema without building it.
func Validate(data []byte, format Format) error {
	_, err := normalize(data, format)
	return err
}

// Parse validates and decodes a suite document.
func Parse(data []byte, format Format) (*Suite, error) {
	normalized, err := normalize(data, format)
	if err != nil {
		return nil, err
	}

	var doc fileSuite
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("decoding suite: %w", err)
	}
	return doc.build(), nil
}

// normalize decodes data in either format, re-encodes it as JSON and checks
// the result against the embedded schema.
func normalize(data []byte, format Format) ([]byte, error) {
	var doc any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("suite is not representable as JSON: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("loading suite schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(normalized))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, &ValidationError{Problems: problems}
	}
	return normalized, nil
}

func suiteName(path string) string {
	name := filepath.Base(path)
	for _, suffix := range suiteSuffixes {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

type fileSuite struct {
	Name       string                     `json:"name"`
	Variables  map[string]json.RawMessage `json:"variables"`
	Assertions []fileAssertion            `json:"assertions"`
	Cases      []fileCase                 `json:"cases"`
}

type fileAssertion struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Property string          `json:"property"`
	Operator string          `json:"operator"`
	Expected json.RawMessage `json:"expected"`
	Enabled  *bool           `json:"enabled"`
}

type fileCase struct {
	Name       string                     `json:"name"`
	Skip       string                     `json:"skip"`
	Variables  map[string]json.RawMessage `json:"variables"`
	Assertions []fileAssertion            `json:"assertions"`
	Response   fileResponse               `json:"response"`
}

type fileResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
	JSON       json.RawMessage   `json:"json"`
	TimingMs   int64             `json:"timingMs"`
}

func (f *fileSuite) build() *Suite {
	s := &Suite{
		Name:       f.Name,
		Variables:  buildVariables(f.Variables),
		Assertions: buildAssertions(f.Assertions),
		Cases:      make([]*Case, 0, len(f.Cases)),
	}
	for _, fc := range f.Cases {
		s.Cases = append(s.Cases, &Case{
			Name:       fc.Name,
			Skip:       fc.Skip,
			Variables:  buildVariables(fc.Variables),
			Assertions: buildAssertions(fc.Assertions),
			Response:   fc.Response.build(),
		})
	}
	return s
}

func (f *fileResponse) build() *http.Response {
	resp := &http.Response{
		StatusCode: f.StatusCode,
		Headers:    f.Headers,
		Body:       f.Body,
		TimingMs:   f.TimingMs,
	}
	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	if len(f.JSON) > 0 {
		resp.Body = string(f.JSON)
		if _, ok := resp.LookupHeader("Content-Type"); !ok {
			resp.Headers["Content-Type"] = "application/json"
		}
	}
	return resp
}

// buildAssertions fills in a generated ID when none is given and enables
// assertions unless they say otherwise.
func buildAssertions(in []fileAssertion) []*assertions.Assertion {
	out := make([]*assertions.Assertion, 0, len(in))
	for _, fa := range in {
		id := fa.ID
		if id == "" {
			id = uuid.NewString()
		}
		a := assertions.New(id, fa.Type, fa.Property, fa.Operator, scalarText(fa.Expected))
		if fa.Enabled != nil {
			a.Enabled = *fa.Enabled
		}
		out = append(out, a)
	}
	return out
}

func buildVariables(in map[string]json.RawMessage) env.Variables {
	vars := make(env.Variables, len(in))
	for k, raw := range in {
		vars[k] = scalarText(raw)
	}
	return vars
}

// scalarText renders a JSON scalar as plain text: strings lose their
// quotes, null becomes empty and numbers and booleans keep their literal.
func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
