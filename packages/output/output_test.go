package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/volt/packages/assertions"
	"github.com/abdul-hamid-achik/volt/packages/core/runner"
	"github.com/abdul-hamid-achik/volt/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *runner.RunResult {
	statusCheck := assertions.New("status-ok", "status", "", "equals", "200")
	bodyCheck := assertions.New("name", "bodyJson", "user.name", "equals", `"Ann"`)

	return &runner.RunResult{
		Suite:    "users",
		File:     "users.suite.yaml",
		Duration: 3 * time.Millisecond,
		Passed:   1,
		Failed:   1,
		Skipped:  1,
		Results: []*runner.CaseResult{
			{
				Name:     "get user",
				Passed:   true,
				Response: &http.Response{StatusCode: 200, Headers: map[string]string{}, TimingMs: 10},
				Checks:   []*assertions.Assertion{statusCheck},
				Assertions: []*assertions.Result{
					{AssertionID: "status-ok", Passed: true, Actual: "200", Message: "Status code is 200"},
				},
			},
			{
				Name:     "get missing user",
				Passed:   false,
				Response: &http.Response{StatusCode: 404, Headers: map[string]string{}, TimingMs: 30},
				Checks:   []*assertions.Assertion{statusCheck, bodyCheck},
				Assertions: []*assertions.Result{
					{AssertionID: "status-ok", Passed: false, Actual: "404", Message: "Expected 200, got 404"},
					{AssertionID: "name", Passed: false, Actual: "undefined", Message: `Expected "Ann", got undefined`},
				},
			},
			{
				Name:       "legacy",
				Skipped:    true,
				SkipReason: "endpoint removed",
			},
		},
	}
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatHeader("1.0.0")
	f.FormatResult(sampleResult())
	out := buf.String()

	assert.Contains(t, out, "volt 1.0.0")
	assert.Contains(t, out, "Suite: users (users.suite.yaml)")
	assert.Contains(t, out, "✓ get user (10ms)")
	assert.Contains(t, out, "✗ get missing user (30ms)")
	assert.Contains(t, out, "→ status equals")
	assert.Contains(t, out, "→ bodyJson equals user.name")
	assert.Contains(t, out, "Actual:   404")
	assert.Contains(t, out, "Expected 200, got 404")
	assert.Contains(t, out, "- legacy (endpoint removed)")
	assert.Contains(t, out, "1 passed, 1 failed, 1 skipped, 3 total")
	assert.Contains(t, out, "Latency: min 10ms")
	assert.NotContains(t, out, "Status code is 200")
}

func TestConsoleFormatter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.FormatResult(sampleResult())

	assert.Contains(t, buf.String(), "Status: 200")
	assert.Contains(t, buf.String(), "status equals: Status code is 200")
}

func TestConsoleFormatter_ContentTypeHint(t *testing.T) {
	check := assertions.New("name", "bodyJson", "user.name", "exists", "")
	result := &runner.RunResult{
		Suite:  "users",
		Failed: 1,
		Results: []*runner.CaseResult{{
			Name:     "html error page",
			Response: &http.Response{StatusCode: 502, Headers: map[string]string{"Content-Type": "text/html"}, Body: "<html>", TimingMs: 5},
			Checks:   []*assertions.Assertion{check},
			Assertions: []*assertions.Result{
				{AssertionID: "name", Actual: "Invalid JSON", Message: "Response body is not valid JSON"},
			},
		}},
	}

	var buf bytes.Buffer
	NewConsoleFormatter(WithWriter(&buf), WithNoColor(true)).FormatResult(result)
	assert.Contains(t, buf.String(), "Hint: response Content-Type is text/html")

	buf.Reset()
	NewConsoleFormatter(WithWriter(&buf), WithNoColor(true)).FormatResult(sampleResult())
	assert.NotContains(t, buf.String(), "Hint:")
}

func TestConsoleFormatter_Error(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatError(errors.New("boom"))

	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatResult(sampleResult())
	f.FormatError(errors.New("bad.suite.yaml: invalid suite"))
	require.NoError(t, f.Flush(5*time.Millisecond))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, JSONSummary{Total: 3, Passed: 1, Failed: 1, Skipped: 1}, out.Summary)
	assert.Equal(t, int64(2), out.Latency.Count)
	assert.Equal(t, int64(10), out.Latency.Min)
	assert.Equal(t, int64(30), out.Latency.Max)
	assert.Equal(t, []string{"bad.suite.yaml: invalid suite"}, out.Errors)

	require.Len(t, out.Cases, 3)
	failed := out.Cases[1]
	assert.Equal(t, "users", failed.Suite)
	assert.Equal(t, 404, failed.Response.StatusCode)
	require.Len(t, failed.Assertions, 2)
	assert.Equal(t, "bodyJson", failed.Assertions[1].Type)
	assert.Equal(t, "user.name", failed.Assertions[1].Property)
	assert.Equal(t, `"Ann"`, failed.Assertions[1].Expected)
	assert.Equal(t, "undefined", failed.Assertions[1].Actual)

	assert.Nil(t, out.Cases[2].Response)
	assert.Equal(t, "endpoint removed", out.Cases[2].SkipReason)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))

	f.FormatResult(sampleResult())
	f.FormatError(errors.New("cannot read suite"))
	require.NoError(t, f.Flush(time.Second))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal([]byte(out[strings.Index(out, "<testsuites"):]), &suites))

	assert.Equal(t, 4, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	assert.Equal(t, 1, suites.Skipped)
	require.Len(t, suites.TestSuites, 2)

	cases := suites.TestSuites[0].TestCases
	require.Len(t, cases, 3)
	assert.Nil(t, cases[0].Failure)
	require.NotNil(t, cases[1].Failure)
	assert.Equal(t, "2 assertion(s) failed", cases[1].Failure.Message)
	assert.Contains(t, cases[1].Failure.Content, "Expected 200, got 404")
	assert.Equal(t, "status 200, 10ms", cases[0].SystemOut)
	assert.Equal(t, "status 404, 30ms", cases[1].SystemOut)
	assert.Empty(t, cases[2].SystemOut)
	require.NotNil(t, cases[2].Skipped)
	assert.Equal(t, "endpoint removed", cases[2].Skipped.Message)

	require.NotNil(t, suites.TestSuites[1].TestCases[0].Error)
	assert.Equal(t, "cannot read suite", suites.TestSuites[1].TestCases[0].Error.Message)
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))

	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(time.Second))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "TAP version 13", lines[0])
	assert.Equal(t, "1..3", lines[1])
	assert.Equal(t, "ok 1 - users: get user", lines[2])
	assert.Equal(t, "not ok 2 - users: get missing user", lines[3])
	out := buf.String()
	assert.Contains(t, out, "  status: 404\n  timingMs: 30\n")
	assert.Contains(t, out, "    - check: status equals\n      assertionId: status-ok\n      actual: 404\n      message: \"Expected 200, got 404\"\n")
	assert.Contains(t, out, "      assertionId: name\n      actual: undefined\n")
	assert.Contains(t, buf.String(), "ok 3 - users: legacy # SKIP endpoint removed")
}

func TestTAPFormatter_Error(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))

	f.FormatError(errors.New("broken"))
	require.NoError(t, f.Flush(0))

	assert.Contains(t, buf.String(), "1..1")
	assert.Contains(t, buf.String(), "not ok 1 - load")
	assert.Contains(t, buf.String(), "message: broken")
}

func TestEscapeYAML(t *testing.T) {
	assert.Equal(t, "plain", escapeYAML("plain"))
	assert.Equal(t, `"a: b"`, escapeYAML("a: b"))
	assert.Equal(t, `"say \"hi\""`, escapeYAML(`say "hi"`))
	assert.Equal(t, `""`, escapeYAML(""))
}

func TestNew(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, New(Options{Format: "JSON"}))
	assert.IsType(t, &JUnitFormatter{}, New(Options{Format: "junit"}))
	assert.IsType(t, &TAPFormatter{}, New(Options{Format: "tap"}))
	assert.IsType(t, &ConsoleFormatter{}, New(Options{Format: "console", NoColor: true}))

	assert.True(t, IsValidFormat("tap"))
	assert.False(t, IsValidFormat("html"))
}
