package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/volt/packages/core/runner"
)

// TAPFormatter formats suite results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer    io.Writer
	testCount int
	results   []tapResult
}

type tapResult struct {
	number     int
	name       string
	passed     bool
	skipped    bool
	skipReason string
	error      string
	status     int
	timingMs   int64
	failures   []tapFailure
}

// tapFailure is one failed assertion in a case's YAML diagnostics block.
type tapFailure struct {
	check       string
	assertionID string
	actual      string
	message     string
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		f.testCount++
		tr := tapResult{
			number:     f.testCount,
			name:       result.Suite + ": " + r.Name,
			passed:     r.Passed,
			skipped:    r.Skipped,
			skipReason: r.SkipReason,
		}

		if !r.Passed && r.Response != nil {
			tr.status = r.Response.StatusCode
			tr.timingMs = r.Response.TimingMs
		}
		if !r.Passed {
			for i, a := range r.Assertions {
				if !a.Passed {
					tr.failures = append(tr.failures, tapFailure{
						check:       describeCheck(r, i),
						assertionID: a.AssertionID,
						actual:      a.Actual,
						message:     a.Message,
					})
				}
			}
		}

		f.results = append(f.results, tr)
	}
}

// FormatError reports a suite that could not be loaded as a failing test.
func (f *TAPFormatter) FormatError(err error) {
	f.testCount++
	f.results = append(f.results, tapResult{
		number: f.testCount,
		name:   "load",
		error:  err.Error(),
	})
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", f.testCount)

	for _, r := range f.results {
		if r.skipped {
			reason := r.skipReason
			if reason == "" || reason == "filtered out" {
				reason = "SKIP"
			}
			fmt.Fprintf(f.writer, "ok %d - %s # SKIP %s\n", r.number, r.name, reason)
			continue
		}

		if r.error != "" {
			fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
			fmt.Fprintf(f.writer, "  ---\n")
			fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(r.error))
			fmt.Fprintf(f.writer, "  severity: error\n")
			fmt.Fprintf(f.writer, "  ...\n")
			continue
		}

		if r.passed {
			fmt.Fprintf(f.writer, "ok %d - %s\n", r.number, r.name)
		} else {
			fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
			f.writeDiagnostics(r)
		}
	}

	_, err := fmt.Fprintf(f.writer, "# duration %dms\n", totalDuration.Milliseconds())
	return err
}

// writeDiagnostics writes the YAML block that follows a failing case.
func (f *TAPFormatter) writeDiagnostics(r tapResult) {
	if len(r.failures) == 0 && r.status == 0 {
		return
	}
	fmt.Fprintf(f.writer, "  ---\n")
	if r.status != 0 {
		fmt.Fprintf(f.writer, "  status: %d\n", r.status)
		fmt.Fprintf(f.writer, "  timingMs: %d\n", r.timingMs)
	}
	if len(r.failures) > 0 {
		fmt.Fprintf(f.writer, "  failures:\n")
		for _, a := range r.failures {
			fmt.Fprintf(f.writer, "    - check: %s\n", escapeYAML(a.check))
			fmt.Fprintf(f.writer, "      assertionId: %s\n", escapeYAML(a.assertionID))
			fmt.Fprintf(f.writer, "      actual: %s\n", escapeYAML(a.actual))
			fmt.Fprintf(f.writer, "      message: %s\n", escapeYAML(a.message))
		}
	}
	fmt.Fprintf(f.writer, "  ...\n")
}

// escapeYAML quotes s when it contains characters YAML would interpret.
func escapeYAML(s string) string {
	if s == "" || strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`\\,") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		return "\"" + s + "\""
	}
	return s
}
