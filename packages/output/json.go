package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/volt/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary    `json:"summary"`
	Latency  LatencySummary `json:"latency"`
	Cases    []JSONCase     `json:"cases"`
	Errors   []string       `json:"errors,omitempty"`
	Duration float64        `json:"duration"`
	Time     string         `json:"time"`
}

// JSONSummary represents the case summary
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// JSONCase represents a single case result
type JSONCase struct {
	Name       string          `json:"name"`
	Suite      string          `json:"suite"`
	File       string          `json:"file,omitempty"`
	Passed     bool            `json:"passed"`
	Skipped    bool            `json:"skipped,omitempty"`
	SkipReason string          `json:"skipReason,omitempty"`
	Duration   float64         `json:"duration"`
	Response   *JSONResponse   `json:"response,omitempty"`
	Assertions []JSONAssertion `json:"assertions,omitempty"`
}

// JSONResponse represents the recorded response a case was evaluated against
type JSONResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	TimingMs   int64             `json:"timingMs"`
}

// JSONAssertion represents an assertion result
type JSONAssertion struct {
	ID       string `json:"id"`
	Type     string `json:"type,omitempty"`
	Property string `json:"property,omitempty"`
	Operator string `json:"operator,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message"`
}

// JSONFormatter formats suite results as JSON
type JSONFormatter struct {
	writer  io.Writer
	results []JSONCase
	errors  []string
	latency *LatencyRecorder
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONCase, 0),
		latency: NewLatencyRecorder(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	f.latency.RecordRun(result)

	for _, r := range result.Results {
		c := JSONCase{
			Name:     r.Name,
			Suite:    result.Suite,
			File:     result.File,
			Passed:   r.Passed,
			Skipped:  r.Skipped,
			Duration: float64(r.Duration.Microseconds()) / 1000,
		}

		if r.SkipReason != "" && r.SkipReason != "filtered out" {
			c.SkipReason = r.SkipReason
		}

		if r.Response != nil && !r.Skipped {
			c.Response = &JSONResponse{
				StatusCode: r.Response.StatusCode,
				Headers:    r.Response.Headers,
				TimingMs:   r.Response.TimingMs,
			}
		}

		if len(r.Assertions) > 0 {
			c.Assertions = make([]JSONAssertion, len(r.Assertions))
			for i, a := range r.Assertions {
				ja := JSONAssertion{
					ID:      a.AssertionID,
					Actual:  a.Actual,
					Passed:  a.Passed,
					Message: a.Message,
				}
				if i < len(r.Checks) {
					ja.Type = r.Checks[i].TypeName
					ja.Property = r.Checks[i].Property
					ja.Operator = r.Checks[i].OperatorName
					ja.Expected = r.Checks[i].Expected
				}
				c.Assertions[i] = ja
			}
		}

		f.results = append(f.results, c)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var passed, failed, skipped int
	for _, c := range f.results {
		if c.Skipped {
			skipped++
		} else if c.Passed {
			passed++
		} else {
			failed++
		}
	}

	output := JSONOutput{
		Summary: JSONSummary{
			Total:   len(f.results),
			Passed:  passed,
			Failed:  failed,
			Skipped: skipped,
		},
		Latency:  f.latency.Summary(),
		Cases:    f.results,
		Errors:   f.errors,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(output)
}
