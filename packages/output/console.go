package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/volt/packages/assertions"
	"github.com/abdul-hamid-achik/volt/packages/core/runner"
	"github.com/abdul-hamid-achik/volt/packages/http"
	"github.com/fatih/color"
)

// truncate shortens s to maxLen bytes for display.
func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	title := result.Suite
	if result.File != "" {
		title = fmt.Sprintf("%s (%s)", result.Suite, result.File)
	}
	fmt.Fprintf(f.writer, "\n%s\n", bold("Suite: "+title))
	fmt.Fprintf(f.writer, "\n")

	for _, r := range result.Results {
		if r.Skipped {
			fmt.Fprintf(f.writer, "  %s %s", yellow("-"), r.Name)
			if r.SkipReason != "" && r.SkipReason != "filtered out" {
				fmt.Fprintf(f.writer, " (%s)", r.SkipReason)
			}
			fmt.Fprintf(f.writer, "\n")
			continue
		}

		symbol := green("✓")
		if !r.Passed {
			symbol = red("✗")
		}

		if r.Response == nil {
			fmt.Fprintf(f.writer, "  %s %s\n", symbol, r.Name)
		} else {
			fmt.Fprintf(f.writer, "  %s %s %s\n", symbol, r.Name, cyan(fmt.Sprintf("(%dms)", r.Response.Duration().Milliseconds())))
		}

		if f.verbose && r.Response != nil {
			fmt.Fprintf(f.writer, "    Status: %s\n", statusColor(r.Response)(r.Response.StatusCode))
		}

		for i, a := range r.Assertions {
			switch {
			case !a.Passed:
				fmt.Fprintf(f.writer, "    %s %s\n", red("→"), describeCheck(r, i))
				if a.Actual != "" {
					fmt.Fprintf(f.writer, "      Actual:   %s\n", truncate(a.Actual, 100))
				}
				fmt.Fprintf(f.writer, "      %s\n", a.Message)
				if hint := contentTypeHint(r, i); hint != "" {
					fmt.Fprintf(f.writer, "      %s\n", yellow(hint))
				}
			case f.verbose:
				fmt.Fprintf(f.writer, "    %s %s: %s\n", green("·"), describeCheck(r, i), a.Message)
			}
		}
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Cases: ")
	if result.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", result.Passed)))
	}
	if result.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", result.Failed)))
	}
	if result.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", result.Skipped)))
	}
	total := result.Passed + result.Failed + result.Skipped
	fmt.Fprintf(f.writer, "%d total\n", total)
	if latency := Summarize(result); latency.Count > 0 {
		fmt.Fprintf(f.writer, "Latency: min %dms, p50 %dms, p95 %dms, p99 %dms, max %dms\n",
			latency.Min, latency.P50, latency.P95, latency.P99, latency.Max)
	}
	fmt.Fprintf(f.writer, "Time:  %dms\n", result.Duration.Milliseconds())
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("volt"), version)
}

func statusColor(resp *http.Response) func(a ...interface{}) string {
	switch {
	case resp.IsSuccess():
		return color.New(color.FgGreen).SprintFunc()
	case resp.IsClientError():
		return color.New(color.FgYellow).SprintFunc()
	case resp.IsServerError():
		return color.New(color.FgRed).SprintFunc()
	}
	return fmt.Sprint
}

// contentTypeHint points at the response Content-Type when a bodyJson check
// failed against a response that does not declare JSON.
func contentTypeHint(r *runner.CaseResult, i int) string {
	if r.Response == nil || i >= len(r.Checks) || r.Checks[i].Kind != assertions.KindBodyJSON {
		return ""
	}
	if r.Response.IsJSON() {
		return ""
	}
	ct := r.Response.ContentType()
	if ct == "" {
		return "Hint: response has no Content-Type header"
	}
	return fmt.Sprintf("Hint: response Content-Type is %s", ct)
}
