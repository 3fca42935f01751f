package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/volt/packages/core/runner"
)

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Options selects and configures a formatter.
type Options struct {
	Format  string
	Writer  io.Writer
	Verbose bool
	NoColor bool
}

// New builds the formatter named by opts.Format. Unknown formats fall back
// to console output.
func New(opts Options) Formatter {
	switch strings.ToLower(opts.Format) {
	case "json":
		var o []JSONOption
		if opts.Writer != nil {
			o = append(o, JSONWithWriter(opts.Writer))
		}
		return NewJSONFormatter(o...)
	case "junit":
		var o []JUnitOption
		if opts.Writer != nil {
			o = append(o, JUnitWithWriter(opts.Writer))
		}
		return NewJUnitFormatter(o...)
	case "tap":
		var o []TAPOption
		if opts.Writer != nil {
			o = append(o, TAPWithWriter(opts.Writer))
		}
		return NewTAPFormatter(o...)
	default:
		o := []ConsoleOption{
			WithVerbose(opts.Verbose),
			WithNoColor(opts.NoColor),
		}
		if opts.Writer != nil {
			o = append(o, WithWriter(opts.Writer))
		}
		return NewConsoleFormatter(o...)
	}
}

// IsValidFormat reports whether name is a supported output format.
func IsValidFormat(name string) bool {
	switch strings.ToLower(name) {
	case "console", "json", "junit", "tap":
		return true
	}
	return false
}

// describeCheck renders an evaluated assertion as "type operator property".
func describeCheck(r *runner.CaseResult, i int) string {
	if i >= len(r.Checks) {
		return r.Assertions[i].AssertionID
	}
	a := r.Checks[i]
	if a.Property == "" {
		return fmt.Sprintf("%s %s", a.TypeName, a.OperatorName)
	}
	return fmt.Sprintf("%s %s %s", a.TypeName, a.OperatorName, a.Property)
}
