package runner

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/volt/packages/assertions"
	"github.com/abdul-hamid-achik/volt/packages/core/env"
	"github.com/abdul-hamid-achik/volt/packages/http"
	"github.com/abdul-hamid-achik/volt/packages/suite"
)

const (
	// DefaultConcurrency is the default number of cases evaluated at once in parallel mode
	DefaultConcurrency = 5
)

type Runner struct {
	config *Config
	warn   env.WarnFunc
}

type Config struct {
	// Variables is the base layer; suite and case variables override it.
	Variables   env.Variables
	Verbose     bool
	Bail        bool
	NameFilter  string
	Parallel    bool
	Concurrency int
	// Warn receives unresolved placeholder warnings. Nil logs them via slog.
	Warn env.WarnFunc
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}

	warn := cfg.Warn
	if warn == nil {
		warn = func(format string, args ...any) {
			slog.Warn(fmt.Sprintf(format, args...))
		}
	}

	return &Runner{
		config: cfg,
		warn:   warn,
	}
}

type RunResult struct {
	Suite    string
	File     string
	Results  []*CaseResult
	Duration time.Duration
	Passed   int
	Failed   int
	Skipped  int
}

type CaseResult struct {
	Name       string
	Passed     bool
	Skipped    bool
	SkipReason string
	Duration   time.Duration
	Response   *http.Response
	// Checks holds the assertions after substitution, aligned with Assertions.
	Checks     []*assertions.Assertion
	Assertions []*assertions.Result
}

// FailedAssertions returns the results that did not pass.
func (c *CaseResult) FailedAssertions() []*assertions.Result {
	var failed []*assertions.Result
	for _, a := range c.Assertions {
		if !a.Passed {
			failed = append(failed, a)
		}
	}
	return failed
}

func (r *Runner) RunFile(path string) (*RunResult, error) {
	s, err := suite.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading suite: %w", err)
	}
	return r.Run(s), nil
}

// Run evaluates every case of s. Skipped and filtered cases are reported
// without evaluation. With Bail set, the first failing case stops the run
// and the remaining cases are reported as skipped.
func (r *Runner) Run(s *suite.Suite) *RunResult {
	start := time.Now()
	result := &RunResult{
		Suite: s.Name,
		File:  s.Path,
	}

	var runnable []*suite.Case
	for _, c := range s.Cases {
		if !r.shouldRun(c) {
			result.add(&CaseResult{Name: c.Name, Skipped: true, SkipReason: "filtered out"})
			continue
		}
		if c.Skip != "" {
			result.add(&CaseResult{Name: c.Name, Skipped: true, SkipReason: c.Skip})
			continue
		}
		runnable = append(runnable, c)
	}

	if r.config.Parallel && !r.config.Bail {
		for _, caseResult := range r.runParallel(s, runnable) {
			result.add(caseResult)
		}
	} else {
		for i, c := range runnable {
			caseResult := r.runCase(s, c)
			result.add(caseResult)
			if r.config.Bail && !caseResult.Passed {
				for _, rest := range runnable[i+1:] {
					result.add(&CaseResult{Name: rest.Name, Skipped: true, SkipReason: "bail: previous case failed"})
				}
				break
			}
		}
	}

	result.Duration = time.Since(start)
	return result
}

func (rr *RunResult) add(c *CaseResult) {
	rr.Results = append(rr.Results, c)
	switch {
	case c.Skipped:
		rr.Skipped++
	case c.Passed:
		rr.Passed++
	default:
		rr.Failed++
	}
}

func (r *Runner) runParallel(s *suite.Suite, cases []*suite.Case) []*CaseResult {
	concurrency := r.config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*CaseResult, len(cases))
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for i, c := range cases {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int, tc *suite.Case) {
			defer wg.Done()
			defer func() { <-sem }()

			results[idx] = r.runCase(s, tc)
		}(i, c)
	}

	wg.Wait()
	return results
}

func (r *Runner) shouldRun(c *suite.Case) bool {
	if r.config.NameFilter == "" {
		return true
	}
	return matchesPattern(c.Name, r.config.NameFilter)
}

func (r *Runner) runCase(s *suite.Suite, c *suite.Case) *CaseResult {
	start := time.Now()
	vars := env.MergeVariables(r.config.Variables, s.Variables, c.Variables)

	list := s.AllAssertions(c)
	resolved := make([]*assertions.Assertion, len(list))
	for i, a := range list {
		resolved[i] = r.substitute(c, a, vars)
	}

	result := &CaseResult{
		Name:     c.Name,
		Response: c.Response,
		Checks:   resolved,
	}
	if len(resolved) > 0 {
		result.Assertions = assertions.EvaluateAll(c.Response, resolved)
		for i, res := range result.Assertions {
			slog.Debug("assertion evaluated",
				"case", c.Name,
				"type", resolved[i].Kind.String(),
				"operator", resolved[i].Operator.String(),
				"passed", res.Passed)
		}
		result.Passed = len(result.FailedAssertions()) == 0
	} else {
		result.Passed = c.Response.IsSuccess()
	}
	result.Duration = time.Since(start)
	return result
}

// substitute returns a copy of a with placeholders in its property and
// expected value replaced from vars.
func (r *Runner) substitute(c *suite.Case, a *assertions.Assertion, vars env.Variables) *assertions.Assertion {
	resolved := *a
	resolved.Property = env.Substitute(a.Property, vars)
	resolved.Expected = env.Substitute(a.Expected, vars)

	missing := env.UnresolvedVariables(a.Property+" "+a.Expected, vars)
	if len(missing) > 0 {
		r.warn("case %q, assertion %s: unresolved variables: %s", c.Name, a.ID, strings.Join(missing, ", "))
	}
	return &resolved
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if len(pattern) > 1 && pattern[0] == '*' && pattern[len(pattern)-1] == '*' {
		return strings.Contains(name, pattern[1:len(pattern)-1])
	}

	if pattern[0] == '*' {
		return strings.HasSuffix(name, pattern[1:])
	}

	if pattern[len(pattern)-1] == '*' {
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}

	return name == pattern
}
