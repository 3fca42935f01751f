package runner

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/abdul-hamid-achik/volt/packages/assertions"
	"github.com/abdul-hamid-achik/volt/packages/core/env"
	"github.com/abdul-hamid-achik/volt/packages/http"
	"github.com/abdul-hamid-achik/volt/packages/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
		TimingMs:   20,
	}
}

func newCase(name string, resp *http.Response, list ...*assertions.Assertion) *suite.Case {
	return &suite.Case{
		Name:       name,
		Variables:  env.Variables{},
		Assertions: list,
		Response:   resp,
	}
}

type warnings struct {
	mu   sync.Mutex
	msgs []string
}

func (w *warnings) warn(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, fmt.Sprintf(format, args...))
}

func TestNewRunner(t *testing.T) {
	t.Run("with nil config", func(t *testing.T) {
		r := NewRunner(nil)
		assert.NotNil(t, r)
		assert.NotNil(t, r.config)
		assert.NotNil(t, r.warn)
	})

	t.Run("with custom config", func(t *testing.T) {
		cfg := &Config{
			Verbose:     true,
			Parallel:    true,
			Concurrency: 10,
		}
		r := NewRunner(cfg)
		assert.True(t, r.config.Verbose)
		assert.Equal(t, 10, r.config.Concurrency)
	})
}

func TestRunner_Run(t *testing.T) {
	s := &suite.Suite{
		Name:       "users",
		Assertions: []*assertions.Assertion{assertions.New("ok", "status", "", "equals", "200")},
		Cases: []*suite.Case{
			newCase("get user", jsonResponse(200, `{"id": 1}`),
				assertions.New("id", "bodyJson", "id", "equals", "1")),
			newCase("broken", jsonResponse(500, `{}`)),
		},
	}

	result := NewRunner(nil).Run(s)

	assert.Equal(t, "users", result.Suite)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Results, 2)

	first := result.Results[0]
	assert.True(t, first.Passed)
	require.Len(t, first.Assertions, 2)
	assert.Equal(t, "ok", first.Assertions[0].AssertionID)
	assert.Equal(t, "id", first.Assertions[1].AssertionID)

	second := result.Results[1]
	assert.False(t, second.Passed)
	require.Len(t, second.FailedAssertions(), 1)
	assert.Equal(t, "Expected 200, got 500", second.FailedAssertions()[0].Message)
}

func TestRunner_SubstitutesVariables(t *testing.T) {
	s := &suite.Suite{
		Variables: env.Variables{"field": "user", "expectedId": "1"},
		Cases: []*suite.Case{
			{
				Name:      "override",
				Variables: env.Variables{"expectedId": "2"},
				Assertions: []*assertions.Assertion{
					assertions.New("a", "bodyJson", "{{field}}.id", "equals", "{{ expectedId }}"),
					assertions.New("b", "bodyJson", "{{field}}.name", "equals", `"{{name}}"`),
				},
				Response: jsonResponse(200, `{"user": {"id": 2, "name": "Ann"}}`),
			},
		},
	}

	r := NewRunner(&Config{Variables: env.Variables{"name": "Ann", "field": "ignored"}})
	result := r.Run(s)

	require.Len(t, result.Results, 1)
	assert.True(t, result.Results[0].Passed)
	assert.Equal(t, "2", result.Results[0].Assertions[0].Actual)
}

func TestRunner_WarnsOnUnresolvedVariables(t *testing.T) {
	w := &warnings{}
	s := &suite.Suite{
		Cases: []*suite.Case{
			newCase("missing", jsonResponse(200, `{}`),
				assertions.New("m", "bodyJson", "{{path}}", "equals", "{{value}}")),
		},
	}

	result := NewRunner(&Config{Warn: w.warn}).Run(s)

	assert.Equal(t, 1, result.Failed)
	require.Len(t, w.msgs, 1)
	assert.Contains(t, w.msgs[0], `case "missing"`)
	assert.Contains(t, w.msgs[0], "path, value")
}

func TestRunner_LogsEvaluatedAssertions(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	s := &suite.Suite{
		Cases: []*suite.Case{
			newCase("get", jsonResponse(200, `{}`),
				assertions.New("s", "status", "", "lessThan", "300")),
		},
	}
	NewRunner(nil).Run(s)

	assert.Contains(t, buf.String(), "assertion evaluated")
	assert.Contains(t, buf.String(), "type=status")
	assert.Contains(t, buf.String(), "operator=lessThan")
}

func TestRunner_Skip(t *testing.T) {
	s := &suite.Suite{
		Cases: []*suite.Case{
			{Name: "skipped", Skip: "not ready", Response: jsonResponse(500, `{}`)},
			newCase("runs", jsonResponse(200, `{}`)),
		},
	}

	result := NewRunner(nil).Run(s)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Passed)
	assert.True(t, result.Results[0].Skipped)
	assert.Equal(t, "not ready", result.Results[0].SkipReason)
}

func TestRunner_NoAssertionsUsesStatus(t *testing.T) {
	s := &suite.Suite{
		Cases: []*suite.Case{
			newCase("created", jsonResponse(201, `{}`)),
			newCase("not found", jsonResponse(404, `{}`)),
		},
	}

	result := NewRunner(nil).Run(s)

	assert.True(t, result.Results[0].Passed)
	assert.False(t, result.Results[1].Passed)
}

func TestRunner_NameFilter(t *testing.T) {
	s := &suite.Suite{
		Cases: []*suite.Case{
			newCase("create user", jsonResponse(200, `{}`)),
			newCase("delete user", jsonResponse(200, `{}`)),
			newCase("list orders", jsonResponse(200, `{}`)),
		},
	}

	result := NewRunner(&Config{NameFilter: "*user"}).Run(s)

	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "filtered out", result.Results[0].SkipReason)
	assert.Equal(t, "list orders", result.Results[0].Name)
}

func TestRunner_Bail(t *testing.T) {
	s := &suite.Suite{
		Cases: []*suite.Case{
			newCase("first", jsonResponse(200, `{}`)),
			newCase("second", jsonResponse(500, `{}`)),
			newCase("third", jsonResponse(200, `{}`)),
			newCase("fourth", jsonResponse(200, `{}`)),
		},
	}

	result := NewRunner(&Config{Bail: true}).Run(s)

	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Results, 4)
	assert.Equal(t, "third", result.Results[2].Name)
	assert.True(t, result.Results[2].Skipped)
}

func TestRunner_Parallel(t *testing.T) {
	s := &suite.Suite{}
	for i := 0; i < 20; i++ {
		status := 200
		if i%5 == 0 {
			status = 500
		}
		s.Cases = append(s.Cases, newCase(fmt.Sprintf("case %d", i), jsonResponse(status, `{}`),
			assertions.New("s", "status", "", "equals", "200")))
	}

	result := NewRunner(&Config{Parallel: true, Concurrency: 3}).Run(s)

	assert.Equal(t, 16, result.Passed)
	assert.Equal(t, 4, result.Failed)
	for i, c := range result.Results {
		assert.Equal(t, fmt.Sprintf("case %d", i), c.Name)
	}
}

func TestRunner_RunFile(t *testing.T) {
	content := `
name: health
cases:
  - name: ok
    assertions:
      - type: bodyJson
        property: status
        operator: equals
        expected: '"{{expected}}"'
    response:
      statusCode: 200
      json: {"status": "up"}
`
	path := filepath.Join(t.TempDir(), "health.suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result, err := NewRunner(&Config{Variables: env.Variables{"expected": "up"}}).RunFile(path)
	require.NoError(t, err)

	assert.Equal(t, "health", result.Suite)
	assert.Equal(t, path, result.File)
	assert.Equal(t, 1, result.Passed)
}

func TestRunner_RunFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cases: []"), 0644))

	_, err := NewRunner(nil).RunFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading suite")
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"create user", "", true},
		{"create user", "create user", true},
		{"create user", "create", false},
		{"create user", "create*", true},
		{"create user", "*user", true},
		{"create user", "*eate us*", true},
		{"create user", "*order*", false},
		{"create user", "*", true},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesPattern(tt.name, tt.pattern))
		})
	}
}
