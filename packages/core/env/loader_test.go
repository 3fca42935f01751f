package env

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadVariablesFile(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		expected Variables
	}{
		{
			name:     "json object",
			file:     "vars.json",
			content:  `{"baseUrl":"api.example.com","port":8080,"debug":true}`,
			expected: Variables{"baseUrl": "api.example.com", "port": "8080", "debug": "true"},
		},
		{
			name:     "yaml mapping",
			file:     "vars.yaml",
			content:  "baseUrl: api.example.com\nuserId: \"123\"\nempty:\n",
			expected: Variables{"baseUrl": "api.example.com", "userId": "123", "empty": ""},
		},
		{
			name:     "dotenv fallback",
			file:     ".env.local",
			content:  "TOKEN=abc",
			expected: Variables{"TOKEN": "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			got, err := LoadVariablesFile(path)
			if err != nil {
				t.Fatalf("LoadVariablesFile() error = %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("LoadVariablesFile() = %v, want %v", got, tt.expected)
			}
			for k, v := range tt.expected {
				if got[k] != v {
					t.Errorf("LoadVariablesFile()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestLoadVariablesFileRejectsNested(t *testing.T) {
	path := writeFile(t, "vars.json", `{"user":{"id":1}}`)
	if _, err := LoadVariablesFile(path); err == nil {
		t.Error("LoadVariablesFile() expected error for nested value")
	}
}

func TestLoadVariablesFileInvalid(t *testing.T) {
	path := writeFile(t, "vars.json", `{not json`)
	if _, err := LoadVariablesFile(path); err == nil {
		t.Error("LoadVariablesFile() expected parse error")
	}
}

func TestMergeVariables(t *testing.T) {
	got := MergeVariables(
		Variables{"a": "1", "b": "1"},
		nil,
		Variables{"b": "2", "c": "2"},
	)
	want := Variables{"a": "1", "b": "2", "c": "2"}
	if len(got) != len(want) {
		t.Fatalf("MergeVariables() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("MergeVariables()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestLoadEnvironment(t *testing.T) {
	envs := map[string]map[string]string{
		"dev":  {"baseUrl": "http://localhost:3000"},
		"prod": {"baseUrl": "https://api.example.com"},
	}

	env := LoadEnvironment("prod", envs)
	if env.Name != "prod" || env.Variables["baseUrl"] != "https://api.example.com" {
		t.Errorf("LoadEnvironment(prod) = %+v", env)
	}

	missing := LoadEnvironment("staging", envs)
	if len(missing.Variables) != 0 {
		t.Errorf("LoadEnvironment(staging) = %v, want empty", missing.Variables)
	}
}

func TestLoadSystemEnv(t *testing.T) {
	t.Setenv("VOLTTEST_TOKEN", "secret")

	vars := LoadSystemEnv("VOLTTEST_")
	if vars["TOKEN"] != "secret" {
		t.Errorf("LoadSystemEnv()[TOKEN] = %q, want %q", vars["TOKEN"], "secret")
	}
	if _, ok := vars["VOLTTEST_TOKEN"]; ok {
		t.Error("LoadSystemEnv() kept prefixed key")
	}
}
