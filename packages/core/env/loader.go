package env

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Environment struct {
	Name      string
	Variables Variables
}

// LoadEnvironment picks the named environment out of the config's
// environments section. An unknown name yields an empty environment.
func LoadEnvironment(envName string, configEnvs map[string]map[string]string) *Environment {
	env := &Environment{
		Name:      envName,
		Variables: make(Variables),
	}

	if vars, ok := configEnvs[envName]; ok {
		for k, v := range vars {
			env.Variables[k] = v
		}
	}

	return env
}

// LoadVariablesFile reads a variable table from disk. .json, .yaml and .yml
// files must hold a flat object of scalars; anything else is read as a .env file.
func LoadVariablesFile(path string) (Variables, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return LoadDotEnv(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read variables file: %w", err)
	}

	raw := make(map[string]any)
	if ext == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing variables file %s: %w", path, err)
	}

	vars := make(Variables, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("variable %q in %s must be a scalar", k, path)
		case nil:
			vars[k] = ""
		default:
			vars[k] = fmt.Sprintf("%v", v)
		}
	}
	return vars, nil
}

// MergeVariables combines tables left to right; later sources win.
func MergeVariables(sources ...Variables) Variables {
	result := make(Variables)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

// LoadSystemEnv returns the process environment. With a non-empty prefix only
// matching keys are kept, with the prefix stripped.
func LoadSystemEnv(prefix string) Variables {
	result := make(Variables)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix == "" {
			result[key] = value
		} else if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
			result[key[len(prefix):]] = value
		}
	}
	return result
}
