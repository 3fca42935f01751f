package env

import (
	"regexp"
	"strings"
)

// variablePattern matches a {{name}} placeholder. The interior runs up to the
// first closing brace, so names can never contain '}'.
var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Variables is a name to value table used for placeholder substitution.
type Variables map[string]string

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Substitute replaces every {{name}} placeholder in text with the value of
// the trimmed name in vars. Placeholders whose name is not in vars are left
// exactly as written. Replacement values are not scanned again.
func Substitute(text string, vars Variables) string {
	if text == "" || !strings.Contains(text, "{{") || len(vars) == 0 {
		return text
	}
	return variablePattern.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})
}

// SubstituteBatch applies Substitute to each text independently. The result
// always has the same length and order as texts.
func SubstituteBatch(texts []string, vars Variables) []string {
	result := make([]string, len(texts))
	for i, text := range texts {
		result[i] = Substitute(text, vars)
	}
	return result
}

// FindVariables returns the trimmed placeholder names in text in order of
// first occurrence, without duplicates.
func FindVariables(text string) []string {
	names := make([]string, 0)
	if text == "" || !strings.Contains(text, "{{") {
		return names
	}

	seen := make(map[string]bool)
	for _, m := range variablePattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// HasVariables reports whether text contains at least one placeholder.
func HasVariables(text string) bool {
	if text == "" {
		return false
	}
	return variablePattern.MatchString(text)
}

// UnresolvedVariables returns the placeholder names in text that vars does
// not define, in order of first occurrence. It returns nil when every
// placeholder resolves.
func UnresolvedVariables(text string, vars Variables) []string {
	var missing []string
	for _, name := range FindVariables(text) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
