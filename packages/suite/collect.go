package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var suiteSuffixes = []string{".suite.yaml", ".suite.yml", ".suite.json"}

// IsSuiteFile reports whether a file found while walking a directory should
// be treated as a suite.
func IsSuiteFile(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, suffix := range suiteSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Collect expands args into suite file paths. Directories are walked for
// *.suite.yaml, *.suite.yml and *.suite.json files; files named explicitly
// only need a YAML or JSON extension.
func Collect(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && IsSuiteFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if isDocumentFile(arg) {
			files = append(files, arg)
		}
	}

	return files, nil
}
