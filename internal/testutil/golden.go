// Package testutil provides golden test cases shared by the tests.
package testutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/quwac/yamlfix/schema"
)

// Case is a correction test case. A golden file holds one case per YAML
// document.
type Case struct {
	Name   string         `yaml:"name"`
	Config *schema.Config `yaml:"config"`
	In     string         `yaml:"in"`
	// Out is the expected output. An empty Out means In is already fixed.
	Out string `yaml:"out"`
	// Error is a substring of the expected error message.
	Error string `yaml:"error"`
}

// Expect returns the expected output of c.
func (c *Case) Expect() string {
	if c.Out == "" {
		return c.In
	}
	return c.Out
}

// LoadCases loads the cases of a golden file.
func LoadCases(path string) ([]*Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cases []*Case
	d := yaml.NewDecoder(f, yaml.Strict())
	for {
		var c Case
		if err := d.Decode(&c); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		cases = append(cases, &c)
	}
	return cases, nil
}

// RunCases runs f for every case of the golden files matching pattern.
func RunCases(t *testing.T, pattern string, f func(t *testing.T, c *Case)) {
	t.Helper()
	files, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("invalid pattern: %s", err)
	}
	if len(files) == 0 {
		t.Fatalf("no golden files match %s", pattern)
	}
	for _, file := range files {
		cases, err := LoadCases(file)
		if err != nil {
			t.Fatalf("failed to load %s: %s", file, err)
		}
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		t.Run(name, func(t *testing.T) {
			for _, c := range cases {
				t.Run(c.Name, func(t *testing.T) {
					f(t, c)
				})
			}
		})
	}
}

// Visible makes whitespace at line ends visible for diff output.
func Visible(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if trimmed := strings.TrimRight(line, " \t"); trimmed != line {
			lines[i] = trimmed + strings.NewReplacer(" ", "·", "\t", "→").Replace(line[len(trimmed):])
		}
	}
	return strings.Join(lines, "\n")
}
