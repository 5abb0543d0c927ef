package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quwac/yamlfix/schema"
)

func TestLoadCases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	golden := `name: plain
in: |
  a: 1
---
name: with config
config:
  explicit_start: false
in: "a: 1"
out: |
  a: 1
---
name: broken
in: "a: [1"
error: did not find expected
`
	if err := os.WriteFile(path, []byte(golden), 0o644); err != nil {
		t.Fatal(err)
	}
	cases, err := LoadCases(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expect := []*Case{
		{Name: "plain", In: "a: 1\n"},
		{Name: "with config", Config: &schema.Config{ExplicitStart: schema.Bool(false)}, In: "a: 1", Out: "a: 1\n"},
		{Name: "broken", In: "a: [1", Error: "did not find expected"},
	}
	if diff := cmp.Diff(expect, cases); diff != "" {
		t.Errorf("differs (-want +got):\n%s", diff)
	}
	if got := cases[0].Expect(); got != "a: 1\n" {
		t.Errorf("unexpected expectation %q", got)
	}
	if got := cases[1].Expect(); got != "a: 1\n" {
		t.Errorf("unexpected expectation %q", got)
	}
}

func TestLoadCasesUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	if err := os.WriteFile(path, []byte("name: x\ninput: a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCases(path); err == nil {
		t.Fatal("no error")
	}
}

func TestVisible(t *testing.T) {
	tests := map[string]struct {
		in     string
		expect string
	}{
		"no trailing space": {
			in:     "a: 1\nb: 2\n",
			expect: "a: 1\nb: 2\n",
		},
		"trailing space": {
			in:     "a: 1  \nb:\t\n",
			expect: "a: 1··\nb:→\n",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(test.expect, Visible(test.in)); diff != "" {
				t.Errorf("differs (-want +got):\n%s", diff)
			}
		})
	}
}
