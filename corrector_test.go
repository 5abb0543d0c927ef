package yamlfix

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/quwac/yamlfix/document"
	"github.com/quwac/yamlfix/errors"
	"github.com/quwac/yamlfix/internal/testutil"
	"github.com/quwac/yamlfix/rule"
	"github.com/quwac/yamlfix/schema"
)

func TestFix(t *testing.T) {
	tests := map[string]struct {
		in     string
		expect string
	}{
		"document start": {
			in:     "program: yamlfix\n",
			expect: "---\nprogram: yamlfix\n",
		},
		"already fixed": {
			in:     "---\nprogram: yamlfix\n",
			expect: "---\nprogram: yamlfix\n",
		},
		"empty": {
			in:     "",
			expect: "---\n",
		},
		"quotes and booleans": {
			in:     "a: 'yes'\nb: 'x'\nc: True\nd: \"on\"\n",
			expect: "---\na: 'yes'\nb: x\nc: true\nd: 'on'\n",
		},
		"sequence indentation": {
			in:     "a:\n- b\n- c\n",
			expect: "---\na:\n  - b\n  - c\n",
		},
		"mapping indentation": {
			in:     "a:\n    b:\n        c: 1\n",
			expect: "---\na:\n  b:\n    c: 1\n",
		},
		"comments": {
			in:     "#comment\na: 1 #inline\n",
			expect: "---\n# comment\na: 1  # inline\n",
		},
		"blank lines": {
			in:     "\na: 1\n\n\n\nb: 2\n\n\n",
			expect: "---\na: 1\n\nb: 2\n",
		},
		"multiple documents": {
			in:     "a: 1\n---\nb: 2\n",
			expect: "---\na: 1\n---\nb: 2\n",
		},
		"flow sequence with comments": {
			in:     "a: [1, # one\n  2]\n",
			expect: "---\na:\n  - 1  # one\n  - 2\n",
		},
		"line breaks": {
			in:     "a: 1\r\nb: 2\r\n",
			expect: "---\na: 1\nb: 2\n",
		},
		"yaml 1.2 directive": {
			in:     "%YAML 1.2\n---\na: 1\n",
			expect: "%YAML 1.2\n---\na: 1\n",
		},
		"end marker only": {
			in:     "...\n",
			expect: "---\n",
		},
		"anchors": {
			in:     "base: &base\n  a: 1\nderived:\n  <<: *base\n  b: 2\n",
			expect: "---\nbase: &base\n  a: 1\nderived:\n  <<: *base\n  b: 2\n",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Fix(test.in)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff(testutil.Visible(test.expect), testutil.Visible(got)); diff != "" {
				t.Errorf("differs (-want +got):\n%s", diff)
			}
			again, err := Fix(got)
			if err != nil {
				t.Fatalf("failed to fix the output: %s", err)
			}
			if diff := cmp.Diff(got, again); diff != "" {
				t.Errorf("not idempotent (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFixGolden(t *testing.T) {
	testutil.RunCases(t, "testdata/*.yaml", func(t *testing.T, c *testutil.Case) {
		corrector, err := New(WithConfig(c.Config))
		if err != nil {
			t.Fatalf("failed to create corrector: %s", err)
		}
		got, err := corrector.Fix(c.In)
		if c.Error != "" {
			if err == nil {
				t.Fatal("no error")
			}
			if !strings.Contains(err.Error(), c.Error) {
				t.Fatalf("%q does not contain %q", err.Error(), c.Error)
			}
			if got != "" {
				t.Errorf("expected no output but got %q", got)
			}
			return
		}
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if diff := cmp.Diff(testutil.Visible(c.Expect()), testutil.Visible(got)); diff != "" {
			t.Errorf("differs (-want +got):\n%s", diff)
		}
		needs, err := corrector.NeedsFix(got)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if needs {
			again, _ := corrector.Fix(got)
			t.Errorf("not idempotent (-want +got):\n%s", cmp.Diff(got, again))
		}
	})
}

func TestNeedsFix(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatal(err)
	}
	tests := map[string]struct {
		in     string
		expect bool
	}{
		"fixed": {
			in: "---\na: 1\n",
		},
		"missing marker": {
			in:     "a: 1\n",
			expect: true,
		},
		"trailing blank line": {
			in:     "---\na: 1\n\n",
			expect: true,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := c.NeedsFix(test.in)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != test.expect {
				t.Errorf("expect %t but got %t", test.expect, got)
			}
		})
	}

	if _, err := c.NeedsFix("a: [1\n"); err == nil {
		t.Error("no error")
	}
}

func TestFixParseError(t *testing.T) {
	tests := map[string]struct {
		in   string
		opts []func(*Corrector) error
		line int
	}{
		"unbalanced": {
			in: "a: [1\n",
		},
		"duplicate key": {
			in:   "a: 1\nb: 2\na: 3\n",
			line: 3,
		},
		"single document": {
			in:   "a: 1\n---\nb: 2\n",
			opts: []func(*Corrector) error{WithSingleDocument()},
			line: 2,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c, err := New(test.opts...)
			if err != nil {
				t.Fatal(err)
			}
			got, err := c.Fix(test.in)
			if err == nil {
				t.Fatal("no error")
			}
			if got != "" {
				t.Errorf("expected no output but got %q", got)
			}
			var perr *errors.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError but got %T: %s", err, err)
			}
			if test.line > 0 && perr.Line != test.line {
				t.Errorf("expected line %d but got %d", test.line, perr.Line)
			}
		})
	}
}

func TestFixCorrectionError(t *testing.T) {
	changeValue := rule.New("change-value", func(doc *document.Document) error {
		m, ok := doc.Root.(*document.Mapping)
		if !ok {
			return nil
		}
		for _, p := range m.Pairs {
			if k := p.Key.(*document.Scalar); k.Value == "b" {
				p.Value.(*document.Scalar).Value = "changed"
			}
		}
		return nil
	})
	tests := map[string]struct {
		rule     rule.Rule
		in       string
		ruleName string
		reason   string
		document int
	}{
		"value changed": {
			rule:     changeValue,
			in:       "b: x\n",
			ruleName: "change-value",
			reason:   "value changed",
		},
		"value changed in second document": {
			rule:     changeValue,
			in:       "a: x\n---\nb: x\n",
			ruleName: "change-value",
			reason:   "value changed",
			document: 2,
		},
		"keys reordered": {
			rule: rule.New("swap", func(doc *document.Document) error {
				m := doc.Root.(*document.Mapping)
				m.Pairs[0], m.Pairs[1] = m.Pairs[1], m.Pairs[0]
				return nil
			}),
			in:       "a: 1\nb: 2\n",
			ruleName: KeyOrderRule,
			reason:   "swap reordered mapping keys",
		},
		"comment dropped": {
			rule: rule.New("drop-comments", func(doc *document.Document) error {
				doc.Head = nil
				return nil
			}),
			in:       "# comment\na: 1\n",
			ruleName: "drop-comments",
			reason:   "0 comments written, want 1",
		},
		"rule failed": {
			rule: rule.New("fail", func(*document.Document) error {
				return errors.New("boom")
			}),
			in:       "a: 1\n",
			ruleName: "fail",
			reason:   "boom",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c, err := New(WithRules(test.rule))
			if err != nil {
				t.Fatal(err)
			}
			got, err := c.Fix(test.in)
			if err == nil {
				t.Fatal("no error")
			}
			if got != "" {
				t.Errorf("expected no output but got %q", got)
			}
			var cerr *errors.CorrectionError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected CorrectionError but got %T: %s", err, err)
			}
			if cerr.Rule != test.ruleName {
				t.Errorf("expected rule %q but got %q", test.ruleName, cerr.Rule)
			}
			if !strings.Contains(cerr.Reason, test.reason) {
				t.Errorf("%q does not contain %q", cerr.Reason, test.reason)
			}
			if cerr.Document != test.document {
				t.Errorf("expected document %d but got %d", test.document, cerr.Document)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("config defaults", func(t *testing.T) {
		c, err := New(WithConfig(&schema.Config{LineLength: 100}))
		if err != nil {
			t.Fatal(err)
		}
		expect := schema.Default()
		expect.LineLength = 100
		if diff := cmp.Diff(expect, c.Config()); diff != "" {
			t.Errorf("differs (-want +got):\n%s", diff)
		}
	})
	t.Run("explicit start disabled", func(t *testing.T) {
		c, err := New(WithConfig(&schema.Config{ExplicitStart: schema.Bool(false)}))
		if err != nil {
			t.Fatal(err)
		}
		got, err := c.Fix("---\na: 1\n")
		if err != nil {
			t.Fatal(err)
		}
		if got != "a: 1\n" {
			t.Errorf("unexpected output %q", got)
		}
	})
	t.Run("false and zero options", func(t *testing.T) {
		c, err := New(WithConfig(&schema.Config{
			ExplicitStart:  schema.Bool(false),
			Whitelines:     schema.Int(0),
			IndentSequence: 2,
			IndentOffset:   schema.Int(0),
		}))
		if err != nil {
			t.Fatal(err)
		}
		got, err := c.Fix("a: 1\n\nb:\n  - c\n")
		if err != nil {
			t.Fatal(err)
		}
		if expect := "a: 1\nb:\n- c\n"; got != expect {
			t.Errorf("expect %q but got %q", expect, got)
		}
	})
	t.Run("invalid config", func(t *testing.T) {
		_, err := New(WithConfig(&schema.Config{SequenceStyle: "inline"}))
		if err == nil {
			t.Fatal("no error")
		}
		if !strings.Contains(err.Error(), "invalid config") {
			t.Errorf("unexpected error %q", err)
		}
	})
	t.Run("nil logger", func(t *testing.T) {
		if _, err := New(WithLogger(nil)); err == nil {
			t.Fatal("no error")
		}
	})
	t.Run("no rules", func(t *testing.T) {
		c, err := New(WithRules())
		if err != nil {
			t.Fatal(err)
		}
		got, err := c.Fix("a:   1\n")
		if err != nil {
			t.Fatal(err)
		}
		if got != "a: 1\n" {
			t.Errorf("unexpected output %q", got)
		}
	})
}

func TestCorrectLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c, err := New(WithLogger(zap.New(core)))
	if err != nil {
		t.Fatal(err)
	}
	r, err := c.Correct(Source{Name: "a.yaml", Text: "a: 1\n"})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Changed || r.Name != "a.yaml" {
		t.Errorf("unexpected result %+v", r)
	}
	if got, expect := logs.FilterMessage("rule applied").Len(), len(rule.Default(c.Config())); got != expect {
		t.Errorf("expected %d rule logs but got %d", expect, got)
	}
	entries := logs.FilterMessage("source corrected").All()
	if len(entries) != 1 {
		t.Fatalf("expected one summary log but got %d", len(entries))
	}
	if changed := entries[0].ContextMap()["changed"]; changed != true {
		t.Errorf("expected changed=true but got %v", changed)
	}
}
