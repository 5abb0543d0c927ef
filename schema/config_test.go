package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConfig_WithDefaults(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		var c *Config
		got, err := c.WithDefaults()
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(Default(), got); diff != "" {
			t.Errorf("differs (-want +got):\n%s", diff)
		}
	})
	t.Run("keep set values", func(t *testing.T) {
		c := &Config{
			ExplicitStart: Bool(false),
			IndentMapping: 4,
			Whitelines:    Int(0),
			Exclude:       []string{"vendor"},
		}
		got, err := c.WithDefaults()
		if err != nil {
			t.Fatal(err)
		}
		expect := Default()
		expect.ExplicitStart = Bool(false)
		expect.IndentMapping = 4
		expect.Whitelines = Int(0)
		expect.Exclude = []string{"vendor"}
		if diff := cmp.Diff(expect, got); diff != "" {
			t.Errorf("differs (-want +got):\n%s", diff)
		}
		if c.IndentSequence != 0 || c.NormalizeBooleans != nil {
			t.Errorf("the original config was modified: %+v", c)
		}
	})
}

func TestConfig_WithDefaultsKeepsFalseAndZero(t *testing.T) {
	c := &Config{
		ExplicitStart:                Bool(false),
		IndentSequence:               2,
		IndentOffset:                 Int(0),
		PreserveQuotes:               Bool(false),
		Whitelines:                   Int(0),
		CommentsRequireStartingSpace: Bool(false),
		NormalizeBooleans:            Bool(false),
	}
	got, err := c.WithDefaults()
	if err != nil {
		t.Fatal(err)
	}
	expect := Default()
	expect.ExplicitStart = Bool(false)
	expect.IndentSequence = 2
	expect.IndentOffset = Int(0)
	expect.Whitelines = Int(0)
	expect.CommentsRequireStartingSpace = Bool(false)
	expect.NormalizeBooleans = Bool(false)
	if diff := cmp.Diff(expect, got); diff != "" {
		t.Errorf("differs (-want +got):\n%s", diff)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		modify func(*Config)
		expect []string
	}{
		"default": {
			modify: func(*Config) {},
		},
		"double quote": {
			modify: func(c *Config) { c.QuoteRepresentation = `"` },
		},
		"invalid quote": {
			modify: func(c *Config) { c.QuoteRepresentation = "`" },
			expect: []string{"quote_representation"},
		},
		"invalid sequence style": {
			modify: func(c *Config) { c.SequenceStyle = "inline" },
			expect: []string{`unknown sequence_style "inline"`},
		},
		"sequence narrower than offset": {
			modify: func(c *Config) { c.IndentSequence = 3 },
			expect: []string{"indent_sequence must be at least indent_offset + 2: 3 < 4"},
		},
		"several errors": {
			modify: func(c *Config) {
				c.IndentMapping = -1
				c.Whitelines = Int(-1)
				c.LineLength = -1
			},
			expect: []string{"indent_mapping", "whitelines", "line_length"},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			test.modify(c)
			err := c.Validate()
			if len(test.expect) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %s", err)
				}
				return
			}
			if err == nil {
				t.Fatal("no error")
			}
			for _, e := range test.expect {
				if !strings.Contains(err.Error(), e) {
					t.Errorf("%q does not contain %q", err.Error(), e)
				}
			}
		})
	}
}
