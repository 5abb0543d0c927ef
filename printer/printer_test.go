package printer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quwac/yamlfix/document"
	"github.com/quwac/yamlfix/parser"
	"github.com/quwac/yamlfix/printer"
)

func TestPrint(t *testing.T) {
	tests := map[string]struct {
		in     string
		expect string
	}{
		"mapping": {
			in: "a: 1\nb:\n  c: 2\n",
		},
		"null value": {
			in: "a:\nb: ~\n",
		},
		"documents": {
			in: "---\na: 1\n---\nb: 2\n",
		},
		"second document gets a marker": {
			in:     "a: 1\n---\nb: 2\n",
			expect: "a: 1\n---\nb: 2\n",
		},
		"empty document": {
			in: "---\n",
		},
		"end marker": {
			in: "a: 1\n...\n",
		},
		"directive": {
			in: "%YAML 1.1\n---\na: 1\n",
		},
		"comments": {
			in: "# head\na: 1  # inline\n\n# before\nb:\n  c: 2\n  # foot of b\n# foot\n",
		},
		"indented sequence": {
			in: "list:\n  - a\n  - b: 1\n    c: 2\n",
		},
		"sequence at key column": {
			in: "list:\n- a\n- b: 1\n  c: 2\n",
		},
		"nested sequences": {
			in: "a:\n  - - 1\n    - 2\n",
		},
		"block scalars": {
			in: "a: |\n  line1\n  line2\nb: >-\n  folded\n",
		},
		"keep chomping": {
			in: "a: |+\n  keep\n\n",
		},
		"indentation indicator": {
			in: "a: |2\n    indented\n  text\n",
		},
		"folded more indented lines": {
			in: "a: >-\n  x\n   y\n  z\n",
		},
		"sequence item indentation indicator": {
			in: "- |2\n    x\n",
		},
		"flow collections": {
			in: "a: [1, 2]\nb: {c: d}\nc: []\nd: {}\n",
		},
		"anchors and tags": {
			in: "key: &x value\nref: *x\ntagged: !Ref name\nmap: &m\n  a: 1\n",
		},
		"complex key": {
			in: "? [a, b]\n: 1\n",
		},
		"quotes": {
			in: "a: 'x'\nb: \"y\\n\"\nc: 'it''s'\n",
		},
		"flow sequence with comments": {
			in:     "a: [1,  # one\n  2]\n",
			expect: "a:\n- 1  # one\n- 2\n",
		},
		"root scalar": {
			in: "hello\n",
		},
		"root block scalar": {
			in: "--- |\n  text\n",
		},
		"root flow sequence with comment": {
			in: "[1, 2]  # numbers\n",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			docs, err := parser.Parse(test.in)
			if err != nil {
				t.Fatalf("failed to parse: %s", err)
			}
			expect := test.expect
			if expect == "" {
				expect = test.in
			}
			if diff := cmp.Diff(expect, printer.Print(docs)); diff != "" {
				t.Errorf("differs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrintCommentSpacing(t *testing.T) {
	docs, err := parser.Parse("a: 1  # c\nb:\n  - x    # d\n")
	if err != nil {
		t.Fatal(err)
	}
	p := &printer.Printer{CommentSpacing: 1}
	expect := "a: 1 # c\nb:\n  - x # d\n"
	if diff := cmp.Diff(expect, p.Print(docs)); diff != "" {
		t.Errorf("differs (-want +got):\n%s", diff)
	}
}

func TestPrintIndentation(t *testing.T) {
	docs, err := parser.Parse("a:\n  b:\n  - c\n")
	if err != nil {
		t.Fatal(err)
	}
	docs[0].Indent = document.Indentation{Mapping: 4, Sequence: 4, Offset: 2}
	expect := "a:\n    b:\n      - c\n"
	if diff := cmp.Diff(expect, printer.Print(docs)); diff != "" {
		t.Errorf("differs (-want +got):\n%s", diff)
	}
}

func TestInline(t *testing.T) {
	null := &document.Scalar{Meta: document.Meta{Tag: "!!null"}}
	tests := map[string]struct {
		node   document.Node
		ctx    printer.Context
		expect string
	}{
		"empty null in flow sequence": {
			node: &document.Sequence{
				Style: document.Flow,
				Items: []*document.Item{{Value: null}, {Value: &document.Scalar{Meta: document.Meta{Tag: "!!str"}, Value: "a"}}},
			},
			ctx:    printer.BlockValue,
			expect: "[null, a]",
		},
		"empty null as flow key": {
			node: &document.Mapping{
				Style: document.Flow,
				Pairs: []*document.Pair{{Key: null, Value: null}},
			},
			ctx:    printer.BlockValue,
			expect: "{null:}",
		},
		"unsafe plain in flow": {
			node:   &document.Scalar{Meta: document.Meta{Tag: "!!str"}, Value: "a, b"},
			ctx:    printer.FlowValue,
			expect: "'a, b'",
		},
		"multi-line single quoted": {
			node:   &document.Scalar{Meta: document.Meta{Tag: "!!str"}, Value: "a\nb", Style: document.SingleQuoted},
			ctx:    printer.BlockValue,
			expect: `"a\nb"`,
		},
		"block scalar in flow": {
			node:   &document.Scalar{Meta: document.Meta{Tag: "!!str"}, Value: "a\n", Style: document.Literal},
			ctx:    printer.FlowValue,
			expect: `"a\n"`,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(test.expect, printer.Inline(test.node, test.ctx)); diff != "" {
				t.Errorf("differs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsBlock(t *testing.T) {
	flow := &document.Sequence{
		Style: document.Flow,
		Items: []*document.Item{{Value: &document.Scalar{Meta: document.Meta{Tag: "!!int"}, Value: "1"}}},
	}
	if printer.IsBlock(flow) {
		t.Error("flow sequence without comments is not block")
	}
	flow.Items[0].Inline = "# c"
	if !printer.IsBlock(flow) {
		t.Error("flow sequence with comments is block")
	}
	if printer.IsBlock(&document.Mapping{}) {
		t.Error("empty mapping is not block")
	}
}
