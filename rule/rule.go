// Package rule provides the corrections applied to documents.
package rule

import (
	"github.com/quwac/yamlfix/document"
	"github.com/quwac/yamlfix/schema"
)

// Rule rewrites a document in place. A rule must keep the value of the
// document unchanged and must be idempotent.
type Rule interface {
	Name() string
	Apply(*document.Document) error
}

// Func adapts a function to a Rule.
type Func struct {
	name string
	fn   func(*document.Document) error
}

// New returns a Rule named name that calls fn.
func New(name string, fn func(*document.Document) error) *Func {
	return &Func{name: name, fn: fn}
}

// Name implements Rule interface.
func (f *Func) Name() string { return f.name }

// Apply implements Rule interface.
func (f *Func) Apply(doc *document.Document) error { return f.fn(doc) }

// Default returns the rules in the order they are applied.
// cfg must be completed with (*schema.Config).WithDefaults.
func Default(cfg *schema.Config) []Rule {
	indent := document.Indentation{
		Mapping:  cfg.IndentMapping,
		Sequence: cfg.IndentSequence,
		Offset:   deref(cfg.IndentOffset),
	}
	return []Rule{
		&DocumentStart{Explicit: schema.IsTrue(cfg.ExplicitStart)},
		&CollectionStyle{Sequence: cfg.SequenceStyle, LineLength: cfg.LineLength, Indent: indent},
		&BooleanNormalization{Enabled: schema.IsTrue(cfg.NormalizeBooleans)},
		NewQuoteNormalization(cfg),
		&CommentSpacing{Enabled: schema.IsTrue(cfg.CommentsRequireStartingSpace)},
		&TrailingWhitespace{},
		&Indentation{Indent: indent},
		&BlankLineCollapse{Max: deref(cfg.Whitelines)},
		&TrailingNewline{},
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// DocumentStart makes the document start marker explicit.
type DocumentStart struct {
	Explicit bool
}

// Name implements Rule interface.
func (*DocumentStart) Name() string { return "document-start" }

// Apply implements Rule interface.
func (r *DocumentStart) Apply(doc *document.Document) error {
	doc.ExplicitStart = r.Explicit
	return nil
}

// Indentation stamps the indentation used by the printer.
type Indentation struct {
	Indent document.Indentation
}

// Name implements Rule interface.
func (*Indentation) Name() string { return "indentation" }

// Apply implements Rule interface.
func (r *Indentation) Apply(doc *document.Document) error {
	doc.Indent = r.Indent
	return nil
}

// BooleanNormalization writes booleans in lower case.
type BooleanNormalization struct {
	Enabled bool
}

// Name implements Rule interface.
func (*BooleanNormalization) Name() string { return "boolean-normalization" }

// Apply implements Rule interface.
func (r *BooleanNormalization) Apply(doc *document.Document) error {
	if !r.Enabled {
		return nil
	}
	document.Walk(doc.Root, func(n document.Node) bool {
		s, ok := n.(*document.Scalar)
		if !ok || s.Tag != "!!bool" || s.ExplicitTag || s.Style != document.Plain {
			return true
		}
		switch s.Value {
		case "True", "TRUE":
			s.Value = "true"
		case "False", "FALSE":
			s.Value = "false"
		}
		return true
	})
	return nil
}
