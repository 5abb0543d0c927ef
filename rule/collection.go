package rule

import (
	"github.com/quwac/yamlfix/document"
	"github.com/quwac/yamlfix/printer"
	"github.com/quwac/yamlfix/schema"
)

// CollectionStyle turns flow collections holding comments into block
// collections and applies the sequence style.
type CollectionStyle struct {
	Sequence   schema.SequenceStyle
	LineLength int
	Indent     document.Indentation
}

// Name implements Rule interface.
func (*CollectionStyle) Name() string { return "collection-style" }

// Apply implements Rule interface.
func (r *CollectionStyle) Apply(doc *document.Document) error {
	r.visit(doc.Root, 0, 0)
	return nil
}

// visit walks values, not keys: a key can only be written in flow style.
// indent is the column of the entries of a block collection n and prefix
// the width of the text before n on its first line.
func (r *CollectionStyle) visit(n document.Node, indent, prefix int) {
	switch n := n.(type) {
	case *document.Mapping:
		if n.Style == document.Flow && n.CommentsInside {
			n.Style = document.Block
		}
		if n.Style == document.Flow {
			return
		}
		for _, p := range n.Pairs {
			key := printer.Inline(p.Key, printer.BlockKey)
			r.visitValue(p.Value, indent, indent+len(key)+2)
		}
	case *document.Sequence:
		switch {
		case n.Style == document.Flow && (n.CommentsInside || r.Sequence == schema.BlockStyle):
			n.Style = document.Block
		case n.Style == document.Block && r.Sequence == schema.FlowStyle && r.fits(n, prefix):
			n.Style = document.Flow
		}
		if n.Style == document.Flow {
			return
		}
		gap := r.Indent.Sequence - r.Indent.Offset
		for _, item := range n.Items {
			r.visit(item.Value, indent+gap, indent+gap)
		}
	}
}

// visitValue visits the value of a pair whose key is at column indent.
func (r *CollectionStyle) visitValue(v document.Node, indent, prefix int) {
	switch v.(type) {
	case *document.Mapping:
		r.visit(v, indent+r.Indent.Mapping, prefix)
	case *document.Sequence:
		r.visit(v, indent+r.Indent.Offset, prefix)
	}
}

// fits reports whether seq can be written on the line after prefix.
// Only sequences of scalars without comments are candidates.
func (r *CollectionStyle) fits(seq *document.Sequence, prefix int) bool {
	if len(seq.Items) == 0 || len(seq.Foot) > 0 {
		return false
	}
	for _, item := range seq.Items {
		if len(item.Before) > 0 || item.Inline != "" {
			return false
		}
		switch v := item.Value.(type) {
		case *document.Scalar:
			if v.Style.IsBlock() || document.IsNullEmpty(v) {
				return false
			}
		case *document.Alias:
		default:
			return false
		}
	}
	flow := *seq
	flow.Style = document.Flow
	return prefix+len(printer.Inline(&flow, printer.BlockValue)) <= r.LineLength
}
