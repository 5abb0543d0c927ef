package rule

import (
	"regexp"
	"strings"

	"github.com/quwac/yamlfix/document"
	"github.com/quwac/yamlfix/printer"
	"github.com/quwac/yamlfix/schema"
)

// yaml11Pattern matches plain scalars that YAML 1.1 readers resolve to
// something other than a string.
var yaml11Pattern = regexp.MustCompile(`^(?:` +
	`y|Y|yes|Yes|YES|n|N|no|No|NO|on|On|ON|off|Off|OFF|` +
	`true|True|TRUE|false|False|FALSE|~|null|Null|NULL|=|<<|` +
	`[-+]?0b[0-1_]+|` +
	`[-+]?0[0-7_]+|` +
	`[-+]?0x[0-9a-fA-F_]+|` +
	`[-+]?(?:0|[1-9][0-9_]*)|` +
	`[-+]?[1-9][0-9_]*(?::[0-5]?[0-9])+(?:\.[0-9_]*)?|` +
	`[-+]?[0-9][0-9_]*\.[0-9_]*(?:[eE][-+]?[0-9]+)?|` +
	`[-+]?\.[0-9][0-9_]*(?:[eE][-+]?[0-9]+)?|` +
	`[-+]?[0-9][0-9_]*(?:[eE][-+]?[0-9]+)|` +
	`[-+]?\.(?:inf|Inf|INF)|\.(?:nan|NaN|NAN)` +
	`)$`)

// Ambiguous reports whether v would not be read as a string by a YAML 1.1
// reader when written without quotes.
func Ambiguous(v string) bool {
	return yaml11Pattern.MatchString(v)
}

// QuoteNormalization chooses the quoting of strings.
type QuoteNormalization struct {
	// Quote is the preferred quote character, ' or ".
	Quote byte
	// Preserve keeps quoted strings quoted.
	Preserve bool
	// QuoteValues quotes every string value.
	QuoteValues bool
	// QuoteKeys quotes every string key and value.
	QuoteKeys bool
}

// NewQuoteNormalization returns a QuoteNormalization configured by cfg.
func NewQuoteNormalization(cfg *schema.Config) *QuoteNormalization {
	q := byte('\'')
	if cfg.QuoteRepresentation == `"` {
		q = '"'
	}
	return &QuoteNormalization{
		Quote:       q,
		Preserve:    schema.IsTrue(cfg.PreserveQuotes),
		QuoteValues: schema.IsTrue(cfg.QuoteBasicValues),
		QuoteKeys:   schema.IsTrue(cfg.QuoteKeysAndBasicValues),
	}
}

// Name implements Rule interface.
func (*QuoteNormalization) Name() string { return "quote-normalization" }

// Apply implements Rule interface.
func (r *QuoteNormalization) Apply(doc *document.Document) error {
	r.visit(doc.Root, printer.BlockValue, false)
	return nil
}

func (r *QuoteNormalization) visit(n document.Node, ctx printer.Context, key bool) {
	switch n := n.(type) {
	case *document.Scalar:
		r.normalize(n, ctx, key)
	case *document.Sequence:
		itemCtx := printer.BlockValue
		if ctx.IsFlow() || !printer.IsBlock(n) {
			itemCtx = printer.FlowValue
		}
		for _, item := range n.Items {
			r.visit(item.Value, itemCtx, false)
		}
	case *document.Mapping:
		keyCtx, valueCtx := printer.BlockKey, printer.BlockValue
		if ctx.IsFlow() || !printer.IsBlock(n) {
			keyCtx, valueCtx = printer.FlowKey, printer.FlowValue
		}
		for _, p := range n.Pairs {
			kc := keyCtx
			if _, ok := p.Key.(*document.Scalar); !ok {
				kc = printer.FlowKey
			}
			r.visit(p.Key, kc, true)
			r.visit(p.Value, valueCtx, false)
		}
	}
}

func (r *QuoteNormalization) normalize(s *document.Scalar, ctx printer.Context, key bool) {
	if !s.IsString() {
		return
	}
	if s.Style.IsBlock() {
		if !key && !ctx.IsFlow() && printer.BlockUsable(s) {
			return
		}
		s.Style = document.DoubleQuoted
	}
	if r.Preserve && s.Style.IsQuoted() {
		if s.Style == document.SingleQuoted && !printer.SingleQuotable(s.Value) {
			s.Style = document.DoubleQuoted
		}
		return
	}
	if s.Tag == "!!str" && ((key && r.QuoteKeys) || (!key && (r.QuoteValues || r.QuoteKeys))) {
		s.Style = r.quoted(s.Value)
		return
	}
	safe := printer.PlainSafe(s, ctx)
	switch {
	case s.Style == document.Plain && safe:
	case s.Style.IsQuoted() && safe && !Ambiguous(s.Value):
		s.Style = document.Plain
	default:
		s.Style = r.quoted(s.Value)
	}
}

// quoted returns the quote style for v, preferring the quote that needs
// no escaping.
func (r *QuoteNormalization) quoted(v string) document.ScalarStyle {
	if !printer.SingleQuotable(v) {
		return document.DoubleQuoted
	}
	hasSingle := strings.Contains(v, "'")
	hasDouble := strings.ContainsAny(v, `"\`)
	if r.Quote == '"' {
		if hasDouble && !hasSingle {
			return document.SingleQuoted
		}
		return document.DoubleQuoted
	}
	if hasSingle && !hasDouble {
		return document.DoubleQuoted
	}
	return document.SingleQuoted
}
