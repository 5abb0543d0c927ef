// Package printer renders document trees as YAML text.
package printer

import (
	"strings"

	"github.com/quwac/yamlfix/document"
)

const defaultCommentSpacing = 2

// maxImplicitKey is the longest key written without the '?' indicator.
const maxImplicitKey = 1024

// Printer renders documents. The zero value is ready to use.
type Printer struct {
	// CommentSpacing is the number of spaces between content and an
	// inline comment.
	CommentSpacing int
}

// Print renders docs with the default Printer.
func Print(docs []*document.Document) string {
	var p Printer
	return p.Print(docs)
}

// Print renders docs joined by document start markers.
func (p *Printer) Print(docs []*document.Document) string {
	s := p.newState()
	for i, doc := range docs {
		if i > 0 && len(doc.Directives) > 0 && !docs[i-1].ExplicitEnd {
			s.b.WriteString("...\n")
		}
		s.document(doc, i == 0)
	}
	return s.b.String()
}

// PrintDocument renders a single document.
func (p *Printer) PrintDocument(doc *document.Document) string {
	return p.Print([]*document.Document{doc})
}

type state struct {
	b       strings.Builder
	ind     document.Indentation
	spacing int
	// prefix replaces the indentation of the next line; it holds the
	// '-' indicators of compact sequence entries.
	prefix string
}

func (p *Printer) newState() *state {
	spacing := p.CommentSpacing
	if spacing <= 0 {
		spacing = defaultCommentSpacing
	}
	return &state{spacing: spacing}
}

func (s *state) document(doc *document.Document, first bool) {
	s.ind = doc.Indent
	if s.ind.IsZero() {
		s.ind = document.DefaultIndentation
	}
	if s.ind.Mapping < 1 {
		s.ind.Mapping = 1
	}
	if s.ind.Sequence-s.ind.Offset < 2 {
		s.ind.Sequence = s.ind.Offset + 2
	}

	for _, d := range doc.Directives {
		s.b.WriteString(d)
		s.b.WriteByte('\n')
	}
	explicit := doc.ExplicitStart || !first || len(doc.Directives) > 0

	root := doc.Root
	if doc.IsEmpty() {
		if explicit {
			s.line(0, "---", "")
		}
		s.trivia(0, doc.Head)
		if doc.Inline != "" {
			s.line(0, doc.Inline, "")
		}
		s.trivia(0, doc.Foot)
		s.end(doc)
		return
	}

	props := properties(root)
	switch n := root.(type) {
	case *document.Scalar:
		if blockFits(n, s.ind.Mapping) {
			s.trivia(0, doc.Head)
			header := join(props, blockHeader(n, s.ind.Mapping))
			if explicit {
				header = "--- " + header
			}
			s.line(0, header, doc.Inline)
			s.blockBody(n, s.ind.Mapping)
			s.trivia(0, doc.Foot)
			s.end(doc)
			return
		}
	case *document.Mapping, *document.Sequence:
		if IsBlock(n) {
			if explicit {
				s.line(0, join("---", props), "")
				s.trivia(0, doc.Head)
			} else {
				s.trivia(0, doc.Head)
				if props != "" {
					s.line(0, props, "")
				}
			}
			if doc.Inline != "" {
				s.line(0, doc.Inline, "")
			}
			if m, ok := n.(*document.Mapping); ok {
				s.mapping(m, 0)
			} else {
				s.sequence(n.(*document.Sequence), 0)
			}
			s.trivia(0, doc.Foot)
			s.end(doc)
			return
		}
	}

	if explicit {
		s.line(0, "---", "")
	}
	s.trivia(0, doc.Head)
	s.line(0, s.inline(root, BlockValue), doc.Inline)
	s.trivia(0, doc.Foot)
	s.end(doc)
}

func (s *state) end(doc *document.Document) {
	if doc.ExplicitEnd {
		s.line(0, "...", "")
	}
}

// line writes one line. inline is an optional trailing comment.
func (s *state) line(indent int, text, inline string) {
	if s.prefix != "" {
		s.b.WriteString(s.prefix)
		if rest := indent - len(s.prefix); rest > 0 {
			s.b.WriteString(strings.Repeat(" ", rest))
		}
		s.prefix = ""
	} else if text != "" {
		s.b.WriteString(strings.Repeat(" ", indent))
	}
	s.b.WriteString(text)
	if inline != "" {
		if text != "" {
			s.b.WriteString(strings.Repeat(" ", s.spacing))
		} else {
			s.b.WriteString(strings.Repeat(" ", indent))
		}
		s.b.WriteString(inline)
	}
	s.b.WriteByte('\n')
}

func (s *state) trivia(indent int, ts []document.Trivia) {
	for _, t := range ts {
		if t.Blank {
			s.b.WriteByte('\n')
			continue
		}
		s.b.WriteString(strings.Repeat(" ", indent))
		s.b.WriteString(t.Comment)
		s.b.WriteByte('\n')
	}
}

func (s *state) mapping(m *document.Mapping, indent int) {
	for _, p := range m.Pairs {
		s.trivia(indent, p.Before)
		s.pair(p, indent)
	}
	s.trivia(indent, m.Foot)
}

func (s *state) pair(p *document.Pair, indent int) {
	key, explicit := s.key(p.Key)
	if explicit {
		s.line(indent, join("?", key), "")
		s.value(indent, ":", p.Value, p.Inline)
		return
	}
	s.value(indent, key+":", p.Value, p.Inline)
}

// key returns the text of a mapping key and whether it needs the '?'
// indicator.
func (s *state) key(k document.Node) (string, bool) {
	switch k := k.(type) {
	case *document.Scalar:
		if document.IsNullEmpty(k) {
			return "", true
		}
		text := s.inline(k, BlockKey)
		return text, len(text) > maxImplicitKey
	case *document.Alias:
		return "*" + k.Name + " ", false
	}
	return s.inline(k, FlowKey), true
}

// value writes a node that follows prefix on the current line, such as
// a mapping value after "key:".
func (s *state) value(indent int, prefix string, v document.Node, inline string) {
	props := properties(v)
	switch n := v.(type) {
	case *document.Mapping:
		if IsBlock(n) {
			s.line(indent, join(prefix, props), inline)
			s.mapping(n, indent+s.ind.Mapping)
			return
		}
	case *document.Sequence:
		if IsBlock(n) {
			s.line(indent, join(prefix, props), inline)
			s.sequence(n, indent+s.ind.Offset)
			return
		}
	case *document.Scalar:
		if blockFits(n, s.ind.Mapping) {
			s.line(indent, join(prefix, join(props, blockHeader(n, s.ind.Mapping))), inline)
			s.blockBody(n, indent+s.ind.Mapping)
			return
		}
	}
	s.line(indent, join(prefix, s.inline(v, BlockValue)), inline)
}

func (s *state) sequence(seq *document.Sequence, dash int) {
	gap := s.ind.Sequence - s.ind.Offset
	for _, item := range seq.Items {
		s.trivia(dash, item.Before)
		s.item(item, dash, gap)
	}
	s.trivia(dash+gap, seq.Foot)
}

func (s *state) item(item *document.Item, dash, gap int) {
	indicator := "-" + strings.Repeat(" ", gap-1)
	content := dash + gap
	props := properties(item.Value)
	switch n := item.Value.(type) {
	case *document.Mapping:
		if IsBlock(n) {
			if props == "" && item.Inline == "" && len(n.Pairs[0].Before) == 0 {
				s.compact(dash, indicator)
				s.mapping(n, content)
				return
			}
			s.line(dash, strings.TrimRight(indicator+props, " "), item.Inline)
			s.mapping(n, content)
			return
		}
	case *document.Sequence:
		if IsBlock(n) {
			if props == "" && item.Inline == "" && len(n.Items[0].Before) == 0 {
				s.compact(dash, indicator)
				s.sequence(n, content)
				return
			}
			s.line(dash, strings.TrimRight(indicator+props, " "), item.Inline)
			s.sequence(n, content)
			return
		}
	case *document.Scalar:
		if blockFits(n, gap) {
			s.line(dash, indicator+join(props, blockHeader(n, gap)), item.Inline)
			s.blockBody(n, content)
			return
		}
	}
	text := s.inline(item.Value, BlockValue)
	if text == "" {
		s.line(dash, "-", item.Inline)
		return
	}
	s.line(dash, indicator+text, item.Inline)
}

// compact makes the next line start with a '-' indicator at column dash.
func (s *state) compact(dash int, indicator string) {
	if len(s.prefix) < dash {
		s.prefix += strings.Repeat(" ", dash-len(s.prefix))
	}
	s.prefix += indicator
}

func (s *state) blockBody(n *document.Scalar, indent int) {
	pad := strings.Repeat(" ", indent)
	for _, line := range blockBody(n) {
		if line != "" {
			s.b.WriteString(pad)
			s.b.WriteString(line)
		}
		s.b.WriteByte('\n')
	}
}

// Inline renders n on a single line as it is written in ctx.
func Inline(n document.Node, ctx Context) string {
	var s state
	return s.inline(n, ctx)
}

// inline renders a node on a single line.
func (s *state) inline(n document.Node, ctx Context) string {
	props := properties(n)
	switch n := n.(type) {
	case *document.Scalar:
		return join(props, scalarText(n, ctx))
	case *document.Alias:
		return "*" + n.Name
	case *document.Sequence:
		items := make([]string, 0, len(n.Items))
		for _, item := range n.Items {
			items = append(items, s.flowEntry(item.Value, FlowValue))
		}
		return join(props, "["+strings.Join(items, ", ")+"]")
	case *document.Mapping:
		pairs := make([]string, 0, len(n.Pairs))
		for _, p := range n.Pairs {
			k := s.flowEntry(p.Key, FlowKey)
			if _, ok := p.Key.(*document.Alias); ok {
				k += " "
			}
			pairs = append(pairs, join(k+":", s.inline(p.Value, FlowValue)))
		}
		return join(props, "{"+strings.Join(pairs, ", ")+"}")
	}
	return ""
}

// flowEntry renders a flow sequence item or flow mapping key, where an
// empty null cannot be written as nothing.
func (s *state) flowEntry(n document.Node, ctx Context) string {
	if document.IsNullEmpty(n) {
		return "null"
	}
	return s.inline(n, ctx)
}

// scalarText renders a scalar without block styles, falling back to the
// closest representable quoting when its style cannot be used in ctx.
func scalarText(n *document.Scalar, ctx Context) string {
	switch n.Style {
	case document.Plain:
		if PlainSafe(n, ctx) {
			return n.Value
		}
		if SingleQuotable(n.Value) {
			return SingleQuote(n.Value)
		}
	case document.SingleQuoted:
		if SingleQuotable(n.Value) {
			return SingleQuote(n.Value)
		}
	}
	return DoubleQuote(n.Value)
}

// properties returns the anchor and explicit tag of n.
func properties(n document.Node) string {
	if n == nil {
		return ""
	}
	m := n.Properties()
	var props []string
	if m.Anchor != "" {
		props = append(props, "&"+m.Anchor)
	}
	if m.ExplicitTag {
		props = append(props, tagText(m.Tag))
	}
	return strings.Join(props, " ")
}

// IsBlock reports whether a collection is written in block style. Empty
// collections and flow collections whose entries carry comments are
// written in the only style that can hold them.
func IsBlock(n document.Node) bool {
	switch n := n.(type) {
	case *document.Mapping:
		if len(n.Pairs) == 0 {
			return false
		}
		if n.Style == document.Block {
			return true
		}
		for _, p := range n.Pairs {
			if len(p.Before) > 0 || p.Inline != "" {
				return true
			}
		}
		return len(n.Foot) > 0
	case *document.Sequence:
		if len(n.Items) == 0 {
			return false
		}
		if n.Style == document.Block {
			return true
		}
		for _, item := range n.Items {
			if len(item.Before) > 0 || item.Inline != "" {
				return true
			}
		}
		return len(n.Foot) > 0
	}
	return false
}

func join(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
