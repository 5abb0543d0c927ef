package parser

import (
	"strings"

	"github.com/goccy/go-yaml/token"

	"github.com/quwac/yamlfix/document"
)

// span is the extent of a flow collection between its brackets.
// Lines and columns are 1-based and columns count bytes.
type span struct {
	startLine, startCol int
	endLine, endCol     int
}

func (s span) contains(line, col int) bool {
	if line < 1 || line < s.startLine || line > s.endLine {
		return false
	}
	if line == s.startLine && col <= s.startCol {
		return false
	}
	if line == s.endLine && col >= s.endCol {
		return false
	}
	return true
}

func (s span) before(o span) bool {
	if s.startLine != o.startLine {
		return s.startLine < o.startLine
	}
	return s.startCol < o.startCol
}

// lineRange is an inclusive range of 1-based lines.
type lineRange struct {
	from, to int
}

// layout holds what the goccy/go-yaml tokens of a chunk tell about its
// text: where flow collections and block scalars are and where the '-'
// indicators of block sequences stand.
type layout struct {
	lines  []string
	flows  []span
	blocks []lineRange
	// dashes holds the 1-based rune columns of '-' indicators by line.
	dashes map[int][]int
}

func newLayout(lines []string, tokens token.Tokens) *layout {
	l := &layout{lines: lines, dashes: map[int][]int{}}
	var open []*token.Token
	for i, tk := range tokens {
		if tk.Position == nil {
			continue
		}
		switch tk.Type {
		case token.SequenceStartType, token.MappingStartType:
			open = append(open, tk)
		case token.SequenceEndType, token.MappingEndType:
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			l.flows = append(l.flows, span{
				startLine: start.Position.Line,
				startCol:  l.byteColumn(start.Position),
				endLine:   tk.Position.Line,
				endCol:    l.byteColumn(tk.Position),
			})
		case token.SequenceEntryType:
			ln := tk.Position.Line
			l.dashes[ln] = append(l.dashes[ln], tk.Position.Column)
		case token.LiteralType, token.FoldedType:
			if r := l.blockRange(tokens[i:]); r.from <= r.to {
				l.blocks = append(l.blocks, r)
			}
		}
	}
	return l
}

// byteColumn converts the rune column of pos into a 1-based byte column.
func (l *layout) byteColumn(pos *token.Position) int {
	if pos.Line < 1 || pos.Line > len(l.lines) {
		return pos.Column
	}
	return runeOffset(l.lines[pos.Line-1], pos.Column-1) + 1
}

// blockRange returns the content lines of the block scalar whose header
// is tokens[0]. The content runs up to the first token after it.
func (l *layout) blockRange(tokens token.Tokens) lineRange {
	header := tokens[0]
	r := lineRange{from: header.Position.Line + 1, to: len(l.lines)}
	content := false
	for _, tk := range tokens[1:] {
		if tk.Position == nil {
			continue
		}
		if !content {
			if tk.Type == token.CommentType && tk.Position.Line == header.Position.Line {
				continue
			}
			if tk.Type == token.StringType {
				content = true
				continue
			}
		}
		r.to = tk.Position.Line - 1
		break
	}
	if r.to > len(l.lines) {
		r.to = len(l.lines)
	}
	if strings.Contains(header.Value, "+") {
		return r
	}
	for r.to >= r.from && strings.TrimSpace(l.lines[r.to-1]) == "" {
		r.to--
	}
	return r
}

// flowAt returns the first flow collection opening at or after the given
// 1-based position, which is where yaml.v3 reports the collection or the
// properties before its bracket.
func (l *layout) flowAt(line, column int) (span, bool) {
	if line < 1 || line > len(l.lines) {
		return span{}, false
	}
	at := span{startLine: line, startCol: runeOffset(l.lines[line-1], column-1) + 1}
	var found *span
	for i, sp := range l.flows {
		if sp.before(at) {
			continue
		}
		if found == nil || sp.before(*found) {
			found = &l.flows[i]
		}
	}
	if found == nil {
		return span{}, false
	}
	return *found, true
}

// markFlowCollections sets CommentsInside on flow collections holding
// comments and returns the spans of the other flow collections.
func (l *layout) markFlowCollections(root document.Node, comments []comment) []span {
	var atomic []span
	document.Walk(root, func(n document.Node) bool {
		var inside *bool
		switch n := n.(type) {
		case *document.Sequence:
			if n.Style != document.Flow {
				return true
			}
			inside = &n.CommentsInside
		case *document.Mapping:
			if n.Style != document.Flow {
				return true
			}
			inside = &n.CommentsInside
		default:
			return true
		}
		m := n.Properties()
		sp, ok := l.flowAt(m.Line, m.Column)
		if !ok {
			return true
		}
		for _, c := range comments {
			if sp.contains(c.line, c.col) {
				*inside = true
				break
			}
		}
		if !*inside {
			atomic = append(atomic, sp)
		}
		return true
	})
	return atomic
}

// coveredLines returns the lines that belong to scalar or flow content,
// where blank lines and '#' are not trivia.
func (l *layout) coveredLines(spans []span) map[int]bool {
	covered := map[int]bool{}
	for _, sp := range spans {
		for ln := sp.startLine + 1; ln <= sp.endLine; ln++ {
			covered[ln] = true
		}
	}
	for _, r := range l.blocks {
		for ln := r.from; ln <= r.to; ln++ {
			covered[ln] = true
		}
	}
	return covered
}

// dashColumn returns the 1-based column of the '-' indicators of a block
// sequence, or -1 when it cannot be found.
func (l *layout) dashColumn(seq *document.Sequence) int {
	if len(seq.Items) == 0 {
		return -1
	}
	m := seq.Items[0].Value.Properties()
	dash := -1
	for _, col := range l.dashes[m.Line] {
		if col < m.Column && col > dash {
			dash = col
		}
	}
	if dash > 0 {
		return dash
	}
	if seq.Anchor == "" && !seq.ExplicitTag && seq.Column > 0 {
		return seq.Column
	}
	return -1
}
