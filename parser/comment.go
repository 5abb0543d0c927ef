package parser

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/token"

	"github.com/quwac/yamlfix/document"
	"github.com/quwac/yamlfix/errors"
)

type comment struct {
	line int
	// col is the 1-based byte column of '#'.
	col    int
	text   string
	inline bool
}

// tokenize runs the goccy/go-yaml lexer over text. The lexer knows when
// a '#' or a bracket belongs to a quoted or block scalar.
func tokenize(text string) (tokens token.Tokens, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("failed to tokenize: %v", r)
		}
	}()
	return lexer.Tokenize(text), nil
}

// scanComments returns the comments found in tokens, one per line.
func scanComments(lines []string, tokens token.Tokens) []comment {
	var comments []comment
	seen := map[int]bool{}
	for _, tk := range tokens {
		if tk.Type != token.CommentType || tk.Position == nil {
			continue
		}
		ln := tk.Position.Line
		if ln < 1 || ln > len(lines) || seen[ln] {
			continue
		}
		line := lines[ln-1]
		idx := commentIndex(line, tk.Position.Column)
		if idx < 0 {
			continue
		}
		seen[ln] = true
		comments = append(comments, comment{
			line:   ln,
			col:    idx + 1,
			text:   strings.TrimRight(line[idx:], " \t"),
			inline: strings.TrimSpace(line[:idx]) != "",
		})
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].line < comments[j].line })
	return comments
}

// commentIndex returns the byte offset of the '#' starting the comment of
// line closest to the 1-based rune column hint.
func commentIndex(line string, column int) int {
	hint := runeOffset(line, column-1)
	best := -1
	for i := 0; i < len(line); i++ {
		if line[i] != '#' || (i > 0 && line[i-1] != ' ' && line[i-1] != '\t') {
			continue
		}
		if best < 0 || abs(i-hint) < abs(best-hint) {
			best = i
		}
	}
	return best
}

// runeOffset converts a 0-based rune index into a byte offset of s.
func runeOffset(s string, n int) int {
	if n <= 0 {
		return 0
	}
	i := 0
	for n > 0 && i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return i
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// collection is a block collection comments can be attached to as foot.
type collection struct {
	col  int
	foot *[]document.Trivia
}

// slot is an entry comments can be attached to.
type slot struct {
	line   int
	col    int
	before *[]document.Trivia
	inline *string
	chain  []*collection
}

type associator struct {
	layout *layout
	slots  []*slot
}

type event struct {
	line  int
	col   int
	text  string
	blank bool
}

// associate attaches comments and blank lines of a document to its
// entries by line proximity.
func associate(doc *document.Document, l *layout, comments []comment, covered map[int]bool) {
	a := &associator{layout: l}
	if doc.Root != nil {
		m := doc.Root.Properties()
		a.add(&slot{line: m.Line, col: m.Column, before: &doc.Head, inline: &doc.Inline})
		a.visit(doc.Root, nil)
	}

	byLine := map[int]comment{}
	for _, c := range comments {
		if !covered[c.line] {
			byLine[c.line] = c
		}
	}

	var events []event
	for i, line := range l.lines {
		ln := i + 1
		if covered[ln] {
			continue
		}
		if c, ok := byLine[ln]; ok {
			if c.inline {
				if s := a.owner(ln); s != nil && *s.inline == "" {
					*s.inline = c.text
					continue
				}
			}
			events = append(events, event{line: ln, col: c.col, text: c.text})
			continue
		}
		if strings.TrimSpace(line) == "" {
			events = append(events, event{line: ln, blank: true})
		}
	}

	for i := 0; i < len(events); {
		next := a.nextSlot(events[i].line)
		j := i + 1
		for j < len(events) && a.nextSlot(events[j].line) == next {
			j++
		}
		a.place(doc, events[i:j], next)
		i = j
	}
}

func (a *associator) add(s *slot) {
	if n := len(a.slots); n > 0 && s.line < a.slots[n-1].line {
		s.line = a.slots[n-1].line
	}
	a.slots = append(a.slots, s)
}

func (a *associator) visit(n document.Node, chain []*collection) {
	switch n := n.(type) {
	case *document.Sequence:
		if len(n.Items) == 0 || (n.Style == document.Flow && !n.CommentsInside) {
			return
		}
		dash := -1
		if n.Style == document.Block {
			dash = a.layout.dashColumn(n)
		}
		c := &collection{foot: &n.Foot}
		if dash > 0 {
			c.col = dash + 1
		} else {
			c.col = n.Items[0].Value.Properties().Column
		}
		inner := append(chain[:len(chain):len(chain)], c)
		for _, item := range n.Items {
			m := item.Value.Properties()
			col := m.Column
			if dash > 0 {
				col = dash
			}
			a.add(&slot{line: m.Line, col: col, before: &item.Before, inline: &item.Inline, chain: inner})
			a.visit(item.Value, inner)
		}
	case *document.Mapping:
		if len(n.Pairs) == 0 || (n.Style == document.Flow && !n.CommentsInside) {
			return
		}
		c := &collection{col: n.Pairs[0].Key.Properties().Column, foot: &n.Foot}
		inner := append(chain[:len(chain):len(chain)], c)
		for _, p := range n.Pairs {
			m := p.Key.Properties()
			a.add(&slot{line: m.Line, col: m.Column, before: &p.Before, inline: &p.Inline, chain: inner})
			a.visit(p.Value, inner)
		}
	}
}

// owner returns the last entry starting on or before line.
func (a *associator) owner(line int) *slot {
	i := a.nextSlot(line)
	if i == 0 {
		return nil
	}
	return a.slots[i-1]
}

// nextSlot returns the index of the first entry starting after line.
func (a *associator) nextSlot(line int) int {
	return sort.Search(len(a.slots), func(i int) bool { return a.slots[i].line > line })
}

// place attaches a run of trivia lines found between two entries.
// A comment indented deeper than the following entry stays with the
// closest collection that ends before that entry.
func (a *associator) place(doc *document.Document, events []event, nextIdx int) {
	var prev, next *slot
	if nextIdx > 0 {
		prev = a.slots[nextIdx-1]
	}
	if nextIdx < len(a.slots) {
		next = a.slots[nextIdx]
	}

	var feet []*collection
	if prev != nil {
		for k := len(prev.chain) - 1; k >= 0; k-- {
			c := prev.chain[k]
			if next != nil && containsCollection(next.chain, c) {
				break
			}
			feet = append(feet, c)
		}
	}
	target := func(level int) *[]document.Trivia {
		switch {
		case level < len(feet):
			return feet[level].foot
		case next != nil:
			return next.before
		case prev == nil:
			return &doc.Head
		}
		return &doc.Foot
	}

	level := 0
	blanks := 0
	commented := false
	for _, e := range events {
		if e.blank {
			blanks++
			continue
		}
		l := len(feet)
		if next == nil || e.col > next.col {
			for k, c := range feet {
				if c.col <= e.col {
					l = k
					break
				}
			}
		}
		if l < level {
			l = level
		}
		level = l
		commented = true
		t := target(level)
		for ; blanks > 0; blanks-- {
			*t = append(*t, document.BlankLine())
		}
		*t = append(*t, document.CommentLine(e.text))
	}
	if blanks == 0 {
		return
	}
	if !commented {
		level = len(feet)
	}
	t := target(level)
	for ; blanks > 0; blanks-- {
		*t = append(*t, document.BlankLine())
	}
}

func containsCollection(chain []*collection, c *collection) bool {
	for _, x := range chain {
		if x == c {
			return true
		}
	}
	return false
}
