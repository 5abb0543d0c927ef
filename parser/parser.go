// Package parser builds document trees from YAML text.
package parser

import (
	stderrors "errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quwac/yamlfix/document"
	"github.com/quwac/yamlfix/errors"
)

// Option configures Parse.
type Option func(*options)

type options struct {
	name   string
	single bool
}

// WithName sets the source name reported by parse errors.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// SingleDocument makes Parse fail when the source holds more than one document.
func SingleDocument() Option {
	return func(o *options) {
		o.single = true
	}
}

// Parse parses src into documents.
func Parse(src string, opts ...Option) ([]*document.Document, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	src = Normalize(src)
	docs, err := parse(src, o)
	if err != nil {
		return nil, errors.WithSource(err, o.name)
	}
	return docs, nil
}

// Normalize converts line breaks to LF and removes a leading byte order mark.
func Normalize(src string) string {
	src = strings.TrimPrefix(src, "\ufeff")
	if strings.Contains(src, "\r") {
		src = strings.ReplaceAll(src, "\r\n", "\n")
		src = strings.ReplaceAll(src, "\r", "\n")
	}
	return src
}

func parse(src string, o *options) ([]*document.Document, error) {
	var (
		docs    []*document.Document
		starts  []int
		pending []document.Trivia
	)
	chunks := split(src)
	for _, c := range chunks {
		// A chunk without content only carries comments around an
		// explicit end marker; it does not form a document of its own.
		if !c.explicitStart && !c.hasContent && len(c.directives) == 0 {
			if len(docs) > 0 {
				last := docs[len(docs)-1]
				last.Foot = append(last.Foot, c.trivia()...)
			} else {
				pending = append(pending, c.trivia()...)
			}
			continue
		}
		doc, err := parseChunk(src, c)
		if err != nil {
			return nil, err
		}
		if len(pending) > 0 {
			doc.Head = append(pending, doc.Head...)
			pending = nil
		}
		docs = append(docs, doc)
		starts = append(starts, c.offset+1)
	}
	if len(docs) == 0 {
		docs = append(docs, &document.Document{Head: pending})
	}
	if o.single && len(docs) > 1 {
		return nil, errors.NewParseError(src, starts[1], 1, "expected a single document but found another one")
	}
	return docs, nil
}

type chunk struct {
	lines         []string
	offset        int
	explicitStart bool
	explicitEnd   bool
	hasContent    bool
	directives    []string
}

func (c *chunk) text() string {
	return strings.Join(c.lines, "\n") + "\n"
}

// decoderText is the text given to yaml.v3. The %YAML directive is
// blanked out since yaml.v3 rejects versions other than 1.1; it is kept
// in directives for printing.
func (c *chunk) decoderText() string {
	if len(c.directives) == 0 {
		return c.text()
	}
	lines := make([]string, len(c.lines))
	for i, line := range c.lines {
		if isMarker(line, "---") {
			copy(lines[i:], c.lines[i:])
			break
		}
		if !isMarker(line, "%YAML") {
			lines[i] = line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func (c *chunk) trivia() []document.Trivia {
	var ts []document.Trivia
	for _, line := range c.lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case isMarker(line, "---"), isMarker(line, "..."):
		case trimmed == "":
			ts = append(ts, document.BlankLine())
		case strings.HasPrefix(trimmed, "#"):
			ts = append(ts, document.CommentLine(trimmed))
		}
	}
	return ts
}

func isMarker(line, marker string) bool {
	if !strings.HasPrefix(line, marker) {
		return false
	}
	rest := line[len(marker):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// markerContent returns what follows a marker on its line, without comments.
func markerContent(line string) string {
	rest := strings.TrimSpace(line[3:])
	if strings.HasPrefix(rest, "#") {
		return ""
	}
	return rest
}

func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(src, "\n"), "\n")
}

// split cuts src into document chunks. Markers at column 0 always delimit
// documents, so the cut does not need to understand the content.
func split(src string) []*chunk {
	var chunks []*chunk
	cur := &chunk{}
	for i, line := range splitLines(src) {
		switch {
		case isMarker(line, "---"):
			if cur.explicitStart || cur.hasContent {
				chunks = append(chunks, cur)
				cur = &chunk{offset: i}
			}
			if len(cur.lines) == 0 {
				cur.offset = i
			}
			cur.explicitStart = true
			cur.lines = append(cur.lines, line)
			if markerContent(line) != "" {
				cur.hasContent = true
			}
			continue
		case isMarker(line, "..."):
			if len(cur.lines) == 0 {
				cur.offset = i
			}
			cur.lines = append(cur.lines, line)
			cur.explicitEnd = true
			chunks = append(chunks, cur)
			cur = &chunk{offset: i + 1}
			continue
		}
		if len(cur.lines) == 0 {
			cur.offset = i
		}
		cur.lines = append(cur.lines, line)
		if cur.explicitStart || cur.hasContent {
			continue
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
		case strings.HasPrefix(line, "%"):
			cur.directives = append(cur.directives, strings.TrimRight(line, " \t"))
		default:
			cur.hasContent = true
		}
	}
	if len(cur.lines) > 0 || len(chunks) == 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

var lineErrRegexp = regexp.MustCompile(`^yaml: line (\d+): (.+)$`)

// parseError converts a yaml.v3 error into a ParseError located in the
// whole source.
func parseError(src string, c *chunk, err error) error {
	msg := err.Error()
	if m := lineErrRegexp.FindStringSubmatch(msg); m != nil {
		line, convErr := strconv.Atoi(m[1])
		if convErr == nil {
			return errors.NewParseError(src, line+c.offset, 0, m[2])
		}
	}
	return errors.NewParseError(src, c.offset+1, 0, strings.TrimPrefix(msg, "yaml: "))
}

func parseChunk(src string, c *chunk) (*document.Document, error) {
	text := c.text()
	doc := &document.Document{
		Directives:    c.directives,
		ExplicitStart: c.explicitStart,
		ExplicitEnd:   c.explicitEnd,
	}

	dec := yaml.NewDecoder(strings.NewReader(c.decoderText()))
	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if !stderrors.Is(err, io.EOF) {
			return nil, parseError(src, c, err)
		}
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !stderrors.Is(err, io.EOF) {
		if err != nil {
			return nil, parseError(src, c, err)
		}
		return nil, errors.NewParseError(src, extra.Line+c.offset, extra.Column, "unexpected document")
	}

	cv := &converter{src: src, offset: c.offset}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		n, err := cv.convert(root.Content[0])
		if err != nil {
			return nil, err
		}
		doc.Root = n
	}

	tokens, err := tokenize(text)
	if err != nil {
		return nil, errors.NewParseError(src, c.offset+1, 0, err.Error())
	}
	l := newLayout(c.lines, tokens)
	comments := scanComments(c.lines, tokens)
	covered := l.coveredLines(l.markFlowCollections(doc.Root, comments))
	associate(doc, l, comments, covered)
	doc.Indent = detectIndentation(l, doc.Root)
	return doc, nil
}

type converter struct {
	src    string
	offset int
}

func (c *converter) meta(n *yaml.Node) document.Meta {
	return document.Meta{
		Anchor:      n.Anchor,
		Tag:         n.ShortTag(),
		ExplicitTag: n.Style&yaml.TaggedStyle != 0,
		Line:        n.Line,
		Column:      n.Column,
	}
}

func (c *converter) convert(n *yaml.Node) (document.Node, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return &document.Scalar{
			Meta:  c.meta(n),
			Value: n.Value,
			Style: scalarStyle(n.Style),
		}, nil
	case yaml.SequenceNode:
		seq := &document.Sequence{Meta: c.meta(n), Style: collectionStyle(n.Style)}
		for _, child := range n.Content {
			v, err := c.convert(child)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, &document.Item{Value: v})
		}
		return seq, nil
	case yaml.MappingNode:
		return c.mapping(n)
	case yaml.AliasNode:
		return &document.Alias{
			Meta: document.Meta{Line: n.Line, Column: n.Column},
			Name: n.Value,
		}, nil
	case yaml.DocumentNode:
		return nil, errors.NewParseError(c.src, n.Line+c.offset, n.Column, "unexpected nested document")
	}
	return nil, errors.NewParseError(c.src, n.Line+c.offset, n.Column, fmt.Sprintf("unknown node kind %d", n.Kind))
}

func (c *converter) mapping(n *yaml.Node) (document.Node, error) {
	m := &document.Mapping{Meta: c.meta(n), Style: collectionStyle(n.Style)}
	if len(n.Content)%2 != 0 {
		return nil, errors.NewParseError(c.src, n.Line+c.offset, n.Column, "mapping has a key without value")
	}
	seen := map[string]int{}
	for i := 0; i < len(n.Content); i += 2 {
		k, err := c.convert(n.Content[i])
		if err != nil {
			return nil, err
		}
		v, err := c.convert(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		if k.Properties().Tag != "!!merge" {
			id := document.KeyString(k)
			if line, ok := seen[id]; ok {
				return nil, errors.NewParseError(
					c.src, k.Properties().Line+c.offset, k.Properties().Column,
					fmt.Sprintf("mapping key %s already defined at line %d", keyText(k), line+c.offset),
				)
			}
			seen[id] = k.Properties().Line
		}
		m.Pairs = append(m.Pairs, &document.Pair{Key: k, Value: v})
	}
	return m, nil
}

func keyText(n document.Node) string {
	switch n := n.(type) {
	case *document.Scalar:
		return strconv.Quote(n.Value)
	case *document.Alias:
		return "*" + n.Name
	}
	return n.Kind().String()
}

func scalarStyle(s yaml.Style) document.ScalarStyle {
	switch {
	case s&yaml.DoubleQuotedStyle != 0:
		return document.DoubleQuoted
	case s&yaml.SingleQuotedStyle != 0:
		return document.SingleQuoted
	case s&yaml.LiteralStyle != 0:
		return document.Literal
	case s&yaml.FoldedStyle != 0:
		return document.Folded
	}
	return document.Plain
}

func collectionStyle(s yaml.Style) document.CollectionStyle {
	if s&yaml.FlowStyle != 0 {
		return document.Flow
	}
	return document.Block
}
