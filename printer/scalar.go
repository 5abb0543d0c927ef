package printer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/quwac/yamlfix/document"
)

// Context is the syntactic position of a scalar.
type Context int

const (
	BlockValue Context = iota
	BlockKey
	FlowValue
	FlowKey
)

// IsFlow reports whether c is inside a flow collection.
func (c Context) IsFlow() bool {
	return c == FlowValue || c == FlowKey
}

// PlainSafe reports whether s can be written without quotes in ctx and
// read back as the same value with the same tag. The check parses the
// candidate text, so the answer always agrees with the parser.
func PlainSafe(s *document.Scalar, ctx Context) bool {
	v := s.Value
	if !s.IsString() {
		return true
	}
	if v == "" || strings.ContainsAny(v, "\n\r") || !isPrintable(v) {
		return false
	}
	if strings.TrimSpace(v) != v {
		return false
	}
	if strings.HasPrefix(v, "---") || strings.HasPrefix(v, "...") {
		return false
	}
	text := v
	if s.ExplicitTag {
		text = tagText(s.Tag) + " " + v
	}
	var sample string
	switch ctx {
	case BlockValue:
		sample = "k: " + text
	case BlockKey:
		sample = text + ": v"
	case FlowValue:
		sample = "[" + text + "]"
	case FlowKey:
		sample = "{" + text + ": v}"
	}
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(sample), &root); err != nil {
		return false
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 {
		return false
	}
	c := root.Content[0]
	var got *yaml.Node
	switch ctx {
	case BlockValue:
		if c.Kind == yaml.MappingNode && len(c.Content) == 2 {
			got = c.Content[1]
		}
	case BlockKey, FlowKey:
		if c.Kind == yaml.MappingNode && len(c.Content) == 2 {
			got = c.Content[0]
		}
	case FlowValue:
		if c.Kind == yaml.SequenceNode && len(c.Content) == 1 {
			got = c.Content[0]
		}
	}
	if got == nil || got.Kind != yaml.ScalarNode {
		return false
	}
	if got.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return false
	}
	return got.Value == v && got.ShortTag() == s.Tag
}

// SingleQuotable reports whether v can be written in single quotes on one line.
func SingleQuotable(v string) bool {
	return !strings.ContainsAny(v, "\n\r") && isPrintable(v)
}

// BlockUsable reports whether s can be written with its block style.
// Lines made of white space only and non-printable characters cannot.
func BlockUsable(s *document.Scalar) bool {
	v := s.Value
	if !s.Style.IsBlock() || strings.Trim(v, "\n") == "" || strings.Contains(v, "\r") {
		return false
	}
	for _, r := range v {
		if r != '\n' && r != '\t' && !printable(r) {
			return false
		}
	}
	for _, line := range blockLines(v) {
		if line != "" && strings.TrimLeft(line, " \t") == "" {
			return false
		}
	}
	return true
}

// blockFits reports whether s is written as a block scalar whose content
// is indent columns deeper than its parent. An indentation indicator
// has a single digit.
func blockFits(s *document.Scalar, indent int) bool {
	if !BlockUsable(s) {
		return false
	}
	return !needsIndicator(s.Value) || (indent >= 1 && indent <= 9)
}

func blockLines(v string) []string {
	return strings.Split(strings.TrimSuffix(v, "\n"), "\n")
}

// needsIndicator reports whether the first non-empty line of v starts
// with white space, which readers would take as indentation.
func needsIndicator(v string) bool {
	for _, line := range blockLines(v) {
		if line != "" {
			return spaced(line)
		}
	}
	return false
}

func spaced(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// blockHeader returns the indicators of a block scalar whose content is
// indent columns deeper than its parent.
func blockHeader(s *document.Scalar, indent int) string {
	h := "|"
	if s.Style == document.Folded {
		h = ">"
	}
	if needsIndicator(s.Value) {
		h += strconv.Itoa(indent)
	}
	switch {
	case !strings.HasSuffix(s.Value, "\n"):
		h += "-"
	case strings.HasSuffix(s.Value, "\n\n"):
		h += "+"
	}
	return h
}

// blockBody returns the content lines of a block scalar without
// indentation. Folded scalars get an extra empty line between two lines
// that are not more indented, where a single break would fold to a space.
func blockBody(s *document.Scalar) []string {
	lines := blockLines(s.Value)
	if s.Style != document.Folded {
		return lines
	}
	out := make([]string, 0, len(lines)*2)
	prev := ""
	for _, line := range lines {
		if line != "" {
			if prev != "" && !spaced(prev) && !spaced(line) {
				out = append(out, "")
			}
			prev = line
		}
		out = append(out, line)
	}
	return out
}

// SingleQuote writes v in single quotes.
func SingleQuote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// DoubleQuote writes v in double quotes with YAML escapes.
func DoubleQuote(v string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\v':
			b.WriteString(`\v`)
		case '\f':
			b.WriteString(`\f`)
		case 0x1b:
			b.WriteString(`\e`)
		case 0x85:
			b.WriteString(`\N`)
		case 0x2028:
			b.WriteString(`\L`)
		case 0x2029:
			b.WriteString(`\P`)
		default:
			switch {
			case printable(r):
				b.WriteRune(r)
			case r <= 0xff:
				fmt.Fprintf(&b, `\x%02X`, r)
			case r <= 0xffff:
				fmt.Fprintf(&b, `\u%04X`, r)
			default:
				fmt.Fprintf(&b, `\U%08X`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isPrintable(v string) bool {
	if !utf8.ValidString(v) {
		return false
	}
	for _, r := range v {
		if r != '\t' && !printable(r) {
			return false
		}
	}
	return true
}

// printable reports whether r is a YAML printable character other than
// tab and line breaks.
func printable(r rune) bool {
	switch {
	case r >= 0x20 && r <= 0x7e:
		return true
	case r == 0x85:
		return false
	case r >= 0xa0 && r <= 0xd7ff:
		return r != 0x2028 && r != 0x2029
	case r >= 0xe000 && r <= 0xfffd:
		return r != 0xfeff
	case r >= 0x10000 && r <= 0x10ffff:
		return true
	}
	return false
}

// tagText writes a resolved tag the way it can be read back.
func tagText(tag string) string {
	if strings.HasPrefix(tag, "!") {
		return tag
	}
	return "!<" + tag + ">"
}
