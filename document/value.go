package document

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// ScalarValue is the comparable value of a scalar.
type ScalarValue struct {
	Anchor string
	Tag    string
	Value  string
}

// SequenceValue is the comparable value of a sequence.
type SequenceValue struct {
	Anchor string
	Tag    string
	Items  []any
}

// MappingValue is the comparable value of a mapping.
type MappingValue struct {
	Anchor  string
	Tag     string
	Entries []Entry
}

// Entry is a key/value pair of a MappingValue.
type Entry struct {
	Key   any
	Value any
}

// AliasValue is the comparable value of an alias.
type AliasValue struct {
	Name string
}

// Value returns the value of n ignoring comments and styles.
// Aliases are kept as references so that anchors are compared too.
func Value(n Node) any {
	switch n := n.(type) {
	case nil:
		return ScalarValue{Tag: "!!null"}
	case *Scalar:
		return ScalarValue{Anchor: n.Anchor, Tag: n.Tag, Value: canonicalScalar(n.Tag, n.Value)}
	case *Sequence:
		v := SequenceValue{Anchor: n.Anchor, Tag: n.Tag, Items: make([]any, 0, len(n.Items))}
		for _, item := range n.Items {
			v.Items = append(v.Items, Value(item.Value))
		}
		return v
	case *Mapping:
		v := MappingValue{Anchor: n.Anchor, Tag: n.Tag, Entries: make([]Entry, 0, len(n.Pairs))}
		for _, p := range n.Pairs {
			v.Entries = append(v.Entries, Entry{Key: Value(p.Key), Value: Value(p.Value)})
		}
		return v
	case *Alias:
		return AliasValue{Name: n.Name}
	}
	panic(fmt.Sprintf("unexpected node type %T", n))
}

// DocumentValue returns the value of the root of d.
func DocumentValue(d *Document) any {
	if d.IsEmpty() {
		return Value(nil)
	}
	return Value(d.Root)
}

// Equal reports whether a and b hold equal values.
func Equal(a, b Node) bool {
	return cmp.Equal(Value(a), Value(b))
}

// KeyString returns a string identifying the value of a mapping key.
func KeyString(n Node) string {
	switch n := n.(type) {
	case *Scalar:
		return fmt.Sprintf("%s %s", n.Tag, canonicalScalar(n.Tag, n.Value))
	case *Alias:
		return "*" + n.Name
	}
	return fmt.Sprintf("%v", stripAnchors(Value(n)))
}

func stripAnchors(v any) any {
	switch v := v.(type) {
	case ScalarValue:
		v.Anchor = ""
		return v
	case SequenceValue:
		v.Anchor = ""
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = stripAnchors(item)
		}
		v.Items = items
		return v
	case MappingValue:
		v.Anchor = ""
		entries := make([]Entry, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = Entry{Key: stripAnchors(e.Key), Value: stripAnchors(e.Value)}
		}
		v.Entries = entries
		return v
	}
	return v
}

// KeyOrder returns the keys of every mapping under n in document order.
func KeyOrder(n Node) [][]string {
	var order [][]string
	Walk(n, func(n Node) bool {
		if m, ok := n.(*Mapping); ok {
			keys := make([]string, 0, len(m.Pairs))
			for _, p := range m.Pairs {
				keys = append(keys, KeyString(p.Key))
			}
			order = append(order, keys)
		}
		return true
	})
	return order
}

func canonicalScalar(tag, value string) string {
	switch tag {
	case "!!null":
		return ""
	case "!!bool":
		return strings.ToLower(value)
	case "!!int":
		return canonicalInt(value)
	case "!!float":
		return canonicalFloat(value)
	}
	return value
}

func canonicalInt(value string) string {
	s := strings.ReplaceAll(value, "_", "")
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}
	if strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O") {
		s = "0" + s[2:]
	}
	i, ok := new(big.Int).SetString(sign+s, 0)
	if !ok {
		return value
	}
	return i.String()
}

func canonicalFloat(value string) string {
	lower := strings.ToLower(value)
	switch strings.TrimLeft(lower, "+-") {
	case ".inf", ".nan":
		return lower
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, "_", ""), 64)
	if err != nil {
		return value
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
