package document

// Kind identifies the variant of a Node.
type Kind int

const (
	ScalarKind Kind = iota + 1
	SequenceKind
	MappingKind
	AliasKind
)

func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case SequenceKind:
		return "sequence"
	case MappingKind:
		return "mapping"
	case AliasKind:
		return "alias"
	}
	return "unknown"
}

// ScalarStyle is the quoting style of a scalar.
type ScalarStyle int

const (
	Plain ScalarStyle = iota
	SingleQuoted
	DoubleQuoted
	Literal
	Folded
)

func (s ScalarStyle) String() string {
	switch s {
	case Plain:
		return "plain"
	case SingleQuoted:
		return "single-quoted"
	case DoubleQuoted:
		return "double-quoted"
	case Literal:
		return "literal"
	case Folded:
		return "folded"
	}
	return "unknown"
}

// IsBlock reports whether s is a block scalar style.
func (s ScalarStyle) IsBlock() bool {
	return s == Literal || s == Folded
}

// IsQuoted reports whether s is a quoted style.
func (s ScalarStyle) IsQuoted() bool {
	return s == SingleQuoted || s == DoubleQuoted
}

// CollectionStyle is the style of a sequence or mapping.
type CollectionStyle int

const (
	Block CollectionStyle = iota
	Flow
)

func (s CollectionStyle) String() string {
	if s == Flow {
		return "flow"
	}
	return "block"
}

// Node is one of *Scalar, *Sequence, *Mapping or *Alias.
type Node interface {
	Kind() Kind
	Properties() *Meta
	node()
}

// Meta holds the properties shared by every node.
type Meta struct {
	Anchor string
	// Tag is the resolved tag in short form such as "!!str" or "!Ref".
	Tag string
	// ExplicitTag is true when Tag was written in the source.
	ExplicitTag bool
	// Line and Column are 1-based positions in the parsed text.
	Line   int
	Column int
}

// Scalar is a leaf value.
type Scalar struct {
	Meta
	Value string
	Style ScalarStyle
}

// Sequence is an ordered list of items.
type Sequence struct {
	Meta
	Style CollectionStyle
	Items []*Item
	// Foot holds trivia after the last item.
	Foot []Trivia
	// CommentsInside is set by the parser when a flow sequence contains comments.
	CommentsInside bool
}

// Item is an entry of a Sequence.
type Item struct {
	Before []Trivia
	Inline string
	Value  Node
}

// Mapping is an ordered list of key/value pairs with unique keys.
type Mapping struct {
	Meta
	Style CollectionStyle
	Pairs []*Pair
	// Foot holds trivia after the last pair.
	Foot []Trivia
	// CommentsInside is set by the parser when a flow mapping contains comments.
	CommentsInside bool
}

// Pair is an entry of a Mapping.
type Pair struct {
	Before []Trivia
	Inline string
	Key    Node
	Value  Node
}

// Alias refers to an anchored node.
type Alias struct {
	Meta
	Name string
}

func (*Scalar) Kind() Kind   { return ScalarKind }
func (*Sequence) Kind() Kind { return SequenceKind }
func (*Mapping) Kind() Kind  { return MappingKind }
func (*Alias) Kind() Kind    { return AliasKind }

func (n *Scalar) Properties() *Meta   { return &n.Meta }
func (n *Sequence) Properties() *Meta { return &n.Meta }
func (n *Mapping) Properties() *Meta  { return &n.Meta }
func (n *Alias) Properties() *Meta    { return &n.Meta }

func (*Scalar) node()   {}
func (*Sequence) node() {}
func (*Mapping) node()  {}
func (*Alias) node()    {}

// IsNullEmpty reports whether n is an implicit null written as nothing.
func IsNullEmpty(n Node) bool {
	s, ok := n.(*Scalar)
	return ok && s.Tag == "!!null" && s.Value == "" && s.Style == Plain && !s.ExplicitTag && s.Anchor == ""
}

// IsString reports whether s holds a string whose quoting may be changed.
func (s *Scalar) IsString() bool {
	return s.Tag == "!!str" || s.ExplicitTag
}
