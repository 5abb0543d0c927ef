package document

// Trivia is a source line that carries no value.
type Trivia struct {
	Blank bool
	// Comment is the full comment text starting with '#'.
	Comment string
}

// BlankLine returns a blank Trivia.
func BlankLine() Trivia { return Trivia{Blank: true} }

// CommentLine returns a comment Trivia.
func CommentLine(text string) Trivia { return Trivia{Comment: text} }

// Indentation describes how block collections are indented.
type Indentation struct {
	// Mapping is the indentation of nested mapping entries.
	Mapping int
	// Sequence is the indentation of the content of sequence items
	// nested in a mapping.
	Sequence int
	// Offset is the indentation of the '-' indicator nested in a mapping.
	Offset int
}

// DefaultIndentation is used when no indentation has been stamped or detected.
var DefaultIndentation = Indentation{Mapping: 2, Sequence: 2, Offset: 0}

// IsZero reports whether i is unset.
func (i Indentation) IsZero() bool {
	return i == Indentation{}
}

// Document is one YAML document of a source.
type Document struct {
	Directives    []string
	ExplicitStart bool
	ExplicitEnd   bool
	Head          []Trivia
	Root          Node
	// Inline is the comment on the line of a root scalar.
	Inline string
	Foot   []Trivia
	Indent Indentation
}

// IsEmpty reports whether the document has no root value.
func (d *Document) IsEmpty() bool {
	return d.Root == nil || IsNullEmpty(d.Root)
}
