package rule

import (
	"strings"

	"github.com/quwac/yamlfix/document"
)

// CommentSpacing inserts a space after the '#' of comments.
type CommentSpacing struct {
	Enabled bool
}

// Name implements Rule interface.
func (*CommentSpacing) Name() string { return "comment-spacing" }

// Apply implements Rule interface.
func (r *CommentSpacing) Apply(doc *document.Document) error {
	if !r.Enabled {
		return nil
	}
	document.EachTrivia(doc, func(ts *[]document.Trivia) {
		for i, t := range *ts {
			if t.Blank {
				continue
			}
			if ts == &doc.Head && i == 0 && strings.HasPrefix(t.Comment, "#!") {
				continue
			}
			(*ts)[i].Comment = SpaceComment(t.Comment)
		}
	})
	document.EachInline(doc, func(s *string) {
		if *s != "" {
			*s = SpaceComment(*s)
		}
	})
	return nil
}

// SpaceComment returns c with a space between the leading '#'s and the
// text. Comments made of '#' only are returned as is.
func SpaceComment(c string) string {
	body := strings.TrimLeft(c, "#")
	if body == "" || body[0] == ' ' || body[0] == '\t' {
		return c
	}
	return c[:len(c)-len(body)] + " " + body
}

// TrailingWhitespace removes trailing whitespace from comments.
type TrailingWhitespace struct{}

// Name implements Rule interface.
func (*TrailingWhitespace) Name() string { return "trailing-whitespace" }

// Apply implements Rule interface.
func (*TrailingWhitespace) Apply(doc *document.Document) error {
	document.EachTrivia(doc, func(ts *[]document.Trivia) {
		for i, t := range *ts {
			(*ts)[i].Comment = strings.TrimRight(t.Comment, " \t")
		}
	})
	document.EachInline(doc, func(s *string) {
		*s = strings.TrimRight(*s, " \t")
	})
	return nil
}
