package rule

import "github.com/quwac/yamlfix/document"

// BlankLineCollapse limits runs of blank lines to Max and removes blank
// lines directly after the document start.
type BlankLineCollapse struct {
	Max int
}

// Name implements Rule interface.
func (*BlankLineCollapse) Name() string { return "blank-line-collapse" }

// Apply implements Rule interface.
func (r *BlankLineCollapse) Apply(doc *document.Document) error {
	document.EachTrivia(doc, func(ts *[]document.Trivia) {
		*ts = collapse(*ts, r.Max)
	})
	for len(doc.Head) > 0 && doc.Head[0].Blank {
		doc.Head = doc.Head[1:]
	}
	return nil
}

func collapse(ts []document.Trivia, max int) []document.Trivia {
	out := ts[:0]
	run := 0
	for _, t := range ts {
		if !t.Blank {
			run = 0
			out = append(out, t)
			continue
		}
		run++
		if run <= max {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// TrailingNewline removes the blank lines at the end of a document.
type TrailingNewline struct{}

// Name implements Rule interface.
func (*TrailingNewline) Name() string { return "trailing-newline" }

// Apply implements Rule interface.
func (*TrailingNewline) Apply(doc *document.Document) error {
	for _, ts := range lastTrivia(doc) {
		*ts = trimBlanks(*ts)
		if len(*ts) > 0 {
			return nil
		}
	}
	return nil
}

// lastTrivia returns the trivia lists that can end the printed document,
// last first. A list is only printed last when the ones before it in the
// result are empty.
func lastTrivia(doc *document.Document) []*[]document.Trivia {
	lists := []*[]document.Trivia{&doc.Foot}
	if doc.IsEmpty() {
		if doc.Inline == "" {
			lists = append(lists, &doc.Head)
		}
		return lists
	}
	n := doc.Root
	for {
		switch c := n.(type) {
		case *document.Mapping:
			if len(c.Pairs) == 0 {
				return lists
			}
			lists = append(lists, &c.Foot)
			n = c.Pairs[len(c.Pairs)-1].Value
		case *document.Sequence:
			if len(c.Items) == 0 {
				return lists
			}
			lists = append(lists, &c.Foot)
			n = c.Items[len(c.Items)-1].Value
		default:
			return lists
		}
	}
}

func trimBlanks(ts []document.Trivia) []document.Trivia {
	for len(ts) > 0 && ts[len(ts)-1].Blank {
		ts = ts[:len(ts)-1]
	}
	if len(ts) == 0 {
		return nil
	}
	return ts
}
