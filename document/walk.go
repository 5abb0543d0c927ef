package document

// Walk calls fn for n and its descendants in document order.
// Children of a node are skipped when fn returns false.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Sequence:
		for _, item := range n.Items {
			Walk(item.Value, fn)
		}
	case *Mapping:
		for _, p := range n.Pairs {
			Walk(p.Key, fn)
			Walk(p.Value, fn)
		}
	}
}

// EachTrivia calls fn for every trivia list of d.
func EachTrivia(d *Document, fn func(*[]Trivia)) {
	fn(&d.Head)
	Walk(d.Root, func(n Node) bool {
		switch n := n.(type) {
		case *Sequence:
			for _, item := range n.Items {
				fn(&item.Before)
			}
			fn(&n.Foot)
		case *Mapping:
			for _, p := range n.Pairs {
				fn(&p.Before)
			}
			fn(&n.Foot)
		}
		return true
	})
	fn(&d.Foot)
}

// EachInline calls fn for every inline comment slot of d.
func EachInline(d *Document, fn func(*string)) {
	fn(&d.Inline)
	Walk(d.Root, func(n Node) bool {
		switch n := n.(type) {
		case *Sequence:
			for _, item := range n.Items {
				fn(&item.Inline)
			}
		case *Mapping:
			for _, p := range n.Pairs {
				fn(&p.Inline)
			}
		}
		return true
	})
}

// Comments returns every comment of d in no particular order.
func Comments(d *Document) []string {
	var comments []string
	EachTrivia(d, func(ts *[]Trivia) {
		for _, t := range *ts {
			if !t.Blank {
				comments = append(comments, t.Comment)
			}
		}
	})
	EachInline(d, func(s *string) {
		if *s != "" {
			comments = append(comments, *s)
		}
	})
	return comments
}
