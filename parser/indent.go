package parser

import "github.com/quwac/yamlfix/document"

// detectIndentation guesses the indentation of a document from the first
// nested block mapping and the first block sequence nested in a mapping.
func detectIndentation(l *layout, root document.Node) document.Indentation {
	ind := document.DefaultIndentation
	var mappingFound, sequenceFound bool
	document.Walk(root, func(n document.Node) bool {
		m, ok := n.(*document.Mapping)
		if !ok || m.Style == document.Flow {
			return !(mappingFound && sequenceFound)
		}
		for _, p := range m.Pairs {
			keyCol := p.Key.Properties().Column
			switch v := p.Value.(type) {
			case *document.Mapping:
				if !mappingFound && v.Style == document.Block && len(v.Pairs) > 0 {
					if d := v.Pairs[0].Key.Properties().Column - keyCol; d > 0 {
						ind.Mapping = d
						mappingFound = true
					}
				}
			case *document.Sequence:
				if !sequenceFound && v.Style == document.Block && len(v.Items) > 0 {
					dash := l.dashColumn(v)
					content := v.Items[0].Value.Properties().Column
					if dash >= keyCol && content > dash {
						ind.Offset = dash - keyCol
						ind.Sequence = content - keyCol
						sequenceFound = true
					}
				}
			}
		}
		return !(mappingFound && sequenceFound)
	})
	return ind
}
