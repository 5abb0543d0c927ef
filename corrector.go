// Package yamlfix provides a YAML formatter that rewrites documents into a
// canonical style while keeping their values and comments.
package yamlfix

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/quwac/yamlfix/document"
	"github.com/quwac/yamlfix/errors"
	"github.com/quwac/yamlfix/parser"
	"github.com/quwac/yamlfix/printer"
	"github.com/quwac/yamlfix/rule"
	"github.com/quwac/yamlfix/schema"
)

// KeyOrderRule is the rule name reported when a rule reorders mapping keys.
const KeyOrderRule = "key-order"

// Source is a named YAML text.
type Source struct {
	Name string
	Text string
}

// Result is the outcome of correcting a Source.
type Result struct {
	Name    string
	Text    string
	Changed bool
	// Err is set by FixSources when the source could not be corrected.
	Err error
}

// Corrector applies the rules to YAML sources. It keeps no state between
// calls and is safe for concurrent use.
type Corrector struct {
	config  *schema.Config
	rules   []rule.Rule
	logger  *zap.Logger
	single  bool
	printer *printer.Printer
}

// New creates a new corrector.
func New(opts ...func(*Corrector) error) (*Corrector, error) {
	c := &Corrector{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	cfg, err := c.config.WithDefaults()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	c.config = cfg
	if c.rules == nil {
		c.rules = rule.Default(cfg)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.printer = &printer.Printer{CommentSpacing: cfg.CommentsMinSpacesFromContent}
	return c, nil
}

// Config returns the configuration completed with default values.
func (c *Corrector) Config() *schema.Config {
	return c.config
}

// Fix returns the corrected text. It returns an empty string on error.
func Fix(text string) (string, error) {
	c, err := New()
	if err != nil {
		return "", err
	}
	return c.Fix(text)
}

// Fix returns the corrected text. It returns an empty string on error.
func (c *Corrector) Fix(text string) (string, error) {
	r, err := c.Correct(Source{Text: text})
	if err != nil {
		return "", err
	}
	return r.Text, nil
}

// NeedsFix reports whether Fix would change text.
func (c *Corrector) NeedsFix(text string) (bool, error) {
	r, err := c.Correct(Source{Text: text})
	if err != nil {
		return false, err
	}
	return r.Changed, nil
}

// snapshot is what the rules must not change in a document.
type snapshot struct {
	value    any
	keys     [][]string
	comments int
}

func take(doc *document.Document) snapshot {
	return snapshot{
		value:    document.DocumentValue(doc),
		keys:     document.KeyOrder(doc.Root),
		comments: len(document.Comments(doc)),
	}
}

// Correct applies the rules to every document of src.
func (c *Corrector) Correct(src Source) (*Result, error) {
	opts := []parser.Option{parser.WithName(src.Name)}
	if c.single {
		opts = append(opts, parser.SingleDocument())
	}
	docs, err := parser.Parse(src.Text, opts...)
	if err != nil {
		return nil, err
	}

	want := make([]snapshot, len(docs))
	for i, doc := range docs {
		want[i] = take(doc)
		number := 0
		if len(docs) > 1 {
			number = i + 1
		}
		for _, r := range c.rules {
			if err := r.Apply(doc); err != nil {
				return nil, &errors.CorrectionError{Rule: r.Name(), Reason: err.Error(), Document: number}
			}
			if err := c.verify(r.Name(), doc, want[i]); err != nil {
				err.Document = number
				return nil, err
			}
			c.logger.Debug("rule applied",
				zap.String("source", src.Name),
				zap.Int("document", i+1),
				zap.String("rule", r.Name()),
			)
		}
	}

	text := c.printer.Print(docs)
	if err := c.verifyOutput(text, want); err != nil {
		return nil, err
	}
	changed := text != src.Text
	c.logger.Debug("source corrected",
		zap.String("source", src.Name),
		zap.Int("documents", len(docs)),
		zap.Bool("changed", changed),
	)
	return &Result{Name: src.Name, Text: text, Changed: changed}, nil
}

// verify renders doc after the rule name and checks that it reads back
// with the value, the key order and the comments of want.
func (c *Corrector) verify(name string, doc *document.Document, want snapshot) *errors.CorrectionError {
	if diff := cmp.Diff(want.keys, document.KeyOrder(doc.Root)); diff != "" {
		return &errors.CorrectionError{
			Rule:   KeyOrderRule,
			Reason: fmt.Sprintf("%s reordered mapping keys (-want +got):\n%s", name, diff),
		}
	}
	text := c.printer.PrintDocument(doc)
	got, err := parser.Parse(text)
	if err != nil {
		return &errors.CorrectionError{Rule: name, Reason: fmt.Sprintf("output is not valid YAML: %s", err)}
	}
	if len(got) != 1 {
		return &errors.CorrectionError{Rule: name, Reason: fmt.Sprintf("output has %d documents", len(got))}
	}
	return compare(name, want, got[0])
}

// verifyOutput checks the joined output of all documents.
func (c *Corrector) verifyOutput(text string, want []snapshot) error {
	const name = "output"
	got, err := parser.Parse(text)
	if err != nil {
		return &errors.CorrectionError{Rule: name, Reason: fmt.Sprintf("output is not valid YAML: %s", err)}
	}
	if len(got) != len(want) {
		return &errors.CorrectionError{
			Rule:   name,
			Reason: fmt.Sprintf("output has %d documents, want %d", len(got), len(want)),
		}
	}
	for i := range got {
		if err := compare(name, want[i], got[i]); err != nil {
			if len(got) > 1 {
				err.Document = i + 1
			}
			return err
		}
	}
	return nil
}

func compare(name string, want snapshot, doc *document.Document) *errors.CorrectionError {
	if diff := cmp.Diff(want.value, document.DocumentValue(doc)); diff != "" {
		return &errors.CorrectionError{Rule: name, Reason: fmt.Sprintf("value changed (-want +got):\n%s", diff)}
	}
	if got := len(document.Comments(doc)); got != want.comments {
		return &errors.CorrectionError{
			Rule:   name,
			Reason: fmt.Sprintf("%d comments written, want %d", got, want.comments),
		}
	}
	return nil
}
