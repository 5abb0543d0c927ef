package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

func New(message string) error {
	return errors.New(message)
}

func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Errors returns an error that reports every non-nil error in errs.
func Errors(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	if len(nonNil) == 0 {
		return nil
	}
	return &MultiError{Errs: nonNil}
}

// ParseError reports malformed YAML input.
// Line and Column are 1-based; zero means the position is unknown.
type ParseError struct {
	Source  string
	Line    int
	Column  int
	Message string

	src string
}

// NewParseError returns a ParseError for src at the given position.
func NewParseError(src string, line, column int, message string) *ParseError {
	return &ParseError{
		Line:    line,
		Column:  column,
		Message: message,
		src:     src,
	}
}

// Location returns the position of the error as "source:line:column".
func (e *ParseError) Location() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
	} else {
		b.WriteString("<input>")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ":%d", e.Column)
		}
	}
	return b.String()
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location(), e.Message)
}

// Frame returns the lines around the error position with a marker on the
// offending line. It returns an empty string if the position is unknown.
func (e *ParseError) Frame(colored bool) string {
	if e.Line <= 0 || e.src == "" {
		return ""
	}
	tk := tokenAt(lexer.Tokenize(e.src), e.Line, e.Column)
	if tk == nil {
		return ""
	}
	var p printer.Printer
	return p.PrintErrorToken(tk, colored)
}

func tokenAt(tokens token.Tokens, line, column int) *token.Token {
	var found *token.Token
	for _, tk := range tokens {
		if tk.Position == nil {
			continue
		}
		if tk.Position.Line < line {
			found = tk
			continue
		}
		if tk.Position.Line > line {
			if found == nil {
				found = tk
			}
			break
		}
		found = tk
		if column > 0 && tk.Position.Column >= column {
			break
		}
	}
	return found
}

// CorrectionError reports a rule whose output is not value-equal to its
// input, or whose invariant was violated.
type CorrectionError struct {
	Rule     string
	Reason   string
	Document int
}

func (e *CorrectionError) Error() string {
	if e.Document > 0 {
		return fmt.Sprintf("rule %q failed on document %d: %s", e.Rule, e.Document, e.Reason)
	}
	return fmt.Sprintf("rule %q failed: %s", e.Rule, e.Reason)
}

// WithSource sets the source name of a ParseError in err's chain.
func WithSource(err error, name string) error {
	var perr *ParseError
	if As(err, &perr) && perr.Source == "" {
		perr.Source = name
	}
	return err
}

// MultiError aggregates independent errors such as per-source failures of
// a batch.
type MultiError struct {
	Errs []error
}

func (e *MultiError) Error() string {
	mulerr := &multierror.Error{
		Errors: e.Errs,
		ErrorFormat: func(es []error) string {
			if len(es) == 1 {
				return fmt.Sprintf("1 error occurred:\n%s\n", strings.TrimLeft(es[0].Error(), "\t"))
			}

			points := make([]string, len(es))
			for i, err := range es {
				points[i] = strings.TrimLeft(err.Error(), "\t")
			}

			return fmt.Sprintf(
				"%d errors occurred:\n%s\n",
				len(es), strings.Join(points, "\n"),
			)
		},
	}
	return mulerr.Error()
}

// Unwrap returns the aggregated errors for errors.Is and errors.As.
func (e *MultiError) Unwrap() []error {
	return e.Errs
}
