// Package schema provides the configuration of yamlfix.
package schema

import (
	"fmt"
	"reflect"

	"dario.cat/mergo"

	"github.com/quwac/yamlfix/errors"
	"github.com/quwac/yamlfix/internal/deepcopy"
)

// SequenceStyle controls how sequences are written.
type SequenceStyle string

const (
	// KeepStyle keeps block and flow sequences as they are.
	KeepStyle SequenceStyle = "keep_style"
	// BlockStyle writes every sequence in block style.
	BlockStyle SequenceStyle = "block_style"
	// FlowStyle writes sequences of scalars in flow style when they fit
	// in the line length.
	FlowStyle SequenceStyle = "flow_style"
)

// Config represents a configuration of yamlfix.
type Config struct {
	ExplicitStart                *bool         `yaml:"explicit_start,omitempty" toml:"explicit_start"`
	IndentMapping                int           `yaml:"indent_mapping,omitempty" toml:"indent_mapping"`
	IndentSequence               int           `yaml:"indent_sequence,omitempty" toml:"indent_sequence"`
	IndentOffset                 *int          `yaml:"indent_offset,omitempty" toml:"indent_offset"`
	LineLength                   int           `yaml:"line_length,omitempty" toml:"line_length"`
	QuoteRepresentation          string        `yaml:"quote_representation,omitempty" toml:"quote_representation"`
	PreserveQuotes               *bool         `yaml:"preserve_quotes,omitempty" toml:"preserve_quotes"`
	QuoteBasicValues             *bool         `yaml:"quote_basic_values,omitempty" toml:"quote_basic_values"`
	QuoteKeysAndBasicValues      *bool         `yaml:"quote_keys_and_basic_values,omitempty" toml:"quote_keys_and_basic_values"`
	SequenceStyle                SequenceStyle `yaml:"sequence_style,omitempty" toml:"sequence_style"`
	Whitelines                   *int          `yaml:"whitelines,omitempty" toml:"whitelines"`
	CommentsRequireStartingSpace *bool         `yaml:"comments_require_starting_space,omitempty" toml:"comments_require_starting_space"`
	CommentsMinSpacesFromContent int           `yaml:"comments_min_spaces_from_content,omitempty" toml:"comments_min_spaces_from_content"`
	NormalizeBooleans            *bool         `yaml:"normalize_booleans,omitempty" toml:"normalize_booleans"`
	Exclude                      []string      `yaml:"exclude,omitempty" toml:"exclude"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		ExplicitStart:                Bool(true),
		IndentMapping:                2,
		IndentSequence:               4,
		IndentOffset:                 Int(2),
		LineLength:                   80,
		QuoteRepresentation:          "'",
		PreserveQuotes:               Bool(false),
		QuoteBasicValues:             Bool(false),
		QuoteKeysAndBasicValues:      Bool(false),
		SequenceStyle:                KeepStyle,
		Whitelines:                   Int(1),
		CommentsRequireStartingSpace: Bool(true),
		CommentsMinSpacesFromContent: 2,
		NormalizeBooleans:            Bool(true),
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// WithDefaults returns a copy of c whose unset fields hold the default
// values. c is not modified.
func (c *Config) WithDefaults() (*Config, error) {
	if c == nil {
		return Default(), nil
	}
	cfg, err := deepcopy.Copy(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to copy config")
	}
	if err := mergo.Merge(cfg, Default(), mergo.WithTransformers(setOptions{})); err != nil {
		return nil, errors.Wrap(err, "failed to merge default config")
	}
	return cfg, nil
}

var (
	boolPtr = reflect.TypeOf((*bool)(nil))
	intPtr  = reflect.TypeOf((*int)(nil))
)

// setOptions keeps *bool and *int options that are set. mergo calls it
// for non-nil destinations only and would otherwise replace false and 0.
type setOptions struct{}

func (setOptions) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	if typ != boolPtr && typ != intPtr {
		return nil
	}
	return func(dst, src reflect.Value) error { return nil }
}

// Validate reports the first invalid option of c. c should have been
// completed with WithDefaults.
func (c *Config) Validate() error {
	var errs []error
	if c.IndentMapping < 1 {
		errs = append(errs, fmt.Errorf("indent_mapping must be positive: %d", c.IndentMapping))
	}
	if c.IndentOffset != nil && *c.IndentOffset < 0 {
		errs = append(errs, fmt.Errorf("indent_offset must not be negative: %d", *c.IndentOffset))
	}
	if c.IndentOffset != nil && c.IndentSequence < *c.IndentOffset+2 {
		errs = append(errs, fmt.Errorf("indent_sequence must be at least indent_offset + 2: %d < %d", c.IndentSequence, *c.IndentOffset+2))
	}
	if c.LineLength < 1 {
		errs = append(errs, fmt.Errorf("line_length must be positive: %d", c.LineLength))
	}
	switch c.QuoteRepresentation {
	case "'", `"`:
	default:
		errs = append(errs, fmt.Errorf(`quote_representation must be ' or ": %q`, c.QuoteRepresentation))
	}
	switch c.SequenceStyle {
	case KeepStyle, BlockStyle, FlowStyle:
	default:
		errs = append(errs, fmt.Errorf("unknown sequence_style %q", c.SequenceStyle))
	}
	if c.Whitelines != nil && *c.Whitelines < 0 {
		errs = append(errs, fmt.Errorf("whitelines must not be negative: %d", *c.Whitelines))
	}
	if c.CommentsMinSpacesFromContent < 1 {
		errs = append(errs, fmt.Errorf("comments_min_spaces_from_content must be positive: %d", c.CommentsMinSpacesFromContent))
	}
	return errors.Errors(errs...)
}

// IsTrue reports whether b is set to true.
func IsTrue(b *bool) bool {
	return b != nil && *b
}
