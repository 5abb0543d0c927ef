// Package color provides the colors of the command output.
package color

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/printer"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	envYamlfixColor = "YAMLFIX_COLOR"
)

type Color = color.Color

// Config represents color configuration of the command output.
type Config struct {
	enabled *bool // nil means use default behavior
	red     *Color
	green   *Color
	yellow  *Color
	cyan    *Color
	colors  []*Color
}

// New creates a new color configuration instance initialized from environment variables.
func New() *Config {
	c := &Config{
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		cyan:   color.New(color.FgCyan),
	}
	c.colors = []*Color{c.red, c.green, c.yellow, c.cyan}

	if envColor := os.Getenv(envYamlfixColor); envColor != "" {
		if result, err := strconv.ParseBool(envColor); err == nil {
			c.enabled = &result
			c.updateColorInstances()
		}
	}
	return c
}

// updateColorInstances enables or disables color instances based on the enabled setting.
func (c *Config) updateColorInstances() {
	if c.enabled == nil {
		// leave instances as default (respects color.NoColor)
		return
	}
	for _, colorInstance := range c.colors {
		if *c.enabled {
			colorInstance.EnableColor()
		} else {
			colorInstance.DisableColor()
		}
	}
}

// IsEnabled returns whether color output is enabled for this Config instance.
func (c *Config) IsEnabled() bool {
	if c != nil && c.enabled != nil {
		return *c.enabled
	}
	return !color.NoColor
}

// SetEnabled sets the enabled state for this Config instance and updates color instances.
func (c *Config) SetEnabled(enabled bool) {
	c.enabled = &enabled
	c.updateColorInstances()
}

func (c *Config) Red() *Color    { return c.red }
func (c *Config) Green() *Color  { return c.green }
func (c *Config) Yellow() *Color { return c.yellow }
func (c *Config) Cyan() *Color   { return c.cyan }

// Highlight colors the tokens of a YAML text.
func (c *Config) Highlight(text string) string {
	if !c.IsEnabled() {
		return text
	}
	tokens := lexer.Tokenize(text)
	var p printer.Printer
	p.Bool = property(color.FgHiMagenta)
	p.Number = property(color.FgHiMagenta)
	p.MapKey = property(color.FgHiCyan)
	p.Anchor = property(color.FgHiYellow)
	p.Alias = property(color.FgHiYellow)
	p.String = property(color.FgHiGreen)
	p.Comment = property(color.FgHiBlack)
	return p.PrintTokens(tokens)
}

func property(attr color.Attribute) func() *printer.Property {
	return func() *printer.Property {
		return &printer.Property{
			Prefix: format(attr),
			Suffix: format(color.Reset),
		}
	}
}

// Diff returns the line diff from before to after, one line per entry
// prefixed with '-', '+' or ' '.
func (c *Config) Diff(name, before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	sb.WriteString(c.yellow.Sprintf("--- %s", name))
	sb.WriteByte('\n')
	sb.WriteString(c.yellow.Sprintf("+++ %s", name))
	sb.WriteByte('\n')
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				sb.WriteString(c.red.Sprint("-" + line))
			case diffmatchpatch.DiffInsert:
				sb.WriteString(c.green.Sprint("+" + line))
			default:
				sb.WriteString(" " + line)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

const escape = "\x1b"

func format(attr color.Attribute) string {
	return fmt.Sprintf("%s[%dm", escape, attr)
}
