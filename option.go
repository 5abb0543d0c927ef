package yamlfix

import (
	"go.uber.org/zap"

	"github.com/quwac/yamlfix/errors"
	"github.com/quwac/yamlfix/rule"
	"github.com/quwac/yamlfix/schema"
)

// WithConfig returns an option to set the configuration.
func WithConfig(config *schema.Config) func(*Corrector) error {
	return func(c *Corrector) error {
		c.config = config
		return nil
	}
}

// WithLogger returns an option to set the logger.
func WithLogger(logger *zap.Logger) func(*Corrector) error {
	return func(c *Corrector) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithRules returns an option to replace the default rules.
func WithRules(rules ...rule.Rule) func(*Corrector) error {
	return func(c *Corrector) error {
		c.rules = rules
		if c.rules == nil {
			c.rules = []rule.Rule{}
		}
		return nil
	}
}

// WithSingleDocument returns an option to reject sources holding more than
// one document.
func WithSingleDocument() func(*Corrector) error {
	return func(c *Corrector) error {
		c.single = true
		return nil
	}
}
