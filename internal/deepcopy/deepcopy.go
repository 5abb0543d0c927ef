// Package deepcopy copies configuration values.
package deepcopy

import (
	"github.com/mitchellh/copystructure"

	"github.com/quwac/yamlfix/errors"
)

// Copy returns a deep copy of v.
func Copy[T any](v T) (T, error) {
	var zero T
	x, err := copystructure.Copy(v)
	if err != nil {
		return zero, errors.Wrap(err, "deep copy failed")
	}
	c, ok := x.(T)
	if !ok {
		return zero, errors.Errorf("deep copy returned %T", x)
	}
	return c, nil
}
