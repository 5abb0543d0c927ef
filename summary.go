package yamlfix

import (
	"fmt"
	"sync"

	"github.com/quwac/yamlfix/color"
)

// Summary counts the outcome of a run over many sources.
type Summary struct {
	mu        sync.Mutex
	check     bool
	color     *color.Config
	fixed     []string
	unchanged []string
	failed    []string
}

// NewSummary returns a Summary. In check mode changed sources are
// reported as sources that would be fixed.
func NewSummary(check bool, c *color.Config) *Summary {
	if c == nil {
		c = color.New()
	}
	return &Summary{check: check, color: c}
}

// Add records the outcome of r.
func (s *Summary) Add(r *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case r.Err != nil:
		s.failed = append(s.failed, r.Name)
	case r.Changed:
		s.fixed = append(s.fixed, r.Name)
	default:
		s.unchanged = append(s.unchanged, r.Name)
	}
}

// Fixed returns the names of the changed sources.
func (s *Summary) Fixed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fixed...)
}

// Unchanged returns the names of the sources left as they were.
func (s *Summary) Unchanged() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.unchanged...)
}

// Failed returns the names of the sources that could not be corrected.
func (s *Summary) Failed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.failed...)
}

// String converts Summary to the string like below.
// 11 files checked: 2 fixed, 7 unchanged, 2 failed
//
// Failed files:
//   - config/a.yaml
//   - config/b.yaml
func (s *Summary) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	fixed := "fixed"
	if s.check {
		fixed = "would be fixed"
	}
	return fmt.Sprintf(
		"%d files checked: %s, %d unchanged, %s\n%s",
		len(s.fixed)+len(s.unchanged)+len(s.failed),
		s.color.Green().Sprintf("%d %s", len(s.fixed), fixed),
		len(s.unchanged),
		s.color.Red().Sprintf("%d failed", len(s.failed)),
		s.failedFiles(),
	)
}

func (s *Summary) failedFiles() string {
	if len(s.failed) == 0 {
		return ""
	}

	result := "\nFailed files:\n"
	for _, f := range s.failed {
		result += fmt.Sprintf("\t- %s\n", f)
	}

	return result
}
