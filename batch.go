package yamlfix

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quwac/yamlfix/errors"
)

// FixSources corrects sources in parallel with at most jobs workers, or
// one per CPU when jobs is not positive. The results are in the order of
// sources and every result is returned even if some sources fail; the
// failures are also reported together by the returned error.
func (c *Corrector) FixSources(ctx context.Context, sources []Source, jobs int) ([]*Result, error) {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	results := make([]*Result, len(sources))
	var eg errgroup.Group
	eg.SetLimit(jobs)
	for i, src := range sources {
		i, src := i, src
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = &Result{Name: src.Name, Err: err}
				return nil
			}
			r, err := c.Correct(src)
			if err != nil {
				c.logger.Debug("failed to correct source", zap.String("source", src.Name), zap.Error(err))
				results[i] = &Result{Name: src.Name, Err: err}
				return nil
			}
			results[i] = r
			return nil
		})
	}
	_ = eg.Wait()

	errs := make([]error, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, sourceError(r.Name, r.Err))
		}
	}
	return results, errors.Errors(errs...)
}

// sourceError prefixes err with the source name unless it already
// carries a location.
func sourceError(name string, err error) error {
	var perr *errors.ParseError
	if name == "" || errors.As(err, &perr) {
		return err
	}
	return errors.Wrap(err, name)
}
