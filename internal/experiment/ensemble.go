package experiment

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs several experiments concurrently. Each gets its own world,
// so nothing is shared between goroutines.
type Ensemble struct {
	configs []Config
	logger  *log.Logger
}

func NewEnsemble(configs ...Config) *Ensemble {
	return &Ensemble{configs: configs, logger: log.Default()}
}

// SetLogger sets the logger shared by every run. log.Logger is safe for
// concurrent use.
func (e *Ensemble) SetLogger(l *log.Logger) { e.logger = l }

// Run returns results in the order the configs were given. The first error
// cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.configs))

	g, ctx := errgroup.WithContext(ctx)
	for i, cfg := range e.configs {
		i, cfg := i, cfg
		g.Go(func() error {
			exp := New(cfg)
			exp.SetLogger(e.logger)
			res, err := exp.Run(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
