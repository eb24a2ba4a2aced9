package probe

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/connprobe/internal/domain"
)

type entry struct {
	backend domain.Backend
	checker Checker
}

// Suite runs a fixed set of checkers and reports in registration order.
type Suite struct {
	entries    []entry
	Concurrent bool
}

func NewSuite(concurrent bool) *Suite {
	return &Suite{Concurrent: concurrent}
}

func (s *Suite) Add(b domain.Backend, c Checker) *Suite {
	s.entries = append(s.entries, entry{backend: b, checker: c})
	return s
}

func (s *Suite) Get(b domain.Backend) (Checker, bool) {
	for _, e := range s.entries {
		if e.backend == b {
			return e.checker, true
		}
	}
	return nil, false
}

func (s *Suite) Backends() []domain.Backend {
	out := make([]domain.Backend, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.backend)
	}
	return out
}

func (s *Suite) Run(ctx context.Context) []domain.NamedResult {
	results := make([]domain.NamedResult, len(s.entries))
	if !s.Concurrent {
		for i, e := range s.entries {
			results[i] = domain.NamedResult{Backend: e.backend, Result: e.checker.Check(ctx)}
		}
		return results
	}

	var (
		mu       sync.Mutex
		panicked any
	)
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range s.entries {
		g.Go(func() error {
			defer func() {
				if v := recover(); v != nil {
					mu.Lock()
					if panicked == nil {
						panicked = v
					}
					mu.Unlock()
				}
			}()
			results[i] = domain.NamedResult{Backend: e.backend, Result: e.checker.Check(gctx)}
			return nil
		})
	}
	_ = g.Wait() // checkers never return errors
	if panicked != nil {
		// surface it on the caller's goroutine, where HTTP recovery can see it
		panic(panicked)
	}
	return results
}
