package main

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// checkEvery is how many candidates a worker evaluates between context
// checks and counter flushes.
const checkEvery = 1 << 14

// Problem is one puzzle: six operands and the value to reach.
type Problem struct {
	Numbers [numOperands]uint64
	Target  uint64
}

// Result describes a finished search. Expression is nil when the whole
// candidate space was exhausted without a match.
type Result struct {
	Expression Expression
	Candidates uint64
	Elapsed    time.Duration
}

// Found reports whether the search produced a solution.
func (r Result) Found() bool { return r.Expression != nil }

// Solver runs the parallel candidate search.
type Solver struct {
	workers  int
	progress time.Duration
	log      *logger
}

func newSolver(cfg appConfig, log *logger) *Solver {
	if log == nil {
		log = nopLogger()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Solver{workers: workers, progress: cfg.progress, log: log}
}

// job is the subtree of candidates that start with pool[first].
type job struct {
	pool  []Token
	first int
}

// jobs yields the work units for p. Only one assignment per operator
// multiset is expanded, and only distinct operands open a subtree, since
// a candidate must start with an operand to evaluate at all.
func jobs(p Problem) iter.Seq[job] {
	return func(yield func(job) bool) {
		seen := make(map[assignment]struct{})
		for a := range assignments() {
			c := a.canonical()
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}

			pool := newPool(p.Numbers, c)
			for first, t := range pool {
				if t.Kind != Number {
					break
				}
				if first > 0 && pool[first-1] == t {
					continue
				}
				if !yield(job{pool: pool, first: first}) {
					return
				}
			}
		}
	}
}

// Solve searches for any expression over p.Numbers that evaluates to
// p.Target. The first match seen by any worker wins. A cancelled ctx stops
// the search and returns ctx.Err() unless a match was already recorded.
func (s *Solver) Solve(ctx context.Context, p Problem) (Result, error) {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	s.log.debugf("search started: numbers=%v target=%d workers=%d", p.Numbers, p.Target, s.workers)

	var (
		found     atomic.Bool
		once      sync.Once
		winner    Expression
		evaluated atomic.Uint64
		wg        sync.WaitGroup
	)

	jobCh := make(chan job)
	worker := func() {
		defer wg.Done()
		w := newWalker(nil, true)
		for j := range jobCh {
			if found.Load() || ctx.Err() != nil {
				continue
			}
			w.reset(j.pool)
			var n uint64
			for expr, v := range w.candidates(j.first) {
				n++
				if v == p.Target {
					once.Do(func() {
						winner = slices.Clone(expr)
						found.Store(true)
					})
					cancel()
					break
				}
				if n%checkEvery == 0 {
					evaluated.Add(checkEvery)
					if found.Load() || ctx.Err() != nil {
						break
					}
				}
			}
			evaluated.Add(n % checkEvery)
		}
	}
	wg.Add(s.workers)
	for range s.workers {
		go worker()
	}

	stopProgress := s.reportProgress(start, &evaluated)

feed:
	for j := range jobs(p) {
		select {
		case jobCh <- j:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobCh)
	wg.Wait()
	stopProgress()

	res := Result{
		Expression: winner,
		Candidates: evaluated.Load(),
		Elapsed:    time.Since(start),
	}
	if res.Found() {
		s.log.debugf("search finished: found=%q candidates=%d elapsed=%s", res.Expression, res.Candidates, res.Elapsed.Round(time.Millisecond))
		return res, nil
	}
	if err := parent.Err(); err != nil {
		return res, fmt.Errorf("search aborted after %d candidates: %w", res.Candidates, err)
	}
	s.log.debugf("search exhausted: candidates=%d elapsed=%s", res.Candidates, res.Elapsed.Round(time.Millisecond))
	return res, nil
}

// reportProgress logs the candidate rate every s.progress until the
// returned stop function is called.
func (s *Solver) reportProgress(start time.Time, evaluated *atomic.Uint64) (stop func()) {
	if s.progress <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(s.progress)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				n := evaluated.Load()
				elapsed := now.Sub(start)
				rate := float64(n) / elapsed.Seconds()
				s.log.infof("search in progress: candidates=%d rate=%.0f/s elapsed=%s", n, rate, elapsed.Round(100*time.Millisecond))
			}
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}
