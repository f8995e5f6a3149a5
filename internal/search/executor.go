package search

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PSeitz/veloci-sub001/model"
)

// Executor runs plans on a bounded pool of workers. Siblings under a combinator are
// run in parallel while workers are free; otherwise they run on the calling goroutine,
// so nested fan-out never waits for a worker and cannot deadlock.
type Executor struct {
	workers chan struct{}
}

// NewExecutor creates an executor with the given number of workers.
// A non-positive size uses one worker per CPU.
func NewExecutor(workers int) *Executor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Executor{workers: make(chan struct{}, workers)}
}

// Execute runs the plan rooted at root and returns its result.
// The first failing step aborts the whole plan; partial results are discarded.
func (e *Executor) Execute(ctx context.Context, root PlanStep) (*model.SearchFieldResult, error) {
	start := time.Now()
	result, err := e.run(ctx, root)
	if err != nil {
		return nil, err
	}
	slog.Debug("plan executed",
		"steps", countSteps(root),
		"hits", len(result.HitsScores),
		"duration", time.Since(start))
	return result, nil
}

func (e *Executor) run(ctx context.Context, step PlanStep) (*model.SearchFieldResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	children := step.Inputs()
	inputs := make([]*model.SearchFieldResult, len(children))

	switch len(children) {
	case 0:
	case 1:
		result, err := e.run(ctx, children[0])
		if err != nil {
			return nil, err
		}
		inputs[0] = result
	default:
		if err := e.runAll(ctx, children, inputs); err != nil {
			return nil, err
		}
	}

	result, err := step.Execute(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("%s step failed: %w", step.Kind(), err)
	}
	return result, nil
}

// runAll executes children concurrently and stores their results in inputs.
// The first failure is recorded before the siblings are cancelled, so the error returned
// is that failure and never the cancellation it caused.
func (e *Executor) runAll(ctx context.Context, children []PlanStep, inputs []*model.SearchFieldResult) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		g        errgroup.Group
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i, child := range children {
		i, child := i, child
		if ctx.Err() != nil {
			break
		}
		select {
		case e.workers <- struct{}{}:
			g.Go(func() error {
				defer func() { <-e.workers }()
				result, err := e.run(ctx, child)
				if err != nil {
					fail(err)
					return err
				}
				inputs[i] = result
				return nil
			})
		default:
			result, err := e.run(ctx, child)
			if err != nil {
				fail(err)
				continue
			}
			inputs[i] = result
		}
	}
	_ = g.Wait()

	if firstErr == nil {
		// cancelled by the caller before any child failed
		firstErr = ctx.Err()
	}
	return firstErr
}
