package calculator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"

	"regen/model"
)

// Case is one independent design point of a sweep.
type Case struct {
	Name    string
	Marcher *Marcher
	Inlet   model.CoolantState
	Nominal model.ChannelGeometry
}

// CaseResult keeps the case order of the sweep.
type CaseResult struct {
	Name    string
	Result  *Result
	Err     error
	Elapsed time.Duration
}

// executor runs cases on a fixed pool of workers. Each case marches
// sequentially with its own state.
type executor struct {
	dispatchChan chan task
	workers      int

	doneSoFar chan done
}

type task struct {
	index int
	c     Case
}

type done struct {
	index int
	r     CaseResult
}

func newExecutor(workers, tasks int) *executor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > tasks {
		workers = tasks
	}
	return &executor{
		dispatchChan: make(chan task, tasks),
		workers:      workers,
		doneSoFar:    make(chan done, tasks),
	}
}

func (e *executor) run(ctx context.Context) {
	for i := 0; i < e.workers; i++ {
		go func(worker int) {
			for t := range e.dispatchChan {
				start := time.Now()
				r := CaseResult{Name: t.c.Name}
				if err := ctx.Err(); err != nil {
					r.Err = err
				} else {
					r.Result, r.Err = t.c.Marcher.Run(ctx, t.c.Inlet, t.c.Nominal)
				}
				r.Elapsed = time.Since(start)
				log.WithFields(log.Fields{
					"worker":  worker,
					"case":    t.c.Name,
					"elapsed": r.Elapsed,
				}).Debug("case finished")
				e.doneSoFar <- done{index: t.index, r: r}
			}
		}(i)
	}
}

func (e *executor) dispatchTask(cases []Case) []CaseResult {
	for i, c := range cases {
		e.dispatchChan <- task{index: i, c: c}
	}
	close(e.dispatchChan)

	results := make([]CaseResult, len(cases))
	for range cases {
		d := <-e.doneSoFar
		results[d.index] = d.r
	}
	return results
}

// Sweep runs every case and returns the results in the order given.
func Sweep(ctx context.Context, cases []Case, workers int) []CaseResult {
	if len(cases) == 0 {
		return nil
	}
	e := newExecutor(workers, len(cases))
	log.WithFields(log.Fields{"cases": len(cases), "workers": e.workers}).Info("sweep started")
	e.run(ctx)
	results := e.dispatchTask(cases)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.WithFields(log.Fields{"cases": len(cases), "failed": failed}).Info("sweep finished")
	return results
}

// Errors joins the failures of a sweep, nil when every case succeeded.
func Errors(results []CaseResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("case %s: %w", r.Name, r.Err))
		}
	}
	return errors.Join(errs...)
}
