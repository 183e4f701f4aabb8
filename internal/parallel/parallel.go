package parallel

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of a parallel task.
type Result struct {
	Name    string
	OK      bool
	Err     error
	Output  string
	Elapsed time.Duration
}

// Task is a function that runs in parallel.
type Task struct {
	Name string
	Fn   func(ctx context.Context) (string, error)
}

// Run executes tasks in parallel with the given concurrency limit and
// returns results in the order tasks were submitted. A failing task never
// stops the others. Tasks not started when ctx is done fail with ctx's error.
// done, if set, is called once per finished task, one call at a time.
func Run(ctx context.Context, tasks []Task, concurrency int, done func(Result)) []Result {
	if concurrency < 1 {
		concurrency = 4
	}

	results := make([]Result, len(tasks))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, task := range tasks {
		g.Go(func() error {
			start := time.Now()
			var output string
			err := gctx.Err()
			if err == nil {
				output, err = task.Fn(gctx)
			}
			r := Result{Name: task.Name, OK: err == nil, Err: err, Output: output, Elapsed: time.Since(start)}

			mu.Lock()
			results[i] = r
			if done != nil {
				done(r)
			}
			mu.Unlock()

			return nil // collect, never fail the group
		})
	}

	_ = g.Wait()
	return results
}
