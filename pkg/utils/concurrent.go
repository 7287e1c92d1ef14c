package utils

import (
	"context"
	"sync"
)

// DefaultMaxConcurrency bounds fan-out when a caller does not specify a
// limit, keeping external API rate limits respected.
const DefaultMaxConcurrency = 5

// ConcurrentExecutor manages concurrent execution of functions with a
// semaphore.
type ConcurrentExecutor struct {
	semaphore chan struct{}
}

// NewConcurrentExecutor creates an executor with the given max concurrency.
func NewConcurrentExecutor(maxConcurrency int) *ConcurrentExecutor {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &ConcurrentExecutor{
		semaphore: make(chan struct{}, maxConcurrency),
	}
}

// Execute runs functions concurrently with semaphore control. Panics in
// goroutines are recovered and converted to PanicError. The returned
// slice is index-aligned with the input.
func (e *ConcurrentExecutor) Execute(ctx context.Context, functions ...func() error) []error {
	if len(functions) == 0 {
		return nil
	}

	results := make([]error, len(functions))
	var wg sync.WaitGroup

	for i, fn := range functions {
		wg.Add(1)
		go func(index int, function func() error) {
			defer wg.Done()
			defer RecoverWithCallback(func(err error) {
				results[index] = err
			})

			// Cancellation wins over a free semaphore slot.
			if err := ctx.Err(); err != nil {
				results[index] = err
				return
			}
			select {
			case e.semaphore <- struct{}{}:
				defer func() { <-e.semaphore }()
			case <-ctx.Done():
				results[index] = ctx.Err()
				return
			}

			results[index] = function()
		}(i, fn)
	}

	wg.Wait()
	return results
}

// ExecuteWithResults runs functions concurrently and returns results and
// errors, both index-aligned with the input. A cancelled context marks
// the not-yet-started entries with ctx.Err() rather than blocking.
func ExecuteWithResults[T any](ctx context.Context, maxConcurrency int, functions ...func() (T, error)) ([]T, []error) {
	if len(functions) == 0 {
		return nil, nil
	}

	executor := NewConcurrentExecutor(maxConcurrency)
	results := make([]T, len(functions))
	errors := make([]error, len(functions))
	var wg sync.WaitGroup

	for i, fn := range functions {
		wg.Add(1)
		go func(index int, function func() (T, error)) {
			defer wg.Done()
			defer RecoverWithCallback(func(err error) {
				errors[index] = err
			})

			if err := ctx.Err(); err != nil {
				errors[index] = err
				return
			}
			select {
			case executor.semaphore <- struct{}{}:
				defer func() { <-executor.semaphore }()
			case <-ctx.Done():
				errors[index] = ctx.Err()
				return
			}

			results[index], errors[index] = function()
		}(i, fn)
	}

	wg.Wait()
	return results, errors
}
