package session

import (
	"context"
	"time"
)

// race runs fn under a context bounded by timeout. When the deadline (or
// the parent context) fires first, the context passed to fn is cancelled
// and whatever fn returns afterwards is dropped.
func race[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1) // buffered: a late sender never blocks
	go func() {
		v, err := fn(ctx)
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
