package evstream

import "context"

// RunChannel starts a background goroutine
// that reads values from ch and passes each one to emit.
//
// The returned done channel is closed when the goroutine stops,
// which will happen on context cancellation or
// if the given channel is closed.
func RunChannel[T any](ctx context.Context, ch <-chan T, emit func(T)) (
	done <-chan struct{},
) {
	doneCh := make(chan struct{})

	go runChannel(ctx, ch, emit, doneCh)

	return doneCh
}

func runChannel[T any](
	ctx context.Context,
	ch <-chan T,
	emit func(T),
	done chan<- struct{},
) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return

		case v, ok := <-ch:
			if !ok {
				return
			}
			emit(v)
		}
	}
}
