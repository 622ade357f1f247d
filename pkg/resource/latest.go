package resource

import "context"

// Latest forwards the states of the stream built for the most recent
// trigger value. Every new trigger cancels the previous stream and builds a
// new one, which issues a new fetch.
//
// The channel is closed when ctx is done, or when triggers is closed and the
// last stream has ended.
func Latest[K, T any](ctx context.Context, triggers <-chan K, build func(ctx context.Context, trigger K) <-chan Resource[T]) <-chan Resource[T] {
	out := make(chan Resource[T])

	go func() {
		defer close(out)

		cancel := func() {}
		defer func() { cancel() }()

		var current <-chan Resource[T]
		for {
			select {
			case <-ctx.Done():
				return

			case trigger, ok := <-triggers:
				if !ok {
					triggers = nil
					if current == nil {
						return
					}
					continue
				}

				cancel()
				var inner context.Context
				inner, cancel = context.WithCancel(ctx)
				current = build(inner, trigger)

			case r, ok := <-current:
				if !ok {
					current = nil
					if triggers == nil {
						return
					}
					continue
				}

				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
