package repository

import (
	"context"

	"github.com/pocketledger/client/pkg/resource"
	"github.com/rs/zerolog/log"
)

// RetryOnReconnect forwards the states of the stream returned by build.
// When the stream is in the Error state and connectivity changes from
// offline to online, the stream is built again, which fetches again.
//
// The channel is closed when ctx is done.
func RetryOnReconnect[T any](ctx context.Context, online <-chan bool, build func(ctx context.Context) <-chan resource.Resource[T]) <-chan resource.Resource[T] {
	out := make(chan resource.Resource[T])

	go func() {
		defer close(out)

		inner, cancel := context.WithCancel(ctx)
		defer func() { cancel() }()

		current := build(inner)
		failed := false
		wasOnline, known := false, false

		for {
			select {
			case <-ctx.Done():
				return

			case r, ok := <-current:
				if !ok {
					current = nil
					continue
				}

				failed = resource.State(r) == resource.StateError
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}

			case isOnline, ok := <-online:
				if !ok {
					online = nil
					continue
				}

				reconnected := known && !wasOnline && isOnline
				wasOnline, known = isOnline, true

				if reconnected && failed {
					log.Info().Msg("connectivity is back, fetching again")

					cancel()
					inner, cancel = context.WithCancel(ctx)
					current = build(inner)
					failed = false
				}
			}
		}
	}()

	return out
}
