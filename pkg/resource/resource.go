// Package resource turns a live local read and a conditional remote fetch
// into one ordered stream of Loading, Success and Error states.
package resource

// Resource is one state of a resource stream. It is exactly one of
// Loading, Success and Error, use Match to handle it.
type Resource[T any] interface {
	// Value returns the data carried by the state. It is the zero value of
	// T when no data is available yet.
	Value() T
	state() string
}

// Loading is emitted while the remote fetch has not completed. Data is the
// zero value before the first local read.
type Loading[T any] struct {
	Data T
}

// Success carries data from the local cache after the fetch completed or
// was not needed.
type Success[T any] struct {
	Data T
}

// Error carries the fetch failure together with the data currently cached.
type Error[T any] struct {
	Err  error
	Data T
}

func (r Loading[T]) Value() T { return r.Data }
func (r Success[T]) Value() T { return r.Data }
func (r Error[T]) Value() T   { return r.Data }

func (Loading[T]) state() string { return StateLoading }
func (Success[T]) state() string { return StateSuccess }
func (Error[T]) state() string   { return StateError }

const (
	StateLoading = "loading"
	StateSuccess = "success"
	StateError   = "error"
)

// State returns the name of the state of r.
func State[T any](r Resource[T]) string {
	return r.state()
}

// Match calls the handler for the state of r and returns its result.
func Match[T, R any](r Resource[T], onLoading func(Loading[T]) R, onSuccess func(Success[T]) R, onError func(Error[T]) R) R {
	switch r := r.(type) {
	case Loading[T]:
		return onLoading(r)
	case Success[T]:
		return onSuccess(r)
	case Error[T]:
		return onError(r)
	}

	// Resource cannot be implemented outside of this package
	panic("resource: nil state")
}

// Settled reports whether r is a Success or an Error.
func Settled[T any](r Resource[T]) bool {
	return r.state() != StateLoading
}
