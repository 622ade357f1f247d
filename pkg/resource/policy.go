package resource

import (
	"fmt"
	"reflect"
)

// Policy decides from the first local value whether the remote fetch runs.
type Policy[L any] func(local L) bool

// Names of the policies accepted by PolicyByName.
const (
	PolicyAlways = "always"
	PolicyNever  = "never"
	PolicyEmpty  = "empty"
)

// Always fetches on every subscription.
func Always[L any](L) bool { return true }

// Never serves the cache only.
func Never[L any](L) bool { return false }

// WhenEmpty fetches when nothing is cached: a nil pointer, an empty slice
// or map, or any other zero value.
func WhenEmpty[L any](local L) bool {
	v := reflect.ValueOf(local)

	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

// PolicyByName returns the policy with the given name.
func PolicyByName[L any](name string) (Policy[L], error) {
	switch name {
	case PolicyAlways:
		return Always[L], nil
	case PolicyNever:
		return Never[L], nil
	case PolicyEmpty:
		return WhenEmpty[L], nil
	}

	return nil, fmt.Errorf("unknown fetch policy %q, must be one of %s, %s, %s", name, PolicyAlways, PolicyEmpty, PolicyNever)
}
