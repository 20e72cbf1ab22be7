// Package utils provides the small generic helpers shared across the project.
//
// Functional Programming Utilities:
//   - Map, Filter: Generic implementations for slice processing.
//
// Slices:
//   - Contains
//
// Whatever is and can be reusable should be included here.
package utils

/* some Functional Programming in Go */
// map
type mapFunc[E any, R any] func(E) R

// Map function definition of a functional programming "function"
func Map[S ~[]E, E any, R any](s S, f mapFunc[E, R]) []R {
	result := make([]R, len(s))
	for i, e := range s {
		result[i] = f(e)
	}

	return result
}

// filter
type keepFunc[E any] func(E) bool

// Filter function definition of a functional programming "function"
func Filter[S ~[]E, E any](s S, f keepFunc[E]) S {
	result := S{}
	for _, v := range s {
		if f(v) {
			result = append(result, v)
		}
	}

	return result
}

// Contains reports whether the slice holds the given value.
func Contains[S ~[]E, E comparable](s S, v E) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}

	return false
}
