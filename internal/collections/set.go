package collections

import (
	"cmp"
	"fmt"
	"slices"
)

// Set is an unordered set of ordered values. Members are always listed sorted
// so output built from a set is stable.
type Set[T cmp.Ordered] map[T]struct{}

// NewSet creates a set holding vs.
func NewSet[T cmp.Ordered](vs ...T) Set[T] {
	s := Set[T]{}
	s.Add(vs...)
	return s
}

// SetOf collects the keys of m.
func SetOf[T cmp.Ordered, V any](m map[T]V) Set[T] {
	s := make(Set[T], len(m))
	for k := range m {
		s[k] = struct{}{}
	}
	return s
}

// Add adds one or more values to the set
func (s Set[T]) Add(vs ...T) {
	for _, v := range vs {
		s[v] = struct{}{}
	}
}

// Remove deletes values from the set.
func (s Set[T]) Remove(vs ...T) {
	for _, v := range vs {
		delete(s, v)
	}
}

// Has checks if the set contains the given value. A nil set has nothing.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Members returns the values in ascending order.
func (s Set[T]) Members() []T {
	r := make([]T, 0, len(s))
	for v := range s {
		r = append(r, v)
	}
	slices.Sort(r)
	return r
}

func (s Set[T]) String() string {
	return fmt.Sprintf("%v", s.Members())
}
