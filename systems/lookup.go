package systems

import "sort"

// RangeTable maps a numeric key onto one of len(bounds)+1 values.
// A key below bounds[0] selects values[0]; a key equal to or above
// bounds[i] selects values[i+1].
type RangeTable[T any] struct {
	bounds []float64
	values []T
}

// NewRangeTable creates a table. bounds must be ascending and values one
// longer than bounds.
func NewRangeTable[T any](bounds []float64, values []T) RangeTable[T] {
	if len(values) != len(bounds)+1 {
		panic("systems: range table needs len(values) == len(bounds)+1")
	}
	if !sort.Float64sAreSorted(bounds) {
		panic("systems: range table bounds must be ascending")
	}
	return RangeTable[T]{bounds: bounds, values: values}
}

// Lookup returns the value for key.
func (t RangeTable[T]) Lookup(key float64) T {
	i := sort.Search(len(t.bounds), func(i int) bool { return t.bounds[i] > key })
	return t.values[i]
}
