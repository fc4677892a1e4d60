// Package sysinfo samples host telemetry on independent cadences and
// exposes the latest values without blocking readers.
package sysinfo

import "sync/atomic"

// Slot holds the last value written to it. Reads never block and never
// wait for a fresher sample.
type Slot[T any] struct {
	p atomic.Pointer[T]
}

// Store publishes v.
func (s *Slot[T]) Store(v T) {
	s.p.Store(&v)
}

// Load returns the last published value and whether one exists.
func (s *Slot[T]) Load() (T, bool) {
	if p := s.p.Load(); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}
