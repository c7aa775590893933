package date

import (
	"iter"
	"slices"
)

// compare orders two dates chronologically, for binary searches.
func compare(a, b Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// History is a chronological series of dated values. Days are unique and the
// series stays sorted; the zero value is an empty, ready-to-use history.
type History[T float32 | float64 | string] struct {
	days   []Date
	values []T
}

// Len returns the number of points in the history.
func (h *History[T]) Len() int { return len(h.days) }

// First returns the earliest point, or zero values for an empty history.
func (h *History[T]) First() (day Date, value T) {
	if len(h.days) == 0 {
		return
	}
	return h.days[0], h.values[0]
}

// Latest returns the most recent point, or zero values for an empty history.
func (h *History[T]) Latest() (day Date, value T) {
	if len(h.days) == 0 {
		return
	}
	last := len(h.days) - 1
	return h.days[last], h.values[last]
}

// Clear removes every point, keeping the allocated capacity.
func (h *History[T]) Clear() {
	h.days = h.days[:0]
	h.values = h.values[:0]
}

// Append inserts a point at its chronological position. A value already
// recorded for that day is overwritten.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := slices.BinarySearchFunc(h.days, on, compare)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Values iterates over the points in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value recorded exactly on that day.
func (h *History[T]) Get(day Date) (T, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, compare)
	if !found {
		var zero T
		return zero, false
	}
	return h.values[i], true
}

// ValueAsOf returns the value on the given day, falling back to the most
// recent value before it. This is the forward-fill lookup: gaps in the
// series take the last known value. Days before the first point have no
// value at all.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, compare)
	if found {
		return h.values[i], true
	}
	if i == 0 {
		var zero T
		return zero, false
	}
	return h.values[i-1], true
}
