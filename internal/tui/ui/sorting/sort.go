// Package sorting provides the sort-order plumbing shared by tabular views.
package sorting

import "sort"

// SortOrder represents the direction of a sort
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// Toggle returns the opposite direction
func (o SortOrder) Toggle() SortOrder {
	if o == Ascending {
		return Descending
	}
	return Ascending
}

// SortArrow returns the indicator drawn next to the active column header
func SortArrow(order SortOrder) string {
	if order == Ascending {
		return "▲"
	}
	return "▼"
}

// SortStringField sorts items in place by a string key. The sort is stable
// so rows with equal keys keep their document order.
func SortStringField[T any](items []T, key func(T) string, order SortOrder) {
	sort.SliceStable(items, func(i, j int) bool {
		if order == Ascending {
			return key(items[i]) < key(items[j])
		}
		return key(items[i]) > key(items[j])
	})
}

// SortNumberField sorts items in place by a numeric key, stable like
// SortStringField.
func SortNumberField[T any](items []T, key func(T) float64, order SortOrder) {
	sort.SliceStable(items, func(i, j int) bool {
		if order == Ascending {
			return key(items[i]) < key(items[j])
		}
		return key(items[i]) > key(items[j])
	})
}
