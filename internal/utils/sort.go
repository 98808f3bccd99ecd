package utils

import "sort"

// SortDates orders ISO calendar dates (YYYY-MM-DD), which sort
// lexicographically in chronological order.
func SortDates(dates []string, asc bool) []string {
	sort.Slice(dates, func(i, j int) bool {
		if asc {
			return dates[i] < dates[j]
		}
		return dates[i] > dates[j]
	})
	return dates
}

func GetSortedKeys[T any](m map[string]T, asc bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	return SortDates(keys, asc)
}
