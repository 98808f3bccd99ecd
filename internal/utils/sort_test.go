package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDates(t *testing.T) {
	dates := []string{"2025-03-17", "2024-12-05", "2025-03-03"}

	assert.Equal(t, []string{"2024-12-05", "2025-03-03", "2025-03-17"}, SortDates(dates, true))
	assert.Equal(t, []string{"2025-03-17", "2025-03-03", "2024-12-05"}, SortDates(dates, false))
}

func TestGetSortedKeys(t *testing.T) {
	counts := map[string]int{
		"2025-03-17": 95,
		"2025-03-03": 80,
		"2025-03-10": 120,
	}

	assert.Equal(t, []string{"2025-03-03", "2025-03-10", "2025-03-17"}, GetSortedKeys(counts, true))
}
