package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// History is the append-only record of processed observation dates. It is
// the single source of truth for what has already been rendered: a date,
// once recorded, keeps its source image index and pixel count forever.
type History struct {
	Dates       []string          `json:"dates"`
	DateToIndex map[string]string `json:"date_to_index"`
	PixelCounts map[string]int    `json:"pixel_counts"`
}

// Candidate is one observation returned by the imagery search: a calendar
// date plus the source-specific scene index it was derived from.
type Candidate struct {
	Date  string
	Index string
}

func New() *History {
	return &History{
		Dates:       []string{},
		DateToIndex: map[string]string{},
		PixelCounts: map[string]int{},
	}
}

// Load reads persisted history. A missing file means "first run" and yields
// an empty history, not an error.
func Load(path string) (*History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read history file %s: %v", path, err)
	}

	h := New()
	if err := json.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %v", path, err)
	}
	if h.Dates == nil {
		h.Dates = []string{}
	}
	if h.DateToIndex == nil {
		h.DateToIndex = map[string]string{}
	}
	if h.PixelCounts == nil {
		h.PixelCounts = map[string]int{}
	}
	return h, nil
}

// ComputeDelta returns the candidates whose date is not yet recorded,
// sorted ascending by date. When the same calendar date shows up more than
// once in a run (duplicate captures of one day), the first-seen index wins
// and later duplicates are dropped. Pure function of its inputs.
func ComputeDelta(h *History, candidates []Candidate) []Candidate {
	seen := make(map[string]struct{})
	var delta []Candidate
	for _, c := range candidates {
		if _, known := h.DateToIndex[c.Date]; known {
			continue
		}
		if _, claimed := seen[c.Date]; claimed {
			continue
		}
		seen[c.Date] = struct{}{}
		delta = append(delta, c)
	}

	sort.Slice(delta, func(i, j int) bool {
		return delta[i].Date < delta[j].Date
	})
	return delta
}

// RecordDate appends one processed date. Recording a date twice is an
// error: ComputeDelta filters known dates, so a duplicate here means the
// caller skipped the delta and would otherwise corrupt the history.
func (h *History) RecordDate(date, index string, pixelCount int) error {
	if _, ok := h.DateToIndex[date]; ok {
		return fmt.Errorf("date %s is already recorded", date)
	}

	h.Dates = append(h.Dates, date)
	h.DateToIndex[date] = index
	h.PixelCounts[date] = pixelCount
	return nil
}

// TotalPixels sums the recorded pixel counts over all dates.
func (h *History) TotalPixels() int {
	total := 0
	for _, count := range h.PixelCounts {
		total += count
	}
	return total
}

// Save writes the history atomically: marshal, write a temp file in the
// same directory, rename over the previous file. A crash mid-write leaves
// the previously-good file intact. Map keys are marshalled sorted, so a
// replayed run produces byte-identical output.
func (h *History) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %v", err)
	}

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %v", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp history file: %v", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp history file: %v", err)
	}
	return nil
}

// SaveLastProcessed writes the marker consumed as --last-date by the next
// invocation. Only call this after Save succeeded.
func SaveLastProcessed(date, path string) error {
	if err := os.WriteFile(path, []byte(date), 0644); err != nil {
		return fmt.Errorf("failed to write last processed marker: %v", err)
	}
	return nil
}
