// Package vocab holds the word list model: entries grouped by day.
package vocab

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
)

// FallbackDay is the day selected when the collection is empty.
const FallbackDay = "Day1"

// WordEntry is a single vocabulary item.
type WordEntry struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
}

// DayCollection maps a day key (e.g. "Day1") to its ordered entries.
// It is read-only once loaded.
type DayCollection map[string][]WordEntry

// DataLoadError reports that the word list could not be fetched or decoded.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load word data: %v", e.Err)
	}
	return fmt.Sprintf("load word data from %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Parse decodes a word list resource. The payload is not validated beyond
// what JSON decoding enforces.
func Parse(r io.Reader) (DayCollection, error) {
	var c DayCollection
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, &DataLoadError{Err: err}
	}
	if c == nil {
		c = DayCollection{}
	}
	return c, nil
}

// Entries returns a copy of the entries for day. Unknown days yield an
// empty slice.
func (c DayCollection) Entries(day string) []WordEntry {
	src := c[day]
	out := make([]WordEntry, len(src))
	copy(out, src)
	return out
}

var (
	dayPrefix = regexp.MustCompile(`(?i)^day`)
	firstNum  = regexp.MustCompile(`\d+`)
)

// NormalizeDay rewrites a leading "day" (any case) to "Day".
func NormalizeDay(key string) string {
	return dayPrefix.ReplaceAllLiteralString(key, "Day")
}

// dayNumber extracts the first run of digits in key, or 0 when there is none.
func dayNumber(key string) int {
	m := firstNum.FindString(key)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// SortedDays returns the collection's keys ordered by their day number.
// Keys with the same number keep lexical order.
func SortedDays(c DayCollection) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return dayNumber(keys[i]) < dayNumber(keys[j])
	})
	return keys
}

// DefaultDay returns the first day in sorted order, or FallbackDay.
func DefaultDay(c DayCollection) string {
	keys := SortedDays(c)
	if len(keys) == 0 {
		return FallbackDay
	}
	return keys[0]
}
