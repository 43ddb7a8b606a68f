package f1sustain

import (
	"fmt"
	"sort"
	"strings"
)

// Drivers returns the distinct drivers in the enriched laps, sorted.
func Drivers(laps []EnrichedLap) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 20)
	for _, l := range laps {
		if _, ok := seen[l.Driver]; ok {
			continue
		}
		seen[l.Driver] = struct{}{}
		out = append(out, l.Driver)
	}
	sort.Strings(out)
	return out
}

// SelectPair resolves the two drivers to compare. Blank selections default to
// the first and second entries of drivers. The same driver may be picked twice.
func SelectPair(drivers []string, first, second string) (string, string, error) {
	if len(drivers) < 2 {
		return "", "", fmt.Errorf("%w: dataset has %d", ErrTooFewDrivers, len(drivers))
	}
	first = strings.TrimSpace(first)
	second = strings.TrimSpace(second)
	if first == "" {
		first = drivers[0]
	}
	if second == "" {
		second = drivers[1]
	}
	for _, d := range []string{first, second} {
		if !containsString(drivers, d) {
			return "", "", fmt.Errorf("%w: %s", ErrDriverNotFound, d)
		}
	}
	return first, second, nil
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
