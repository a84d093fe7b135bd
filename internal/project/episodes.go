package project

import (
	"fmt"
	"strconv"
	"strings"
)

const maxEpisodeRange = 500

// ParseEpisodes reads a list of episode numbers such as "3", "1,2,5" or
// "13-24".
func ParseEpisodes(value string) ([]int, error) {
	var out []int
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' }) {
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(lo)
		if err != nil || start <= 0 {
			return nil, fmt.Errorf("invalid episode %q", part)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(hi)
			if err != nil || end < start || end-start >= maxEpisodeRange {
				return nil, fmt.Errorf("invalid episode range %q", part)
			}
		}
		for n := start; n <= end; n++ {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no episodes given")
	}
	return out, nil
}
