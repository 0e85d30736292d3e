package common

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSlideList parses slide numbers given as "1", "1,3" or ranges like
// "3-5", in any mix across values. Order is kept; numbers must be 1 or more.
// Range bounds against the deck are checked later, once its size is known.
func ParseSlideList(values []string) ([]int, error) {
	var out []int
	for _, val := range values {
		for _, part := range strings.Split(val, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			lo, hi, isRange := strings.Cut(part, "-")
			from, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil || from < 1 {
				return nil, fmt.Errorf("invalid slide number %q", part)
			}
			to := from
			if isRange {
				if to, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
					return nil, fmt.Errorf("invalid range %q", part)
				}
				if to < from {
					return nil, fmt.Errorf("range %q runs backwards", part)
				}
			}
			for n := from; n <= to; n++ {
				out = append(out, n)
			}
		}
	}
	return out, nil
}
