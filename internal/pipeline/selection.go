package pipeline

import (
	"log/slog"
	"sort"
)

// SelectIndices turns a requested list of 1-based indices into the ascending,
// de-duplicated set to process. Out of range numbers are dropped with a
// warning; when nothing valid remains every index in 1..total is returned.
func SelectIndices(requested []int, total int, logger *slog.Logger) []int {
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[int]struct{}, len(requested))
	var out []int
	var dropped []int
	for _, n := range requested {
		if n < 1 || n > total {
			dropped = append(dropped, n)
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if len(dropped) > 0 {
		logger.Warn("selection.out_of_range", "dropped", dropped, "total", total)
	}

	if len(out) == 0 {
		if len(requested) > 0 {
			logger.Warn("selection.empty", "msg", "no valid selection; processing all", "total", total)
		}
		out = make([]int, total)
		for i := range out {
			out[i] = i + 1
		}
		return out
	}
	sort.Ints(out)
	return out
}
