package tui

import "strings"

// FuzzyMatch reports whether every character of query appears in target in
// order, case-insensitively, along with a relevance score. Higher scores mean
// tighter matches: consecutive runs, a hit on the first character, and hits
// right after separators (space, /, -, _, .) all score extra.
func FuzzyMatch(query, target string) (bool, int) {
	if query == "" {
		return true, 0
	}

	q := strings.ToLower(query)
	t := strings.ToLower(target)

	qi := 0
	score := 0
	run := 0

	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] != q[qi] {
			run = 0
			continue
		}
		qi++
		run++
		score += run

		if ti == 0 {
			score += 3
		} else {
			switch t[ti-1] {
			case ' ', '/', '-', '_', '.':
				score += 2
			}
		}
	}

	return qi == len(q), score
}
