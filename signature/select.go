package signature

import (
	"sort"
)

// selectMarkers returns the Up molecules ranked by effect (descending) then
// adjusted P value (ascending), truncated to n. Remaining ties keep matrix
// order. The second return value is the number of Up molecules before
// truncation.
func selectMarkers(stats []MoleculeStatistic, n int) ([]MoleculeStatistic, int) {
	up := make([]MoleculeStatistic, 0)
	for _, s := range stats {
		if s.Threshold == Up {
			up = append(up, s)
		}
	}

	sort.SliceStable(up, func(i, j int) bool {
		if up[i].Log2FoldChange != up[j].Log2FoldChange {
			return up[i].Log2FoldChange > up[j].Log2FoldChange
		}
		return up[i].PAdjusted < up[j].PAdjusted
	})

	total := len(up)
	if total > n {
		up = up[:n]
	}

	return up, total
}
