package stattest

import (
	"math"
	"sort"
)

// BenjaminiHochberg returns false discovery rate adjusted P values, aligned
// with the input. NaN entries are left out of the procedure (they neither
// count towards the number of tests nor receive a rank) and stay NaN in the
// output. Adjusted values are capped at 1 and are never smaller than the raw
// P value they correspond to.
func BenjaminiHochberg(pvals []float64) []float64 {
	out := make([]float64, len(pvals))

	idx := make([]int, 0, len(pvals))
	for i, p := range pvals {
		if math.IsNaN(p) {
			out[i] = math.NaN()
			continue
		}
		idx = append(idx, i)
	}

	n := len(idx)
	if n == 0 {
		return out
	}

	sort.SliceStable(idx, func(i, j int) bool {
		return pvals[idx[i]] < pvals[idx[j]]
	})

	minP := 1.0
	for i := n - 1; i >= 0; i-- {
		origIdx := idx[i]
		rank := i + 1
		adjusted := pvals[origIdx] * float64(n) / float64(rank)
		if adjusted < minP {
			minP = adjusted
		}
		out[origIdx] = minP
	}

	return out
}
