package stattest

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LeveneResult holds the W statistic of Levene's test, its F-distribution
// degrees of freedom and the upper-tail P value.
type LeveneResult struct {
	W        float64
	DF1, DF2 float64
	P        float64
}

// Levene tests the null hypothesis that all groups have equal variances. The
// absolute deviations are taken from each group's median (the Brown-Forsythe
// variant, which is robust to non-normal data). At least two groups with one
// or more observations each, and more observations than groups, are needed;
// otherwise W and P are NaN.
//
// When every group is constant the statistic is undefined and W and P are
// NaN. When the within-group spread of deviations is zero but the groups
// differ, W is +Inf and P is 0.
func Levene(groups ...[]float64) LeveneResult {
	res := LeveneResult{W: math.NaN(), DF1: math.NaN(), DF2: math.NaN(), P: math.NaN()}

	k := len(groups)
	if k < 2 {
		return res
	}

	N := 0
	deviations := make([][]float64, k)
	groupMeans := make([]float64, k)
	grandSum := 0.0

	for i, g := range groups {
		if len(g) == 0 || hasNaN(g) {
			return res
		}

		median, err := stats.Median(g)
		if err != nil {
			return res
		}

		z := make([]float64, len(g))
		for j, v := range g {
			z[j] = math.Abs(v - median)
		}

		deviations[i] = z
		groupMeans[i] = stat.Mean(z, nil)
		grandSum += groupMeans[i] * float64(len(z))
		N += len(z)
	}

	if N <= k {
		return res
	}

	grandMean := grandSum / float64(N)

	var between, within float64
	for i, z := range deviations {
		d := groupMeans[i] - grandMean
		between += float64(len(z)) * d * d

		for _, v := range z {
			e := v - groupMeans[i]
			within += e * e
		}
	}

	res.DF1 = float64(k - 1)
	res.DF2 = float64(N - k)

	if within == 0 {
		if between == 0 {
			return res
		}
		res.W = math.Inf(1)
		res.P = 0
		return res
	}

	res.W = (res.DF2 / res.DF1) * (between / within)
	res.P = distuv.F{D1: res.DF1, D2: res.DF2}.Survival(res.W)

	return res
}

// EqualVariances reports whether Levene's test fails to reject equal
// variances at level alpha. An undefined test (NaN P) counts as unequal, so
// callers fall back to the Welch correction.
func EqualVariances(a, b []float64, alpha float64) bool {
	return Levene(a, b).P > alpha
}

func hasNaN(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) {
			return true
		}
	}

	return false
}
