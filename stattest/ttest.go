package stattest

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TTestKind selects how the two-sample t-test treats the group variances.
type TTestKind int

const (
	// Student pools the two variances (equal-variance assumption).
	Student TTestKind = iota
	// Welch keeps the variances separate and uses the Welch-Satterthwaite
	// degrees of freedom.
	Welch
)

func (k TTestKind) String() string {
	switch k {
	case Student:
		return "student"
	case Welch:
		return "welch"
	}

	return "unknown"
}

// TTestResult is the outcome of a two-sample t-test. P is two-sided.
type TTestResult struct {
	Kind TTestKind
	T    float64
	DF   float64
	P    float64
}

// TwoSample compares the means of a and b. Each group needs at least two
// observations, otherwise T and P are NaN.
//
// If both groups have zero variance, T is ±Inf with P = 0 when the means
// differ, and NaN when they are equal.
func TwoSample(a, b []float64, kind TTestKind) TTestResult {
	res := TTestResult{Kind: kind, T: math.NaN(), DF: math.NaN(), P: math.NaN()}

	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return res
	}

	m1, v1 := stat.MeanVariance(a, nil)
	m2, v2 := stat.MeanVariance(b, nil)

	var se float64
	switch kind {
	case Welch:
		vn1, vn2 := v1/n1, v2/n2
		se = math.Sqrt(vn1 + vn2)
		res.DF = (vn1 + vn2) * (vn1 + vn2) / (vn1*vn1/(n1-1) + vn2*vn2/(n2-1))

		// Both variances zero: df is 0/0. Any df gives the same P for an
		// infinite statistic.
		if math.IsNaN(res.DF) {
			res.DF = 1
		}
	default:
		res.DF = n1 + n2 - 2
		pooled := ((n1-1)*v1 + (n2-1)*v2) / res.DF
		se = math.Sqrt(pooled * (1/n1 + 1/n2))
	}

	res.T = (m1 - m2) / se

	switch {
	case math.IsNaN(res.T):
		return res
	case math.IsInf(res.T, 0):
		res.P = 0
	default:
		res.P = 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: res.DF}.Survival(math.Abs(res.T))
	}

	if res.P > 1 {
		res.P = 1
	}

	return res
}

// Adaptive runs Levene's test first and picks Student's t-test when the
// variances look equal (Levene P > alpha) and Welch's otherwise.
func Adaptive(a, b []float64, alpha float64) TTestResult {
	if EqualVariances(a, b, alpha) {
		return TwoSample(a, b, Student)
	}

	return TwoSample(a, b, Welch)
}
