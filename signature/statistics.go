package signature

import (
	"context"
	"math"

	"github.com/carbocation/cellscribe/expression"
	"github.com/carbocation/cellscribe/stattest"
	"gonum.org/v1/gonum/stat"
)

// MoleculeStatistic is the test outcome of one molecule in one population.
type MoleculeStatistic struct {
	Molecule string

	// Log2FoldChange is the effect: the difference of group means, or
	// log2 of their ratio when Config.Log2Transform is set.
	Log2FoldChange float64

	PValue    float64
	PAdjusted float64
	Threshold Threshold

	// Test is the t-test variant chosen by Levene's test.
	Test stattest.TTestKind
}

// groups splits the matrix columns into the samples of population and the
// rest, by exact lookup in the mapping.
func groups(m *expression.Matrix, mapping *expression.Mapping, population string) (target, rest []int) {
	for i, s := range m.Samples() {
		if p, ok := mapping.PopulationOf(s); ok && p == population {
			target = append(target, i)
		} else {
			rest = append(rest, i)
		}
	}

	return target, rest
}

// ctxCheckEvery sets how many molecules are tested between context checks.
const ctxCheckEvery = 1024

// computeStatistics tests every molecule of m for target versus rest,
// corrects the P values and classifies each molecule. The number of
// molecules whose test was undefined is returned alongside.
func computeStatistics(ctx context.Context, m *expression.Matrix, target, rest []int, cfg Config) ([]MoleculeStatistic, int, error) {
	molecules := m.Molecules()
	out := make([]MoleculeStatistic, len(molecules))
	pvals := make([]float64, len(molecules))

	a := make([]float64, len(target))
	b := make([]float64, len(rest))

	undefined := 0
	for i, id := range molecules {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}

		row := m.Row(i)
		for j, col := range target {
			a[j] = row[col]
		}
		for j, col := range rest {
			b[j] = row[col]
		}

		res := stattest.Adaptive(a, b, cfg.VarianceAlpha)
		if math.IsNaN(res.P) {
			undefined++
		}

		pvals[i] = res.P
		out[i] = MoleculeStatistic{
			Molecule:       id,
			Log2FoldChange: effectSize(a, b, cfg.Log2Transform),
			PValue:         res.P,
			Test:           res.Kind,
		}
	}

	for i, padj := range stattest.BenjaminiHochberg(pvals) {
		out[i].PAdjusted = padj
		out[i].Threshold = classify(out[i].Log2FoldChange, padj, cfg)
	}

	return out, undefined, nil
}

// effectSize is mean(a) - mean(b), or log2(mean(a) / mean(b)) when
// logRatio is set. A ratio that is not positive has no logarithm and gives
// NaN.
func effectSize(a, b []float64, logRatio bool) float64 {
	ma, mb := stat.Mean(a, nil), stat.Mean(b, nil)

	if !logRatio {
		return ma - mb
	}

	ratio := ma / mb
	if !(ratio > 0) {
		return math.NaN()
	}

	return math.Log2(ratio)
}

// xLimit is the symmetric x-axis half-width for plotting: the largest finite
// absolute effect plus one.
func xLimit(stats []MoleculeStatistic) float64 {
	max := 0.0
	for _, s := range stats {
		v := math.Abs(s.Log2FoldChange)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v > max {
			max = v
		}
	}

	return max + 1
}
