package stattest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	oneToFive = []float64{1, 2, 3, 4, 5}
	sixToTen  = []float64{6, 7, 8, 9, 10}
	evens     = []float64{2, 4, 6, 8, 10, 12}
)

func TestTwoSample(t *testing.T) {
	truthTable := []struct {
		Name string
		A, B []float64
		Kind TTestKind
		T    float64
		DF   float64
		P    float64
	}{
		{"student shifted", oneToFive, sixToTen, Student, -5.0, 8, 0.0010528257933665394},
		{"student unequal n", oneToFive, evens, Student, -2.215646837627989, 9, 0.053945920509407025},
		{"welch unequal n", oneToFive, evens, Welch, -2.3763541031440183, 6.9722557297949335, 0.04928433820673054},
	}

	for _, v := range truthTable {
		t.Run(v.Name, func(t *testing.T) {
			res := TwoSample(v.A, v.B, v.Kind)
			require.Equal(t, v.Kind, res.Kind)
			require.InDelta(t, v.T, res.T, 1e-9)
			require.InDelta(t, v.DF, res.DF, 1e-9)
			require.InDelta(t, v.P, res.P, 1e-9)
		})
	}
}

func TestTwoSampleSymmetry(t *testing.T) {
	ab := TwoSample(oneToFive, evens, Welch)
	ba := TwoSample(evens, oneToFive, Welch)

	require.InDelta(t, -ab.T, ba.T, 1e-12)
	require.InDelta(t, ab.P, ba.P, 1e-12)
}

func TestTwoSampleDegenerate(t *testing.T) {
	t.Run("too few observations", func(t *testing.T) {
		res := TwoSample([]float64{1}, []float64{2, 3}, Student)
		require.True(t, math.IsNaN(res.T))
		require.True(t, math.IsNaN(res.P))
	})

	t.Run("constant groups with different means", func(t *testing.T) {
		for _, kind := range []TTestKind{Student, Welch} {
			res := TwoSample([]float64{10, 10}, []float64{2, 2}, kind)
			require.True(t, math.IsInf(res.T, 1), kind.String())
			require.Equal(t, 0.0, res.P, kind.String())
		}
	})

	t.Run("constant groups with equal means", func(t *testing.T) {
		for _, kind := range []TTestKind{Student, Welch} {
			res := TwoSample([]float64{5, 5, 5}, []float64{5, 5}, kind)
			require.True(t, math.IsNaN(res.T), kind.String())
			require.True(t, math.IsNaN(res.P), kind.String())
		}
	})

	t.Run("nan input", func(t *testing.T) {
		res := TwoSample([]float64{1, math.NaN(), 3}, sixToTen, Welch)
		require.True(t, math.IsNaN(res.P))
	})
}

func TestLevene(t *testing.T) {
	t.Run("two groups", func(t *testing.T) {
		res := Levene(oneToFive, evens)
		require.InDelta(t, 4.230174081237911, res.W, 1e-9)
		require.Equal(t, 1.0, res.DF1)
		require.Equal(t, 9.0, res.DF2)
		require.InDelta(t, 0.06984791477611327, res.P, 1e-9)
	})

	t.Run("three groups", func(t *testing.T) {
		a := []float64{8.88, 9.12, 9.04, 8.98, 9.00, 9.08, 9.01, 8.85, 9.06, 8.99}
		b := []float64{8.88, 8.95, 9.29, 9.44, 9.15, 9.58, 8.36, 9.18, 8.67, 9.05}
		c := []float64{8.95, 9.12, 8.95, 8.85, 9.03, 8.84, 9.07, 8.98, 8.86, 8.98}

		res := Levene(a, b, c)
		require.InDelta(t, 7.584952754501659, res.W, 1e-9)
		require.InDelta(t, 0.0024315059672496936, res.P, 1e-9)
	})

	t.Run("identical spread", func(t *testing.T) {
		res := Levene(oneToFive, sixToTen)
		require.Equal(t, 0.0, res.W)
		require.InDelta(t, 1.0, res.P, 1e-12)
	})

	t.Run("all constant", func(t *testing.T) {
		res := Levene([]float64{1, 1}, []float64{4, 4})
		require.True(t, math.IsNaN(res.W))
		require.True(t, math.IsNaN(res.P))
	})

	t.Run("single group", func(t *testing.T) {
		require.True(t, math.IsNaN(Levene(oneToFive).P))
	})

	t.Run("empty group", func(t *testing.T) {
		require.True(t, math.IsNaN(Levene(oneToFive, nil).P))
	})
}

func TestAdaptive(t *testing.T) {
	// Levene P is ~0.07 for these groups.
	require.Equal(t, Student, Adaptive(oneToFive, evens, 0.05).Kind)
	require.Equal(t, Welch, Adaptive(oneToFive, evens, 0.10).Kind)

	// Undefined Levene falls back to Welch.
	require.Equal(t, Welch, Adaptive([]float64{10, 10}, []float64{2, 2}, 0.05).Kind)
}

func TestBenjaminiHochberg(t *testing.T) {
	t.Run("textbook", func(t *testing.T) {
		got := BenjaminiHochberg([]float64{0.01, 0.04, 0.03, 0.005, 0.2})
		want := []float64{0.025, 0.05, 0.05, 0.025, 0.2}
		require.InDeltaSlice(t, want, got, 1e-12)
	})

	t.Run("nan excluded", func(t *testing.T) {
		got := BenjaminiHochberg([]float64{0.01, math.NaN(), 0.04})
		require.InDelta(t, 0.02, got[0], 1e-12)
		require.True(t, math.IsNaN(got[1]))
		require.InDelta(t, 0.04, got[2], 1e-12)
	})

	t.Run("capped and never below raw", func(t *testing.T) {
		in := []float64{0.9, 0.8, 0.95, 0.001, 0.5, 1}
		got := BenjaminiHochberg(in)
		for i := range in {
			require.GreaterOrEqual(t, got[i], in[i])
			require.LessOrEqual(t, got[i], 1.0)
		}
	})

	t.Run("empty", func(t *testing.T) {
		require.Empty(t, BenjaminiHochberg(nil))
	})
}
