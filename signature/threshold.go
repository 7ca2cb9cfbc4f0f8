package signature

import (
	"math"
)

// Threshold is the differential-expression class of a molecule within one
// population.
type Threshold string

const (
	Up   Threshold = "Up"
	Down Threshold = "Down"
	NS   Threshold = "NS"
)

// classify labels a molecule. NaN effects or adjusted P values are NS.
func classify(effect, pAdjusted float64, cfg Config) Threshold {
	if !(pAdjusted < cfg.PValThreshold) {
		return NS
	}

	fc := math.Abs(cfg.FCThreshold)
	switch {
	case effect > fc:
		return Up
	case effect < -fc:
		return Down
	}

	return NS
}
