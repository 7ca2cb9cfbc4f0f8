package signature

import (
	"fmt"
	"math"
)

// Config holds the parameters of a signature run.
type Config struct {
	// NTopMarkers is the maximum number of markers kept per population.
	NTopMarkers int `yaml:"n_markers"`

	// FCThreshold is the minimum absolute effect for a molecule to be Up or
	// Down. Its sign is ignored.
	FCThreshold float64 `yaml:"fc_threshold"`

	// PValThreshold is the cut-off on the adjusted P value.
	PValThreshold float64 `yaml:"pval_threshold"`

	// Log2Transform computes the effect as log2(mean ratio) instead of a
	// difference of means, for data that is not already on a log scale.
	Log2Transform bool `yaml:"log2_transform"`

	// VarianceAlpha is the Levene P value at or below which variances are
	// treated as unequal and Welch's t-test is used.
	VarianceAlpha float64 `yaml:"variance_alpha"`

	// Workers bounds how many populations are analysed concurrently.
	Workers int `yaml:"workers"`

	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the default parameters.
func DefaultConfig() Config {
	return Config{
		NTopMarkers:   30,
		FCThreshold:   0,
		PValThreshold: 0.05,
		Log2Transform: false,
		VarianceAlpha: 0.05,
		Workers:       1,
	}
}

// ConfigurationError reports an invalid parameter.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate returns a *ConfigurationError for the first invalid parameter.
func (c Config) Validate() error {
	switch {
	case c.NTopMarkers <= 0:
		return &ConfigurationError{Field: "n_markers", Reason: fmt.Sprintf("must be positive, got %d", c.NTopMarkers)}
	case !openUnitInterval(c.PValThreshold):
		return &ConfigurationError{Field: "pval_threshold", Reason: fmt.Sprintf("must be between 0 and 1 (exclusive), got %v", c.PValThreshold)}
	case !openUnitInterval(c.VarianceAlpha):
		return &ConfigurationError{Field: "variance_alpha", Reason: fmt.Sprintf("must be between 0 and 1 (exclusive), got %v", c.VarianceAlpha)}
	case math.IsNaN(c.FCThreshold) || math.IsInf(c.FCThreshold, 0):
		return &ConfigurationError{Field: "fc_threshold", Reason: fmt.Sprintf("must be a finite number, got %v", c.FCThreshold)}
	case c.Workers < 1:
		return &ConfigurationError{Field: "workers", Reason: fmt.Sprintf("must be at least 1, got %d", c.Workers)}
	}

	return nil
}

func openUnitInterval(x float64) bool {
	return x > 0 && x < 1
}
