package expression

import (
	"log"
)

// ValidateOptions relaxes validation.
type ValidateOptions struct {
	// AllowUnmatchedLabels drops mapping labels that have no matrix column
	// (with a logged warning) instead of failing. Matrix columns without a
	// population are always an error.
	AllowUnmatchedLabels bool
}

// Validate checks that the mapping and the matrix describe the same samples
// and that at least two populations remain. It returns the mapping restricted
// to the matrix's samples, which is mapping itself when nothing was dropped.
func Validate(m *Matrix, mapping *Mapping, opts ValidateOptions) (*Mapping, error) {
	if m == nil || mapping == nil {
		return nil, validationErrorf(nil, "Both an expression matrix and a population mapping are required")
	}

	if n := len(mapping.Populations()); n < 2 {
		return nil, validationErrorf(mapping.Populations(), "At least two populations are required, found %d", n)
	}

	var matched []Assignment
	var unmatched []string
	for _, a := range mapping.Assignments() {
		if _, ok := m.SampleIndex(a.Label); ok {
			matched = append(matched, a)
		} else {
			unmatched = append(unmatched, a.Label)
		}
	}

	if len(matched) == 0 {
		return nil, validationErrorf(nil, "None of the population labels match a sample of the expression matrix")
	}

	var missing []string
	for _, s := range m.Samples() {
		if _, ok := mapping.PopulationOf(s); !ok {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		return nil, validationErrorf(missing, "Samples of the expression matrix have no population")
	}

	if len(unmatched) == 0 {
		return mapping, nil
	}

	if !opts.AllowUnmatchedLabels {
		return nil, validationErrorf(unmatched, "Population labels have no sample in the expression matrix")
	}

	log.Printf("Warning: dropping %d population labels that have no sample in the expression matrix\n", len(unmatched))

	reduced, err := NewMapping(matched)
	if err != nil {
		return nil, err
	}

	if n := len(reduced.Populations()); n < 2 {
		return nil, validationErrorf(reduced.Populations(), "At least two populations with samples are required, found %d", n)
	}

	return reduced, nil
}
