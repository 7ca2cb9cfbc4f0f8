package expression

import (
	"fmt"
	"strings"
)

// maxListedSamples bounds how many offending sample labels are spelled out in
// an error message. The full list remains available on the error value.
const maxListedSamples = 10

// ValidationError describes input files that cannot be used for a run:
// unsupported formats, malformed headers or cells, and mismatches between the
// matrix columns and the population mapping.
type ValidationError struct {
	Reason string

	// Samples lists the labels that triggered the error, if any.
	Samples []string
}

func (e *ValidationError) Error() string {
	if len(e.Samples) == 0 {
		return e.Reason
	}

	listed := e.Samples
	suffix := ""
	if len(listed) > maxListedSamples {
		suffix = fmt.Sprintf(" (and %d more)", len(listed)-maxListedSamples)
		listed = listed[:maxListedSamples]
	}

	return fmt.Sprintf("%s: %s%s", e.Reason, strings.Join(listed, ", "), suffix)
}

func validationErrorf(samples []string, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Reason:  fmt.Sprintf(format, args...),
		Samples: samples,
	}
}
