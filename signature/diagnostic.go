package signature

import (
	"fmt"
)

// DiagnosticKind classifies a non-fatal outcome of a population.
type DiagnosticKind int

const (
	// NoSignificantHits: no molecule was classified Up, so the population
	// has no markers.
	NoSignificantHits DiagnosticKind = iota + 1

	// SelectionShortfall: fewer Up molecules than NTopMarkers; all were kept.
	SelectionShortfall

	// ComputationError: the population could not be tested and was skipped.
	ComputationError

	// UndefinedStatistic: some molecules had an undefined test (for example
	// constant expression in both groups) and were classified NS.
	UndefinedStatistic

	// RenderWarning: the report sink failed or reported a problem.
	RenderWarning
)

func (k DiagnosticKind) String() string {
	switch k {
	case NoSignificantHits:
		return "NoSignificantHits"
	case SelectionShortfall:
		return "SelectionShortfall"
	case ComputationError:
		return "ComputationError"
	case UndefinedStatistic:
		return "UndefinedStatistic"
	case RenderWarning:
		return "RenderWarning"
	}

	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic is a warning attached to one population's result.
type Diagnostic struct {
	Kind       DiagnosticKind
	Population string
	Message    string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s]: %s", d.Kind, d.Population, d.Message)
}

// PopulationError describes why a population was skipped. It is recorded as
// a ComputationError diagnostic rather than returned, so that other
// populations still run.
type PopulationError struct {
	Population string
	Reason     string
}

func (e *PopulationError) Error() string {
	return fmt.Sprintf("population %s: %s", e.Population, e.Reason)
}
