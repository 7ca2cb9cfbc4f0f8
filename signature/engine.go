package signature

import (
	"context"
	"fmt"
	"log"

	"github.com/carbocation/cellscribe/expression"
	"golang.org/x/sync/errgroup"
)

// Report is what a Sink receives for each population that could be tested.
type Report struct {
	Population string

	// Statistics holds every molecule, in matrix order.
	Statistics []MoleculeStatistic

	// Markers holds the selected markers in rank order. It may be empty.
	Markers []MoleculeStatistic

	PValThreshold float64

	// XLimit is a symmetric limit for the effect axis.
	XLimit float64
}

// Sink consumes per-population results, typically to draw a plot. Render
// may be called from several goroutines at once when Config.Workers > 1.
// Returned notes and errors are recorded as RenderWarning diagnostics and
// never fail the run.
type Sink interface {
	Render(report Report) (notes []string, err error)
}

// PopulationResult is the outcome for one population.
type PopulationResult struct {
	Population string

	// Target and Rest are the sample counts of the two compared groups.
	Target, Rest int

	// Statistics is nil when the population was skipped.
	Statistics []MoleculeStatistic

	// Markers may be empty; it is never carried over from another
	// population.
	Markers []MoleculeStatistic

	Diagnostics []Diagnostic

	// Skipped is set when the population could not be tested.
	Skipped *PopulationError
}

// Count returns how many statistics carry threshold t.
func (p PopulationResult) Count(t Threshold) int {
	n := 0
	for _, s := range p.Statistics {
		if s.Threshold == t {
			n++
		}
	}

	return n
}

// Result holds the per-population results in mapping order and their
// combined marker table.
type Result struct {
	Populations []PopulationResult
	Table       SignatureTable
}

// Diagnostics returns the diagnostics of all populations in order.
func (r *Result) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, p := range r.Populations {
		out = append(out, p.Diagnostics...)
	}

	return out
}

// Engine runs signature analyses with a fixed configuration.
type Engine struct {
	cfg  Config
	sink Sink
}

// New validates cfg and returns an Engine. sink may be nil, in which case
// only statistics are produced.
func New(cfg Config, sink Sink) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{cfg: cfg, sink: sink}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Run analyses every population of mapping against the rest of the samples
// of m. The inputs must describe the same samples (see expression.Validate);
// otherwise a *expression.ValidationError is returned. Problems confined to a
// population are reported as its diagnostics. Run returns early with the
// context's error if ctx is cancelled.
func (e *Engine) Run(ctx context.Context, m *expression.Matrix, mapping *expression.Mapping) (*Result, error) {
	if _, err := expression.Validate(m, mapping, expression.ValidateOptions{}); err != nil {
		return nil, err
	}

	populations := mapping.Populations()
	results := make([]PopulationResult, len(populations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	for i, population := range populations {
		i, population := i, population
		g.Go(func() error {
			res, err := e.runPopulation(gctx, m, mapping, population)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{Populations: results}
	for _, res := range results {
		out.Table = append(out.Table, rowsFor(res)...)
	}

	return out, nil
}

// runPopulation only returns an error for cancellation; everything else is a
// diagnostic on the result.
func (e *Engine) runPopulation(ctx context.Context, m *expression.Matrix, mapping *expression.Mapping, population string) (PopulationResult, error) {
	if err := ctx.Err(); err != nil {
		return PopulationResult{}, err
	}

	target, rest := groups(m, mapping, population)
	res := PopulationResult{
		Population: population,
		Target:     len(target),
		Rest:       len(rest),
	}

	if len(target) < 2 || len(rest) < 2 {
		res.Skipped = &PopulationError{
			Population: population,
			Reason:     fmt.Sprintf("at least two samples are needed on each side of the comparison, got %d in the population and %d in the rest", len(target), len(rest)),
		}
		e.warn(&res, ComputationError, "%s; skipping", res.Skipped.Reason)
		return res, nil
	}

	if e.cfg.Verbose {
		log.Printf("Testing population %s: %d samples against %d\n", population, len(target), len(rest))
	}

	stats, undefined, err := computeStatistics(ctx, m, target, rest, e.cfg)
	if err != nil {
		return PopulationResult{}, err
	}
	res.Statistics = stats

	if undefined > 0 {
		e.warn(&res, UndefinedStatistic, "%d of %d molecules could not be tested and were classified NS", undefined, len(stats))
	}

	markers, total := selectMarkers(stats, e.cfg.NTopMarkers)
	res.Markers = markers

	switch {
	case total == 0:
		e.warn(&res, NoSignificantHits, "no molecules are significantly upregulated")
	case total < e.cfg.NTopMarkers:
		e.warn(&res, SelectionShortfall, "only %d significant markers were found, fewer than the %d requested", total, e.cfg.NTopMarkers)
	}

	e.render(&res)

	return res, nil
}

func (e *Engine) render(res *PopulationResult) {
	if e.sink == nil {
		return
	}

	notes, err := e.safeRender(Report{
		Population:    res.Population,
		Statistics:    res.Statistics,
		Markers:       res.Markers,
		PValThreshold: e.cfg.PValThreshold,
		XLimit:        xLimit(res.Statistics),
	})

	for _, note := range notes {
		e.warn(res, RenderWarning, "%s", note)
	}
	if err != nil {
		e.warn(res, RenderWarning, "rendering failed: %v", err)
	}
}

// safeRender turns a panicking sink into an error.
func (e *Engine) safeRender(report Report) (notes []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()

	return e.sink.Render(report)
}

func (e *Engine) warn(res *PopulationResult, kind DiagnosticKind, format string, args ...interface{}) {
	d := Diagnostic{
		Kind:       kind,
		Population: res.Population,
		Message:    fmt.Sprintf(format, args...),
	}
	res.Diagnostics = append(res.Diagnostics, d)

	if e.cfg.Verbose {
		log.Println("Warning:", d)
	}
}
