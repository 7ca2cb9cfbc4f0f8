// Package volcano draws one volcano plot per population: effect size on the
// x axis against -log10 of the adjusted P value, coloured by threshold
// class, with the selected markers labelled.
package volcano

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/carbocation/cellscribe/signature"
)

const (
	labelFontSize = 8.0
	dotWidth      = 3.0

	defaultWidth  = 1024
	defaultHeight = 768
)

// Plotter writes volcano_<population>.png files into Dir. It implements
// signature.Sink and is safe for concurrent use.
type Plotter struct {
	Dir     string
	Width   int
	Height  int
	Palette Palette
}

// NewPlotter returns a Plotter with the default size and palette.
func NewPlotter(dir string) *Plotter {
	return &Plotter{
		Dir:     dir,
		Width:   defaultWidth,
		Height:  defaultHeight,
		Palette: DefaultPalette(),
	}
}

var _ signature.Sink = (*Plotter)(nil)

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_")

// size is the canvas size, with the NewPlotter defaults standing in for
// unset dimensions.
func (p *Plotter) size() (width, height int) {
	width, height = p.Width, p.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	return width, height
}

// palette falls back to DefaultPalette when none was set.
func (p *Plotter) palette() Palette {
	if p.Palette == (Palette{}) {
		return DefaultPalette()
	}

	return p.Palette
}

// Path returns the file a population's plot is written to.
func (p *Plotter) Path(population string) string {
	return filepath.Join(p.Dir, "volcano_"+fileNameReplacer.Replace(population)+".png")
}

type point struct {
	x, y  float64
	label string
}

// negLog10 maps an adjusted P value onto the y axis. Zero maps to +Inf and
// is clamped by the caller.
func negLog10(p float64) float64 {
	return -math.Log10(p)
}

// Render draws report and writes it to Path(report.Population). The
// returned notes flag marker labels that are likely to overlap.
func (p *Plotter) Render(report signature.Report) ([]string, error) {
	xlim := report.XLimit
	if !(xlim > 0) || math.IsInf(xlim, 0) {
		xlim = 1
	}

	width, height := p.size()
	palette := p.palette()

	thresholdY := negLog10(report.PValThreshold)

	// The y axis is capped by the largest finite value; P values of exactly
	// zero are drawn at the cap.
	yCap := thresholdY
	for _, s := range report.Statistics {
		if y := negLog10(s.PAdjusted); !math.IsInf(y, 0) && !math.IsNaN(y) && y > yCap {
			yCap = y
		}
	}
	yMax := yCap * 1.05

	place := func(s signature.MoleculeStatistic) (point, bool) {
		if math.IsNaN(s.Log2FoldChange) || math.IsNaN(s.PAdjusted) {
			return point{}, false
		}
		x := math.Max(-xlim, math.Min(xlim, s.Log2FoldChange))
		y := math.Min(negLog10(s.PAdjusted), yCap)
		return point{x: x, y: y, label: s.Molecule}, true
	}

	byClass := map[signature.Threshold][]point{}
	for _, s := range report.Statistics {
		if pt, ok := place(s); ok {
			byClass[s.Threshold] = append(byClass[s.Threshold], pt)
		}
	}

	var series []chart.Series
	for _, class := range []signature.Threshold{signature.NS, signature.Down, signature.Up} {
		pts := byClass[class]
		if len(pts) == 0 {
			continue
		}
		series = append(series, p.scatter(string(class), pts, palette.colorOf(class)))
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no molecule of population %s has a finite effect and adjusted P value to plot", report.Population)
	}

	series = append(series, chart.ContinuousSeries{
		Name:    fmt.Sprintf("adjusted P = %v", report.PValThreshold),
		XValues: []float64{-xlim, xlim},
		YValues: []float64{thresholdY, thresholdY},
		Style: chart.Style{
			StrokeColor:     drawing.ColorBlack,
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
	})

	var labels []chart.Value2
	var boxes []box
	for _, s := range report.Markers {
		pt, ok := place(s)
		if !ok {
			continue
		}
		labels = append(labels, chart.Value2{XValue: pt.x, YValue: pt.y, Label: pt.label})
		boxes = append(boxes, labelBox(pt.label,
			toPixels(pt.x, -xlim, xlim, width),
			toPixels(yMax-pt.y, 0, yMax, height),
			labelFontSize))
	}
	if len(labels) > 0 {
		series = append(series, chart.AnnotationSeries{
			Annotations: labels,
			Style: chart.Style{
				FontSize:    labelFontSize,
				StrokeWidth: chart.Disabled,
				FillColor:   drawing.ColorTransparent,
			},
		})
	}

	graph := chart.Chart{
		Title:  "Volcano Plot for " + report.Population,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		XAxis: chart.XAxis{
			Name:  "Log2 Fold Change",
			Range: &chart.ContinuousRange{Min: -xlim, Max: xlim},
		},
		YAxis: chart.YAxis{
			Name:  "-log10(p-value)",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("rendering volcano plot for %s: %w", report.Population, err)
	}

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return nil, err
	}
	outFile, err := os.Create(p.Path(report.Population))
	if err != nil {
		return nil, err
	}
	defer outFile.Close()

	if _, err := buffer.WriteTo(outFile); err != nil {
		return nil, err
	}

	var notes []string
	if n := overlappingLabels(boxes); n > 0 {
		notes = append(notes, fmt.Sprintf("%d of %d marker labels in the volcano plot may overlap", n, len(boxes)))
	}

	return notes, outFile.Close()
}

func (p *Plotter) scatter(name string, pts []point, color drawing.Color) chart.ContinuousSeries {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, pt := range pts {
		xs[i] = pt.x
		ys[i] = pt.y
	}

	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    dotWidth,
			DotColor:    color,
		},
	}
}
