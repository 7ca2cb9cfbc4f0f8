package signature

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// WriteSummary prints one line per population: group sizes, markers kept,
// Up and Down counts and the number of diagnostics.
func WriteSummary(w io.Writer, r *Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Population", "Samples", "Rest", "Markers", "Up", "Down", "Diagnostics"})
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)

	for _, p := range r.Populations {
		table.Append([]string{
			p.Population,
			strconv.Itoa(p.Target),
			strconv.Itoa(p.Rest),
			strconv.Itoa(len(p.Markers)),
			strconv.Itoa(p.Count(Up)),
			strconv.Itoa(p.Count(Down)),
			strconv.Itoa(len(p.Diagnostics)),
		})
	}

	table.Render()
}
